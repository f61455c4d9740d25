package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
// None of the prompts use format placeholders.
const (
	// PromptAnalysis is the instruction sent with the paper for structured extraction.
	PromptAnalysis = "analysis"

	// PromptTutorSystem is the system instruction of the tutor chat.
	PromptTutorSystem = "tutor_system"

	// PromptBootstrapUser is the first user turn, sent together with the paper.
	PromptBootstrapUser = "bootstrap_user"

	// PromptBootstrapModel is the tutor's acknowledgement of the paper.
	PromptBootstrapModel = "bootstrap_model"
)

// PromptNames returns every well-known prompt name.
func PromptNames() []string {
	return []string{
		PromptAnalysis,
		PromptTutorSystem,
		PromptBootstrapUser,
		PromptBootstrapModel,
	}
}

// DefaultPrompt returns the built-in text for a well-known prompt name.
func DefaultPrompt(name string) (string, bool) {
	prompt, ok := defaultPrompts[name]
	return prompt, ok
}

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	PromptAnalysis: `You are a distinguished Professor of Quantitative Marketing and Microeconomics.
Your student (a 1st year PhD) has uploaded this paper.

Your task:
1. Deconstruct this paper rigorously.
2. Focus heavily on the ANALYTICAL MODEL (Game Theory). Identify the setup, the tension, and the resolution.
3. Help the student build "taste" by explaining WHY this paper is publishable in a top journal (or why it might struggle).
4. Extract key model mechanics (utility functions, profit maximization conditions).

Output JSON matching the schema.`,

	PromptTutorSystem: `You are an expert academic mentor in Quantitative Marketing and Economics.
You are discussing a specific paper uploaded by the user (context provided in history).

Tone: Encouraging, rigorous, highly technical but explanatory.
Focus: Game theory, econometrics, identification strategies, and publishing strategy.

When the user asks about an equation or proposition, explain the *intuition* behind the math.
Use LaTeX formatting for math (wrap in single $ for inline, double $$ for block).

Always encourage the student to think about the "mechanism" driving the results.`,

	PromptBootstrapUser: `I have read this paper. I am ready to discuss it.`,

	PromptBootstrapModel: `Excellent. I have analyzed the paper. What specific part of the model or the empirical strategy would you like to discuss? We can dig into the propositions or the intuition behind the results.`,
}
