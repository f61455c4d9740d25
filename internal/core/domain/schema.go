package domain

// SchemaType is the JSON type of a schema node.
type SchemaType string

// Schema node types understood by every provider adapter.
const (
	SchemaObject SchemaType = "object"
	SchemaArray  SchemaType = "array"
	SchemaString SchemaType = "string"
)

// Schema is a provider-neutral descriptor of a structured response.
// Adapters translate it into their native schema format.
type Schema struct {
	Type        SchemaType
	Description string

	// Properties and PropertyOrder describe object members.
	// PropertyOrder fixes iteration order for providers that honour it.
	Properties    map[string]*Schema
	PropertyOrder []string
	Required      []string

	// Items describes array elements.
	Items *Schema
}

func stringField(description string) *Schema {
	return &Schema{Type: SchemaString, Description: description}
}

func stringList(description string) *Schema {
	return &Schema{Type: SchemaArray, Description: description, Items: &Schema{Type: SchemaString}}
}

// AnalysisSchema returns the response contract for the extraction call.
func AnalysisSchema() *Schema {
	return &Schema{
		Type: SchemaObject,
		Properties: map[string]*Schema{
			"title":            stringField("Title of the paper"),
			"authors":          stringList("List of authors"),
			"journalFit":       stringField("Which top journal (e.g., Marketing Science, JMR, AER) does this fit and why?"),
			"researchQuestion": stringField("The core research question or puzzle addressed."),
			"methodology": {
				Type: SchemaObject,
				Properties: map[string]*Schema{
					"type":           stringField("e.g., Game Theory, Empirical structural, Reduced form"),
					"keyAssumptions": stringList("Crucial modeling assumptions (e.g. linear demand, uniform distribution)"),
					"modelSetup":     stringField("Brief description of the players and the game."),
				},
				PropertyOrder: []string{"type", "keyAssumptions", "modelSetup"},
			},
			"keyFindings": stringList("Main propositions or empirical results."),
			"theoreticalContribution": stringField("Explain the theoretical novelty. How does it change our " +
				"understanding of the market mechanism? Use specific terminology."),
			"managerialImplications": stringField("Practical takeaways for firms or policy."),
			"critique": {
				Type: SchemaObject,
				Properties: map[string]*Schema{
					"strengths":           stringList(""),
					"weaknesses":          stringList(""),
					"reviewerPerspective": stringField("Anticipate a critique from a tough reviewer."),
				},
				PropertyOrder: []string{"strengths", "weaknesses", "reviewerPerspective"},
			},
		},
		PropertyOrder: []string{
			"title",
			"authors",
			"journalFit",
			"researchQuestion",
			"methodology",
			"keyFindings",
			"theoreticalContribution",
			"managerialImplications",
			"critique",
		},
		Required: append([]string(nil), MandatoryAnalysisFields...),
	}
}
