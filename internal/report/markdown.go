// Package report renders analyses and tutor conversations as Markdown.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// Disclaimer is shown next to every tutor conversation.
const Disclaimer = "AI can hallucinate citations. Verify details."

// UploadTimeLayout formats the upload time in headers.
const UploadTimeLayout = "15:04"

// Header describes the loaded paper on one line.
func Header(fileName string, uploadedAt time.Time) string {
	if fileName == "" {
		return ""
	}
	if uploadedAt.IsZero() {
		return fileName
	}
	return fmt.Sprintf("%s · uploaded %s", fileName, uploadedAt.Format(UploadTimeLayout))
}

// Target renders the journal fit line, or "" when unknown.
func Target(a *domain.Analysis) string {
	if a == nil || strings.TrimSpace(a.JournalFit) == "" {
		return ""
	}
	return "Target: " + a.JournalFit
}

// Analysis renders the full analysis. Empty optional sections are omitted.
func Analysis(a *domain.Analysis) string {
	if a == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	if len(a.Authors) > 0 {
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(a.Authors, ", "))
	}
	if t := Target(a); t != "" {
		fmt.Fprintf(&b, "**%s**\n\n", t)
	}

	section(&b, "Research Question", a.ResearchQuestion)
	section(&b, "Theoretical Contribution (The \"Taste\")", a.TheoreticalContribution)

	b.WriteString("## Model Setup & Mechanics\n\n")
	if a.Methodology.Type != "" {
		fmt.Fprintf(&b, "**Framework:** %s\n\n", a.Methodology.Type)
	}
	if len(a.Methodology.KeyAssumptions) > 0 {
		b.WriteString("**Key assumptions:**\n\n")
		bullets(&b, a.Methodology.KeyAssumptions)
	}
	if a.Methodology.ModelSetup != "" {
		fmt.Fprintf(&b, "**The game:** %s\n\n", a.Methodology.ModelSetup)
	}

	if len(a.KeyFindings) > 0 {
		b.WriteString("## Key Findings\n\n")
		numbered(&b, a.KeyFindings)
	}

	section(&b, "Managerial Implications", a.ManagerialImplications)

	b.WriteString("## Critique\n\n")
	if len(a.Critique.Strengths) > 0 {
		b.WriteString("### Strengths\n\n")
		bullets(&b, a.Critique.Strengths)
	}
	if len(a.Critique.Weaknesses) > 0 {
		b.WriteString("### Weaknesses\n\n")
		bullets(&b, a.Critique.Weaknesses)
	}
	if a.Critique.ReviewerPerspective != "" {
		b.WriteString("### Reviewer 2 Perspective\n\n")
		fmt.Fprintf(&b, "> %s\n\n", a.Critique.ReviewerPerspective)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Notes renders the paper header, the analysis and the tutor conversation
// as one Markdown document.
func Notes(fileName string, uploadedAt time.Time, a *domain.Analysis, messages []domain.Message) string {
	var b strings.Builder
	if h := Header(fileName, uploadedAt); h != "" {
		fmt.Fprintf(&b, "_%s_\n\n", h)
	}
	b.WriteString(Analysis(a))
	if t := Transcript(messages); t != "" {
		fmt.Fprintf(&b, "\n## Tutor Conversation\n\n> %s\n\n%s\n", Disclaimer, t)
	}
	return b.String()
}

// Transcript renders the conversation with one heading per message.
// A message that is still streaming is marked as such.
func Transcript(messages []domain.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		speaker := "Tutor"
		if msg.Role == domain.RoleUser {
			speaker = "You"
		}
		fmt.Fprintf(&b, "**%s**", speaker)
		if !msg.Timestamp.IsZero() {
			fmt.Fprintf(&b, " _%s_", msg.Timestamp.Format(UploadTimeLayout))
		}
		if msg.IsStreaming {
			b.WriteString(" (typing)")
		}
		fmt.Fprintf(&b, "\n\n%s\n\n", msg.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func section(b *strings.Builder, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, body)
}

func bullets(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func numbered(b *strings.Builder, items []string) {
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\n")
}
