package report

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns Markdown into styled terminal output.
// A nil Renderer, or one whose style failed to load, returns the input unchanged.
type Renderer struct {
	term *glamour.TermRenderer
}

// NewRenderer creates a renderer that wraps at width and detects the
// terminal background.
func NewRenderer(width int) *Renderer {
	return newRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
}

// NewDarkRenderer creates a renderer with the dark style. Use it inside a
// full-screen program, where querying the terminal background is not possible.
func NewDarkRenderer(width int) *Renderer {
	return newRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
}

func newRenderer(opts ...glamour.TermRendererOption) *Renderer {
	term, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		return &Renderer{}
	}
	return &Renderer{term: term}
}

// Render returns the styled Markdown, or the original content on failure.
func (r *Renderer) Render(markdown string) string {
	if r == nil || r.term == nil {
		return markdown
	}
	out, err := r.term.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
