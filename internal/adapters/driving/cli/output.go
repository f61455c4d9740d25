package cli

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/custodia-labs/quantscholar/internal/report"
)

const defaultRenderWidth = 100

// markdownRenderer returns a glamour renderer sized to w when w is a
// terminal, or nil when output should stay raw markdown.
func markdownRenderer(w io.Writer) *report.Renderer {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = defaultRenderWidth
	}
	return report.NewRenderer(width)
}
