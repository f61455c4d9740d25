package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quantscholar/internal/logger"
	"github.com/custodia-labs/quantscholar/internal/report"
)

// ErrNothingToExport is returned when notes are requested before an analysis exists.
var ErrNothingToExport = errors.New("tui: no analysis to save")

// notesPath returns the Markdown file the notes of fileName are saved to.
func notesPath(dir, fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "paper"
	}
	return filepath.Join(dir, base+"-notes.md")
}

// exportNotes writes the analysis and the conversation so far off the update loop.
func (a *App) exportNotes() tea.Cmd {
	snap := a.snapshot
	dir := a.notesDir
	return func() tea.Msg {
		if snap.Analysis == nil {
			return messages.NotesExported{Err: ErrNothingToExport}
		}
		path := notesPath(dir, snap.FileName)
		notes := report.Notes(snap.FileName, snap.UploadedAt, snap.Analysis, snap.Messages)
		if err := os.WriteFile(path, []byte(notes), 0600); err != nil {
			return messages.NotesExported{Err: fmt.Errorf("saving notes: %w", err)}
		}
		logger.Info("notes saved to %s", path)
		return messages.NotesExported{Path: path}
	}
}
