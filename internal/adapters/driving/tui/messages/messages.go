// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// SessionChanged carries a fresh snapshot after the session changed.
type SessionChanged struct {
	Snapshot domain.Snapshot
}

// FileChosen is sent when a document was picked in the upload view.
type FileChosen struct {
	Path string
}

// MessageSubmitted is sent when the student sends a chat message.
type MessageSubmitted struct {
	Text string
}

// NoticeDismissed asks to clear the failure notice.
type NoticeDismissed struct{}

// ResetRequested asks to discard the session and return to upload.
type ResetRequested struct{}

// ExportRequested asks to save the paper notes to disk.
type ExportRequested struct{}

// NotesExported reports where the notes were saved, or why they were not.
type NotesExported struct {
	Path string
	Err  error
}

// StatusNotice is a short line for the status bar from outside the session.
type StatusNotice struct {
	Text string
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewUpload is the file picker shown while idle.
	ViewUpload ViewType = iota
	// ViewAnalyzing is the progress screen while extraction runs.
	ViewAnalyzing
	// ViewDashboard shows the analysis and the tutor chat.
	ViewDashboard
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewUpload:
		return "upload"
	case ViewAnalyzing:
		return "analyzing"
	case ViewDashboard:
		return "dashboard"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewForPhase maps a session phase to the view that renders it.
func ViewForPhase(phase domain.Phase) ViewType {
	switch phase {
	case domain.PhaseAnalyzing:
		return ViewAnalyzing
	case domain.PhaseReady:
		return ViewDashboard
	default:
		return ViewUpload
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
