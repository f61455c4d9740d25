package domain

import "time"

// Phase is the state of an analysis session.
type Phase int

const (
	// PhaseIdle means no document is loaded.
	PhaseIdle Phase = iota

	// PhaseAnalyzing means a document is loaded and extraction is in flight.
	PhaseAnalyzing

	// PhaseReady means the analysis is available and the chat is open.
	PhaseReady
)

// String returns the string representation.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "upload"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of an analysis session for rendering.
type Snapshot struct {
	Phase Phase

	// FileName and UploadedAt describe the loaded paper (empty when idle).
	FileName   string
	UploadedAt time.Time

	// Analysis is nil until the session is ready.
	Analysis *Analysis

	// Messages is the conversation in display order.
	Messages []Message

	// ChatOpen reports whether a chat handle is attached.
	ChatOpen bool

	// Streaming reports whether an assistant message is still receiving text.
	Streaming bool

	// Notice is a user-visible failure message, empty when there is none.
	Notice string
}
