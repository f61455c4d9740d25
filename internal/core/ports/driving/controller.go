package driving

import (
	"context"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// SessionController owns the single analysis session and its state machine.
type SessionController interface {
	// SelectFile starts analysing the file at path. It returns once the
	// session has entered the analyzing phase; the outcome is published
	// through Changes. Returns domain.ErrSessionBusy unless idle.
	SelectFile(ctx context.Context, path string) error

	// Submit sends a user message to the tutor. It returns false, changing
	// nothing, when the text is blank, no chat is open or a reply is still
	// streaming.
	Submit(ctx context.Context, text string) bool

	// Reset discards the session and returns to idle.
	Reset()

	// DismissNotice clears the failure notice.
	DismissNotice()

	// Snapshot returns a read-only copy of the session.
	Snapshot() domain.Snapshot

	// Changes delivers a signal after every state change. Signals coalesce;
	// receivers re-read Snapshot.
	Changes() <-chan struct{}
}
