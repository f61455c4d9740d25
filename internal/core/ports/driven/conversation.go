package driven

import "github.com/custodia-labs/quantscholar/internal/core/domain"

// ConversationStore holds the visible tutor conversation.
//
// At most one assistant message streams at a time: Begin refuses to start a
// new exchange while one is in flight, so a second submit can never
// interleave fragments with the first.
type ConversationStore interface {
	// Begin appends a user message followed by an empty streaming assistant
	// placeholder. It returns the placeholder ID, or ok=false without changing
	// anything when another message is still streaming.
	Begin(userText string) (placeholderID string, ok bool)

	// AppendFragment appends text to the streaming placeholder.
	AppendFragment(id, fragment string) error

	// Complete freezes the placeholder.
	Complete(id string) error

	// Fail replaces the placeholder text and freezes it as failed.
	Fail(id, text string) error

	// AddAssistant adds a completed assistant message (e.g., a greeting).
	// It never lands after an in-flight placeholder: while a reply streams,
	// the message is inserted before that exchange.
	AddAssistant(text string) domain.Message

	// Messages returns a copy of the conversation in order.
	Messages() []domain.Message

	// Streaming reports whether a placeholder is still receiving text.
	Streaming() bool

	// Clear removes all messages.
	Clear()
}
