package domain

import "time"

// Role identifies who authored a conversation message.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Message is one entry of the visible tutor conversation.
// Only the most recent assistant message is ever mutated, and only while
// IsStreaming is true.
type Message struct {
	ID          string
	Role        Role
	Text        string
	Timestamp   time.Time
	IsStreaming bool

	// Failed marks an assistant message whose stream ended in an error.
	Failed bool
}
