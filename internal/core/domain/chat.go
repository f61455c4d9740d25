package domain

import (
	"sync"
	"time"
)

// ChatTurn is one exchange unit of the history sent to the provider.
type ChatTurn struct {
	Role Role
	Text string

	// Document is attached to the turn as inline context when set.
	Document *DocumentPayload
}

// ChatSession is the handle of a tutor conversation about one paper.
// It is seeded with bootstrap turns at construction and grows by one
// user and one assistant turn per completed exchange.
type ChatSession struct {
	// ID uniquely identifies the session.
	ID string

	// Document is the paper the session discusses.
	Document *DocumentPayload

	// SystemInstruction frames the tutor persona for every request.
	SystemInstruction string

	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	mu      sync.RWMutex
	history []ChatTurn
}

// NewChatSession creates a session seeded with the given turns.
func NewChatSession(id string, doc *DocumentPayload, systemInstruction string, seed []ChatTurn) *ChatSession {
	history := make([]ChatTurn, len(seed))
	copy(history, seed)
	return &ChatSession{
		ID:                id,
		Document:          doc,
		SystemInstruction: systemInstruction,
		CreatedAt:         time.Now(),
		history:           history,
	}
}

// History returns a copy of the running history.
func (c *ChatSession) History() []ChatTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ChatTurn, len(c.history))
	copy(out, c.history)
	return out
}

// Append records completed turns.
func (c *ChatSession) Append(turns ...ChatTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, turns...)
}

