package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of driven.ConversationStore.
// The streaming placeholder is located by ID, never by position.
type ConversationStore struct {
	mu          sync.RWMutex
	messages    []domain.Message
	streamingID string
	now         func() time.Time
	newID       func() string
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Begin appends the user message and the assistant placeholder.
func (s *ConversationStore) Begin(userText string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamingID != "" {
		return "", false
	}

	now := s.now()
	placeholder := domain.Message{
		ID:          s.newID(),
		Role:        domain.RoleAssistant,
		Timestamp:   now,
		IsStreaming: true,
	}
	s.messages = append(s.messages,
		domain.Message{
			ID:        s.newID(),
			Role:      domain.RoleUser,
			Text:      userText,
			Timestamp: now,
		},
		placeholder,
	)
	s.streamingID = placeholder.ID
	return placeholder.ID, true
}

// AppendFragment appends text to the streaming placeholder.
func (s *ConversationStore) AppendFragment(id, fragment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.streamingLocked(id)
	if err != nil {
		return err
	}
	msg.Text += fragment
	return nil
}

// Complete freezes the placeholder.
func (s *ConversationStore) Complete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.streamingLocked(id)
	if err != nil {
		return err
	}
	msg.IsStreaming = false
	s.streamingID = ""
	return nil
}

// Fail replaces the placeholder text, discarding any partial reply.
func (s *ConversationStore) Fail(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.streamingLocked(id)
	if err != nil {
		return err
	}
	msg.Text = text
	msg.IsStreaming = false
	msg.Failed = true
	s.streamingID = ""
	return nil
}

// AddAssistant appends a completed assistant message. While an exchange is
// in flight the message goes in front of it, so the streaming placeholder
// stays the reply to its own question.
func (s *ConversationStore) AddAssistant(text string) domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := domain.Message{
		ID:        s.newID(),
		Role:      domain.RoleAssistant,
		Text:      text,
		Timestamp: s.now(),
	}

	at := len(s.messages)
	if i := s.indexLocked(s.streamingID); i >= 0 {
		at = i
		if i > 0 && s.messages[i-1].Role == domain.RoleUser {
			at = i - 1
		}
	}
	s.messages = append(s.messages, domain.Message{})
	copy(s.messages[at+1:], s.messages[at:])
	s.messages[at] = msg
	return msg
}

// Messages returns a copy of the conversation in order.
func (s *ConversationStore) Messages() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Message, len(s.messages))
	copy(result, s.messages)
	return result
}

// Streaming reports whether a placeholder is still receiving text.
func (s *ConversationStore) Streaming() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streamingID != ""
}

// Clear removes all messages.
func (s *ConversationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.streamingID = ""
}

// streamingLocked returns the placeholder if id is the one streaming (caller must hold lock).
func (s *ConversationStore) streamingLocked(id string) (*domain.Message, error) {
	i := s.indexLocked(id)
	if id == "" || id != s.streamingID || i < 0 {
		return nil, fmt.Errorf("%w: message %q is not streaming", domain.ErrInvalidInput, id)
	}
	return &s.messages[i], nil
}

// indexLocked returns the position of the message with id, or -1.
func (s *ConversationStore) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}
