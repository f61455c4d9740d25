package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// MockSessionController implements driving.SessionController for testing.
type MockSessionController struct {
	SelectFileFunc func(ctx context.Context, path string) error
	SubmitFunc     func(ctx context.Context, text string) bool

	mu        sync.Mutex
	snapshot  domain.Snapshot
	changes   chan struct{}
	resets    int
	dismissed int
}

func newMockSession() *MockSessionController {
	return &MockSessionController{changes: make(chan struct{}, 1)}
}

func (m *MockSessionController) SelectFile(ctx context.Context, path string) error {
	if m.SelectFileFunc != nil {
		return m.SelectFileFunc(ctx, path)
	}
	return nil
}

func (m *MockSessionController) Submit(ctx context.Context, text string) bool {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, text)
	}
	return true
}

func (m *MockSessionController) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
}

func (m *MockSessionController) DismissNotice() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dismissed++
}

func (m *MockSessionController) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

func (m *MockSessionController) Changes() <-chan struct{} {
	return m.changes
}

// publish stores snap and signals a change.
func (m *MockSessionController) publish(snap domain.Snapshot) {
	m.mu.Lock()
	m.snapshot = snap
	m.mu.Unlock()
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func TestNewPorts(t *testing.T) {
	session := newMockSession()

	ports := NewPorts(session, nil)

	require.NotNil(t, ports)
	assert.Equal(t, session, ports.Session)
	assert.Nil(t, ports.Settings)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := NewPorts(newMockSession(), nil)

	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingSession(t *testing.T) {
	ports := &Ports{}

	assert.ErrorIs(t, ports.Validate(), ErrMissingSessionController)
}

func TestPorts_Validate_Nil(t *testing.T) {
	var ports *Ports

	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}
