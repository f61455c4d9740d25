// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateUpload    State = "upload"
	StateAnalyzing State = "analyzing"
	StateReady     State = "ready"
	StateStreaming State = "streaming"
	StateError     State = "error"
	StateHelp      State = "help"
)

// StateFor maps a session snapshot onto a status bar state.
func StateFor(snap domain.Snapshot) State {
	switch {
	case snap.Notice != "":
		return StateError
	case snap.Phase == domain.PhaseAnalyzing:
		return StateAnalyzing
	case snap.Phase == domain.PhaseReady && snap.Streaming:
		return StateStreaming
	case snap.Phase == domain.PhaseReady:
		return StateReady
	default:
		return StateUpload
	}
}

// Bar displays application status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	model   string
	turns   int
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateUpload,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	var left string
	switch s.state {
	case StateAnalyzing:
		left = s.styles.Muted.Render("Analyzing...")
	case StateStreaming:
		left = s.styles.Muted.Render("Tutor is typing...")
	case StateError:
		if s.message != "" {
			left = s.styles.Error.Render(s.message)
		} else {
			left = s.styles.Error.Render("Error")
		}
	case StateHelp:
		left = s.styles.Normal.Render("Help")
	case StateReady:
		left = s.styles.Normal.Render(fmt.Sprintf("%d messages", s.turns))
		if s.message != "" {
			left += s.styles.Muted.Render(" · " + s.message)
		}
	default:
		left = s.styles.Muted.Render("Select a paper")
		if s.message != "" {
			left += s.styles.Muted.Render(" · " + s.message)
		}
	}
	if s.model != "" {
		left += s.styles.Muted.Render(" · " + s.model)
	}
	return left
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateReady, StateStreaming:
		bindings = s.keymap.DashboardHelp()
	case StateUpload, StateError:
		bindings = s.keymap.UploadHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message shown in the error, ready and upload states.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetModel sets the model name shown next to the state.
func (s *Bar) SetModel(model string) {
	s.model = model
}

// SetMessageCount sets the number of chat messages.
func (s *Bar) SetMessageCount(count int) {
	s.turns = count
}

// MessageCount returns the number of chat messages.
func (s *Bar) MessageCount() int {
	return s.turns
}

// Sync updates state, message and message count from a snapshot.
func (s *Bar) Sync(snap domain.Snapshot) {
	s.state = StateFor(snap)
	s.message = snap.Notice
	s.turns = len(snap.Messages)
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateUpload
	s.message = ""
	s.turns = 0
}
