// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/styles"
)

const (
	askPlaceholder  = "Ask about the model, proofs or assumptions..."
	waitPlaceholder = "Waiting for the tutor to finish..."
	maxMessageRunes = 4000
)

// ChatInput wraps a bubbles textinput for tutor questions.
type ChatInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
	disabled  bool
}

// NewChatInput creates a new chat input component.
func NewChatInput(s *styles.Styles) *ChatInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = askPlaceholder
	ti.Focus()
	ti.CharLimit = maxMessageRunes
	ti.Width = 50

	return &ChatInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the chat input.
func (c *ChatInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (c *ChatInput) Update(msg tea.Msg) (*ChatInput, tea.Cmd) {
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the chat input.
func (c *ChatInput) View() string {
	label := c.styles.Title.Render("Ask: ")
	input := c.styles.InputField.Render(c.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current input value.
func (c *ChatInput) Value() string {
	return c.textinput.Value()
}

// SetValue sets the input value.
func (c *ChatInput) SetValue(value string) {
	c.textinput.SetValue(value)
}

// Take returns the trimmed input and clears it. It returns "" without
// clearing while the input is disabled.
func (c *ChatInput) Take() string {
	if c.disabled {
		return ""
	}
	text := strings.TrimSpace(c.textinput.Value())
	if text == "" {
		return ""
	}
	c.textinput.Reset()
	return text
}

// SetDisabled toggles the waiting state shown while a reply streams.
// Typing stays possible so the next question can be drafted.
func (c *ChatInput) SetDisabled(disabled bool) {
	c.disabled = disabled
	if disabled {
		c.textinput.Placeholder = waitPlaceholder
	} else {
		c.textinput.Placeholder = askPlaceholder
	}
}

// Disabled reports whether submissions are currently held back.
func (c *ChatInput) Disabled() bool {
	return c.disabled
}

// Focus sets focus on the input.
func (c *ChatInput) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *ChatInput) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *ChatInput) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the input.
func (c *ChatInput) SetWidth(width int) {
	c.width = width
	// Account for label and border
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.textinput.Width = inputWidth
}

// Width returns the current width.
func (c *ChatInput) Width() int {
	return c.width
}

// Reset clears the input and re-enables it.
func (c *ChatInput) Reset() {
	c.textinput.Reset()
	c.SetDisabled(false)
}
