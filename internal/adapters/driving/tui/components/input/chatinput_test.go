package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/styles"
)

func typeText(c *ChatInput, text string) {
	for _, r := range text {
		c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewChatInput(t *testing.T) {
	input := NewChatInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
	assert.False(t, input.Disabled())
}

func TestNewChatInput_NilStyles(t *testing.T) {
	input := NewChatInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestChatInput_Init(t *testing.T) {
	input := NewChatInput(nil)

	assert.NotNil(t, input.Init())
}

func TestChatInput_Update(t *testing.T) {
	input := NewChatInput(nil)

	updated, _ := input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})

	assert.Equal(t, input, updated)
	assert.Equal(t, "w", input.Value())
}

func TestChatInput_Backspace(t *testing.T) {
	input := NewChatInput(nil)
	typeText(input, "why")

	input.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, "wh", input.Value())
}

func TestChatInput_View(t *testing.T) {
	input := NewChatInput(nil)

	view := input.View()

	assert.Contains(t, view, "Ask")
}

func TestChatInput_Take(t *testing.T) {
	input := NewChatInput(nil)
	input.SetValue("  Why is the equilibrium unique?  ")

	assert.Equal(t, "Why is the equilibrium unique?", input.Take())
	assert.Empty(t, input.Value())
}

func TestChatInput_Take_Blank(t *testing.T) {
	input := NewChatInput(nil)
	input.SetValue("   ")

	assert.Empty(t, input.Take())
	assert.Equal(t, "   ", input.Value())
}

func TestChatInput_Take_Disabled(t *testing.T) {
	input := NewChatInput(nil)
	input.SetValue("follow-up")
	input.SetDisabled(true)

	assert.Empty(t, input.Take())
	assert.Equal(t, "follow-up", input.Value(), "draft is kept while waiting")

	input.SetDisabled(false)
	assert.Equal(t, "follow-up", input.Take())
}

func TestChatInput_Placeholder(t *testing.T) {
	input := NewChatInput(nil)

	input.SetDisabled(true)
	assert.Equal(t, waitPlaceholder, input.textinput.Placeholder)

	input.SetDisabled(false)
	assert.Equal(t, askPlaceholder, input.textinput.Placeholder)
}

func TestChatInput_FocusBlur(t *testing.T) {
	input := NewChatInput(nil)

	input.Blur()
	assert.False(t, input.Focused())

	input.Focus()
	assert.True(t, input.Focused())
}

func TestChatInput_SetWidth(t *testing.T) {
	input := NewChatInput(nil)

	input.SetWidth(100)
	assert.Equal(t, 100, input.Width())
	assert.Equal(t, 90, input.textinput.Width)

	input.SetWidth(15)
	assert.Equal(t, 20, input.textinput.Width)
}

func TestChatInput_Reset(t *testing.T) {
	input := NewChatInput(nil)
	input.SetValue("draft")
	input.SetDisabled(true)

	input.Reset()

	assert.Empty(t, input.Value())
	assert.False(t, input.Disabled())
}
