// Package help provides the keybinding and configuration help view for the TUI.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driving"
)

// View lists keybindings and the active provider configuration.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	help     help.Model
	settings driving.SettingsService

	// previous is the view to return to.
	previous messages.ViewType

	width  int
	height int
	ready  bool
}

// NewView creates a help view. settings may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, settings driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	h := help.New()
	h.ShowAll = true

	return &View{
		styles:   s,
		keymap:   km,
		help:     h,
		settings: settings,
		previous: messages.ViewUpload,
		width:    80,
		height:   24,
	}
}

// Open records the view to return to when help closes.
func (v *View) Open(from messages.ViewType) {
	v.previous = from
}

// Previous returns the view help was opened from.
func (v *View) Previous() messages.ViewType {
	return v.previous
}

// Init initialises the help view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update closes the view on back or help.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	keyStr := keyMsg.String()
	if keymap.Matches(keyStr, v.keymap.Back) || keymap.Matches(keyStr, v.keymap.Help) {
		previous := v.previous
		return v, func() tea.Msg { return messages.ViewChanged{View: previous} }
	}
	return v, nil
}

// View renders the help view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(v.help.FullHelpView(v.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Subtitle.Render("Provider"))
	b.WriteString("\n")
	b.WriteString(v.providerLine())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[esc] back"))
	return b.String()
}

func (v *View) providerLine() string {
	if v.settings == nil {
		return v.styles.Muted.Render("Settings unavailable")
	}
	s, err := v.settings.Get()
	if err != nil {
		return v.styles.Error.Render("Error: " + err.Error())
	}
	if !s.LLM.IsConfigured() {
		return v.styles.Warning.Render("Not configured. Run 'quantscholar settings llm'.")
	}
	line := fmt.Sprintf("%s · %s", s.LLM.Provider.Description(), s.LLM.Model)
	if s.LLM.APIKeyFromEnv {
		line += v.styles.Muted.Render(fmt.Sprintf(" (key from %s)", s.LLM.Provider.APIKeyEnv()))
	}
	return v.styles.Normal.Render(line)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width
	v.ready = true
}
