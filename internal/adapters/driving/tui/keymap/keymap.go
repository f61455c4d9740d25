// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back leaves the help view or dismisses a notice.
	Back key.Binding

	// Reset discards the current paper and returns to the upload screen.
	Reset key.Binding

	// Submit sends the chat input to the tutor.
	Submit key.Binding

	// SwitchTab toggles between the analysis and tutor panes.
	SwitchTab key.Binding

	// ScrollUp and ScrollDown page the active pane.
	ScrollUp   key.Binding
	ScrollDown key.Binding

	// Select picks the highlighted file in the file picker.
	Select key.Binding

	// Export saves the analysis and conversation as Markdown.
	Export key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "new paper"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save notes"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// UploadHelp returns keybindings for the upload view.
func (k *KeyMap) UploadHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back, k.Quit}
}

// DashboardHelp returns keybindings for the dashboard view.
func (k *KeyMap) DashboardHelp() []key.Binding {
	return []key.Binding{k.SwitchTab, k.Submit, k.Export, k.Reset, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Select, k.Submit, k.SwitchTab},
		{k.ScrollUp, k.ScrollDown, k.Back},
		{k.Export, k.Reset, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
