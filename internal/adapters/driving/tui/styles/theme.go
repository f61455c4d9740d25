// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette. Each colour is adaptive so the UI reads on
// light and dark terminals.
type Theme struct {
	// Accent marks the product name, the active tab and tutor replies.
	Accent lipgloss.AdaptiveColor

	// Student marks the reader's own messages and secondary headings.
	Student lipgloss.AdaptiveColor

	// Text is body copy: analysis prose and chat text.
	Text lipgloss.AdaptiveColor

	// Subtle is metadata: timestamps, paths, hints and the disclaimer.
	Subtle lipgloss.AdaptiveColor

	// Caution is used for recoverable input problems.
	Caution lipgloss.AdaptiveColor

	// Failure is used for notices and failed replies.
	Failure lipgloss.AdaptiveColor

	// Rule is the colour of borders and separators.
	Rule lipgloss.AdaptiveColor

	// Bar is the status bar background.
	Bar lipgloss.AdaptiveColor
}

// DefaultTheme returns the indigo-on-slate palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}, // indigo
		Student: lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#5EEAD4"}, // teal
		Text:    lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#E2E8F0"}, // slate
		Subtle:  lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"},
		Caution: lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}, // amber
		Failure: lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}, // rose
		Rule:    lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"},
		Bar:     lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#0F172A"},
	}
}

// Styles contains the lipgloss styles used by the views.
type Styles struct {
	theme *Theme

	// Title is the product name and screen headings.
	Title lipgloss.Style

	// Subtitle is secondary headings and the journal target.
	Subtitle lipgloss.Style

	Normal  lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// InputField frames the chat input.
	InputField lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style

	// Header is the paper line above the dashboard panes.
	Header lipgloss.Style

	// Tab and ActiveTab style the dashboard tab strip.
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// Notice frames a failure notice on the upload screen.
	Notice lipgloss.Style

	// Disclaimer is the hallucination warning under the chat.
	Disclaimer lipgloss.Style

	// UserLabel and TutorLabel prefix chat messages.
	UserLabel  lipgloss.Style
	TutorLabel lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Student),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Subtle),
		Warning:  lipgloss.NewStyle().Foreground(theme.Caution),
		Error:    lipgloss.NewStyle().Foreground(theme.Failure),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Subtle).
			Background(theme.Bar).
			Padding(0, 1),

		Help: lipgloss.NewStyle().Foreground(theme.Subtle),

		Header: lipgloss.NewStyle().
			Foreground(theme.Subtle).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Rule),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Subtle).
			Padding(0, 2),

		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent).
			Underline(true).
			Padding(0, 2),

		Notice: lipgloss.NewStyle().
			Foreground(theme.Failure).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Failure).
			Padding(0, 1),

		Disclaimer: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Subtle),

		UserLabel:  lipgloss.NewStyle().Bold(true).Foreground(theme.Student),
		TutorLabel: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
