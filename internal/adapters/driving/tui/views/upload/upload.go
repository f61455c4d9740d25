// Package upload provides the paper selection view for the TUI.
package upload

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/styles"
)

// AllowedTypes are the file extensions the picker offers.
var AllowedTypes = []string{".pdf"}

const unsupportedHint = "Only PDF files can be analyzed."

// View lets the student pick a paper from the filesystem.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	picker filepicker.Model

	// notice is the session failure notice; hint is local to the picker.
	notice string
	hint   string

	width  int
	height int
	ready  bool
}

// NewView creates an upload view rooted at dir.
func NewView(s *styles.Styles, km *keymap.KeyMap, dir string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	fp := filepicker.New()
	fp.AllowedTypes = AllowedTypes
	fp.AutoHeight = true
	if dir != "" {
		fp.CurrentDirectory = dir
	}

	return &View{
		styles: s,
		keymap: km,
		picker: fp,
		width:  80,
		height: 24,
	}
}

// Init reads the starting directory.
func (v *View) Init() tea.Cmd {
	return v.picker.Init()
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.SetDimensions(msg.Width, msg.Height)
	}
	if msg, ok := msg.(tea.KeyMsg); ok && v.notice != "" && keymap.Matches(msg.String(), v.keymap.Back) {
		return v, func() tea.Msg { return messages.NoticeDismissed{} }
	}

	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)

	if ok, path := v.picker.DidSelectFile(msg); ok {
		v.hint = ""
		return v, tea.Batch(cmd, func() tea.Msg {
			return messages.FileChosen{Path: path}
		})
	}
	if ok, _ := v.picker.DidSelectDisabledFile(msg); ok {
		v.hint = unsupportedHint
	}

	return v, cmd
}

// View renders the upload view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("QuantScholar"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Upload a research paper to deconstruct its model"))
	b.WriteString("\n\n")

	if v.notice != "" {
		b.WriteString(v.styles.Notice.Render(v.notice))
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Muted.Render(v.picker.CurrentDirectory))
	b.WriteString("\n")
	b.WriteString(v.picker.View())

	if v.hint != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render(v.hint))
	}
	return b.String()
}

// SetNotice shows or clears the session failure notice.
func (v *View) SetNotice(notice string) {
	v.notice = notice
}

// Notice returns the notice currently shown.
func (v *View) Notice() string {
	return v.notice
}

// Hint returns the picker hint currently shown.
func (v *View) Hint() string {
	return v.hint
}

// Directory returns the directory being browsed.
func (v *View) Directory() string {
	return v.picker.CurrentDirectory
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}
