// Package analyzing provides the progress view shown while a paper is analysed.
package analyzing

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/styles"
)

const (
	headline = "Deconstructing Paper..."
	detail   = "Analyzing model mechanics"
)

// View shows a spinner while extraction is in flight.
type View struct {
	styles  *styles.Styles
	spinner spinner.Model

	fileName string
	started  time.Time
	now      func() time.Time

	width  int
	height int
	ready  bool
}

// NewView creates a new analyzing view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Accent)

	return &View{
		styles:  s,
		spinner: sp,
		now:     time.Now,
		width:   80,
		height:  24,
	}
}

// Start records the paper being analysed and starts the spinner.
func (v *View) Start(fileName string) tea.Cmd {
	v.fileName = fileName
	v.started = v.now()
	return v.spinner.Tick
}

// Init starts the spinner.
func (v *View) Init() tea.Cmd {
	return v.spinner.Tick
}

// Update advances the spinner.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the progress screen.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	lines := []string{
		v.spinner.View() + " " + v.styles.Title.Render(headline),
		v.styles.Muted.Render(detail),
	}
	if v.fileName != "" {
		lines = append(lines, "", v.styles.Normal.Render(v.fileName))
	}
	if !v.started.IsZero() {
		elapsed := v.now().Sub(v.started).Round(time.Second)
		lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("%s elapsed", elapsed)))
	}

	body := strings.Join(lines, "\n")
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, body)
}

// SetFileName updates the paper name without restarting the clock.
func (v *View) SetFileName(fileName string) {
	v.fileName = fileName
}

// FileName returns the paper being analysed.
func (v *View) FileName() string {
	return v.fileName
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}
