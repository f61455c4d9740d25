// Package dashboard provides the analysis and tutor chat view for the TUI.
package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/report"
)

// Tab identifies the active dashboard pane.
type Tab int

const (
	// TabAnalysis shows the rendered analysis report.
	TabAnalysis Tab = iota
	// TabTutor shows the tutor conversation.
	TabTutor
)

// String returns the tab label.
func (t Tab) String() string {
	if t == TabTutor {
		return "Tutor"
	}
	return "Analysis"
}

const (
	// wideWidth is the terminal width from which both panes are shown.
	wideWidth = 140

	// chrome is the number of lines used by header, tabs, input and disclaimer.
	chrome = 9

	streamCursor = "▌"
)

// View shows the analysis next to, or tabbed with, the tutor chat.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.ChatInput

	analysisPane viewport.Model
	chatPane     viewport.Model

	renderer *report.Renderer
	// rendered caches glamour output of completed tutor messages by ID.
	rendered map[string]string

	snapshot domain.Snapshot
	analysis *domain.Analysis
	tab      Tab

	width  int
	height int
	ready  bool
}

// NewView creates a new dashboard view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:       s,
		keymap:       km,
		input:        input.NewChatInput(s),
		analysisPane: viewport.New(80, 10),
		chatPane:     viewport.New(80, 10),
		rendered:     make(map[string]string),
		tab:          TabAnalysis,
	}
	v.SetDimensions(80, 24)
	v.ready = false
	return v
}

// Init starts the input cursor blink.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the dashboard.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Reset):
		return v, func() tea.Msg { return messages.ResetRequested{} }

	case keymap.Matches(keyStr, v.keymap.Export):
		return v, func() tea.Msg { return messages.ExportRequested{} }

	case keymap.Matches(keyStr, v.keymap.SwitchTab):
		v.SwitchTab()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.ScrollUp):
		pane := v.activePane()
		pane.HalfViewUp()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.ScrollDown):
		pane := v.activePane()
		pane.HalfViewDown()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Submit):
		if !v.chatVisible() {
			return v, nil
		}
		text := v.input.Take()
		if text == "" {
			return v, nil
		}
		return v, func() tea.Msg { return messages.MessageSubmitted{Text: text} }
	}

	// Narrow analysis tab: arrow keys scroll the report.
	if !v.chatVisible() {
		var cmd tea.Cmd
		v.analysisPane, cmd = v.analysisPane.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// SetSnapshot re-renders the panes from a session snapshot.
func (v *View) SetSnapshot(snap domain.Snapshot) {
	v.snapshot = snap

	if snap.Analysis != v.analysis {
		v.analysis = snap.Analysis
		v.analysisPane.SetContent(v.renderAnalysis())
		v.analysisPane.GotoTop()
	}

	follow := v.chatPane.AtBottom() || snap.Streaming
	v.chatPane.SetContent(v.renderChat())
	if follow {
		v.chatPane.GotoBottom()
	}

	v.input.SetDisabled(snap.Streaming)
	v.pruneCache()
}

// Reset clears all paper state ahead of a new session.
func (v *View) Reset() {
	v.snapshot = domain.Snapshot{}
	v.analysis = nil
	v.rendered = make(map[string]string)
	v.analysisPane.SetContent("")
	v.chatPane.SetContent("")
	v.input.Reset()
	v.tab = TabAnalysis
}

// SwitchTab toggles the active pane.
func (v *View) SwitchTab() {
	if v.tab == TabAnalysis {
		v.tab = TabTutor
		v.input.Focus()
		return
	}
	v.tab = TabAnalysis
}

// Tab returns the active pane.
func (v *View) Tab() Tab {
	return v.tab
}

// Wide reports whether both panes are shown side by side.
func (v *View) Wide() bool {
	return v.width >= wideWidth
}

func (v *View) chatVisible() bool {
	return v.Wide() || v.tab == TabTutor
}

func (v *View) activePane() *viewport.Model {
	if v.tab == TabTutor {
		return &v.chatPane
	}
	return &v.analysisPane
}

func (v *View) renderAnalysis() string {
	if v.analysis == nil {
		return ""
	}
	return v.renderer.Render(report.Analysis(v.analysis))
}

func (v *View) renderChat() string {
	width := v.chatPane.Width
	blocks := make([]string, 0, len(v.snapshot.Messages))

	for _, m := range v.snapshot.Messages {
		var label string
		if m.Role == domain.RoleUser {
			label = v.styles.UserLabel.Render("You")
		} else {
			label = v.styles.TutorLabel.Render("Tutor")
		}
		label += " " + v.styles.Muted.Render(m.Timestamp.Format(report.UploadTimeLayout))

		var body string
		switch {
		case m.Role == domain.RoleUser:
			body = v.styles.Normal.Width(width).Render(m.Text)
		case m.IsStreaming:
			body = v.styles.Normal.Width(width).Render(m.Text + streamCursor)
		case m.Failed:
			body = v.styles.Error.Width(width).Render(m.Text)
		default:
			body = v.renderMarkdown(m)
		}

		blocks = append(blocks, label+"\n"+strings.TrimRight(body, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) renderMarkdown(m domain.Message) string {
	if out, ok := v.rendered[m.ID]; ok {
		return out
	}
	out := strings.Trim(v.renderer.Render(m.Text), "\n")
	v.rendered[m.ID] = out
	return out
}

func (v *View) pruneCache() {
	live := make(map[string]bool, len(v.snapshot.Messages))
	for _, m := range v.snapshot.Messages {
		live[m.ID] = true
	}
	for id := range v.rendered {
		if !live[id] {
			delete(v.rendered, id)
		}
	}
}

// View renders the dashboard.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 6)
	sections = append(sections, v.renderHeader())

	if v.Wide() {
		half := v.width / 2
		left := lipgloss.NewStyle().Width(half).Render(v.analysisPane.View())
		right := lipgloss.JoinVertical(lipgloss.Left, v.chatPane.View(), v.renderFooter())
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, right))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, v.renderTabs())
	if v.tab == TabTutor {
		sections = append(sections, v.chatPane.View(), v.renderFooter())
	} else {
		sections = append(sections, v.analysisPane.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderHeader() string {
	title := report.Header(v.snapshot.FileName, v.snapshot.UploadedAt)
	if target := report.Target(v.snapshot.Analysis); target != "" {
		title += "  " + v.styles.Subtitle.Render(target)
	}
	return v.styles.Header.Width(v.width).Render(title)
}

func (v *View) renderTabs() string {
	tabs := make([]string, 0, 2)
	for _, t := range []Tab{TabAnalysis, TabTutor} {
		if t == v.tab {
			tabs = append(tabs, v.styles.ActiveTab.Render(t.String()))
		} else {
			tabs = append(tabs, v.styles.Tab.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (v *View) renderFooter() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.input.View(),
		v.styles.Disclaimer.Render(report.Disclaimer),
	)
}

// SetDimensions resizes the panes. A width change rebuilds the Markdown renderer.
func (v *View) SetDimensions(width, height int) {
	paneWidth := width
	if width >= wideWidth {
		paneWidth = width/2 - 1
	}
	paneHeight := height - chrome
	if paneHeight < 3 {
		paneHeight = 3
	}

	widthChanged := v.renderer == nil || paneWidth != v.analysisPane.Width
	v.width = width
	v.height = height
	v.ready = true

	v.analysisPane.Width = paneWidth
	v.analysisPane.Height = paneHeight
	v.chatPane.Width = paneWidth
	v.chatPane.Height = paneHeight
	v.input.SetWidth(paneWidth)

	if widthChanged {
		v.renderer = report.NewDarkRenderer(paneWidth - 2)
		v.rendered = make(map[string]string)
		v.analysisPane.SetContent(v.renderAnalysis())
		v.chatPane.SetContent(v.renderChat())
	}
}

// Input exposes the chat input for focus management.
func (v *View) Input() *input.ChatInput {
	return v.input
}

// AnalysisContent returns the rendered analysis pane content.
func (v *View) AnalysisContent() string {
	return v.renderAnalysis()
}

// ChatContent returns the rendered chat pane content.
func (v *View) ChatContent() string {
	return v.renderChat()
}
