package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/views/analyzing"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/views/dashboard"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/views/help"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	uploadView    *upload.View
	analyzingView *analyzing.View
	dashboardView *dashboard.View
	helpView      *help.View
	statusbar     *status.Bar

	// snapshot is the last session state received from the controller.
	snapshot domain.Snapshot

	// notices delivers status lines from background services.
	notices <-chan string

	// notesDir is where exported notes are written; empty means the working directory.
	notesDir string

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		uploadView:    upload.NewView(s, km, ""),
		analyzingView: analyzing.NewView(s),
		dashboardView: dashboard.NewView(s, km),
		helpView:      help.NewView(s, km, ports.Settings),
		statusbar:     status.NewBar(s, km),
		currentView:   messages.ViewUpload,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithDirectory sets the directory the file picker starts in.
func (a *App) WithDirectory(dir string) *App {
	a.uploadView = upload.NewView(a.styles, a.keymap, dir)
	a.notesDir = dir
	return a
}

// WithModel shows the model name in the status bar.
func (a *App) WithModel(model string) *App {
	a.statusbar.SetModel(model)
	return a
}

// WithNotices shows every line received on ch in the status bar.
func (a *App) WithNotices(ch <-chan string) *App {
	a.notices = ch
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	a.applySnapshot(a.ports.Session.Snapshot())
	return tea.Batch(
		tea.SetWindowTitle("QuantScholar"),
		a.uploadView.Init(),
		a.waitForChange(),
		a.waitForNotice(),
	)
}

// waitForNotice blocks until a background notice arrives. It is nil without a notice channel.
func (a *App) waitForNotice() tea.Cmd {
	if a.notices == nil {
		return nil
	}
	notices := a.notices
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case text, ok := <-notices:
			if !ok {
				return nil
			}
			return messages.StatusNotice{Text: text}
		case <-ctx.Done():
			return nil
		}
	}
}

// waitForChange blocks until the controller signals, then delivers a fresh snapshot.
func (a *App) waitForChange() tea.Cmd {
	session := a.ports.Session
	changes := session.Changes()
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return messages.SessionChanged{Snapshot: session.Snapshot()}
		case <-ctx.Done():
			return nil
		}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		// The file picker sizes itself from the window message.
		a.uploadView, cmd = a.uploadView.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.SessionChanged:
		cmd = a.applySnapshot(msg.Snapshot)
		return a, tea.Batch(cmd, a.waitForChange())

	case messages.FileChosen:
		a.err = nil
		return a, a.selectFile(msg.Path)

	case messages.MessageSubmitted:
		return a, a.submit(msg.Text)

	case messages.ResetRequested:
		a.ports.Session.Reset()
		a.dashboardView.Reset()
		a.statusbar.Clear()
		return a, nil

	case messages.StatusNotice:
		if a.statusbar.State() != status.StateError {
			a.statusbar.SetMessage(msg.Text)
		}
		return a, a.waitForNotice()

	case messages.ExportRequested:
		return a, a.exportNotes()

	case messages.NotesExported:
		if msg.Err != nil {
			return a, func() tea.Msg { return messages.ErrorOccurred{Err: msg.Err} }
		}
		a.statusbar.SetMessage("saved " + msg.Path)
		return a, nil

	case messages.NoticeDismissed:
		a.ports.Session.DismissNotice()
		return a, nil

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp {
			a.helpView.Open(a.currentView)
			a.currentView = messages.ViewHelp
			return a, nil
		}
		// Leaving help: the phase may have moved on meanwhile.
		a.currentView = messages.ViewForPhase(a.snapshot.Phase)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case spinner.TickMsg:
		// Ticks stop once analysis is over.
		if a.snapshot.Phase != domain.PhaseAnalyzing {
			return a, nil
		}
		a.analyzingView, cmd = a.analyzingView.Update(msg)
		return a, cmd
	}

	// Directory listings must reach the picker even while another view is shown.
	var cmds []tea.Cmd
	a.uploadView, cmd = a.uploadView.Update(msg)
	cmds = append(cmds, cmd)
	if a.currentView == messages.ViewDashboard {
		a.dashboardView, cmd = a.dashboardView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keymap.Matches(keyStr, a.keymap.Quit) {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewUpload:
		if keymap.Matches(keyStr, a.keymap.Help) {
			return a, a.openHelp()
		}
		a.uploadView, cmd = a.uploadView.Update(msg)

	case messages.ViewAnalyzing:
		switch {
		case keymap.Matches(keyStr, a.keymap.Help):
			return a, a.openHelp()
		case keymap.Matches(keyStr, a.keymap.Reset):
			return a, func() tea.Msg { return messages.ResetRequested{} }
		}

	case messages.ViewDashboard:
		// "?" is typeable in the chat, so help is not bound here.
		a.dashboardView, cmd = a.dashboardView.Update(msg)

	case messages.ViewHelp:
		a.helpView, cmd = a.helpView.Update(msg)
	}
	return a, cmd
}

func (a *App) openHelp() tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
}

// selectFile starts the analysis off the update loop.
func (a *App) selectFile(path string) tea.Cmd {
	session := a.ports.Session
	ctx := a.ctx
	return func() tea.Msg {
		if err := session.SelectFile(ctx, path); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return nil
	}
}

// submit sends a chat message; extra submits while a reply streams are dropped.
func (a *App) submit(text string) tea.Cmd {
	session := a.ports.Session
	ctx := a.ctx
	return func() tea.Msg {
		if !session.Submit(ctx, text) {
			logger.Debug("submit ignored")
		}
		return nil
	}
}

// applySnapshot pushes session state into the views and follows the phase.
func (a *App) applySnapshot(snap domain.Snapshot) tea.Cmd {
	prev := a.snapshot.Phase
	a.snapshot = snap

	a.statusbar.Sync(snap)
	a.uploadView.SetNotice(snap.Notice)

	var cmd tea.Cmd
	switch snap.Phase {
	case domain.PhaseAnalyzing:
		if prev != domain.PhaseAnalyzing {
			cmd = a.analyzingView.Start(snap.FileName)
		} else if snap.FileName != "" {
			a.analyzingView.SetFileName(snap.FileName)
		}
	case domain.PhaseReady:
		a.dashboardView.SetSnapshot(snap)
		if prev != domain.PhaseReady {
			cmd = a.dashboardView.Init()
		}
	case domain.PhaseIdle:
		if prev != domain.PhaseIdle {
			a.dashboardView.Reset()
		}
	}

	if a.currentView != messages.ViewHelp {
		a.currentView = messages.ViewForPhase(snap.Phase)
	}
	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewAnalyzing:
		body = a.analyzingView.View()
	case messages.ViewDashboard:
		body = a.dashboardView.View()
	case messages.ViewHelp:
		body = a.helpView.View()
	default:
		body = a.uploadView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusbar.View())
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Snapshot returns the last session state applied to the views.
func (a *App) Snapshot() domain.Snapshot {
	return a.snapshot
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions. One line is kept for the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	bodyHeight := height - 1
	a.uploadView.SetDimensions(width, bodyHeight)
	a.analyzingView.SetDimensions(width, bodyHeight)
	a.dashboardView.SetDimensions(width, bodyHeight)
	a.helpView.SetDimensions(width, bodyHeight)
	a.statusbar.SetWidth(width)
}
