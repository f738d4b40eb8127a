package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/five82/sleeve/internal/albumapi"
	"github.com/five82/sleeve/internal/logging"
	"github.com/five82/sleeve/internal/prefs"
	"github.com/five82/sleeve/internal/state"
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Repo    albumapi.Repository
	// APIBase is shown in the header.
	APIBase   string
	LogFile   string
	ThemeName string
	PrefsPath string
	// StartAlbumID opens the detail screen for this album above the list.
	StartAlbumID string
	// Now overrides the clock used for the header.
	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	repo      albumapi.Repository
	logger    *log.Entry
	prefsPath string
	logFile   string
	apiHost   string
	now       func() time.Time

	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	nav     navigator
	current screen
	spinner spinner.Model

	showHelp bool
	diag     diagnostics
}

// New creates the model and mounts the initial screen. Nothing is fetched
// until the program runs Init.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		repo:      opts.Repo,
		logger:    logging.For("ui"),
		prefsPath: prefsPath,
		logFile:   opts.LogFile,
		apiHost:   hostOf(opts.APIBase),
		now:       now,
		theme:     GetTheme(opts.ThemeName),
		keys:      defaultKeyMap(),
		nav:       newNavigator(route{kind: screenList}),
		spinner:   sp,
		diag:      diagnostics{viewport: viewport.New(0, 0)},
	}
	if id := strings.TrimSpace(opts.StartAlbumID); id != "" {
		m.nav = m.nav.push(route{kind: screenDetail, albumID: id})
	}
	m.current = m.mount(m.nav.current())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.current.start())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.current.layout(&m)
		m.updateDiagViewport()
		return m, nil

	case spinner.TickMsg:
		// The spinner only animates while the mounted screen is loading;
		// mounting a new screen starts it again.
		if m.current.phase() != state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case settledMsg:
		m.handleSettled(msg)
		return m, nil

	case navigateMsg:
		return m, m.navigate(msg.to)

	case backMsg:
		return m, m.back()

	case diagLinesMsg:
		m.handleDiagLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	w, h := m.contentSize()
	body := ""
	if m.diag.open {
		body = m.renderDiagnostics(w, h)
	} else {
		body = m.current.view(m, w, h)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderCommandBar(),
		lipgloss.NewStyle().Padding(0, 1).Render(body),
	)
}

// contentSize is the area below the header and command bar.
func (m Model) contentSize() (int, int) {
	return max(m.width-2, 0), max(m.height-2, 0)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help.
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unmount()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	}

	if m.diag.open {
		return m, m.handleDiagKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Diagnostics):
		m.diag.open = true
		m.updateDiagViewport()
		return m, m.refreshDiagnostics()
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}

	return m, m.current.handleKey(&m, msg)
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
			m.logger.WithError(err).Warn("save theme preference")
		}
	}
	m.current.layout(m)
	m.updateDiagViewport()
}

// handleSettled applies a finished fetch when it belongs to the mounted
// screen. Results for screens that were already left are dropped.
func (m *Model) handleSettled(msg settledMsg) {
	if msg.activation != m.current.activation() {
		m.logger.WithFields(log.Fields{
			"activation": msg.activation,
			"discarded":  msg.discarded,
		}).Debug("dropping result for unmounted screen")
		return
	}
	m.current.settled(m)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.unmount()
	}
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
