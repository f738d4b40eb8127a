package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/five82/sleeve/internal/state"
)

// mount builds the screen for r with a fresh controller activation.
func (m *Model) mount(r route) screen {
	opts := []state.Option{
		state.WithLogger(m.logger.WithField("screen", r.kind.String())),
		state.WithClassifier(classifyKind),
		state.WithClock(m.now),
	}
	var s screen
	switch r.kind {
	case screenDetail:
		s = newDetailScreen(r, state.New(m.ctx, detailFetcher(m.repo, r.albumID), opts...))
	default:
		s = newListScreen(r, state.New(m.ctx, listFetcher(m.repo), opts...), openAlbum)
	}
	m.logger.WithFields(log.Fields{
		"screen":     r.kind.String(),
		"activation": s.activation(),
		"album":      r.albumID,
	}).Debug("screen mounted")
	if m.ready {
		s.layout(m)
	}
	return s
}

// unmount closes the mounted screen's activation.
func (m *Model) unmount() {
	if m.current != nil {
		m.current.close()
	}
}

// activate unmounts the current screen and mounts the navigator's top route.
func (m *Model) activate() tea.Cmd {
	m.unmount()
	m.current = m.mount(m.nav.current())
	if m.diag.open && m.diag.onlyActivation {
		return tea.Batch(m.spinner.Tick, m.current.start(), m.refreshDiagnostics())
	}
	return tea.Batch(m.spinner.Tick, m.current.start())
}

func (m *Model) navigate(to route) tea.Cmd {
	m.nav = m.nav.replace(m.current.route()).push(to)
	return m.activate()
}

func (m *Model) back() tea.Cmd {
	nav, ok := m.nav.pop()
	if !ok {
		return nil
	}
	m.nav = nav
	return m.activate()
}

// reload starts a new activation of the current route.
func (m *Model) reload() tea.Cmd {
	m.nav = m.nav.replace(m.current.route())
	return m.activate()
}

func (m Model) renderLoading(label string, width, height int) string {
	styles := m.theme.Styles()
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		m.spinner.View()+" "+styles.MutedText.Render(label))
}

func (m Model) renderFailure(text string, width, height int) string {
	styles := m.theme.Styles()
	hint := styles.FaintText.Render("r to reload")
	if m.nav.depth() > 1 {
		hint = styles.FaintText.Render("r to reload  •  esc to go back")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, styles.DangerText.Render(text), "", hint))
}
