package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sleeve/internal/logtail"
)

const diagLineLimit = 500

// diagnostics is the log pane toggled with L. It shows the tail of the
// application log, optionally narrowed to the mounted activation.
type diagnostics struct {
	open           bool
	onlyActivation bool
	// seq increases with every read so replies to older reads are ignored.
	seq      uint64
	lines    []string
	err      error
	viewport viewport.Model
}

type diagLinesMsg struct {
	seq   uint64
	lines []string
	err   error
}

func readDiagCmd(path, needle string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		var (
			lines []string
			err   error
		)
		if needle == "" {
			lines, err = logtail.Read(path, diagLineLimit)
		} else {
			lines, err = logtail.ReadMatching(path, diagLineLimit, needle)
		}
		return diagLinesMsg{seq: seq, lines: lines, err: err}
	}
}

// refreshDiagnostics starts a new read of the log file.
func (m *Model) refreshDiagnostics() tea.Cmd {
	if m.logFile == "" {
		m.diag.lines = nil
		m.diag.err = nil
		m.updateDiagViewport()
		return nil
	}
	m.diag.seq++
	needle := ""
	if m.diag.onlyActivation {
		needle = m.current.activation()
	}
	return readDiagCmd(m.logFile, needle, m.diag.seq)
}

func (m *Model) handleDiagLines(msg diagLinesMsg) {
	if msg.seq != m.diag.seq {
		return
	}
	m.diag.lines = msg.lines
	m.diag.err = msg.err
	m.updateDiagViewport()
	m.diag.viewport.GotoBottom()
}

func (m *Model) handleDiagKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Diagnostics):
		m.diag.open = false
		return nil
	case key.Matches(msg, m.keys.FilterActivation):
		m.diag.onlyActivation = !m.diag.onlyActivation
		return m.refreshDiagnostics()
	case key.Matches(msg, m.keys.Reload):
		return m.refreshDiagnostics()
	case key.Matches(msg, m.keys.Top):
		m.diag.viewport.GotoTop()
		return nil
	case key.Matches(msg, m.keys.Bottom):
		m.diag.viewport.GotoBottom()
		return nil
	}
	var cmd tea.Cmd
	m.diag.viewport, cmd = m.diag.viewport.Update(msg)
	return cmd
}

func (m *Model) updateDiagViewport() {
	w, h := m.contentSize()
	m.diag.viewport.Width = w
	m.diag.viewport.Height = max(h-1, 1)
	m.diag.viewport.SetContent(m.renderDiagContent(w))
}

func (m Model) renderDiagContent(width int) string {
	styles := m.theme.Styles()
	switch {
	case m.logFile == "":
		return styles.MutedText.Render("Logging to a file is disabled.")
	case m.diag.err != nil:
		return styles.DangerText.Render("Could not read log: " + m.diag.err.Error())
	case len(m.diag.lines) == 0:
		return styles.MutedText.Render("No log lines yet.")
	}
	out := make([]string, len(m.diag.lines))
	for i, line := range m.diag.lines {
		out[i] = styleLogLine(styles, truncate(line, width))
	}
	return strings.Join(out, "\n")
}

// styleLogLine colors a formatted log line by its level tag.
func styleLogLine(styles Styles, line string) string {
	switch {
	case strings.Contains(line, "[ERRO]"), strings.Contains(line, "[FATA]"), strings.Contains(line, "[PANI]"):
		return styles.DangerText.Render(line)
	case strings.Contains(line, "[WARN]"):
		return styles.WarningText.Render(line)
	case strings.Contains(line, "[DEBU]"), strings.Contains(line, "[TRAC]"):
		return styles.FaintText.Render(line)
	default:
		return styles.Text.Render(line)
	}
}

func (m Model) renderDiagnostics(width, height int) string {
	styles := m.theme.Styles()
	title := styles.Heading.Render("Log") + styles.FaintText.Render("  "+truncateMiddle(m.logFile, max(width-6, 0)))
	return lipgloss.NewStyle().MaxHeight(height).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, m.diag.viewport.View()))
}
