package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sleeve/internal/albumapi"
	"github.com/five82/sleeve/internal/state"
)

const (
	listFailedText = "Could not load albums. Try again later."
	listEmptyText  = "No albums yet."
	cardWidth      = 22
)

// listScreen shows every album twice: as a scrolling row of cards and as a
// "Recently Played" list. Both follow the same cursor.
type listScreen struct {
	r        route
	ctrl     *state.Controller[[]albumapi.Album]
	selected int
	open     func(id string) tea.Cmd
}

func newListScreen(r route, ctrl *state.Controller[[]albumapi.Album], open func(string) tea.Cmd) *listScreen {
	return &listScreen{r: r, ctrl: ctrl, selected: max(r.selected, 0), open: open}
}

func (s *listScreen) route() route {
	r := s.r
	r.selected = s.selected
	return r
}

func (s *listScreen) activation() string   { return s.ctrl.ID() }
func (s *listScreen) phase() state.Phase   { return s.ctrl.State().Phase }
func (s *listScreen) settledAt() time.Time { return s.ctrl.State().SettledAt }
func (s *listScreen) start() tea.Cmd       { return settleCmd(s.ctrl) }
func (s *listScreen) close()               { s.ctrl.Close() }
func (s *listScreen) layout(*Model)        {}

func (s *listScreen) settled(*Model) {
	s.selected = clampIndex(s.selected, len(s.albums()))
}

// albums returns the loaded albums, or nil before the list has loaded.
func (s *listScreen) albums() []albumapi.Album {
	st := s.ctrl.State()
	if st.Phase != state.Loaded {
		return nil
	}
	return st.Data
}

func (s *listScreen) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	albums := s.albums()
	if len(albums) == 0 {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Right):
		s.selected = clampIndex(s.selected+1, len(albums))
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Left):
		s.selected = clampIndex(s.selected-1, len(albums))
	case key.Matches(msg, m.keys.Top):
		s.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		s.selected = len(albums) - 1
	case key.Matches(msg, m.keys.Open):
		id := strings.TrimSpace(albums[s.selected].ID)
		if id == "" || s.open == nil {
			return nil
		}
		return s.open(id)
	}
	return nil
}

func (s *listScreen) view(m Model, width, height int) string {
	styles := m.theme.Styles()
	return renderPhase(s.ctrl.State(),
		func() string { return m.renderLoading("Loading albums", width, height) },
		func(error) string { return m.renderFailure(listFailedText, width, height) },
		func(albums []albumapi.Album) string {
			if len(albums) == 0 {
				return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
					styles.MutedText.Render(listEmptyText))
			}
			return s.renderContent(m, albums, width, height)
		},
	)
}

func (s *listScreen) renderContent(m Model, albums []albumapi.Album, width, height int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Heading.Render("Albums"))
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("  %d of %d", s.selected+1, len(albums))))
	b.WriteString("\n")
	b.WriteString(s.renderCards(m, albums, width))
	b.WriteString("\n\n")

	b.WriteString(styles.Heading.Render("Recently Played"))
	b.WriteString("\n")
	// Header lines above the rows: 1 + card height (4) + 2 blank + 1.
	rows := (height - 8) / 2
	b.WriteString(s.renderRows(m, albums, width, rows))

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func (s *listScreen) renderCards(m Model, albums []albumapi.Album, width int) string {
	styles := m.theme.Styles()
	visible := max(1, width/(cardWidth+1))
	from, to := window(s.selected, len(albums), visible)

	inner := cardWidth - 4
	cards := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		a := albums[i]
		style := styles.Card
		title := styles.Text.Bold(true).Render(truncate(a.Title, inner))
		if i == s.selected {
			style = styles.CardSel
			title = styles.AccentText.Bold(true).Render(truncate(a.Title, inner))
		}
		body := title + "\n" + styles.MutedText.Render(truncate(a.Artist, inner))
		cards = append(cards, style.Width(cardWidth-2).Render(body))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	more := ""
	if from > 0 {
		more += "‹ "
	}
	if to < len(albums) {
		more += "›"
	}
	if more != "" {
		row = lipgloss.JoinHorizontal(lipgloss.Center, row, " ", styles.FaintText.Render(strings.TrimSpace(more)))
	}
	return row
}

func (s *listScreen) renderRows(m Model, albums []albumapi.Album, width, rows int) string {
	styles := m.theme.Styles()
	if rows < 1 {
		rows = 1
	}
	from, to := window(s.selected, len(albums), rows)

	lines := make([]string, 0, (to-from)*2)
	for i := from; i < to; i++ {
		a := albums[i]
		title := truncate(a.Title, width-4)
		sub := truncate(a.Artist+" • Popular Song", width-4)
		if i == s.selected {
			lines = append(lines,
				styles.Selected.Width(width).Render("▸ "+title),
				styles.Selected.Width(width).Render("  "+sub))
			continue
		}
		lines = append(lines,
			styles.Text.Render("  "+title),
			styles.MutedText.Render("  "+sub))
	}
	return strings.Join(lines, "\n")
}

// window returns the half-open range of size at most size that contains
// cursor, keeping the cursor near the middle.
func window(cursor, total, size int) (int, int) {
	if total <= size {
		return 0, total
	}
	from := cursor - size/2
	if from < 0 {
		from = 0
	}
	if from+size > total {
		from = total - size
	}
	return from, from + size
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
