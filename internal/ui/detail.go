package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sleeve/internal/albumapi"
	"github.com/five82/sleeve/internal/state"
)

const (
	detailFailedText  = "Could not load this album. Try again later."
	placeholderTracks = 10
)

// detailScreen shows one album fetched by id.
type detailScreen struct {
	r        route
	ctrl     *state.Controller[albumapi.Album]
	viewport viewport.Model
}

func newDetailScreen(r route, ctrl *state.Controller[albumapi.Album]) *detailScreen {
	return &detailScreen{r: r, ctrl: ctrl, viewport: viewport.New(0, 0)}
}

func (s *detailScreen) route() route         { return s.r }
func (s *detailScreen) activation() string   { return s.ctrl.ID() }
func (s *detailScreen) phase() state.Phase   { return s.ctrl.State().Phase }
func (s *detailScreen) settledAt() time.Time { return s.ctrl.State().SettledAt }
func (s *detailScreen) start() tea.Cmd       { return settleCmd(s.ctrl) }
func (s *detailScreen) close()               { s.ctrl.Close() }

func (s *detailScreen) settled(m *Model) {
	s.layout(m)
	s.viewport.GotoTop()
}

func (s *detailScreen) layout(m *Model) {
	w, h := m.contentSize()
	s.viewport.Width = w
	s.viewport.Height = h
	st := s.ctrl.State()
	if st.Phase == state.Loaded {
		s.viewport.SetContent(renderAlbumDetail(m.theme, st.Data, w))
	}
}

func (s *detailScreen) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		return goBack
	case key.Matches(msg, m.keys.Top):
		s.viewport.GotoTop()
		return nil
	case key.Matches(msg, m.keys.Bottom):
		s.viewport.GotoBottom()
		return nil
	}
	if s.phase() != state.Loaded {
		return nil
	}
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

func (s *detailScreen) view(m Model, width, height int) string {
	return renderPhase(s.ctrl.State(),
		func() string { return m.renderLoading("Loading album", width, height) },
		func(error) string { return m.renderFailure(detailFailedText, width, height) },
		func(albumapi.Album) string { return s.viewport.View() },
	)
}

// renderAlbumDetail lays out a loaded album for the given width.
func renderAlbumDetail(theme Theme, a albumapi.Album, width int) string {
	styles := theme.Styles()
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder

	b.WriteString(styles.Hero.Width(width).Render(
		lipgloss.NewStyle().Bold(true).Render(a.Title) + "\n" + a.Artist))
	b.WriteString("\n")
	if a.Image != "" {
		b.WriteString(styles.FaintText.Render("Cover  " + truncateMiddle(a.Image, width-7)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Render("▶ Play") + "   " +
		styles.MutedText.Render("⤮ Shuffle") + "   " +
		styles.MutedText.Render("♡ Favorite"))
	b.WriteString("\n\n")

	b.WriteString(styles.Heading.Render("About this album"))
	b.WriteString("\n")
	if desc := strings.TrimSpace(a.Description); desc != "" {
		b.WriteString(styles.Text.Inherit(wrap).Render(desc))
		b.WriteString("\n")
	}
	b.WriteString(styles.MutedText.Render("Artist: ") + styles.Text.Render(a.Artist))
	b.WriteString("\n\n")

	b.WriteString(styles.Heading.Render("Tracks"))
	b.WriteString("\n")
	for i, name := range PlaceholderTracks(a.Title) {
		num := styles.FaintText.Render(fmt.Sprintf("%2d  ", i+1))
		b.WriteString(num + styles.Text.Render(truncate(name, width-4)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// PlaceholderTracks returns the track rows shown for an album. The catalog
// does not serve track lists yet.
func PlaceholderTracks(title string) []string {
	names := make([]string, placeholderTracks)
	for i := range names {
		names[i] = fmt.Sprintf("%s • Track %d", title, i+1)
	}
	return names
}
