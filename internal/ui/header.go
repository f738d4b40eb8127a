package ui

import (
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	humanize "github.com/dustin/go-humanize"

	"github.com/five82/sleeve/internal/state"
)

// renderHeader renders the status line: logo, greeting, API host, screen and
// the mounted activation's phase.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)

	parts := []string{
		bg.render("sleeve", styles.Logo),
		bg.render(greeting(m.now()), styles.Text.Bold(true)),
	}
	if m.apiHost != "" {
		parts = append(parts, bg.render(m.apiHost, styles.FaintText))
	}
	parts = append(parts, bg.render(screenLabel(m.current.route()), styles.MutedText))

	phase := m.current.phase()
	dot := styles.Text.Foreground(colorOf(m.theme.PhaseColor(phase)))
	status := bg.render("● "+phase.String(), dot)
	if phase != state.Loading {
		if at := m.current.settledAt(); !at.IsZero() {
			status += bg.space + bg.render(humanize.RelTime(at, m.now(), "ago", "from now"), styles.FaintText)
		}
	}
	parts = append(parts, status)

	if m.diag.open {
		parts = append(parts, bg.render("LOG", styles.WarningText.Bold(true)))
	}

	return styles.Header.Width(m.width).Render(bg.join(parts, "  "))
}

// renderCommandBar renders the key hints for the mounted screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)

	var bindings []key.Binding
	switch {
	case m.diag.open:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.FilterActivation, m.keys.Reload, m.keys.Back}
	case m.current.route().kind == screenDetail:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Back, m.keys.Reload, m.keys.Diagnostics}
	default:
		bindings = []key.Binding{m.keys.Down, m.keys.Up, m.keys.Open, m.keys.Reload, m.keys.Diagnostics}
	}

	colon := bg.sep(":")
	segments := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments, bg.render(h.Key, styles.AccentText)+colon+bg.render(h.Desc, styles.MutedText))
	}
	if m.diag.open && m.diag.onlyActivation {
		segments = append(segments, bg.render("[this screen]", styles.WarningText))
	}
	segments = append(segments,
		bg.render("?", styles.AccentText)+colon+bg.render("More", styles.MutedText),
		bg.render("T", styles.AccentText)+colon+bg.render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.spaces(2)))
}

// greeting returns a time-of-day salutation.
func greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good morning!"
	case h < 18:
		return "Good afternoon!"
	default:
		return "Good evening!"
	}
}

func screenLabel(r route) string {
	if r.kind == screenDetail {
		return "Album " + truncate(r.albumID, 24)
	}
	return "Albums"
}

// hostOf returns the host of an API base URL for display.
func hostOf(base string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
