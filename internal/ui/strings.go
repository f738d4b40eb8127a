package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens s to max runes, ending with an ellipsis when cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// truncateMiddle keeps both ends of s, favoring the end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 5 {
		return string(r[:max])
	}
	endLen := (max - 1) * 2 / 3
	startLen := max - 1 - endLen
	return string(r[:startLen]) + "…" + string(r[len(r)-endLen:])
}

func colorOf(hex string) lipgloss.Color {
	return lipgloss.Color(strings.TrimSpace(hex))
}
