package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sleeve/internal/albumapi"
	"github.com/five82/sleeve/internal/state"
)

// screen is a mounted route bound to one controller activation.
type screen interface {
	route() route
	activation() string
	phase() state.Phase
	settledAt() time.Time
	// start returns the command that performs the activation's fetch.
	start() tea.Cmd
	// settled is called once the mounted activation reaches a terminal phase.
	settled(m *Model)
	// layout adapts the screen to the current window size.
	layout(m *Model)
	close()
	handleKey(m *Model, msg tea.KeyMsg) tea.Cmd
	view(m Model, width, height int) string
}

// settledMsg reports that an activation's fetch returned.
type settledMsg struct {
	activation string
	phase      state.Phase
	discarded  bool
}

// settleCmd runs ctrl's fetch off the update loop.
func settleCmd[T any](ctrl *state.Controller[T]) tea.Cmd {
	return func() tea.Msg {
		s := ctrl.Run()
		return settledMsg{
			activation: s.Activation,
			phase:      s.Phase,
			discarded:  ctrl.Discarded(),
		}
	}
}

// renderPhase picks exactly one branch for s.
func renderPhase[T any](s state.ViewState[T], loading func() string, failed func(error) string, content func(T) string) string {
	switch s.Phase {
	case state.Loaded:
		return content(s.Data)
	case state.Failed:
		return failed(s.Err)
	default:
		return loading()
	}
}

func listFetcher(repo albumapi.Repository) state.Fetcher[[]albumapi.Album] {
	return func(ctx context.Context) ([]albumapi.Album, error) {
		return repo.FetchAllAlbums(requestContext(ctx))
	}
}

func detailFetcher(repo albumapi.Repository, id string) state.Fetcher[albumapi.Album] {
	return func(ctx context.Context) (albumapi.Album, error) {
		return repo.FetchAlbumByID(requestContext(ctx), id)
	}
}

// requestContext tags outgoing requests with the activation id so server
// and client logs line up.
func requestContext(ctx context.Context) context.Context {
	if id := state.ActivationFrom(ctx); id != "" {
		return albumapi.WithRequestID(ctx, id)
	}
	return ctx
}

func classifyKind(err error) string {
	return albumapi.Classify(err).String()
}
