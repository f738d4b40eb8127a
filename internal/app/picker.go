package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/five82/sleeve/internal/albumapi"
	"github.com/five82/sleeve/internal/logging"
	"github.com/five82/sleeve/internal/state"
	"github.com/five82/sleeve/internal/ui"
)

const (
	pickListFailed   = "Could not load albums. Try again later."
	pickDetailFailed = "Could not load this album. Try again later."
)

// ErrFetchFailed is returned by RunPicker when a fetch did not load.
var ErrFetchFailed = errors.New("fetch failed")

// errPickAborted reports that the user left the prompt without choosing.
var errPickAborted = errors.New("selection aborted")

// Chooser asks the user for one album and returns its id.
type Chooser func(albums []albumapi.Album) (string, error)

// RunPicker lists albums, lets choose pick one, then prints its detail to out.
func RunPicker(ctx context.Context, repo albumapi.Repository, out io.Writer, choose Chooser) error {
	logger := logging.For("picker")
	opts := []state.Option{
		state.WithLogger(logger),
		state.WithClassifier(func(err error) string { return albumapi.Classify(err).String() }),
	}

	list := state.New(ctx, func(ctx context.Context) ([]albumapi.Album, error) {
		return repo.FetchAllAlbums(tagRequest(ctx))
	}, opts...)
	listState, err := await(ctx, list)
	if err != nil {
		return err
	}
	if listState.Phase != state.Loaded {
		fmt.Fprintln(out, pickListFailed)
		return fmt.Errorf("list albums: %w", ErrFetchFailed)
	}
	if len(listState.Data) == 0 {
		fmt.Fprintln(out, "No albums yet.")
		return nil
	}

	id, err := choose(listState.Data)
	if errors.Is(err, errPickAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return nil
	}

	detail := state.New(ctx, func(ctx context.Context) (albumapi.Album, error) {
		return repo.FetchAlbumByID(tagRequest(ctx), id)
	}, opts...)
	detailState, err := await(ctx, detail)
	if err != nil {
		return err
	}
	if detailState.Phase != state.Loaded {
		fmt.Fprintln(out, pickDetailFailed)
		return fmt.Errorf("get album %s: %w", id, ErrFetchFailed)
	}

	_, err = io.WriteString(out, formatAlbum(detailState.Data))
	return err
}

// await runs ctrl's fetch and waits for it to settle or for ctx to end. The
// activation is closed either way.
func await[T any](ctx context.Context, ctrl *state.Controller[T]) (state.ViewState[T], error) {
	defer ctrl.Close()
	select {
	case <-ctrl.Start():
		// A fetch cut short by ctx reports the cancellation, not a failure.
		return ctrl.State(), ctx.Err()
	case <-ctx.Done():
		ctrl.Close()
		<-ctrl.Done()
		return ctrl.State(), ctx.Err()
	}
}

func tagRequest(ctx context.Context) context.Context {
	return albumapi.WithRequestID(ctx, state.ActivationFrom(ctx))
}

func optionLabel(a albumapi.Album) string {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		title = "Untitled (" + a.ID + ")"
	}
	if artist := strings.TrimSpace(a.Artist); artist != "" {
		return title + " — " + artist
	}
	return title
}

// formatAlbum renders the detail screen as plain text.
func formatAlbum(a albumapi.Album) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", a.Title, a.Artist)
	if a.Image != "" {
		fmt.Fprintf(&b, "Cover: %s\n", a.Image)
	}
	b.WriteString("\nAbout this album\n")
	if desc := strings.TrimSpace(a.Description); desc != "" {
		b.WriteString(desc + "\n")
	}
	fmt.Fprintf(&b, "Artist: %s\n\nTracks\n", a.Artist)
	for i, name := range ui.PlaceholderTracks(a.Title) {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, name)
	}
	return b.String()
}

func chooseWithForm(albums []albumapi.Album) (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("inspect stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 {
		return "", fmt.Errorf("interactive selection requires a terminal; use -album instead")
	}

	options := make([]huh.Option[string], 0, len(albums))
	for _, a := range albums {
		if strings.TrimSpace(a.ID) == "" {
			continue
		}
		options = append(options, huh.NewOption(optionLabel(a), a.ID))
	}

	var id string
	err = huh.NewSelect[string]().
		Title("Albums").
		Description("Pick an album to show. Press / to filter by title or artist.").
		Options(options...).
		Value(&id).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", errPickAborted
	}
	if err != nil {
		return "", fmt.Errorf("run album picker: %w", err)
	}
	return id, nil
}
