package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sleeve/internal/albumapi"
	"github.com/five82/sleeve/internal/prefs"
	"github.com/five82/sleeve/internal/state"
)

type fakeRepo struct {
	mu          sync.Mutex
	albums      []albumapi.Album
	album       albumapi.Album
	err         error
	listCalls   int
	detailCalls int
	detailIDs   []string
}

func (f *fakeRepo) FetchAllAlbums(context.Context) ([]albumapi.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.albums, nil
}

func (f *fakeRepo) FetchAlbumByID(_ context.Context, id string) (albumapi.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	f.detailIDs = append(f.detailIDs, id)
	if f.err != nil {
		return albumapi.Album{}, f.err
	}
	return f.album, nil
}

func (f *fakeRepo) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.detailCalls
}

var sampleAlbums = []albumapi.Album{
	{ID: "1", Title: "Blue Train", Artist: "John Coltrane"},
	{ID: "2", Title: "Kind of Blue", Artist: "Miles Davis"},
	{ID: "3", Title: "Mingus Ah Um", Artist: "Charles Mingus"},
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
}

func newTestModel(t *testing.T, repo albumapi.Repository, opts Options) Model {
	t.Helper()
	opts.Repo = repo
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	m := New(opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// settle runs the mounted screen's fetch and feeds the result back.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.current.start()()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestListScreenLoadingThenLoaded(t *testing.T) {
	repo := &fakeRepo{albums: sampleAlbums}
	m := newTestModel(t, repo, Options{})

	if got := m.current.phase(); got != state.Loading {
		t.Fatalf("phase before fetch = %v, want loading", got)
	}
	if view := m.View(); !strings.Contains(view, "Loading albums") {
		t.Fatalf("loading view missing spinner label:\n%s", view)
	}

	m = settle(t, m)
	if got := m.current.phase(); got != state.Loaded {
		t.Fatalf("phase after fetch = %v, want loaded", got)
	}
	view := m.View()
	for _, want := range []string{"Albums", "Recently Played", "Blue Train", "Miles Davis • Popular Song", "Good morning!"} {
		if !strings.Contains(view, want) {
			t.Fatalf("loaded view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Loading albums") {
		t.Fatalf("loaded view still shows the spinner branch")
	}
	if list, _ := repo.calls(); list != 1 {
		t.Fatalf("list fetched %d times, want 1", list)
	}
}

func TestListScreenFailureIsGeneric(t *testing.T) {
	repo := &fakeRepo{err: &albumapi.FetchError{
		Op:  "list albums",
		URL: "http://example.test/albums",
		Err: &albumapi.HTTPStatusError{StatusCode: http.StatusNotFound},
	}}
	m := settle(t, newTestModel(t, repo, Options{}))

	if got := m.current.phase(); got != state.Failed {
		t.Fatalf("phase = %v, want failed", got)
	}
	view := m.View()
	if !strings.Contains(view, listFailedText) {
		t.Fatalf("view missing failure text:\n%s", view)
	}
	if strings.Contains(view, "404") || strings.Contains(view, "Recently Played") {
		t.Fatalf("failure view leaks detail or content:\n%s", view)
	}
}

func TestListScreenEmpty(t *testing.T) {
	m := settle(t, newTestModel(t, &fakeRepo{albums: []albumapi.Album{}}, Options{}))
	if view := m.View(); !strings.Contains(view, listEmptyText) {
		t.Fatalf("view missing empty text:\n%s", view)
	}
}

func TestOpenAlbumMountsDetail(t *testing.T) {
	repo := &fakeRepo{
		albums: sampleAlbums,
		album:  albumapi.Album{ID: "2", Title: "Kind of Blue", Artist: "Miles Davis", Description: "Modal jazz."},
	}
	m := settle(t, newTestModel(t, repo, Options{}))
	list := m.current.(*listScreen)

	m, _ = press(t, m, runeKey('j'))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter returned no command")
	}
	nav, ok := cmd().(navigateMsg)
	if !ok {
		t.Fatalf("enter produced %T, want navigateMsg", cmd())
	}
	if nav.to.kind != screenDetail || nav.to.albumID != "2" {
		t.Fatalf("navigate to %+v, want detail for album 2", nav.to)
	}

	next, _ := m.Update(nav)
	m = next.(Model)
	if !list.ctrl.Closed() {
		t.Fatalf("list controller still open after navigating away")
	}
	if m.current.route().kind != screenDetail || m.current.phase() != state.Loading {
		t.Fatalf("current = %v/%v, want detail loading", m.current.route().kind, m.current.phase())
	}

	m = settle(t, m)
	view := m.View()
	for _, want := range []string{"About this album", "Modal jazz.", "Artist:", "Kind of Blue • Track 1", "Kind of Blue • Track 10"} {
		if !strings.Contains(view, want) {
			t.Fatalf("detail view missing %q:\n%s", want, view)
		}
	}
	if len(repo.detailIDs) != 1 || repo.detailIDs[0] != "2" {
		t.Fatalf("detail ids = %v, want [2]", repo.detailIDs)
	}
}

func TestDetailFailureIsGeneric(t *testing.T) {
	repo := &fakeRepo{err: &albumapi.FetchError{Op: "get album", Err: &albumapi.DecodeError{Err: errors.New("bad json")}}}
	m := settle(t, newTestModel(t, repo, Options{StartAlbumID: "9"}))

	view := m.View()
	if !strings.Contains(view, detailFailedText) {
		t.Fatalf("view missing failure text:\n%s", view)
	}
	if strings.Contains(view, "bad json") {
		t.Fatalf("failure view leaks the cause:\n%s", view)
	}
}

func TestSettleForUnmountedScreenIsDropped(t *testing.T) {
	repo := &fakeRepo{albums: sampleAlbums, album: sampleAlbums[0]}
	m := newTestModel(t, repo, Options{})
	staleFetch := m.current.start()
	staleID := m.current.activation()

	next, _ := m.Update(navigateMsg{to: route{kind: screenDetail, albumID: "1"}})
	m = next.(Model)

	// The list was closed before its fetch ran, so the fetch never starts.
	msg := staleFetch()
	settled, ok := msg.(settledMsg)
	if !ok || settled.activation != staleID {
		t.Fatalf("stale fetch produced %#v", msg)
	}
	next, _ = m.Update(settled)
	m = next.(Model)

	if m.current.route().kind != screenDetail || m.current.phase() != state.Loading {
		t.Fatalf("stale result changed the mounted screen")
	}
	if list, _ := repo.calls(); list != 0 {
		t.Fatalf("closed list fetched %d times, want 0", list)
	}

	next, _ = m.Update(settledMsg{activation: "someone-else", phase: state.Loaded})
	m = next.(Model)
	if m.current.phase() != state.Loading {
		t.Fatalf("foreign activation settled the detail screen")
	}
}

func TestBackRemountsListWithFreshActivation(t *testing.T) {
	repo := &fakeRepo{albums: sampleAlbums, album: sampleAlbums[2]}
	m := settle(t, newTestModel(t, repo, Options{}))
	firstID := m.current.activation()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	next, _ := m.Update(cmd())
	m = settle(t, next.(Model))

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("esc returned no command")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)

	list, ok := m.current.(*listScreen)
	if !ok {
		t.Fatalf("current screen is %T, want list", m.current)
	}
	if list.activation() == firstID {
		t.Fatalf("list reused activation %s", firstID)
	}
	if list.phase() != state.Loading {
		t.Fatalf("remounted list phase = %v, want loading", list.phase())
	}

	m = settle(t, m)
	if calls, _ := repo.calls(); calls != 2 {
		t.Fatalf("list fetched %d times, want 2", calls)
	}
	if got := m.current.(*listScreen).selected; got != 2 {
		t.Fatalf("selection after return = %d, want 2", got)
	}
}

func TestBackAtRootDoesNothing(t *testing.T) {
	m := settle(t, newTestModel(t, &fakeRepo{albums: sampleAlbums}, Options{}))
	id := m.current.activation()

	next, cmd := m.Update(backMsg{})
	m = next.(Model)
	if cmd != nil || m.current.activation() != id {
		t.Fatalf("back at root changed the screen")
	}
}

func TestReloadStartsNewActivation(t *testing.T) {
	repo := &fakeRepo{err: errors.New("boom")}
	m := settle(t, newTestModel(t, repo, Options{}))
	failedID := m.current.activation()

	repo.mu.Lock()
	repo.err = nil
	repo.albums = sampleAlbums
	repo.mu.Unlock()

	m, cmd := press(t, m, runeKey('r'))
	if cmd == nil || m.current.activation() == failedID {
		t.Fatalf("reload did not mount a new activation")
	}
	m = settle(t, m)
	if m.current.phase() != state.Loaded {
		t.Fatalf("phase after reload = %v, want loaded", m.current.phase())
	}
}

func TestStartAlbumOpensDetailAboveList(t *testing.T) {
	m := newTestModel(t, &fakeRepo{album: sampleAlbums[0]}, Options{StartAlbumID: " 1 "})
	if m.nav.depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.nav.depth())
	}
	if r := m.current.route(); r.kind != screenDetail || r.albumID != "1" {
		t.Fatalf("route = %+v, want detail 1", r)
	}
}

func TestDetailEndToEndOverHTTP(t *testing.T) {
	var (
		mu        sync.Mutex
		requestID string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/albums/42" {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		requestID = r.Header.Get("X-Request-ID")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"42","title":"T","artist":"A","description":"D","image":"https://img/42.jpg"}`))
	}))
	defer srv.Close()

	client, err := albumapi.NewClient(srv.URL+"/api/", srv.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	m := settle(t, newTestModel(t, client, Options{StartAlbumID: "42", APIBase: srv.URL + "/api/"}))

	detail := m.current.(*detailScreen)
	st := detail.ctrl.State()
	want := albumapi.Album{ID: "42", Title: "T", Artist: "A", Description: "D", Image: "https://img/42.jpg"}
	if st.Phase != state.Loaded || st.Data != want {
		t.Fatalf("state = %v %+v, want loaded %+v", st.Phase, st.Data, want)
	}
	mu.Lock()
	defer mu.Unlock()
	if requestID != detail.activation() {
		t.Fatalf("X-Request-ID = %q, want activation %q", requestID, detail.activation())
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestListEndToEndUnreachable(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	httpClient := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		mu.Lock()
		attempts++
		mu.Unlock()
		return nil, errors.New("dial tcp: connection refused")
	})}
	client, err := albumapi.NewClient("http://albums.invalid/api/", httpClient)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	m := settle(t, newTestModel(t, client, Options{}))
	if got := m.current.phase(); got != state.Failed {
		t.Fatalf("phase = %v, want failed", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
	if !strings.Contains(m.View(), listFailedText) {
		t.Fatalf("view missing failure text")
	}
}

func TestCycleThemePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, &fakeRepo{}, Options{ThemeName: "Slate", PrefsPath: path})

	m, _ = press(t, m, runeKey('T'))
	if m.theme.Name != NextTheme("Slate") {
		t.Fatalf("theme = %q, want %q", m.theme.Name, NextTheme("Slate"))
	}
	if got := prefs.Load(path).Theme; got != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", got, m.theme.Name)
	}
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t, &fakeRepo{}, Options{})
	m, _ = press(t, m, runeKey('?'))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m, _ = press(t, m, runeKey('x'))
	if m.showHelp {
		t.Fatalf("help overlay still shown")
	}
}

func TestQuitClosesMountedActivation(t *testing.T) {
	m := newTestModel(t, &fakeRepo{}, Options{})
	list := m.current.(*listScreen)
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit produced %T", cmd())
	}
	if !list.ctrl.Closed() {
		t.Fatalf("controller still open after quit")
	}
}

func TestDiagnosticsShowsLogTail(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "sleeve.log")
	m := newTestModel(t, &fakeRepo{albums: sampleAlbums}, Options{LogFile: logFile})
	id := m.current.activation()

	content := "May 01 09:30:00 [INFO] [module:ui] [activation:other] fetch loaded\n" +
		"May 01 09:30:01 [WARN] [module:ui] [activation:" + id + "] fetch failed\n"
	if err := os.WriteFile(logFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m, cmd := press(t, m, runeKey('L'))
	if !m.diag.open || cmd == nil {
		t.Fatalf("diagnostics not opened")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if len(m.diag.lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(m.diag.lines))
	}

	m, cmd = press(t, m, runeKey('a'))
	next, _ = m.Update(cmd())
	m = next.(Model)
	if len(m.diag.lines) != 1 || !strings.Contains(m.diag.lines[0], id) {
		t.Fatalf("filtered lines = %v", m.diag.lines)
	}

	// A reply to an older read is ignored.
	next, _ = m.Update(diagLinesMsg{seq: m.diag.seq - 1, lines: []string{"stale"}})
	m = next.(Model)
	if len(m.diag.lines) != 1 || m.diag.lines[0] == "stale" {
		t.Fatalf("stale read applied: %v", m.diag.lines)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.diag.open {
		t.Fatalf("esc did not close diagnostics")
	}
}
