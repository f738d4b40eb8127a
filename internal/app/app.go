package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/five82/sleeve/internal/albumapi"
	"github.com/five82/sleeve/internal/config"
	"github.com/five82/sleeve/internal/logging"
	"github.com/five82/sleeve/internal/prefs"
	"github.com/five82/sleeve/internal/ui"
)

// Options configure the sleeve application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/sleeve/prefs.toml
	// AlbumID opens this album's detail screen on start.
	AlbumID string
	// Pick selects an album with a prompt instead of the full-screen UI.
	Pick   bool
	Stdout io.Writer
}

// Run boots sleeve until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := logging.Open(cfg.LogFile, os.Getenv(logging.EnvLevel))
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logFile.Close()
	logger := logging.For("app")

	httpClient := newHTTPClient(cfg)
	defer httpClient.CloseIdleConnections()

	client, err := albumapi.NewClient(cfg.APIBase, httpClient, albumapi.WithUserAgent(cfg.UserAgent))
	if err != nil {
		return fmt.Errorf("init album client: %w", err)
	}
	logger.WithFields(log.Fields{
		"api":     client.BaseURL(),
		"timeout": cfg.Timeout,
		"pick":    opts.Pick,
	}).Info("sleeve starting")

	if opts.Pick {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return RunPicker(ctx, client, out, chooseWithForm)
	}

	userPrefs := prefs.Load(opts.PrefsPath)
	err = ui.Run(ui.Options{
		Context:      ctx,
		Repo:         client,
		APIBase:      client.BaseURL(),
		LogFile:      cfg.LogFile,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    opts.PrefsPath,
		StartAlbumID: opts.AlbumID,
	})
	if err != nil {
		logger.WithError(err).Error("ui exited with error")
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("sleeve stopped")
	return nil
}

// newHTTPClient builds the one transport shared by every fetch. Its timeout
// is the only time limit on a request besides the caller's context.
func newHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}
