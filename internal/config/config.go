package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/sleeve/internal/albumapi"
)

// Config holds the settings sleeve reads at startup.
type Config struct {
	APIBase   string
	Timeout   time.Duration
	LogFile   string
	UserAgent string
}

const (
	defaultConfigPath = "~/.config/sleeve/config.toml"
	defaultLogFile    = "~/.local/state/sleeve/sleeve.log"
	defaultTimeout    = 10 * time.Second

	envAPIBase = "SLEEVE_API_BASE"
	envTimeout = "SLEEVE_TIMEOUT"
	envLogFile = "SLEEVE_LOG_FILE"
)

// Load reads the config file at path (or the default location), falling back
// to defaults when it is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBase: albumapi.DefaultBaseURL,
		Timeout: defaultTimeout,
		LogFile: defaultLogFile,
	}

	if err := loadFile(resolved, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if _, err := albumapi.ParseBaseURL(cfg.APIBase); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	cfg.LogFile = MustExpand(cfg.LogFile)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase   string `toml:"api_base"`
		Timeout   string `toml:"timeout"`
		LogFile   string `toml:"log_file"`
		UserAgent string `toml:"user_agent"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
	}
	cfg.UserAgent = strings.TrimSpace(raw.UserAgent)
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(envAPIBase)); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv(envTimeout)); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv(envLogFile)); v != "" {
		cfg.LogFile = v
	}
	return nil
}

func parseTimeout(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout %q must be positive", value)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

// MustExpand is ExpandPath that returns path unchanged on error.
func MustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
