// Package logging configures logrus for sleeve. The terminal belongs to the
// UI, so log output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	log "github.com/sirupsen/logrus"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "SLEEVE_LOG_LEVEL"

// Configure sets the formatter, output and level of logger.
func Configure(logger *log.Logger, w io.Writer, level string) error {
	lvl := log.InfoLevel
	if trimmed := strings.TrimSpace(level); trimmed != "" {
		parsed, err := log.ParseLevel(trimmed)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}
	logger.SetFormatter(&nested.Formatter{
		FieldsOrder:     []string{"module", "activation", "kind"},
		TimestampFormat: time.RFC3339,
		NoColors:        true,
	})
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	return nil
}

// Open appends the standard logger's output to the file at path, creating
// parent directories. The caller closes the returned file on exit.
func Open(path, level string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := Configure(log.StandardLogger(), file, level); err != nil {
		_ = file.Close()
		return nil, err
	}
	return file, nil
}

// For returns an entry tagged with the module name.
func For(module string) *log.Entry {
	return log.WithFields(log.Fields{"module": module})
}
