package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestConfigure_WritesNestedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New()
	if err := Configure(logger, &buf, "debug"); err != nil {
		t.Fatalf("Configure returned error: %v", err)
	}

	logger.WithFields(log.Fields{"module": "ui", "activation": "abc"}).Debug("fetch started")

	out := buf.String()
	for _, want := range []string{"fetch started", "[module:ui]", "[activation:abc]", "DEBU"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
	if strings.Index(out, "module") > strings.Index(out, "activation") {
		t.Fatalf("module field should be ordered before activation: %q", out)
	}
}

func TestConfigure_LevelHandling(t *testing.T) {
	logger := log.New()
	if err := Configure(logger, &bytes.Buffer{}, ""); err != nil {
		t.Fatalf("Configure returned error: %v", err)
	}
	if logger.GetLevel() != log.InfoLevel {
		t.Fatalf("level = %v, want info", logger.GetLevel())
	}
	if err := Configure(logger, &bytes.Buffer{}, "chatty"); err == nil {
		t.Fatal("Configure accepted an invalid level")
	}
}

func TestOpen_CreatesFile(t *testing.T) {
	prevOut := log.StandardLogger().Out
	prevLevel := log.GetLevel()
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "nested", "sleeve.log")
	file, err := Open(path, "info")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	For("test").Info("hello")
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello") || !strings.Contains(string(data), "[module:test]") {
		t.Fatalf("log file = %q, want hello with module field", data)
	}
}
