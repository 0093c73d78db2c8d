package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lingo-quiz/internal/config"

	"go.uber.org/zap"
)

// TestNewWritesConsoleAndFile verifies both outputs receive entries.
func TestNewWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(config.Log{Level: "debug", File: path}, &console)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Debug("lesson started", zap.Int("lesson_id", 7))
	log.Sync()

	if !strings.Contains(console.String(), "lesson started") {
		t.Fatalf("expected console output, got %q", console.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", data, err)
	}
	if entry["lesson_id"] != float64(7) {
		t.Fatalf("expected lesson_id field, got %v", entry["lesson_id"])
	}
}

// TestNewFiltersByLevel verifies entries below the level are dropped.
func TestNewFiltersByLevel(t *testing.T) {
	var console bytes.Buffer
	log, err := New(config.Log{Level: "warn"}, &console)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(console.String(), "hidden") || !strings.Contains(console.String(), "shown") {
		t.Fatalf("unexpected output %q", console.String())
	}
}

// TestNewRejectsUnknownLevel verifies bad levels are reported.
func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.Log{Level: "chatty"}, nil); err == nil {
		t.Fatalf("expected level error")
	}
}
