package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/tiger/datefallback/internal/config"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for name, want := range cases {
		got, err := Level(name)
		if err != nil || got != want {
			t.Fatalf("level %q: expected %s, got %s err=%v", name, want, got, err)
		}
	}
	if _, err := Level("loud"); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
}

func TestNewWriterJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewWriter(config.Logging{Level: "warn", JSON: true}, &buf)
	if err != nil {
		t.Fatalf("unexpected logger error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above warn, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if entry["msg"] != "kept" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestNewBuildsLogger(t *testing.T) {
	t.Parallel()

	logger, err := New(config.Logging{Level: "error"})
	if err != nil || logger == nil {
		t.Fatalf("expected logger, got %v", err)
	}
	if logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected warn to be disabled at error level")
	}
	if _, err := New(config.Logging{Level: "loud"}); err == nil {
		t.Fatalf("expected bad level to fail")
	}
}
