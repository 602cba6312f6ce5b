package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel).With(String("component", "repo"))

	l.Warn("cache read failed",
		String("key", "portfolio_cache.json"),
		Int("attempt", 1),
		Duration("elapsed_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["level"] != "warn" {
		t.Fatalf("unexpected level %v", entry["level"])
	}
	if entry["component"] != "repo" || entry["key"] != "portfolio_cache.json" {
		t.Fatalf("missing fields: %v", entry)
	}
	if entry["elapsed_ms"] != float64(1500) {
		t.Fatalf("unexpected duration %v", entry["elapsed_ms"])
	}
	if entry["error"] != "boom" {
		t.Fatalf("unexpected error field %v", entry["error"])
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel)
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug entry should be filtered, got %q", buf.String())
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}
