package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/garyellow/line-menu-bot-go/internal/ctxutil"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("test message")

	entry := decode(t, &buf)
	for _, field := range []string{"timestamp", "level", "message"} {
		if _, ok := entry[field]; !ok {
			t.Errorf("JSON log missing required field %q", field)
		}
	}
	if entry["message"] != "test message" {
		t.Errorf("message = %v, want %q", entry["message"], "test message")
	}
	if entry["level"] != "warning" {
		t.Errorf("level = %v, want %q", entry["level"], "warning")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record should be filtered at warn level, got %s", buf.String())
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("translate").
		WithRequestID("req-123").
		WithError(errors.New("boom")).
		WithFields(map[string]any{"provider": "azure"}).
		Error("operation failed")

	entry := decode(t, &buf)
	want := map[string]string{
		"module":     "translate",
		"request_id": "req-123",
		"error":      "boom",
		"provider":   "azure",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestLogger_ContextValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithChatID(context.Background(), "C1")
	ctx = ctxutil.WithEventID(ctx, "01HEVENT")
	log.InfoContext(ctx, "event processed")

	entry := decode(t, &buf)
	if entry["chat_id"] != "C1" || entry["event_id"] != "01HEVENT" {
		t.Errorf("context values missing: %v", entry)
	}
}

func TestLogger_ShutdownWithoutRemote(t *testing.T) {
	log := NewWithWriter("info", &bytes.Buffer{})
	if err := log.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}
}
