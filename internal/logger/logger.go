// Package logger provides structured logging utilities for the application.
// It wraps log/slog with JSON formatting, context-aware attributes and an
// optional Better Stack sink.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	slogbetterstack "github.com/samber/slog-betterstack"
)

// Logger is the application logger
type Logger struct {
	*slog.Logger
	remote *AsyncHandler // nil unless Better Stack is enabled
}

// Options configures optional log sinks.
type Options struct {
	BetterStackToken    string
	BetterStackEndpoint string
}

// New creates a new logger instance with JSON formatting on stdout.
func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a new logger writing JSON to w.
func NewWithWriter(level string, w io.Writer) *Logger {
	return NewWithOptions(level, w, Options{})
}

// NewWithOptions creates a logger writing JSON to w and, when a Better Stack
// token is configured, shipping the same records to Better Stack.
// Context values (request_id, chat_id, user_id, event_id) are added to every record.
func NewWithOptions(level string, w io.Writer, opts Options) *Logger {
	logLevel := ParseLevel(level)

	local := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       logLevel,
		ReplaceAttr: renameAttr,
	})

	var remote *AsyncHandler
	handlers := []slog.Handler{local}
	if opts.BetterStackToken != "" {
		bs := slogbetterstack.Option{
			Level:    logLevel,
			Token:    opts.BetterStackToken,
			Endpoint: opts.BetterStackEndpoint,
		}.NewBetterstackHandler()
		remote = NewAsyncHandler(bs, AsyncOptions{})
		handlers = append(handlers, remote)
	}

	var handler slog.Handler = local
	if len(handlers) > 1 {
		handler = NewMultiHandler(handlers...)
	}

	return &Logger{
		Logger: slog.New(NewContextHandler(handler)),
		remote: remote,
	}
}

// ParseLevel maps a LOG_LEVEL string to a slog level. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func renameAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.LevelKey:
		a.Key = "level"
		lvl := a.Value.String()
		if lvl == "WARN" {
			lvl = "warning"
		} else {
			lvl = strings.ToLower(lvl)
		}
		a.Value = slog.StringValue(lvl)
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

func (l *Logger) with(args ...any) *Logger {
	return &Logger{Logger: l.With(args...), remote: l.remote}
}

// WithModule creates a new entry with module field
func (l *Logger) WithModule(module string) *Logger {
	return l.with("module", module)
}

// WithRequestID creates a new entry with request ID field
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.with("request_id", requestID)
}

// WithError creates a new entry with error field
func (l *Logger) WithError(err error) *Logger {
	return l.with("error", err)
}

// WithField creates a new entry with a single field
func (l *Logger) WithField(key string, value any) *Logger {
	return l.with(key, value)
}

// WithFields creates a new entry with multiple fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.with(args...)
}

// Shutdown flushes the remote sink, if any.
func (l *Logger) Shutdown(ctx context.Context) error {
	if l == nil || l.remote == nil {
		return nil
	}
	return l.remote.Shutdown(ctx)
}
