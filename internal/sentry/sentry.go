// Package sentry wires the Sentry Go SDK to Better Stack error tracking.
// Capture helpers attach the chat and event identifiers from the request
// context so errors can be matched to log lines.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/garyellow/line-menu-bot-go/internal/ctxutil"
)

// Config holds Sentry configuration for Better Stack integration.
type Config struct {
	// Token is the Better Stack Errors application token.
	Token string

	// Host is the Better Stack Errors ingesting host (e.g., "errors.betterstack.com").
	Host string

	Environment string
	Release     string

	// SampleRate controls error sampling (0.0-1.0). Zero or negative means 1.0.
	SampleRate float64

	Debug bool
}

// DSN returns the Better Stack DSN, https://$TOKEN@$HOST/1.
// The project ID is required by the SDK and ignored by Better Stack.
func (c Config) DSN() string {
	return fmt.Sprintf("https://%s@%s/1", c.Token, c.Host)
}

// Initialize sets up the Sentry SDK. An empty Token disables Sentry.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}
	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN(),
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush waits for buffered events to be sent to the server.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled returns true if Sentry is initialized and active.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureExceptionWithTags captures err on the request hub (set by
// sentrygin) or the global hub, tagged with ctxutil identifiers plus tags.
func CaptureExceptionWithTags(ctx context.Context, err error, tags map[string]string) {
	if err == nil || !IsEnabled() {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(contextTags(ctx, tags))
		hub.CaptureException(err)
	})
}

func contextTags(ctx context.Context, extra map[string]string) map[string]string {
	tags := make(map[string]string, len(extra)+3)
	if id, ok := ctxutil.GetRequestID(ctx); ok && id != "" {
		tags["request_id"] = id
	}
	if id := ctxutil.GetEventID(ctx); id != "" {
		tags["event_id"] = id
	}
	if id := ctxutil.GetChatID(ctx); id != "" {
		tags["chat_id"] = id
	}
	for k, v := range extra {
		tags[k] = v
	}
	return tags
}
