// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	userIDKey    contextKey = "ctxutil.userID"
	chatIDKey    contextKey = "ctxutil.chatID"
	requestIDKey contextKey = "ctxutil.requestID"
	eventIDKey   contextKey = "ctxutil.eventID"
	baseURLKey   contextKey = "ctxutil.baseURL"
)

// WithUserID adds a LINE user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not set.
func GetUserID(ctx context.Context) string {
	return getString(ctx, userIDKey)
}

// WithChatID adds a chat ID to the context.
// Chat ID identifies the conversation (user, group, or room) in LINE and
// keys the per-chat translation limiter.
func WithChatID(ctx context.Context, chatID string) context.Context {
	return context.WithValue(ctx, chatIDKey, chatID)
}

// GetChatID retrieves the chat ID from the context.
func GetChatID(ctx context.Context) string {
	return getString(ctx, chatIDKey)
}

// WithRequestID adds a request ID to the context for tracing.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// WithEventID adds a LINE webhook event ID to the context.
func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, eventIDKey, eventID)
}

// GetEventID retrieves the webhook event ID from the context.
func GetEventID(ctx context.Context) string {
	return getString(ctx, eventIDKey)
}

// WithBaseURL stores the public https base URL used to build absolute
// static asset URLs (quick reply icons) for the current callback.
func WithBaseURL(ctx context.Context, baseURL string) context.Context {
	return context.WithValue(ctx, baseURLKey, baseURL)
}

// GetBaseURL retrieves the public base URL from the context.
func GetBaseURL(ctx context.Context) string {
	return getString(ctx, baseURLKey)
}

// PreserveTracing creates a detached context that keeps tracing values
// but drops the parent's cancellation and deadline.
//
// Each webhook event gets its own processing budget derived from this, so a
// slow event cannot eat into the next event's time.
func PreserveTracing(ctx context.Context) context.Context {
	newCtx := context.Background()

	if userID := GetUserID(ctx); userID != "" {
		newCtx = WithUserID(newCtx, userID)
	}
	if chatID := GetChatID(ctx); chatID != "" {
		newCtx = WithChatID(newCtx, chatID)
	}
	if requestID, ok := GetRequestID(ctx); ok && requestID != "" {
		newCtx = WithRequestID(newCtx, requestID)
	}
	if eventID := GetEventID(ctx); eventID != "" {
		newCtx = WithEventID(newCtx, eventID)
	}
	if baseURL := GetBaseURL(ctx); baseURL != "" {
		newCtx = WithBaseURL(newCtx, baseURL)
	}

	return newCtx
}

func getString(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
