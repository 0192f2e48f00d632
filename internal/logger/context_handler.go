package logger

import (
	"context"
	"log/slog"

	"github.com/garyellow/line-menu-bot-go/internal/ctxutil"
)

// ContextHandler adds tracing values stored by ctxutil (request_id,
// event_id, chat_id, user_id) to every record logged with a context.
// Empty values are skipped.
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler creates a new ContextHandler that wraps the provided handler.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle enriches the record and delegates to the wrapped handler.
// Canceling ctx does not affect record processing (per slog.Handler contract).
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestID, ok := ctxutil.GetRequestID(ctx); ok && requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	if eventID := ctxutil.GetEventID(ctx); eventID != "" {
		r.AddAttrs(slog.String("event_id", eventID))
	}
	if chatID := ctxutil.GetChatID(ctx); chatID != "" {
		r.AddAttrs(slog.String("chat_id", chatID))
	}
	if userID := ctxutil.GetUserID(ctx); userID != "" {
		r.AddAttrs(slog.String("user_id", userID))
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new ContextHandler whose wrapped handler carries attrs.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup returns a new ContextHandler whose wrapped handler opens group name.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}
