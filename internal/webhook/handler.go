// Package webhook receives LINE webhook callbacks, dispatches each verified
// event to the bot processor and sends the resulting reply.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/garyellow/line-menu-bot-go/internal/bot"
	"github.com/garyellow/line-menu-bot-go/internal/config"
	"github.com/garyellow/line-menu-bot-go/internal/ctxutil"
	domerrors "github.com/garyellow/line-menu-bot-go/internal/errors"
	"github.com/garyellow/line-menu-bot-go/internal/lineutil"
	"github.com/garyellow/line-menu-bot-go/internal/logger"
	"github.com/garyellow/line-menu-bot-go/internal/metrics"
	"github.com/garyellow/line-menu-bot-go/internal/sentry"
)

// EventProcessor builds the reply messages for a single event.
type EventProcessor interface {
	ProcessMessage(ctx context.Context, event webhook.MessageEvent) ([]messaging_api.MessageInterface, error)
	ProcessPostback(ctx context.Context, event webhook.PostbackEvent) ([]messaging_api.MessageInterface, error)
}

// Replier sends messages using a reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, messages []messaging_api.MessageInterface) error
}

// Waiter throttles outbound calls.
type Waiter interface {
	Wait(ctx context.Context) error
}

// HandlerConfig holds the dependencies of a Handler.
type HandlerConfig struct {
	ChannelSecret string
	Processor     EventProcessor
	Replier       Replier
	ReplyLimiter  Waiter // optional
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
	Bot           config.BotConfig
	PublicBaseURL string // empty = derive from the request host

	// TrustForwardedHost lets X-Forwarded-Host override the request host.
	TrustForwardedHost bool
	// CallbackTimeout bounds all events of one callback. Zero uses
	// config.WebhookCallback.
	CallbackTimeout    time.Duration
}

// Handler handles LINE webhook callbacks.
type Handler struct {
	channelSecret  string
	processor      EventProcessor
	replier        Replier
	replyLimiter   Waiter
	metrics        *metrics.Metrics
	logger         *logger.Logger
	publicBaseURL   string
	trustForwarded  bool
	callbackTimeout time.Duration
	webhookTimeout  time.Duration
	maxEvents       int
	maxMessages     int
}

// NewHandler creates a webhook handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.ChannelSecret == "" {
		return nil, errors.New("channel secret is required")
	}
	if cfg.Processor == nil || cfg.Replier == nil {
		return nil, errors.New("processor and replier are required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.New("info")
	}

	h := &Handler{
		channelSecret:   cfg.ChannelSecret,
		processor:       cfg.Processor,
		replier:         cfg.Replier,
		replyLimiter:    cfg.ReplyLimiter,
		metrics:         cfg.Metrics,
		logger:          log.WithModule("webhook"),
		publicBaseURL:   cfg.PublicBaseURL,
		trustForwarded:  cfg.TrustForwardedHost,
		callbackTimeout: cfg.CallbackTimeout,
		webhookTimeout:  cfg.Bot.WebhookTimeout,
		maxEvents:       cfg.Bot.MaxEventsPerWebhook,
		maxMessages:     cfg.Bot.MaxMessagesPerReply,
	}
	if h.callbackTimeout <= 0 {
		h.callbackTimeout = config.WebhookCallback
	}
	if h.webhookTimeout <= 0 {
		h.webhookTimeout = config.WebhookProcessing
	}
	if h.webhookTimeout > h.callbackTimeout {
		h.webhookTimeout = h.callbackTimeout
	}
	if h.maxMessages <= 0 || h.maxMessages > config.LINEMaxMessagesPerReply {
		h.maxMessages = config.LINEMaxMessagesPerReply
	}
	return h, nil
}

// Handle processes a webhook callback.
// The signature is verified before any event is looked at. Events are then
// handled one at a time in array order and the request is answered with 200
// once all of them are done. All events share the callback budget; events
// still queued when it runs out are skipped so the 200 is always written.
func (h *Handler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.WarnContext(ctx, "Invalid webhook signature", "remote_ip", c.ClientIP())
			h.metrics.RecordWebhookRejected("invalid_signature")
			c.String(http.StatusBadRequest, "Bad Request")
			return
		}
		h.logger.WithError(err).ErrorContext(ctx, "Failed to parse webhook request")
		h.metrics.RecordWebhookRejected("parse_error")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	events := cb.Events
	if h.maxEvents > 0 && len(events) > h.maxEvents {
		h.logger.WarnContext(ctx, "Too many events in webhook, truncating",
			"count", len(events), "max", h.maxEvents)
		events = events[:h.maxEvents]
	}

	baseURL := h.publicBaseURL
	if baseURL == "" {
		baseURL = lineutil.SecureBaseURL(c.Request, h.trustForwarded)
	}
	ctx = ctxutil.WithBaseURL(ctx, baseURL)

	// Detach from the HTTP request so a dropped connection does not cancel replies.
	cbCtx, cancel := context.WithTimeout(ctxutil.PreserveTracing(ctx), h.callbackTimeout)
	defer cancel()

	for i, event := range events {
		if cbCtx.Err() != nil {
			h.skipEvents(ctx, events[i:])
			break
		}
		h.processEvent(cbCtx, event)
	}

	c.String(http.StatusOK, "OK")
}

// skipEvents records events dropped because the callback budget ran out.
func (h *Handler) skipEvents(ctx context.Context, events []webhook.EventInterface) {
	h.logger.WarnContext(ctx, "Callback budget exhausted, skipping remaining events",
		"skipped", len(events), "budget", h.callbackTimeout)
	for _, event := range events {
		eventType := "other"
		if meta, ok := extractEventMeta(event); ok {
			eventType = meta.eventType
		}
		h.metrics.RecordWebhookEvent(eventType, "skipped", 0)
	}
}

// eventMeta is the per-event data shared by all handled event types.
type eventMeta struct {
	eventType    string
	eventID      string
	replyToken   string
	source       webhook.SourceInterface
	timestamp    int64
	isRedelivery bool
}

func extractEventMeta(event webhook.EventInterface) (eventMeta, bool) {
	switch e := event.(type) {
	case webhook.MessageEvent:
		return eventMeta{
			eventType:    "message",
			eventID:      e.WebhookEventId,
			replyToken:   e.ReplyToken,
			source:       e.Source,
			timestamp:    e.Timestamp,
			isRedelivery: e.DeliveryContext != nil && e.DeliveryContext.IsRedelivery,
		}, true
	case webhook.PostbackEvent:
		return eventMeta{
			eventType:    "postback",
			eventID:      e.WebhookEventId,
			replyToken:   e.ReplyToken,
			source:       e.Source,
			timestamp:    e.Timestamp,
			isRedelivery: e.DeliveryContext != nil && e.DeliveryContext.IsRedelivery,
		}, true
	}
	return eventMeta{}, false
}

// processEvent handles one event. Failures are logged and never stop the
// remaining events of the same callback.
func (h *Handler) processEvent(parent context.Context, event webhook.EventInterface) {
	start := time.Now()

	meta, ok := extractEventMeta(event)
	if !ok {
		h.logger.DebugContext(parent, "Ignoring unsupported event", "event_type", fmt.Sprintf("%T", event))
		h.metrics.RecordWebhookEvent("other", "ignored", time.Since(start).Seconds())
		return
	}

	ctx, cancel := context.WithTimeout(parent, h.webhookTimeout)
	defer cancel()
	ctx = ctxutil.WithEventID(ctx, meta.eventID)
	ctx = ctxutil.WithChatID(ctx, bot.GetChatID(meta.source))
	ctx = ctxutil.WithUserID(ctx, bot.GetUserID(meta.source))

	log := h.logger.WithFields(map[string]any{
		"event_type":  meta.eventType,
		"source_type": bot.SourceType(meta.source),
	})
	if meta.isRedelivery {
		log.DebugContext(ctx, "Processing redelivered event", "timestamp", meta.timestamp)
	}

	status := "success"
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			log.WithError(err).ErrorContext(ctx, "Panic while processing event")
			sentry.CaptureExceptionWithTags(ctx, err, map[string]string{"event_type": meta.eventType})
			status = "panic"
		}
		h.metrics.RecordWebhookEvent(meta.eventType, status, time.Since(start).Seconds())
	}()

	var (
		messages []messaging_api.MessageInterface
		err      error
	)
	switch e := event.(type) {
	case webhook.MessageEvent:
		messages, err = h.processor.ProcessMessage(ctx, e)
	case webhook.PostbackEvent:
		messages, err = h.processor.ProcessPostback(ctx, e)
	}
	if err != nil {
		log.WithError(err).ErrorContext(ctx, "Failed to process event")
		status = "error"
		return
	}
	if len(messages) == 0 {
		status = "no_reply"
		return
	}
	if meta.replyToken == "" {
		log.WarnContext(ctx, "Event has no reply token, dropping reply")
		status = "no_reply"
		return
	}
	if len(messages) > h.maxMessages {
		log.WarnContext(ctx, "Too many reply messages, truncating",
			"count", len(messages), "max", h.maxMessages)
		messages = messages[:h.maxMessages]
	}

	if err := h.reply(ctx, meta, messages); err != nil {
		log.WithError(err).ErrorContext(ctx, "Failed to send reply")
		sentry.CaptureExceptionWithTags(ctx, err, map[string]string{"event_type": meta.eventType})
		status = "reply_error"
	}
}

func (h *Handler) reply(ctx context.Context, meta eventMeta, messages []messaging_api.MessageInterface) error {
	if h.replyLimiter != nil {
		if err := h.replyLimiter.Wait(ctx); err != nil {
			h.metrics.RecordReply("throttled")
			return domerrors.NewReplyError(meta.eventType, err)
		}
	}
	if err := h.replier.Reply(ctx, meta.replyToken, messages); err != nil {
		h.metrics.RecordReply("error")
		return domerrors.NewReplyError(meta.eventType, err)
	}
	h.metrics.RecordReply("success")
	return nil
}
