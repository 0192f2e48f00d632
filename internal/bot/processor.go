// Package bot turns LINE events into reply messages: menus for text
// messages and routed handlers for postbacks.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/garyellow/line-menu-bot-go/internal/config"
	"github.com/garyellow/line-menu-bot-go/internal/ctxutil"
	domerrors "github.com/garyellow/line-menu-bot-go/internal/errors"
	"github.com/garyellow/line-menu-bot-go/internal/lineutil"
	"github.com/garyellow/line-menu-bot-go/internal/metrics"
)

// User-visible replies.
const (
	MsgNoTranslation = "No translation available"
	MsgNotAvailable  = "This feature is not available yet."
	MsgTranslateBusy = "Too many translation requests. Please try again later."
)

// maxTranslateRunes caps the text carried into the language picker.
const maxTranslateRunes = 1000

// Postback route labels for metrics.
const (
	routeParams    = "params"
	routeSearch    = "search"
	routeGroup     = "group"
	routeMy        = "my"
	routeTranslate = "translate"
	routeInvalid   = "invalid"
	routeUnknown   = "unknown"
)

// Translator produces the reply text for a translation request.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	MenuVariant config.MenuVariant
	Grammar     Grammar
	Translator  Translator // nil disables the translate flow
	Metrics     *metrics.Metrics
}

// Processor builds replies for message and postback events.
// It holds no per-request state and is safe for concurrent use.
type Processor struct {
	variant    config.MenuVariant
	grammar    Grammar
	translator Translator
	metrics    *metrics.Metrics
}

// NewProcessor creates a new event processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	if cfg.MenuVariant == "" {
		cfg.MenuVariant = config.MenuButtons
	}
	if cfg.Grammar == (Grammar{}) {
		cfg.Grammar = DefaultGrammar
	}
	return &Processor{
		variant:    cfg.MenuVariant,
		grammar:    cfg.Grammar,
		translator: cfg.Translator,
		metrics:    cfg.Metrics,
	}
}

// ProcessMessage replies to a text message with exactly one menu message.
// Non-text messages produce no reply.
func (p *Processor) ProcessMessage(ctx context.Context, event webhook.MessageEvent) ([]messaging_api.MessageInterface, error) {
	textMsg, ok := event.Message.(webhook.TextMessageContent)
	if !ok {
		slog.DebugContext(ctx, "ignoring non-text message", "message_type", messageType(event.Message))
		return nil, nil
	}

	var menu messaging_api.MessageInterface
	switch p.variant {
	case config.MenuQuickReply:
		menu = QuickReplyMenu(ctxutil.GetBaseURL(ctx))
	case config.MenuTranslate:
		menu = LanguageMenu(lineutil.TruncateRunes(strings.TrimSpace(textMsg.Text), maxTranslateRunes))
	default:
		menu = MainMenu()
	}
	return []messaging_api.MessageInterface{menu}, nil
}

// ProcessPostback routes a postback. Picker params take precedence over
// the data string. Malformed or unrecognized data is logged and dropped.
func (p *Processor) ProcessPostback(ctx context.Context, event webhook.PostbackEvent) ([]messaging_api.MessageInterface, error) {
	if event.Postback == nil {
		slog.WarnContext(ctx, "postback event without payload")
		p.metrics.RecordPostbackRoute(routeInvalid)
		return nil, nil
	}

	if value, ok := pickerValue(event.Postback.Params); ok {
		p.metrics.RecordPostbackRoute(routeParams)
		return text(value), nil
	}

	values, err := p.grammar.Parse(event.Postback.Data)
	if err != nil {
		slog.WarnContext(ctx, "dropping malformed postback", "error", err)
		p.metrics.RecordPostbackRoute(routeInvalid)
		return nil, nil
	}

	switch action := values.Get(KeyAction); action {
	case ActionSearch:
		p.metrics.RecordPostbackRoute(routeSearch)
		return []messaging_api.MessageInterface{DatetimePickerCard()}, nil
	case ActionGroup, ActionMy:
		// No feature behind these buttons yet.
		p.metrics.RecordPostbackRoute(action)
		return text(MsgNotAvailable), nil
	}

	if values.Has(KeyLang) || values.Has(KeyText) {
		p.metrics.RecordPostbackRoute(routeTranslate)
		return text(p.translate(ctx, values.Get(KeyText), values.Get(KeyLang))), nil
	}

	slog.InfoContext(ctx, "dropping postback with unknown route", "data", event.Postback.Data)
	p.metrics.RecordPostbackRoute(routeUnknown)
	return nil, nil
}

var translateErrors = domerrors.NewWrapper("postback", "translate")

// translate returns the text to reply with: the translation, or the notice
// carried by the failure.
func (p *Processor) translate(ctx context.Context, userText, target string) string {
	reply, err := p.requestTranslation(ctx, userText, target)
	if err != nil {
		slog.DebugContext(ctx, "translation not delivered", "error", err)
		return domerrors.GetUserMessage(err)
	}
	return reply
}

// requestTranslation calls the translator. Every error it returns is a
// WrappedError whose user message is safe to show in the chat.
func (p *Processor) requestTranslation(ctx context.Context, userText, target string) (string, error) {
	if p.translator == nil {
		slog.WarnContext(ctx, "translate postback received but no translator configured")
		return "", translateErrors.Wrap(domerrors.ErrProviderUnavailable, MsgNoTranslation)
	}
	reply, err := p.translator.Translate(ctx, userText, target)
	switch {
	case errors.Is(err, domerrors.ErrRateLimitExceeded):
		return "", translateErrors.Wrap(err, MsgTranslateBusy)
	case err != nil:
		return "", translateErrors.Wrap(err, MsgNoTranslation)
	case reply == "":
		return "", translateErrors.Wrap(domerrors.ErrNoTranslation, MsgNoTranslation)
	}
	return reply, nil
}

// pickerValue returns the value set by a date, time or datetime picker.
func pickerValue(params map[string]string) (string, bool) {
	for _, key := range []string{ActionDatetime, ActionDate, ActionTime} {
		if v, ok := params[key]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func text(s string) []messaging_api.MessageInterface {
	return []messaging_api.MessageInterface{lineutil.NewTextMessage(s)}
}

func messageType(m webhook.MessageContentInterface) string {
	if m == nil {
		return ""
	}
	return m.GetType()
}
