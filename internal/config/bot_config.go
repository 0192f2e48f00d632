package config

import (
	"errors"
	"fmt"
	"time"
)

// LINE Messaging API constraints.
// https://developers.line.biz/en/reference/messaging-api/
const (
	LINEMaxMessagesPerReply   = 5
	LINEMaxEventsPerWebhook   = 100
	LINEMaxPostbackDataLength = 300
)

// MenuVariant selects which menu a plain text message is answered with.
type MenuVariant string

const (
	// MenuButtons replies with the search/group/my buttons template.
	MenuButtons MenuVariant = "buttons"
	// MenuQuickReply replies with a text message carrying the 8-item quick reply.
	MenuQuickReply MenuVariant = "quickreply"
	// MenuTranslate replies with a language picker for the received text.
	MenuTranslate MenuVariant = "translate"
)

// Valid reports whether v is a known menu variant.
func (v MenuVariant) Valid() bool {
	switch v {
	case MenuButtons, MenuQuickReply, MenuTranslate:
		return true
	}
	return false
}

// BotConfig holds bot behaviour settings.
type BotConfig struct {
	MenuVariant MenuVariant

	// Webhook
	WebhookTimeout      time.Duration // per-event budget
	MaxEventsPerWebhook int
	MaxMessagesPerReply int

	// Rate limits
	GlobalReplyRPS         float64
	TranslateRatePerMinute float64 // per chat
	TranslateRateBurst     int
}

// DefaultBotConfig returns default configuration values.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		MenuVariant:            MenuButtons,
		WebhookTimeout:         WebhookProcessing,
		MaxEventsPerWebhook:    LINEMaxEventsPerWebhook,
		MaxMessagesPerReply:    LINEMaxMessagesPerReply,
		GlobalReplyRPS:         80.0, // LINE allows 100 RPS
		TranslateRatePerMinute: 10.0,
		TranslateRateBurst:     5,
	}
}

// Validate checks bot settings.
func (c *BotConfig) Validate() error {
	var errs []error

	if !c.MenuVariant.Valid() {
		errs = append(errs, fmt.Errorf("%s must be one of buttons, quickreply, translate; got %q", EnvMenuVariant, c.MenuVariant))
	}
	if c.WebhookTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvWebhookTimeout, c.WebhookTimeout))
	}
	if c.WebhookTimeout > WebhookCallback {
		errs = append(errs, fmt.Errorf("%s must not exceed the callback budget %v", EnvWebhookTimeout, WebhookCallback))
	}
	if c.MaxEventsPerWebhook <= 0 {
		errs = append(errs, errors.New("max events per webhook must be positive"))
	}
	if c.MaxMessagesPerReply <= 0 || c.MaxMessagesPerReply > LINEMaxMessagesPerReply {
		errs = append(errs, fmt.Errorf("max messages per reply must be 1..%d", LINEMaxMessagesPerReply))
	}
	if c.GlobalReplyRPS <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", EnvGlobalReplyRPS))
	}
	if c.TranslateRatePerMinute <= 0 || c.TranslateRateBurst <= 0 {
		errs = append(errs, errors.New("translate rate limit and burst must be positive"))
	}

	return errors.Join(errs...)
}
