// LINE API constraints that shape these values:
//   - Reply token: single-use, expires shortly after the event, reply ASAP
//   - Webhook response: LINE expects 200 within a few seconds and redelivers otherwise
//
// Events are processed before the callback responds, so the per-event budget
// and translation timeout must stay well inside the HTTP write timeout.
package config

import "time"

// Webhook timeouts
const (
	// WebhookProcessing is the default budget for processing a single event,
	// including the translation call and the reply call.
	WebhookProcessing = 25 * time.Second

	// WebhookCallback bounds all events of one callback together.
	// Events still waiting when it runs out are skipped so the 200 response
	// is written before WebhookHTTPWrite.
	WebhookCallback = 27 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout.
	// LINE sends small JSON payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	// Must cover WebhookCallback plus response serialization.
	WebhookHTTPWrite = 30 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Translation timeouts
const (
	// TranslateRequest is the default per-attempt timeout for a translation call.
	TranslateRequest = 10 * time.Second

	// TranslateRetryInitial is the base delay for full-jitter backoff.
	TranslateRetryInitial = 500 * time.Millisecond

	// TranslateRetryMax caps a single backoff delay.
	TranslateRetryMax = 3 * time.Second
)

// Background intervals
const (
	// RateLimiterCleanupInterval is how often idle per-chat limiters are dropped.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Shutdown
const (
	// GracefulShutdown is the default timeout for graceful server shutdown.
	GracefulShutdown = 30 * time.Second
)
