package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Core (Required)
	EnvChannelAccessToken = "CHANNEL_ACCESS_TOKEN"
	EnvChannelSecret      = "CHANNEL_SECRET"

	// Server
	EnvPort               = "PORT"
	EnvLogLevel           = "LOG_LEVEL"
	EnvShutdownTimeout    = "SHUTDOWN_TIMEOUT"
	EnvPublicBaseURL      = "PUBLIC_BASE_URL"
	EnvTrustForwardedHost = "TRUST_FORWARDED_HOST"
	EnvStaticDir          = "STATIC_DIR"

	// Bot
	EnvMenuVariant         = "MENU_VARIANT"
	EnvWebhookTimeout      = "WEBHOOK_TIMEOUT"
	EnvMaxEventsPerWebhook = "MAX_EVENTS_PER_WEBHOOK"
	EnvGlobalReplyRPS      = "GLOBAL_REPLY_RPS"

	// Translation
	EnvTranslatorProviders    = "TRANSLATOR_PROVIDERS"
	EnvTranslatorKey          = "TRANSLATOR_KEY"
	EnvTranslatorEndpoint     = "TRANSLATOR_ENDPOINT"
	EnvTranslatorRegion       = "TRANSLATOR_REGION"
	EnvGeminiAPIKey           = "GEMINI_API_KEY"
	EnvGeminiTranslateModel   = "GEMINI_TRANSLATE_MODEL"
	EnvGeminiBaseURL          = "GEMINI_BASE_URL"
	EnvOpenAIAPIKey           = "OPENAI_API_KEY"
	EnvOpenAIBaseURL          = "OPENAI_BASE_URL"
	EnvOpenAITranslateModel   = "OPENAI_TRANSLATE_MODEL"
	EnvTranslateTimeout       = "TRANSLATE_TIMEOUT"
	EnvTranslateMaxAttempts   = "TRANSLATE_MAX_ATTEMPTS"
	EnvTranslateRetryInitial  = "TRANSLATE_RETRY_INITIAL"
	EnvTranslateRetryMax      = "TRANSLATE_RETRY_MAX"
	EnvTranslateRatePerMinute = "TRANSLATE_RATE_PER_MINUTE"
	EnvTranslateRateBurst     = "TRANSLATE_RATE_BURST"

	// Sentry Feature
	EnvSentryToken       = "SENTRY_TOKEN"
	EnvSentryHost        = "SENTRY_HOST"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "METRICS_USERNAME"
	EnvMetricsPassword = "METRICS_PASSWORD"
)
