// Package config provides application configuration management.
// It loads settings from environment variables (optionally seeded from a
// .env file) and validates them once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// It is built once by Load and treated as read-only afterwards.
type Config struct {
	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	PublicBaseURL   string // Overrides the request-derived base URL for icons
	StaticDir       string

	// TrustForwardedHost lets X-Forwarded-Host pick the icon host.
	// Enable only behind a proxy that overwrites the header.
	TrustForwardedHost bool

	// Metrics Authentication
	MetricsUsername string
	MetricsPassword string // empty = no auth

	// Sentry (Better Stack errors)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	SentrySampleRate  float64

	// Better Stack logs
	BetterStackToken    string
	BetterStackEndpoint string

	Bot        BotConfig
	Translator TranslatorConfig
}

// TranslatorConfig configures the translation provider chain.
type TranslatorConfig struct {
	// Providers is the ordered fallback chain (azure, gemini, openai).
	Providers []string

	AzureKey      string
	AzureEndpoint string
	AzureRegion   string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string // empty = generativelanguage.googleapis.com

	OpenAIAPIKey  string
	OpenAIBaseURL string // empty = api.openai.com
	OpenAIModel   string

	Timeout      time.Duration // per attempt
	MaxAttempts  int
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// Load reads configuration from environment variables.
// It attempts to load .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	bot := DefaultBotConfig()

	cfg := &Config{
		LineChannelToken:  getEnv(EnvChannelAccessToken, ""),
		LineChannelSecret: getEnv(EnvChannelSecret, ""),

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		PublicBaseURL:   getEnv(EnvPublicBaseURL, ""),
		StaticDir:       getEnv(EnvStaticDir, "./static"),

		TrustForwardedHost: getBoolEnv(EnvTrustForwardedHost, false),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		Bot: BotConfig{
			MenuVariant:            MenuVariant(strings.ToLower(getEnv(EnvMenuVariant, string(bot.MenuVariant)))),
			WebhookTimeout:         getDurationEnv(EnvWebhookTimeout, bot.WebhookTimeout),
			MaxEventsPerWebhook:    getIntEnv(EnvMaxEventsPerWebhook, bot.MaxEventsPerWebhook),
			MaxMessagesPerReply:    bot.MaxMessagesPerReply,
			GlobalReplyRPS:         getFloatEnv(EnvGlobalReplyRPS, bot.GlobalReplyRPS),
			TranslateRatePerMinute: getFloatEnv(EnvTranslateRatePerMinute, bot.TranslateRatePerMinute),
			TranslateRateBurst:     getIntEnv(EnvTranslateRateBurst, bot.TranslateRateBurst),
		},

		Translator: TranslatorConfig{
			Providers:     getListEnv(EnvTranslatorProviders, []string{"azure"}),
			AzureKey:      getEnv(EnvTranslatorKey, ""),
			AzureEndpoint: getEnv(EnvTranslatorEndpoint, "https://api.cognitive.microsofttranslator.com"),
			AzureRegion:   getEnv(EnvTranslatorRegion, ""),
			GeminiAPIKey:  getEnv(EnvGeminiAPIKey, ""),
			GeminiModel:   getEnv(EnvGeminiTranslateModel, "gemini-2.5-flash-lite"),
			GeminiBaseURL: getEnv(EnvGeminiBaseURL, ""),
			OpenAIAPIKey:  getEnv(EnvOpenAIAPIKey, ""),
			OpenAIBaseURL: getEnv(EnvOpenAIBaseURL, ""),
			OpenAIModel:   getEnv(EnvOpenAITranslateModel, "gpt-4o-mini"),
			Timeout:       getDurationEnv(EnvTranslateTimeout, TranslateRequest),
			MaxAttempts:   getIntEnv(EnvTranslateMaxAttempts, 2),
			RetryInitial:  getDurationEnv(EnvTranslateRetryInitial, TranslateRetryInitial),
			RetryMax:      getDurationEnv(EnvTranslateRetryMax, TranslateRetryMax),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set.
func (c *Config) Validate() error {
	var errs []error

	if c.LineChannelToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvChannelAccessToken))
	}
	if c.LineChannelSecret == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvChannelSecret))
	}
	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.SentryToken != "" && c.SentryHost == "" {
		errs = append(errs, fmt.Errorf("%s is required when %s is set", EnvSentryHost, EnvSentryToken))
	}
	if c.PublicBaseURL != "" && !strings.HasPrefix(c.PublicBaseURL, "http://") && !strings.HasPrefix(c.PublicBaseURL, "https://") {
		errs = append(errs, fmt.Errorf("%s must be an absolute http(s) URL, got %q", EnvPublicBaseURL, c.PublicBaseURL))
	}
	if err := c.Bot.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("bot config: %w", err))
	}
	if err := c.Translator.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("translator config: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the translator chain settings.
// Providers without credentials are allowed here and skipped at startup.
func (t *TranslatorConfig) Validate() error {
	var errs []error

	for _, p := range t.Providers {
		switch p {
		case ProviderAzure, ProviderGemini, ProviderOpenAI:
		default:
			errs = append(errs, fmt.Errorf("unknown translator provider %q", p))
		}
	}
	if t.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvTranslateTimeout, t.Timeout))
	}
	if t.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", EnvTranslateMaxAttempts, t.MaxAttempts))
	}
	if t.RetryInitial < 0 || t.RetryMax < t.RetryInitial {
		errs = append(errs, fmt.Errorf("invalid retry backoff range %v..%v", t.RetryInitial, t.RetryMax))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Translator provider names accepted in TRANSLATOR_PROVIDERS.
const (
	ProviderAzure  = "azure"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// HasCredentials reports whether the named provider has an API key configured.
func (t *TranslatorConfig) HasCredentials(provider string) bool {
	switch provider {
	case ProviderAzure:
		return t.AzureKey != ""
	case ProviderGemini:
		return t.GeminiAPIKey != ""
	case ProviderOpenAI:
		return t.OpenAIAPIKey != ""
	default:
		return false
	}
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getListEnv reads a comma-separated list, trimming blanks and lowercasing entries.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
