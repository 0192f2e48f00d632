package translate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/garyellow/line-menu-bot-go/internal/config"
)

// NewProviders builds the provider chain in configured order.
// Providers without credentials are skipped with a warning.
func NewProviders(ctx context.Context, cfg config.TranslatorConfig, httpClient *http.Client) ([]Translator, error) {
	var providers []Translator
	for _, name := range cfg.Providers {
		if !cfg.HasCredentials(name) {
			slog.WarnContext(ctx, "translation provider skipped: no credentials", "provider", name)
			continue
		}

		switch name {
		case config.ProviderAzure:
			providers = append(providers, NewAzureTranslator(cfg.AzureEndpoint, cfg.AzureKey, cfg.AzureRegion, httpClient))
		case config.ProviderGemini:
			gemini, err := NewGeminiTranslator(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, httpClient)
			if err != nil {
				return nil, fmt.Errorf("gemini translator: %w", err)
			}
			providers = append(providers, gemini)
		case config.ProviderOpenAI:
			providers = append(providers, NewOpenAITranslator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, httpClient))
		default:
			return nil, fmt.Errorf("unknown translator provider %q", name)
		}
	}
	return providers, nil
}

// RetryFromConfig maps translator settings onto a RetryConfig.
func RetryFromConfig(cfg config.TranslatorConfig) RetryConfig {
	return RetryConfig{
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: cfg.RetryInitial,
		MaxDelay:     cfg.RetryMax,
	}
}
