package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const providerGemini = "gemini"

// GeminiTranslator translates with a Gemini model.
type GeminiTranslator struct {
	client *genai.Client
	model  string
}

// NewGeminiTranslator creates a Gemini-backed translator. An empty baseURL
// uses generativelanguage.googleapis.com and a nil httpClient the SDK default.
func NewGeminiTranslator(ctx context.Context, apiKey, baseURL, model string, httpClient *http.Client) (*GeminiTranslator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiTranslator{client: client, model: model}, nil
}

// Name returns the provider name.
func (g *GeminiTranslator) Name() string { return providerGemini }

// Translate asks the model for a translation of text into to.
func (g *GeminiTranslator) Translate(ctx context.Context, text, to string) (*Result, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: 1024,
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(translationPrompt(text, to)), config)
	if err != nil {
		pe := &ProviderError{Provider: providerGemini, Message: err.Error(), Err: err}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			pe.StatusCode = apiErr.Code
			pe.Code = apiErr.Status
			pe.Message = apiErr.Message
		}
		return nil, pe
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &ProviderError{Provider: providerGemini, Message: "empty response"}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			out.WriteString(part.Text)
		}
	}
	translated := strings.TrimSpace(out.String())
	if translated == "" {
		return nil, &ProviderError{Provider: providerGemini, Message: "empty response"}
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "gemini translation completed",
			"model", g.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms", time.Since(start).Milliseconds())
	}

	return &Result{Text: translated, To: to, Provider: providerGemini}, nil
}
