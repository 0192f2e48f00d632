package translate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const providerOpenAI = "openai"

// OpenAITranslator translates with any OpenAI-compatible chat completion API.
type OpenAITranslator struct {
	client openai.Client
	model  string
}

// NewOpenAITranslator creates a translator. An empty baseURL uses api.openai.com
// and a nil httpClient the SDK default. SDK retries are off; the gateway
// owns the retry policy.
func NewOpenAITranslator(apiKey, baseURL, model string, httpClient *http.Client) *OpenAITranslator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAITranslator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Name returns the provider name.
func (o *OpenAITranslator) Name() string { return providerOpenAI }

// Translate asks the model for a translation of text into to.
func (o *OpenAITranslator) Translate(ctx context.Context, text, to string) (*Result, error) {
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(translationPrompt(text, to)),
		},
		Temperature: openai.Float(0.2),
		MaxTokens:   openai.Int(1024),
	}

	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		pe := &ProviderError{Provider: providerOpenAI, Message: err.Error(), Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			pe.StatusCode = apiErr.StatusCode
			pe.Code = apiErr.Code
			if apiErr.Message != "" {
				pe.Message = apiErr.Message
			}
		}
		return nil, pe
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: providerOpenAI, Message: "empty response"}
	}
	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return nil, &ProviderError{Provider: providerOpenAI, Message: "empty response"}
	}

	slog.DebugContext(ctx, "openai translation completed",
		"model", o.model,
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds())

	return &Result{Text: translated, To: to, Provider: providerOpenAI}, nil
}
