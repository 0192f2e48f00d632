package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/garyellow/line-menu-bot-go/internal/ctxutil"
)

const (
	providerAzure   = "azure"
	azureAPIVersion = "3.0"
	maxResponseBody = 1 << 20
)

// AzureTranslator calls the Azure AI Translator text v3 REST API.
type AzureTranslator struct {
	endpoint   string
	key        string
	region     string
	httpClient *http.Client
}

// NewAzureTranslator creates a client for the given endpoint.
// region may be empty for global single-service resources.
func NewAzureTranslator(endpoint, key, region string, httpClient *http.Client) *AzureTranslator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &AzureTranslator{
		endpoint:   strings.TrimRight(endpoint, "/"),
		key:        key,
		region:     region,
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (a *AzureTranslator) Name() string { return providerAzure }

type azureRequestItem struct {
	Text string `json:"Text"`
}

type azureResponseItem struct {
	DetectedLanguage *struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage"`
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

type azureErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Translate sends one text to /translate and returns the first translation.
func (a *AzureTranslator) Translate(ctx context.Context, text, to string) (*Result, error) {
	body, err := json.Marshal([]azureRequestItem{{Text: text}})
	if err != nil {
		return nil, fmt.Errorf("marshal azure request: %w", err)
	}

	query := url.Values{}
	query.Set("api-version", azureAPIVersion)
	query.Set("to", to)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/translate?"+query.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create azure request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)
	if a.region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", a.region)
	}
	req.Header.Set("X-ClientTraceId", traceID(ctx))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: providerAzure, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &ProviderError{Provider: providerAzure, StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseAzureError(resp.StatusCode, payload)
	}

	var items []azureResponseItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, &ProviderError{Provider: providerAzure, StatusCode: resp.StatusCode, Message: "decode response", Err: err}
	}
	if len(items) == 0 || len(items[0].Translations) == 0 {
		return nil, &ProviderError{Provider: providerAzure, StatusCode: resp.StatusCode, Message: "empty translation list"}
	}

	item := items[0]
	result := &Result{
		Text:     item.Translations[0].Text,
		To:       item.Translations[0].To,
		Provider: providerAzure,
	}
	if item.DetectedLanguage != nil {
		result.DetectedLanguage = item.DetectedLanguage.Language
		result.Score = item.DetectedLanguage.Score
	}
	return result, nil
}

func parseAzureError(status int, payload []byte) *ProviderError {
	pe := &ProviderError{Provider: providerAzure, StatusCode: status, Message: http.StatusText(status)}
	var body azureErrorBody
	if err := json.Unmarshal(payload, &body); err == nil && body.Error.Code != 0 {
		pe.Code = strconv.Itoa(body.Error.Code)
		pe.Message = body.Error.Message
	}
	return pe
}

// traceID reuses the inbound request ID so Azure-side logs can be correlated.
func traceID(ctx context.Context) string {
	if id, ok := ctxutil.GetRequestID(ctx); ok && id != "" {
		if parsed, err := uuid.Parse(id); err == nil {
			return parsed.String()
		}
	}
	return uuid.NewString()
}
