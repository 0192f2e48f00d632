package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAITranslator_Translate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		if assert.Len(t, body.Messages, 1) {
			assert.Equal(t, "user", body.Messages[0].Role)
			assert.Contains(t, body.Messages[0].Content, "hello")
			assert.Contains(t, body.Messages[0].Content, "Japanese")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":"gpt-test",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":" こんにちは\n"}}],` +
			`"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`))
	}))
	defer server.Close()

	openai := NewOpenAITranslator("test-key", server.URL+"/v1", "gpt-test", server.Client())
	result, err := openai.Translate(context.Background(), "hello", "ja")
	require.NoError(t, err)
	assert.Equal(t, "こんにちは", result.Text)
	assert.Equal(t, "ja", result.To)
	assert.Equal(t, "openai", result.Provider)
}

func TestOpenAITranslator_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantAction ErrorAction
	}{
		{
			name:       "invalid key falls back",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","param":null,"code":"invalid_api_key"}}`,
			wantCode:   "invalid_api_key",
			wantAction: ActionFallback,
		},
		{
			name:       "quota falls back",
			status:     http.StatusForbidden,
			body:       `{"error":{"message":"Country not supported","type":"request_forbidden","param":null,"code":"unsupported_country_region_territory"}}`,
			wantCode:   "unsupported_country_region_territory",
			wantAction: ActionFallback,
		},
		{
			name:       "overload retries in the gateway only",
			status:     http.StatusServiceUnavailable,
			body:       `{"error":{"message":"The engine is currently overloaded","type":"server_error","param":null,"code":null}}`,
			wantAction: ActionRetry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewOpenAITranslator("k", server.URL, "gpt-test", server.Client()).Translate(context.Background(), "hi", "en")
			require.Error(t, err)

			var pe *ProviderError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, "openai", pe.Provider)
			assert.Equal(t, tt.status, pe.StatusCode)
			assert.Equal(t, tt.wantCode, pe.Code)
			assert.Equal(t, tt.wantAction, ClassifyError(err))
			assert.Equal(t, int32(1), calls.Load(), "the SDK must not retry on its own")
		})
	}
}

func TestOpenAITranslator_EmptyResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"id":"c","object":"chat.completion","created":1,"model":"m","choices":[]}`},
		{"blank content", `{"id":"c","object":"chat.completion","created":1,"model":"m",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  "}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewOpenAITranslator("k", server.URL, "m", server.Client()).Translate(context.Background(), "hi", "en")
			var pe *ProviderError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, "empty response", pe.Message)
		})
	}
}
