package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/line-menu-bot-go/internal/config"
)

// setupTestApp builds a full Application without translation providers or Sentry.
// Initialize replaces slog's default logger, so these tests do not run in parallel.
func setupTestApp(t *testing.T) *Application {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "camera.png"), []byte("png"), 0o600))

	cfg := &config.Config{
		LineChannelToken:  "test-token",
		LineChannelSecret: "test-secret",
		Port:              "0",
		LogLevel:          "error",
		ShutdownTimeout:   time.Second,
		StaticDir:         staticDir,
		MetricsUsername:   "prometheus",
		Bot: config.BotConfig{
			MenuVariant:            config.MenuButtons,
			WebhookTimeout:         5 * time.Second,
			MaxEventsPerWebhook:    100,
			MaxMessagesPerReply:    config.LINEMaxMessagesPerReply,
			GlobalReplyRPS:         80,
			TranslateRatePerMinute: 10,
			TranslateRateBurst:     5,
		},
		Translator: config.TranslatorConfig{
			Timeout:     time.Second,
			MaxAttempts: 1,
		},
	}

	app, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(app.translateLimiter.Stop)
	return app
}

func serve(app *Application, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func TestLivenessCheck(t *testing.T) {
	app := setupTestApp(t)

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		w := serve(app, httptest.NewRequest(method, "/livez", nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s /livez: expected status 200, got %d", method, w.Code)
		}
	}

	w := serve(app, httptest.NewRequest(http.MethodGet, "/livez", nil))
	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse JSON response: %v", err)
	}
	if status, ok := response["status"].(string); !ok || status != "alive" {
		t.Errorf("Expected status='alive', got %v", response["status"])
	}
}

func TestReadinessCheck(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Status      string `json:"status"`
		MenuVariant string `json:"menu_variant"`
		Release     string `json:"release"`
		Translation struct {
			Enabled      bool `json:"enabled"`
			LimitedChats *int `json:"limited_chats"`
		} `json:"translation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ready", response.Status)
	assert.Equal(t, "buttons", response.MenuVariant)
	assert.NotEmpty(t, response.Release)
	assert.False(t, response.Translation.Enabled)
	require.NotNil(t, response.Translation.LimitedChats)
	assert.Zero(t, *response.Translation.LimitedChats)

	app.translateLimiter.Allow("C1")
	w = serve(app, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, *response.Translation.LimitedChats)
}

func TestCallback_RejectsBadSignature(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(`{"events":[]}`))
	req.Header.Set("X-Line-Signature", "invalid")
	w := serve(app, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestStaticAssets(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/static/camera.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())

	w = serve(app, httptest.NewRequest(http.MethodGet, "/static/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRequestIDPropagation(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := serve(app, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))

	w = serve(app, httptest.NewRequest(http.MethodGet, "/livez", nil))
	_, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	assert.NoError(t, err, "a request ID is generated when none is sent")
}
