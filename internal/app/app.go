// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garyellow/line-menu-bot-go/internal/bot"
	"github.com/garyellow/line-menu-bot-go/internal/buildinfo"
	"github.com/garyellow/line-menu-bot-go/internal/config"
	"github.com/garyellow/line-menu-bot-go/internal/ctxutil"
	"github.com/garyellow/line-menu-bot-go/internal/logger"
	"github.com/garyellow/line-menu-bot-go/internal/metrics"
	"github.com/garyellow/line-menu-bot-go/internal/ratelimit"
	"github.com/garyellow/line-menu-bot-go/internal/sentry"
	"github.com/garyellow/line-menu-bot-go/internal/translate"
	"github.com/garyellow/line-menu-bot-go/internal/webhook"
)

const serviceName = "line-menu-bot-go"

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg              *config.Config
	logger           *logger.Logger
	metrics          *metrics.Metrics
	registry         *prometheus.Registry
	gateway          *translate.Gateway
	translateLimiter *ratelimit.KeyedLimiter
	webhookHandler   *webhook.Handler
	router           *gin.Engine
	server           *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", serviceName)
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Package-level slog.*Context calls go through the same handler chain.
	slog.SetDefault(log.Logger)

	log.WithField("release", buildinfo.Release()).Info("Initializing application...")

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed, error tracking disabled")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error tracking enabled")
	}

	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	httpClient := &http.Client{Timeout: cfg.Translator.Timeout}
	providers, err := translate.NewProviders(ctx, cfg.Translator, httpClient)
	if err != nil {
		return nil, fmt.Errorf("translator: %w", err)
	}

	translateLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "translate",
		RatePerMinute: cfg.Bot.TranslateRatePerMinute,
		Burst:         cfg.Bot.TranslateRateBurst,
		CleanupPeriod: config.RateLimiterCleanupInterval,
		Metrics:       m,
	})

	gateway := translate.NewGateway(translate.GatewayConfig{
		Providers: providers,
		Retry:     translate.RetryFromConfig(cfg.Translator),
		Timeout:   cfg.Translator.Timeout,
		Limiter:   translateLimiter,
		Metrics:   m,
	})
	if gateway.Enabled() {
		log.WithField("providers", gateway.ProviderNames()).Info("Translation enabled")
	} else {
		log.Info("No translation provider configured")
	}

	processor := bot.NewProcessor(bot.ProcessorConfig{
		MenuVariant: cfg.Bot.MenuVariant,
		Translator:  gateway,
		Metrics:     m,
	})

	replier, err := webhook.NewLineReplier(cfg.LineChannelToken, &http.Client{Timeout: cfg.Bot.WebhookTimeout})
	if err != nil {
		translateLimiter.Stop()
		return nil, fmt.Errorf("line client: %w", err)
	}

	webhookHandler, err := webhook.NewHandler(webhook.HandlerConfig{
		ChannelSecret: cfg.LineChannelSecret,
		Processor:     processor,
		Replier:       replier,
		ReplyLimiter:  ratelimit.New("reply", cfg.Bot.GlobalReplyRPS, max(1, int(cfg.Bot.GlobalReplyRPS)), m),
		Metrics:       m,
		Logger:        log,
		Bot:           cfg.Bot,
		PublicBaseURL: cfg.PublicBaseURL,

		TrustForwardedHost: cfg.TrustForwardedHost,
	})
	if err != nil {
		translateLimiter.Stop()
		return nil, fmt.Errorf("webhook: %w", err)
	}

	app := &Application{
		cfg:              cfg,
		logger:           log,
		metrics:          m,
		registry:         registry,
		gateway:          gateway,
		translateLimiter: translateLimiter,
		webhookHandler:   webhookHandler,
	}
	app.router = app.setupRouter()

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.WithField("menu_variant", string(cfg.Bot.MenuVariant)).Info("Initialization complete")
	return app, nil
}

// setupRouter builds the gin engine with middleware and routes.
func (a *Application) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)
	router.POST("/callback", a.webhookHandler.Handle)
	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	if a.cfg.StaticDir != "" {
		router.Static("/static", a.cfg.StaticDir)
	}
	return router
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// readinessCheck reports the active configuration. The service keeps no
// state, so it is ready as soon as it is serving.
func (a *Application) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ready",
		"release":      buildinfo.Release(),
		"menu_variant": string(a.cfg.Bot.MenuVariant),
		"translation": gin.H{
			"enabled":       a.gateway.Enabled(),
			"providers":     a.gateway.ProviderNames(),
			"limited_chats": a.translateLimiter.ActiveCount(),
		},
	})
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts down.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-errCh:
		a.logger.WithError(err).Error("HTTP server error")
		_ = a.shutdown()
		return fmt.Errorf("http server: %w", err)
	}

	return a.shutdown()
}

// shutdown stops accepting requests, waits for in-flight callbacks (their
// events are processed inside the request) and then releases resources.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	var shutdownErr error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
		shutdownErr = err
	}

	a.translateLimiter.Stop()

	if sentry.IsEnabled() {
		sentry.Flush(5 * time.Second)
	}

	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}
	return shutdownErr
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Next()
	}
}

// requestID returns the caller's request ID or a new UUID.
func requestID(c *gin.Context) string {
	for _, h := range []string{"X-Request-Id", "X-Correlation-Id"} {
		if id := c.GetHeader(h); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

// loggingMiddleware attaches a request ID and logs HTTP requests with
// status-based log levels: 5xx=Error, 4xx=Warn, everything else Debug.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		id := requestID(c)
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), id))
		c.Header("X-Request-Id", id)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithRequestID(id).WithFields(map[string]any{
			"http_method": method,
			"http_path":   path,
			"http_status": status,
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})

		switch {
		case status >= 500:
			entry.Error("HTTP request failed")
		case status >= 400 && status != http.StatusNotFound:
			entry.Warn("HTTP request rejected")
		default:
			entry.Debug("HTTP request completed")
		}
	}
}
