package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/garyellow/line-menu-bot-go/internal/ctxutil"
	domerrors "github.com/garyellow/line-menu-bot-go/internal/errors"
	"github.com/garyellow/line-menu-bot-go/internal/metrics"
	"github.com/garyellow/line-menu-bot-go/internal/sentry"
)

// PromptSelectLanguage is returned when no target language was chosen.
const PromptSelectLanguage = "please select a language"

// Limiter admits or rejects work for a key.
type Limiter interface {
	Allow(key string) bool
}

// GatewayConfig configures a Gateway.
type GatewayConfig struct {
	// Providers are tried in order.
	Providers []Translator
	Retry     RetryConfig
	// Timeout bounds each provider attempt.
	Timeout time.Duration
	// Limiter is keyed by chat ID. Nil disables limiting.
	Limiter Limiter
	Metrics *metrics.Metrics
}

// Gateway translates user text through a provider chain.
type Gateway struct {
	providers []Translator
	retry     RetryConfig
	timeout   time.Duration
	limiter   Limiter
	metrics   *metrics.Metrics
	group     singleflight.Group
}

// NewGateway creates a gateway. MaxAttempts below 1 is treated as 1.
func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}
	return &Gateway{
		providers: cfg.Providers,
		retry:     cfg.Retry,
		timeout:   cfg.Timeout,
		limiter:   cfg.Limiter,
		metrics:   cfg.Metrics,
	}
}

// Enabled reports whether at least one provider is configured.
func (g *Gateway) Enabled() bool {
	return g != nil && len(g.providers) > 0
}

// ProviderNames lists the chain in order.
func (g *Gateway) ProviderNames() []string {
	if g == nil {
		return nil
	}
	names := make([]string, len(g.providers))
	for i, p := range g.providers {
		names[i] = p.Name()
	}
	return names
}

// Translate returns "<target>: <translated text>".
// An empty target returns PromptSelectLanguage without calling any provider.
// On failure the error is logged and returned; callers show a generic notice.
func (g *Gateway) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return PromptSelectLanguage, nil
	}

	to, err := ValidateLanguage(target)
	if err != nil {
		slog.WarnContext(ctx, "translation target rejected", "target", target, "error", err)
		return "", err
	}
	if !g.Enabled() {
		return "", domerrors.ErrProviderUnavailable
	}
	if g.limiter != nil && !g.limiter.Allow(ctxutil.GetChatID(ctx)) {
		slog.InfoContext(ctx, "translation rate limited", "target", to)
		return "", domerrors.ErrRateLimitExceeded
	}

	key := to + "\x00" + text
	leader := false
	ch := g.group.DoChan(key, func() (any, error) {
		leader = true
		flightCtx, cancel := detach(ctx)
		defer cancel()
		return g.translateChain(flightCtx, text, to)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		slog.WarnContext(ctx, "translation abandoned", "target", to, "error", ctx.Err())
		return "", fmt.Errorf("%w: %w", domerrors.ErrTimeout, ctx.Err())
	}
	// Shared is set for every caller of a deduplicated flight; count the joiners only.
	if res.Shared && !leader {
		g.metrics.RecordSingleflightDedup()
	}
	err = res.Err
	if err != nil {
		slog.ErrorContext(ctx, "translation failed",
			"target", to,
			"text_length", len(text),
			"error", err)
		sentry.CaptureExceptionWithTags(ctx, err, map[string]string{"module": "translate", "target": to})
		return "", err
	}

	result := res.Val.(*Result)
	slog.InfoContext(ctx, "translation completed",
		"provider", result.Provider,
		"target", to,
		"detected_language", result.DetectedLanguage,
		"score", result.Score)

	return Format(to, result.Text), nil
}

// detach keeps the tracing values and the deadline of ctx but not its
// cancellation, so one waiter leaving does not fail a shared flight.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := ctxutil.PreserveTracing(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return context.WithCancel(detached)
}

// Format renders a translation reply.
func Format(to, text string) string {
	return to + ": " + text
}

// translateChain walks the providers, retrying each before falling back.
// ctx is detached from the caller so a shared call survives one waiter
// leaving; each attempt carries its own timeout within ctx's deadline.
func (g *Gateway) translateChain(ctx context.Context, text, to string) (*Result, error) {
	var errs []error
	for i, provider := range g.providers {
		result, err := g.translateWithRetry(ctx, provider, text, to)
		if err == nil {
			if i > 0 {
				g.metrics.RecordTranslationFallback(g.providers[0].Name(), provider.Name())
			}
			return result, nil
		}
		errs = append(errs, err)

		action := ClassifyError(err)
		if action == ActionFail {
			break
		}
		if i+1 < len(g.providers) {
			slog.WarnContext(ctx, "translation provider failed, falling back",
				"from", provider.Name(),
				"to", g.providers[i+1].Name(),
				"action", action,
				"error", err)
		}
	}
	return nil, fmt.Errorf("%w: %w", domerrors.ErrNoTranslation, errors.Join(errs...))
}

func (g *Gateway) translateWithRetry(ctx context.Context, provider Translator, text, to string) (*Result, error) {
	var lastErr error
	for attempt := range g.retry.MaxAttempts {
		if attempt > 0 {
			backoff := CalculateBackoff(attempt, g.retry.InitialDelay, g.retry.MaxDelay)
			if !HasSufficientBudget(ctx, backoff+g.timeout) {
				slog.DebugContext(ctx, "no budget left for another attempt",
					"provider", provider.Name(),
					"attempt", attempt+1,
					"error", lastErr)
				return nil, lastErr
			}
			slog.DebugContext(ctx, "retrying translation",
				"provider", provider.Name(),
				"attempt", attempt+1,
				"backoff", backoff,
				"error", lastErr)
			if err := Sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}

		result, err := g.attempt(ctx, provider, text, to)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ClassifyError(err) != ActionRetry {
			return nil, err
		}
	}
	return nil, lastErr
}

func (g *Gateway) attempt(ctx context.Context, provider Translator, text, to string) (*Result, error) {
	attemptCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := provider.Translate(attemptCtx, text, to)
	duration := time.Since(start).Seconds()

	switch {
	case err == nil && (result == nil || result.Text == ""):
		err = &ProviderError{Provider: provider.Name(), Message: "empty translation"}
		g.metrics.RecordTranslation(provider.Name(), "error", duration)
		return nil, err
	case err == nil:
		if result.Provider == "" {
			result.Provider = provider.Name()
		}
		g.metrics.RecordTranslation(provider.Name(), "success", duration)
		return result, nil
	case errors.Is(err, context.DeadlineExceeded):
		g.metrics.RecordTranslation(provider.Name(), "timeout", duration)
		return nil, fmt.Errorf("%s: %w: %w", provider.Name(), domerrors.ErrTimeout, err)
	default:
		g.metrics.RecordTranslation(provider.Name(), "error", duration)
		return nil, err
	}
}
