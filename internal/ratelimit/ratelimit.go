// Package ratelimit provides token bucket limiters built on golang.org/x/time/rate.
// Limiter throttles a shared resource (outbound replies); KeyedLimiter keeps
// one bucket per chat for translation requests.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/garyellow/line-menu-bot-go/internal/metrics"
)

// Limiter is a single token bucket that callers wait on.
// It is safe for concurrent use.
type Limiter struct {
	name    string
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

// New creates a limiter refilling perSecond tokens with the given burst.
// A non-positive rate disables limiting.
func New(name string, perSecond float64, burst int, m *metrics.Metrics) *Limiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		name:    name,
		limiter: rate.NewLimiter(limit, burst),
		metrics: m,
	}
}

// Wait blocks until a token is available or ctx is done.
// A wait that would outlast the context deadline fails immediately.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		l.metrics.RecordRateLimiterDrop(l.name)
		return err
	}
	return nil
}
