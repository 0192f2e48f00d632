package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/line-menu-bot-go/internal/metrics"
)

func TestLimiter_WaitBurst(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	l := New("reply", 0.001, 2, m)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, l.Wait(ctx))
	require.NoError(t, l.Wait(ctx))
	assert.Error(t, l.Wait(ctx), "third wait would outlast the deadline")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimiterDropped.WithLabelValues("reply")))
}

func TestLimiter_Unlimited(t *testing.T) {
	t.Parallel()

	l := New("reply", 0, 1, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for range 100 {
		assert.NoError(t, l.Wait(ctx))
	}
}

func TestLimiter_WaitRespectsDeadline(t *testing.T) {
	t.Parallel()

	l := New("reply", 0.001, 1, nil)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx))
}

func TestLimiter_WaitCanceled(t *testing.T) {
	t.Parallel()

	l := New("reply", 100, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))
}
