package translate

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"time"
)

// RetryConfig controls per-provider retries.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// CalculateBackoff returns the delay before retry number attempt (1-based),
// using full jitter: random(0, min(maxDelay, initial * 2^(attempt-1))).
//
// Reference: https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter/
func CalculateBackoff(attempt int, initial, maxDelay time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := time.Duration(float64(initial) * math.Pow(2, float64(attempt-1)))
	if delay > maxDelay {
		delay = maxDelay
	}
	if delay <= 0 {
		return 0
	}

	jitter, err := rand.Int(rand.Reader, big.NewInt(int64(delay)))
	if err != nil {
		return delay / 2
	}
	return time.Duration(jitter.Int64())
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HasSufficientBudget reports whether ctx has at least required time left.
func HasSufficientBudget(ctx context.Context, required time.Duration) bool {
	deadline, ok := ctx.Deadline()
	if !ok {
		return true
	}
	return time.Until(deadline) >= required
}
