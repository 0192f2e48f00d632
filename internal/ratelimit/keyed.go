package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/garyellow/line-menu-bot-go/internal/metrics"
)

// KeyedConfig configures a KeyedLimiter instance.
type KeyedConfig struct {
	// Name identifies this limiter in metrics (e.g., "translate").
	Name string

	RatePerMinute float64
	Burst         int

	// CleanupPeriod controls how often idle buckets are evicted.
	CleanupPeriod time.Duration

	Metrics *metrics.Metrics
}

// KeyedLimiter tracks rate limits per key (chat ID). Buckets that have
// refilled completely are evicted by a background loop until Stop is called.
type KeyedLimiter struct {
	mu      sync.RWMutex
	entries map[string]*rate.Limiter
	config  KeyedConfig
	limit   rate.Limit
	stopCh  chan struct{}
	once    sync.Once
}

// NewKeyedLimiter creates a new per-key rate limiter.
//
//	limiter := NewKeyedLimiter(KeyedConfig{Name: "translate", RatePerMinute: 10, Burst: 5})
//	defer limiter.Stop()
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}
	limit := rate.Limit(cfg.RatePerMinute / 60)
	if cfg.RatePerMinute <= 0 {
		limit = rate.Inf
	}

	kl := &KeyedLimiter{
		entries: make(map[string]*rate.Limiter),
		config:  cfg,
		limit:   limit,
		stopCh:  make(chan struct{}),
	}
	go kl.cleanupLoop()
	return kl
}

// Allow reports whether a request for key may proceed, consuming a token.
// The empty key is never limited.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}
	if kl.getOrCreate(key).Allow() {
		return true
	}
	kl.config.Metrics.RecordRateLimiterDrop(kl.config.Name)
	return false
}

func (kl *KeyedLimiter) getOrCreate(key string) *rate.Limiter {
	kl.mu.RLock()
	lim, ok := kl.entries[key]
	kl.mu.RUnlock()
	if ok {
		return lim
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()

	// Double-check after acquiring write lock
	if lim, ok = kl.entries[key]; ok {
		return lim
	}
	lim = rate.NewLimiter(kl.limit, kl.config.Burst)
	kl.entries[key] = lim
	return lim
}

// ActiveCount returns the number of tracked keys.
func (kl *KeyedLimiter) ActiveCount() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.entries)
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stopCh:
			return
		case <-ticker.C:
			kl.evictIdle()
		}
	}
}

// evictIdle drops buckets that are back at full burst.
func (kl *KeyedLimiter) evictIdle() {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	for key, lim := range kl.entries {
		if lim.Tokens() >= float64(kl.config.Burst) {
			delete(kl.entries, key)
		}
	}
}

// Stop stops the cleanup goroutine. Safe to call multiple times.
func (kl *KeyedLimiter) Stop() {
	kl.once.Do(func() { close(kl.stopCh) })
}
