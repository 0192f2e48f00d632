// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookEventsTotal     *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRejectedTotal   *prometheus.CounterVec

	// Postback routing
	PostbackRoutesTotal *prometheus.CounterVec

	// Translation metrics
	TranslationRequestsTotal   *prometheus.CounterVec
	TranslationDurationSeconds *prometheus.HistogramVec
	TranslationFallbacksTotal  *prometheus.CounterVec
	SingleflightDedupTotal     prometheus.Counter

	// Reply metrics
	RepliesTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_webhook_events_total",
				Help: "Total number of webhook events by event type and status",
			},
			[]string{"event_type", "status"}, // status: success, error, ignored
		),

		WebhookDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linebot_webhook_duration_seconds",
				Help:    "Per-event processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"event_type"},
		),

		WebhookRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_webhook_rejected_total",
				Help: "Webhook requests rejected before dispatch by reason",
			},
			[]string{"reason"}, // reason: invalid_signature, parse_error
		),

		PostbackRoutesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_postback_routes_total",
				Help: "Postback events by resolved route",
			},
			[]string{"route"}, // route: params, search, group, my, translate, invalid, unknown
		),

		TranslationRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_translation_requests_total",
				Help: "Translation provider calls by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error, timeout
		),

		TranslationDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linebot_translation_duration_seconds",
				Help:    "Translation provider call duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider"},
		),

		TranslationFallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_translation_fallbacks_total",
				Help: "Translation requests that moved to the next provider in the chain",
			},
			[]string{"from", "to"},
		),

		SingleflightDedupTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "linebot_singleflight_dedup_total",
				Help: "Translation requests that shared an in-flight result",
			},
		),

		RepliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_replies_total",
				Help: "Reply API calls by status",
			},
			[]string{"status"}, // status: success, error
		),

		RateLimiterDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: translate, reply
		),
	}
}

// NewRegistry returns a registry with Go, process and build collectors attached.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	return registry
}

// RecordWebhookEvent records one processed webhook event.
func (m *Metrics) RecordWebhookEvent(eventType, status string, duration float64) {
	if m == nil {
		return
	}
	m.WebhookEventsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordWebhookRejected records a request refused before dispatch.
func (m *Metrics) RecordWebhookRejected(reason string) {
	if m == nil {
		return
	}
	m.WebhookRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordPostbackRoute records the route a postback resolved to.
func (m *Metrics) RecordPostbackRoute(route string) {
	if m == nil {
		return
	}
	m.PostbackRoutesTotal.WithLabelValues(route).Inc()
}

// RecordTranslation records a single provider call.
func (m *Metrics) RecordTranslation(provider, status string, duration float64) {
	if m == nil {
		return
	}
	m.TranslationRequestsTotal.WithLabelValues(provider, status).Inc()
	m.TranslationDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordTranslationFallback records a hand-off between providers.
func (m *Metrics) RecordTranslationFallback(from, to string) {
	if m == nil {
		return
	}
	m.TranslationFallbacksTotal.WithLabelValues(from, to).Inc()
}

// RecordSingleflightDedup records a request that reused an in-flight result.
func (m *Metrics) RecordSingleflightDedup() {
	if m == nil {
		return
	}
	m.SingleflightDedupTotal.Inc()
}

// RecordReply records a reply API call outcome.
func (m *Metrics) RecordReply(status string) {
	if m == nil {
		return
	}
	m.RepliesTotal.WithLabelValues(status).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	if m == nil {
		return
	}
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}
