package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}
	if m.WebhookEventsTotal == nil || m.TranslationRequestsTotal == nil || m.RepliesTotal == nil {
		t.Error("expected core collectors to be initialized")
	}
}

func TestRecordWebhookEvent(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordWebhookEvent("message", "success", 0.2)
	m.RecordWebhookEvent("message", "success", 0.1)
	m.RecordWebhookEvent("postback", "error", 0.3)

	if got := testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("message", "success")); got != 2 {
		t.Errorf("message/success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("postback", "error")); got != 1 {
		t.Errorf("postback/error = %v, want 1", got)
	}
}

func TestRecordTranslation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordTranslation("azure", "error", 1.2)
	m.RecordTranslationFallback("azure", "gemini")
	m.RecordTranslation("gemini", "success", 0.8)
	m.RecordSingleflightDedup()

	if got := testutil.ToFloat64(m.TranslationFallbacksTotal.WithLabelValues("azure", "gemini")); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SingleflightDedupTotal); got != 1 {
		t.Errorf("dedup = %v, want 1", got)
	}
}

func TestRecordCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordWebhookRejected("invalid_signature")
	m.RecordPostbackRoute("search")
	m.RecordReply("success")
	m.RecordRateLimiterDrop("translate")

	if got := testutil.ToFloat64(m.WebhookRejectedTotal.WithLabelValues("invalid_signature")); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RateLimiterDropped.WithLabelValues("translate")); got != 1 {
		t.Errorf("dropped = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	// Should not panic
	m.RecordWebhookEvent("message", "success", 0.1)
	m.RecordTranslation("azure", "success", 0.1)
	m.RecordReply("error")
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	New(registry)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("expected runtime collectors to be registered")
	}
}
