package prometheus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-account-webhooks/core"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_CountsByTags(t *testing.T) {
	recorder := NewRecorder()
	ctx := context.Background()
	tags := map[string]string{"event_type": "ACCOUNT_DELETED", "status": "processed"}

	recorder.IncCounter(ctx, core.MetricWebhookDispatchTotal, 1, tags)
	recorder.IncCounter(ctx, core.MetricWebhookDispatchTotal, 2, tags)
	recorder.IncCounter(ctx, core.MetricWebhookDispatchTotal, 1, map[string]string{
		"event_type": "ACCOUNT_DELETED",
		"status":     "duplicated",
	})

	metric := recorder.counters[core.MetricWebhookDispatchTotal]
	if metric == nil {
		t.Fatalf("expected counter to be registered")
	}
	if got := testutil.ToFloat64(metric.vec.WithLabelValues("ACCOUNT_DELETED", "processed")); got != 3 {
		t.Fatalf("expected processed count 3, got %v", got)
	}
	if got := testutil.ToFloat64(metric.vec.WithLabelValues("ACCOUNT_DELETED", "duplicated")); got != 1 {
		t.Fatalf("expected duplicated count 1, got %v", got)
	}
}

func TestRecorder_IgnoresUnknownLabelsAfterFirstUse(t *testing.T) {
	recorder := NewRecorder()
	ctx := context.Background()
	recorder.IncCounter(ctx, "operation_total", 1, map[string]string{"operation": "get_event"})
	recorder.IncCounter(ctx, "operation_total", 1, map[string]string{"operation": "get_event", "extra": "x"})

	metric := recorder.counters["operation_total"]
	if got := testutil.ToFloat64(metric.vec.WithLabelValues("get_event")); got != 2 {
		t.Fatalf("expected extra tags to be ignored, got %v", got)
	}
}

func TestRecorder_HandlerExposesNamespacedMetrics(t *testing.T) {
	recorder := NewRecorder()
	recorder.ObserveHistogram(context.Background(), core.MetricWebhookDispatchDuration, 12, map[string]string{
		"event_type": "ACCOUNT_DELETED",
		"status":     "processed",
	})
	recorder.IncCounter(context.Background(), core.MetricWebhookDispatchTotal, 1, map[string]string{
		"event_type": "ACCOUNT_DELETED",
		"status":     "processed",
	})

	server := httptest.NewServer(recorder.Handler())
	defer server.Close()
	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	text := string(body)
	if !strings.Contains(text, "account_webhooks_"+core.MetricWebhookDispatchTotal) {
		t.Fatalf("expected namespaced dispatch counter in %q", text)
	}
	if !strings.Contains(text, "account_webhooks_"+core.MetricWebhookDispatchDuration+"_bucket") {
		t.Fatalf("expected dispatch histogram buckets in %q", text)
	}
}

func TestSanitizeName(t *testing.T) {
	if got := sanitizeName(" webhook.dispatch-total "); got != "webhook_dispatch_total" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
}
