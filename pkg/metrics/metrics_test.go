package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestFeedImportMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewFeedImportMetrics(reg)
	metrics.Observe(OutcomeSuccess, 250*time.Millisecond, 3)
	metrics.Observe(OutcomeFetchError, time.Second, 0)
	metrics.Observe(OutcomeFetchError, time.Second, 7)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "feed_import_total", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "feed_import_total", "outcome", OutcomeFetchError); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 2 {
		t.Fatalf("expected fetch_error=2, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "feed_import_duration_seconds", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	offers := findMetricFamily(mfs, "feed_import_offers_total")
	if offers == nil {
		t.Fatalf("offers counter not exported")
	}
	if got := offers.GetMetric()[0].GetCounter().GetValue(); got != 3 {
		t.Fatalf("expected only successful offers counted, got %f", got)
	}
}

func TestOutboxPublisherMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOutboxPublisherMetrics(reg)
	metrics.ObserveBatch(10 * time.Millisecond)
	metrics.IncPublished("order_confirmed")
	metrics.IncPublished("order_confirmed")
	metrics.IncFailed("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "outbox_published_total", "event_type", "order_confirmed"); err != nil || got != 2 {
		t.Fatalf("expected published=2, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "outbox_publish_failures_total", "event_type", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected failures=1 under unknown, got %f err=%v", got, err)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var feed *FeedImportMetrics
	feed.Observe(OutcomeSuccess, time.Second, 1)
	NewFeedImportMetrics(nil).Observe(OutcomeError, time.Second, 0)

	var outbox *OutboxPublisherMetrics
	outbox.ObserveBatch(time.Second)
	outbox.IncPublished("x")
	NewOutboxPublisherMetrics(nil).IncFailed("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
