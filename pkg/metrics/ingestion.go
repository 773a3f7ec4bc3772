package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Import outcomes recorded by FeedImportMetrics.
const (
	OutcomeSuccess    = "success"
	OutcomeFetchError = "fetch_error"
	OutcomeInvalid    = "invalid"
	OutcomeConflict   = "conflict"
	OutcomeError      = "error"
)

// FeedImportMetrics records catalog ingestion runs.
type FeedImportMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	offers   prometheus.Counter
}

// NewFeedImportMetrics registers the ingestion metrics on the provided registerer.
func NewFeedImportMetrics(reg prometheus.Registerer) *FeedImportMetrics {
	if reg == nil {
		return &FeedImportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_import_duration_seconds",
		Help:    "Duration of catalog feed imports in seconds, fetch included.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"outcome"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_import_total",
		Help: "Catalog feed imports by outcome.",
	}, []string{"outcome"})
	offers := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_import_offers_total",
		Help: "Offers written by successful catalog imports.",
	})
	reg.MustRegister(duration, total, offers)
	return &FeedImportMetrics{
		duration: duration,
		total:    total,
		offers:   offers,
	}
}

// Observe records one finished import.
func (m *FeedImportMetrics) Observe(outcome string, elapsed time.Duration, offers int) {
	if m == nil || m.total == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	m.total.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess && offers > 0 {
		m.offers.Add(float64(offers))
	}
}
