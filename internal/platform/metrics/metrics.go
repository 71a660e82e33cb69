// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector the service exports.
// All methods are safe to call on a nil *Metrics, which records nothing.
type Metrics struct {
	VendorRequests *prometheus.CounterVec   // labels: vendor, outcome
	VendorLatency  *prometheus.HistogramVec // labels: vendor
	VendorRetries  *prometheus.CounterVec   // labels: vendor
	WingScore      prometheus.Histogram
	EnrichItems    *prometheus.CounterVec // labels: result (cache_hit, fetched, failed)

	gatherer prometheus.Gatherer
}

// New creates and registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		VendorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wing",
			Name:      "vendor_requests_total",
			Help:      "Outbound vendor HTTP requests by outcome.",
		}, []string{"vendor", "outcome"}),
		VendorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wing",
			Name:      "vendor_request_duration_seconds",
			Help:      "Outbound vendor HTTP request latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"vendor"}),
		VendorRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wing",
			Name:      "vendor_retries_total",
			Help:      "Retries of outbound requests after transient transport errors.",
		}, []string{"vendor"}),
		WingScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wing",
			Name:      "score",
			Help:      "Distribution of computed WING-Scores.",
			Buckets:   prometheus.LinearBuckets(-100, 20, 11),
		}),
		EnrichItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wing",
			Name:      "enrich_items_total",
			Help:      "Article body enrichment results.",
		}, []string{"result"}),
		gatherer: reg,
	}
	reg.MustRegister(m.VendorRequests, m.VendorLatency, m.VendorRetries, m.WingScore, m.EnrichItems)
	return m
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveVendor records one finished vendor request.
func (m *Metrics) ObserveVendor(vendor, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.VendorRequests.WithLabelValues(vendor, outcome).Inc()
	m.VendorLatency.WithLabelValues(vendor).Observe(d.Seconds())
}

// IncRetry records one retry attempt against vendor.
func (m *Metrics) IncRetry(vendor string) {
	if m == nil {
		return
	}
	m.VendorRetries.WithLabelValues(vendor).Inc()
}

// ObserveWingScore records a computed score.
func (m *Metrics) ObserveWingScore(score int) {
	if m == nil {
		return
	}
	m.WingScore.Observe(float64(score))
}

// AddEnrich records n enrichment items with the given result.
func (m *Metrics) AddEnrich(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.EnrichItems.WithLabelValues(result).Add(float64(n))
}
