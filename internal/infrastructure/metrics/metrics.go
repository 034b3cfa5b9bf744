package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salon"

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	salesRecorded     *prometheus.CounterVec
	saleValue         prometheus.Counter
	receiptDuration   prometheus.Histogram
	validationErrors  *prometheus.CounterVec
	commissionReports *prometheus.CounterVec
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		salesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_recorded_total",
			Help:      "Sales recorded by status.",
		}, []string{"status"}),
		saleValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_value_total",
			Help:      "Sum of recorded sale totals.",
		}),
		receiptDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_compute_duration_seconds",
			Help:      "Time spent computing receipt totals.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05},
		}),
		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Rejected inputs by operation.",
		}, []string{"operation"}),
		commissionReports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_reports_total",
			Help:      "Team commission reports served, by cache outcome.",
		}, []string{"cache"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.salesRecorded,
		m.saleValue,
		m.receiptDuration,
		m.validationErrors,
		m.commissionReports,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) SaleRecorded(status string, total float64) {
	if m == nil {
		return
	}
	m.salesRecorded.WithLabelValues(status).Inc()
	m.saleValue.Add(total)
}

func (m *Metrics) ObserveReceipt(seconds float64) {
	if m == nil {
		return
	}
	m.receiptDuration.Observe(seconds)
}

func (m *Metrics) ValidationFailed(operation string) {
	if m == nil {
		return
	}
	m.validationErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) CommissionReport(cacheHit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	m.commissionReports.WithLabelValues(outcome).Inc()
}
