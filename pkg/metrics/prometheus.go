// Package metrics provides Prometheus metrics for the tcgprice service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "tcgprice"
	defaultSubsystem = "pipeline"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Recognition
	recognitions       *prometheus.CounterVec
	recognitionLatency prometheus.Histogram

	// Catalog and resolution
	catalogRequests *prometheus.CounterVec
	catalogLatency  prometheus.Histogram
	resolutions     *prometheus.CounterVec

	// Price sources and reports
	sourceQuotes       *prometheus.CounterVec
	sourceLatency      *prometheus.HistogramVec
	sourceObservations *prometheus.CounterVec
	reports            *prometheus.CounterVec
	reportObservations prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	customRegistry.MustRegister(collectors.NewGoCollector())
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: []float64{5, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	m.recognitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recognitions_total",
		Help:      "Card recognition attempts by outcome (ok, unrecognized, error)",
	}, []string{"outcome"})

	m.recognitionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recognition_latency_milliseconds",
		Help:      "Latency of the vision recognizer in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.catalogRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_requests_total",
		Help:      "Canonical catalog requests by operation and status",
	}, []string{"operation", "status"})

	m.catalogLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_latency_milliseconds",
		Help:      "Canonical catalog request latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.resolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolutions_total",
		Help:      "Card resolutions by outcome (matched, first_candidate, no_candidates, catalog_unavailable)",
	}, []string{"outcome"})

	m.sourceQuotes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_quotes_total",
		Help:      "Price source calls by source and status (ok, error, timeout)",
	}, []string{"source", "status"})

	m.sourceLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_latency_milliseconds",
		Help:      "Price source call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.sourceObservations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_observations_total",
		Help:      "Price observations contributed per source",
	}, []string{"source"})

	m.reports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_total",
		Help:      "Price reports built, by trend and origin (catalog, sources)",
	}, []string{"trend", "origin"})

	m.reportObservations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_observations",
		Help:      "Number of observations per price report",
		Buckets:   []float64{0, 1, 2, 3, 4, 5, 8, 13, 21},
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP errors by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordRecognition records a recognizer call outcome and latency.
func RecordRecognition(outcome string, latency time.Duration) {
	globalManager.recognitions.WithLabelValues(outcome).Inc()
	globalManager.recognitionLatency.Observe(ms(latency))
}

// RecordCatalogRequest records a catalog call by operation and status.
func RecordCatalogRequest(operation, status string, latency time.Duration) {
	globalManager.catalogRequests.WithLabelValues(operation, status).Inc()
	globalManager.catalogLatency.Observe(ms(latency))
}

// RecordResolution increments the resolution counter for an outcome.
func RecordResolution(outcome string) {
	globalManager.resolutions.WithLabelValues(outcome).Inc()
}

// RecordSourceQuote records one price source call.
func RecordSourceQuote(source, status string, observations int, latency time.Duration) {
	globalManager.sourceQuotes.WithLabelValues(source, status).Inc()
	globalManager.sourceLatency.WithLabelValues(source).Observe(ms(latency))
	globalManager.sourceObservations.WithLabelValues(source).Add(float64(observations))
}

// RecordReport records a finished price report.
func RecordReport(trend, origin string, observations int) {
	globalManager.reports.WithLabelValues(trend, origin).Inc()
	globalManager.reportObservations.Observe(float64(observations))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
