// Package metrics provides Prometheus metrics for the hirestats service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the hirestats service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Aggregation Run Metrics - the batch engine
	runsTotal       prometheus.Counter
	runFailures     prometheus.Counter
	runDuration     prometheus.Histogram
	pagesFetched    prometheus.Counter
	postingsScanned prometheus.Counter
	groupsTotal     prometheus.Gauge
	groupsPersisted prometheus.Gauge

	// Repository Metrics - store round trips
	repositoryUpsertLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// Lookup Metrics - read path quality
	lookupNotFound prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hirestats",
		subsystem:        "stats",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of completed aggregation runs",
	})

	m.runFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_failures_total",
		Help:      "Total number of aggregation runs aborted by a fetch or persist failure",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Histogram of end-to-end aggregation run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.pagesFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pages_fetched_total",
		Help:      "Total number of posting pages fetched from the record source",
	})

	m.postingsScanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "postings_scanned_total",
		Help:      "Total number of eligible job postings scanned into buckets",
	})

	m.groupsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "groups_total",
		Help:      "Number of (job, country) buckets seen in the last run",
	})

	m.groupsPersisted = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "groups_persisted",
		Help:      "Number of buckets meeting the minimum-count threshold in the last run",
	})

	m.repositoryUpsertLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_upsert_latency_milliseconds",
		Help:      "Batch upsert transaction latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_query_latency_milliseconds",
		Help:      "Read query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.lookupNotFound = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookup_not_found_total",
		Help:      "Total number of lookups that matched no persisted record",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})
}

// Aggregation run metric helpers.

// RecordRunCompleted records a finished run and its duration.
func RecordRunCompleted(durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.runsTotal.Inc()
		globalManager.runDuration.Observe(durationMs)
	}
}

// RecordRunFailure records an aborted run.
func RecordRunFailure() {
	if globalManager != nil && globalManager.enabled {
		globalManager.runFailures.Inc()
	}
}

// RecordPageFetched records one page fetch and the postings it carried.
func RecordPageFetched(postings int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.pagesFetched.Inc()
		globalManager.postingsScanned.Add(float64(postings))
	}
}

// UpdateGroupsTotal sets the bucket count observed in the last run.
func UpdateGroupsTotal(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.groupsTotal.Set(float64(count))
	}
}

// UpdateGroupsPersisted sets the persisted bucket count of the last run.
func UpdateGroupsPersisted(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.groupsPersisted.Set(float64(count))
	}
}

// Repository metric helpers.

// RecordUpsertLatency records batch upsert latency in milliseconds.
func RecordUpsertLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.repositoryUpsertLatency.Observe(latencyMs)
	}
}

// RecordQueryLatency records read query latency in milliseconds.
func RecordQueryLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.repositoryQueryLatency.Observe(latencyMs)
	}
}

// RecordLookupNotFound records a lookup that matched nothing.
func RecordLookupNotFound() {
	if globalManager != nil && globalManager.enabled {
		globalManager.lookupNotFound.Inc()
	}
}

// HTTP metric helpers.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// System metric helpers.

// UpdateSystemMemoryUsage sets the current heap allocation.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the custom registry serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
