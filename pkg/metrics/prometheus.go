// Package metrics provides Prometheus metrics for the prode ranking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the ranking service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Refresh pipeline
	refreshRuns        prometheus.Counter
	refreshFailures    prometheus.Counter
	refreshDuration    prometheus.Histogram
	refreshLastUnix    prometheus.Gauge
	usersScored        prometheus.Gauge
	activeParticipants prometheus.Gauge
	decidedEvents      prometheus.Gauge
	forecastsLoaded    prometheus.Gauge

	// Data gateway
	gatewayFetchLatency *prometheus.HistogramVec
	gatewayErrors       *prometheus.CounterVec

	// Ranking store
	storeHits    prometheus.Counter
	storeMisses  prometheus.Counter
	storeErrors  *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "prode",
		subsystem:        "ranking",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.refreshRuns = m.counter("refresh_runs_total", "Total number of ranking refreshes")
	m.refreshFailures = m.counter("refresh_failures_total", "Total number of ranking refreshes aborted by an error")
	m.refreshDuration = m.histogram("refresh_duration_milliseconds", "Time to fetch, score and rank one snapshot", m.histogramBuckets)
	m.refreshLastUnix = m.gauge("refresh_last_success_unix", "Unix time of the last successful refresh")
	m.usersScored = m.gauge("users_scored", "Users included in the last scoring run")
	m.activeParticipants = m.gauge("active_participants", "Users with at least one forecast")
	m.decidedEvents = m.gauge("decided_events", "Events that counted in the last scoring run")
	m.forecastsLoaded = m.gauge("forecasts_loaded", "Forecasts read in the last refresh")

	m.gatewayFetchLatency = m.histogramVec("gateway_fetch_latency_milliseconds", "Data gateway read latency per collection", "collection")
	m.gatewayErrors = m.counterVec("gateway_errors_total", "Data gateway read failures per collection", "collection")

	m.storeHits = m.counter("store_hits_total", "Ranking reads served from the store")
	m.storeMisses = m.counter("store_misses_total", "Ranking reads that found nothing stored")
	m.storeErrors = m.counterVec("store_errors_total", "Ranking store failures", "op")
	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Ranking store operation latency", "op")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that failed", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Enabled reports whether recording is on.
func (m *Manager) Enabled() bool { return m.enabled }

func on() bool { return globalManager != nil && globalManager.enabled }

// SetGlobal replaces the manager used by the package-level helpers.
func SetGlobal(m *Manager) {
	if m != nil {
		globalManager = m
	}
}

// RecordRefresh records one refresh attempt and its duration.
func RecordRefresh(durationMs float64, err error) {
	if !on() {
		return
	}
	globalManager.refreshRuns.Inc()
	globalManager.refreshDuration.Observe(durationMs)
	if err != nil {
		globalManager.refreshFailures.Inc()
	}
}

// UpdateRefreshSnapshot publishes the figures of a successful refresh.
func UpdateRefreshSnapshot(finishedUnix int64, users, participants, decided, forecasts int) {
	if !on() {
		return
	}
	globalManager.refreshLastUnix.Set(float64(finishedUnix))
	globalManager.usersScored.Set(float64(users))
	globalManager.activeParticipants.Set(float64(participants))
	globalManager.decidedEvents.Set(float64(decided))
	globalManager.forecastsLoaded.Set(float64(forecasts))
}

// RecordGatewayFetch records the latency of reading one collection.
func RecordGatewayFetch(collection string, latencyMs float64, err error) {
	if !on() {
		return
	}
	globalManager.gatewayFetchLatency.WithLabelValues(collection).Observe(latencyMs)
	if err != nil {
		globalManager.gatewayErrors.WithLabelValues(collection).Inc()
	}
}

// RecordStoreHit increments the store hit counter.
func RecordStoreHit() {
	if on() {
		globalManager.storeHits.Inc()
	}
}

// RecordStoreMiss increments the store miss counter.
func RecordStoreMiss() {
	if on() {
		globalManager.storeMisses.Inc()
	}
}

// RecordStoreOp records the latency of a store operation and counts failures.
func RecordStoreOp(op string, latencyMs float64, err error) {
	if !on() {
		return
	}
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
	if err != nil {
		globalManager.storeErrors.WithLabelValues(op).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if on() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if on() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if on() {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if on() {
		globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if on() {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if on() {
		globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
	}
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if on() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if on() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if on() {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
