// Package metrics provides Prometheus metrics for the robopath dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Event data metrics
	eventsDecoded  prometheus.Counter
	decodeFailures prometheus.Counter
	eventsServed   *prometheus.CounterVec

	// Store metrics
	storeQueries      *prometheus.CounterVec
	storeQueryLatency *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec
	storeConns        *prometheus.GaugeVec

	// Cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheSize   prometheus.Gauge

	// Prefetch queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	prefetchDuplicates prometheus.Counter

	// Prefetch worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Render metrics
	renderLatency *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure replaces the global manager with one built from opts on a fresh registry.
// Call it at startup before any handler captures GetRegistry.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	customRegistry = reg
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(reg)}, opts...)...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "robopath",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(n, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(n, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gaugeVec(n, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) counterVec(n, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogram(n, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(n, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.eventsDecoded = m.counter("events_decoded_total", "Total number of match events decoded from event list columns")
	m.decodeFailures = m.counter("event_decode_failures_total", "Total number of event list columns that failed to decode")
	m.eventsServed = m.counterVec("events_served_total", "Total number of events returned to views by stage", "stage")

	m.storeQueries = m.counterVec("store_queries_total", "Total number of store queries by kind", "kind")
	m.storeQueryLatency = m.histogramVec("store_query_latency_milliseconds", "Store query latency in milliseconds by kind", "kind")
	m.storeErrors = m.counterVec("store_errors_total", "Total number of store query errors by kind", "kind")
	m.storeConns = m.gaugeVec("store_connections", "Database connections by state", "state")

	m.cacheHits = m.counter("cache_hits_total", "Total number of decoded event list cache hits")
	m.cacheMisses = m.counter("cache_misses_total", "Total number of decoded event list cache misses")
	m.cacheSize = m.gauge("cache_entries", "Current number of decoded event lists held in cache")

	m.queueSize = m.gauge("prefetch_queue_size", "Current size of the prefetch queue")
	m.queueCapacity = m.gauge("prefetch_queue_capacity", "Maximum prefetch queue capacity")
	m.queueUtilization = m.gauge("prefetch_queue_utilization_ratio", "Prefetch queue utilization ratio (current size / capacity)")
	m.queueEnqueueRate = m.counter("prefetch_enqueue_total", "Total number of prefetch jobs enqueued")
	m.queueDequeueRate = m.counter("prefetch_dequeue_total", "Total number of prefetch jobs dequeued")
	m.queueEnqueueErrors = m.counter("prefetch_enqueue_errors_total", "Total number of prefetch jobs rejected by the queue")
	m.prefetchDuplicates = m.counter("prefetch_duplicates_total", "Total number of prefetch jobs skipped because one was already in flight")

	m.workerCount = m.gauge("prefetch_worker_count", "Current number of prefetch workers")
	m.workerProcessingLatency = m.histogram("prefetch_latency_milliseconds", "Prefetch job latency in milliseconds", m.histogramBuckets)
	m.workerErrorRate = m.counter("prefetch_errors_total", "Total number of failed prefetch jobs")

	m.renderLatency = m.histogramVec("render_latency_milliseconds", "View render latency in milliseconds by view", "view")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that resulted in errors", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Event data metrics.

// RecordEventsDecoded adds n decoded events.
func RecordEventsDecoded(n int) {
	if n > 0 && globalManager.enabled {
		globalManager.eventsDecoded.Add(float64(n))
	}
}

// RecordDecodeFailure increments the decode failure counter.
func RecordDecodeFailure() {
	if globalManager.enabled {
		globalManager.decodeFailures.Inc()
	}
}

// RecordEventsServed adds n events returned for the given stage.
func RecordEventsServed(stage string, n int) {
	if n > 0 && globalManager.enabled {
		globalManager.eventsServed.WithLabelValues(stage).Add(float64(n))
	}
}

// Store metrics.

// RecordStoreQuery records a store query of the given kind and its latency.
func RecordStoreQuery(kind string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeQueries.WithLabelValues(kind).Inc()
	globalManager.storeQueryLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordStoreError increments the store error counter for the query kind.
func RecordStoreError(kind string) {
	if globalManager.enabled {
		globalManager.storeErrors.WithLabelValues(kind).Inc()
	}
}

// UpdateStoreConnections sets the open and in-use database connection gauges.
func UpdateStoreConnections(open, inUse int) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeConns.WithLabelValues("open").Set(float64(open))
	globalManager.storeConns.WithLabelValues("in_use").Set(float64(inUse))
}

// Cache metrics.

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	if globalManager.enabled {
		globalManager.cacheHits.Inc()
	}
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	if globalManager.enabled {
		globalManager.cacheMisses.Inc()
	}
}

// UpdateCacheSize sets the number of cached event lists.
func UpdateCacheSize(size int) {
	if globalManager.enabled {
		globalManager.cacheSize.Set(float64(size))
	}
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current prefetch queue size.
func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	if globalManager.enabled {
		globalManager.queueUtilization.Set(utilization)
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueueRate.Inc()
	}
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if globalManager.enabled {
		globalManager.queueDequeueRate.Inc()
	}
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	if globalManager.enabled {
		globalManager.queueEnqueueErrors.Inc()
	}
}

// RecordPrefetchDuplicate increments the in-flight duplicate counter.
func RecordPrefetchDuplicate() {
	if globalManager.enabled {
		globalManager.prefetchDuplicates.Inc()
	}
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the current prefetch worker count.
func UpdateWorkerCount(count int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(count))
	}
}

// RecordWorkerProcessingLatency records prefetch job latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.workerProcessingLatency.Observe(latencyMs)
	}
}

// RecordWorkerError increments the prefetch error counter.
func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrorRate.Inc()
	}
}

// Render metrics.

// RecordRenderLatency records how long a view took to render.
func RecordRenderLatency(view string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.renderLatency.WithLabelValues(view).Observe(latencyMs)
	}
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if globalManager.enabled {
		globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
	}
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// SinceMs returns the milliseconds elapsed since start as a float.
func SinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
