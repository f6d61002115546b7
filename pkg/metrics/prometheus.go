// Package metrics provides Prometheus metrics for the nutrition lookup service.
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the lookup service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec
	panicRecoveries     prometheus.Counter

	// Store
	storeQueryLatency *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec
	itemsCreated      prometheus.Counter
	itemsDeleted      prometheus.Counter

	// Connection pool
	poolMaxOpen      prometheus.Gauge
	poolOpen         prometheus.Gauge
	poolInUse        prometheus.Gauge
	poolIdle         prometheus.Gauge
	poolWaitCount    prometheus.Gauge
	poolWaitDuration prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nutri",
		subsystem:        "lookup",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval is how often pool gauges should be sampled.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint, method and status",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "HTTP error responses by endpoint, method and error type",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_type_total",
			Help:        "HTTP error responses by error type and severity",
			ConstLabels: constLabels,
		},
		[]string{"error_type", "severity"},
	)

	m.panicRecoveries = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "panic_recoveries_total",
		Help:        "Handler panics recovered by middleware",
		ConstLabels: constLabels,
	})

	m.storeQueryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "store_query_latency_milliseconds",
			Help:        "Relational store round trip latency by operation",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"operation"},
	)

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "store_errors_total",
			Help:        "Relational store failures by operation",
			ConstLabels: constLabels,
		},
		[]string{"operation"},
	)

	m.itemsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "food_items_created_total",
		Help:        "Food items inserted through the API",
		ConstLabels: constLabels,
	})

	m.itemsDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "food_items_deleted_total",
		Help:        "Food item rows removed through the API",
		ConstLabels: constLabels,
	})

	m.poolMaxOpen = m.poolGauge(auto, "db_pool_max_open_connections", "Configured connection pool limit")
	m.poolOpen = m.poolGauge(auto, "db_pool_open_connections", "Established connections, in use and idle")
	m.poolInUse = m.poolGauge(auto, "db_pool_in_use_connections", "Connections currently serving a query")
	m.poolIdle = m.poolGauge(auto, "db_pool_idle_connections", "Idle connections held by the pool")
	m.poolWaitCount = m.poolGauge(auto, "db_pool_wait_count", "Total requests that waited for a connection")
	m.poolWaitDuration = m.poolGauge(auto, "db_pool_wait_duration_milliseconds", "Total time spent waiting for a connection")
}

func (m *Manager) poolGauge(auto promauto.Factory, name, help string) prometheus.Gauge {
	return auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: prometheus.Labels(m.customLabels),
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordPanicRecovery increments the recovered panic counter.
func RecordPanicRecovery() {
	if !globalManager.enabled {
		return
	}
	globalManager.panicRecoveries.Inc()
}

// RecordStoreQuery records the latency of one store operation and counts it as
// failed when err is non-nil.
func RecordStoreQuery(operation string, latencyMs float64, err error) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeQueryLatency.WithLabelValues(operation).Observe(latencyMs)
	if err != nil {
		globalManager.storeErrors.WithLabelValues(operation).Inc()
	}
}

// RecordItemCreated increments the created items counter.
func RecordItemCreated() {
	if !globalManager.enabled {
		return
	}
	globalManager.itemsCreated.Inc()
}

// RecordItemsDeleted adds n removed rows to the deleted items counter.
func RecordItemsDeleted(n int64) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.itemsDeleted.Add(float64(n))
}

// UpdateDBPoolStats copies a database/sql pool snapshot into the pool gauges.
func UpdateDBPoolStats(s sql.DBStats) {
	if !globalManager.enabled {
		return
	}
	globalManager.poolMaxOpen.Set(float64(s.MaxOpenConnections))
	globalManager.poolOpen.Set(float64(s.OpenConnections))
	globalManager.poolInUse.Set(float64(s.InUse))
	globalManager.poolIdle.Set(float64(s.Idle))
	globalManager.poolWaitCount.Set(float64(s.WaitCount))
	globalManager.poolWaitDuration.Set(float64(s.WaitDuration.Milliseconds()))
}

// Configure rebuilds the global manager from opts on a fresh registry, so a
// namespace change never collides with names already registered. Call it
// once at startup, before any handler records.
func Configure(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithRegistry(customRegistry))...)
}

// RefreshInterval returns the sampling interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
