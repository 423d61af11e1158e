// Package metrics provides Prometheus metrics for the ShoreSquad service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Page
	weatherFetches      *prometheus.CounterVec
	weatherFetchLatency *prometheus.HistogramVec
	weatherRenders      *prometheus.CounterVec
	locationResolutions *prometheus.CounterVec
	startupPhase        prometheus.Gauge

	// Cleanup events
	cleanupJoins      prometheus.Counter
	cleanupJoinMisses prometheus.Counter
	cleanupEvents     prometheus.Gauge
	mapMarkers        prometheus.Gauge

	// Notifications
	notificationsQueued    prometheus.Counter
	notificationsDropped   prometheus.Counter
	notificationsDelivered prometheus.Counter
	notificationQueueSize  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "shoresquad",
		subsystem:        "page",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// RefreshInterval reports how often gauges should be refreshed by callers.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Configure rebuilds the global manager from opts on a fresh registry. It must
// run at startup, before handlers or workers record anything.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithPrometheusRegistry(registry))
	globalManager = NewManager(all...)
	customRegistry = registry
}

// RefreshInterval reports how often the global gauges should be refreshed.
func RefreshInterval() time.Duration { return globalManager.refreshInterval }

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.weatherFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weather_fetches_total",
		Help:      "Weather gateway fetches by strategy and outcome",
	}, []string{"strategy", "outcome"})

	m.weatherFetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weather_fetch_duration_milliseconds",
		Help:      "Weather gateway fetch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"strategy"})

	m.weatherRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weather_renders_total",
		Help:      "Weather region renders by kind (snapshot, error, loading)",
	}, []string{"kind"})

	m.locationResolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "location_resolutions_total",
		Help:      "Location acquisitions by outcome",
	}, []string{"outcome"})

	m.startupPhase = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "startup_phase",
		Help:      "Ordinal of the current controller startup phase",
	})

	m.cleanupJoins = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cleanup_joins_total",
		Help:      "Successful cleanup joins",
	})

	m.cleanupJoinMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cleanup_join_misses_total",
		Help:      "Join attempts for unknown event ids",
	})

	m.cleanupEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cleanup_events",
		Help:      "Cleanup events currently registered",
	})

	m.mapMarkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "map_markers",
		Help:      "Markers currently placed on the map",
	})

	m.notificationsQueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_queued_total",
		Help:      "Notifications accepted by the queue",
	})

	m.notificationsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_dropped_total",
		Help:      "Notifications rejected because the queue was full or closed",
	})

	m.notificationsDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_delivered_total",
		Help:      "Notifications handed to a sink",
	})

	m.notificationQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notification_queue_size",
		Help:      "Notifications waiting for delivery",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of goroutines",
	})
}

// Weather.

// RecordWeatherFetch counts a gateway fetch and observes its latency.
func RecordWeatherFetch(strategy, outcome string, latencyMs float64) {
	globalManager.weatherFetches.WithLabelValues(strategy, outcome).Inc()
	globalManager.weatherFetchLatency.WithLabelValues(strategy).Observe(latencyMs)
}

// RecordWeatherRender counts a render of the weather region.
func RecordWeatherRender(kind string) {
	globalManager.weatherRenders.WithLabelValues(kind).Inc()
}

// RecordLocationResolution counts a location acquisition outcome.
func RecordLocationResolution(outcome string) {
	globalManager.locationResolutions.WithLabelValues(outcome).Inc()
}

// UpdateStartupPhase publishes the controller phase ordinal.
func UpdateStartupPhase(phase int) {
	globalManager.startupPhase.Set(float64(phase))
}

// Cleanup events.

// RecordCleanupJoin increments the join counter.
func RecordCleanupJoin() {
	globalManager.cleanupJoins.Inc()
}

// RecordCleanupJoinMiss increments the unknown-id join counter.
func RecordCleanupJoinMiss() {
	globalManager.cleanupJoinMisses.Inc()
}

// UpdateCleanupEvents sets the registered event gauge.
func UpdateCleanupEvents(count int) {
	globalManager.cleanupEvents.Set(float64(count))
}

// UpdateMapMarkers sets the marker gauge.
func UpdateMapMarkers(count int) {
	globalManager.mapMarkers.Set(float64(count))
}

// Notifications.

// RecordNotificationQueued increments the accepted notification counter.
func RecordNotificationQueued() {
	globalManager.notificationsQueued.Inc()
}

// RecordNotificationDropped increments the rejected notification counter.
func RecordNotificationDropped() {
	globalManager.notificationsDropped.Inc()
}

// RecordNotificationDelivered increments the delivered notification counter.
func RecordNotificationDelivered() {
	globalManager.notificationsDelivered.Inc()
}

// UpdateNotificationQueueSize sets the pending notification gauge.
func UpdateNotificationQueueSize(size int) {
	globalManager.notificationQueueSize.Set(float64(size))
}

// HTTP.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
