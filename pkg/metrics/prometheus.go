// Package metrics provides Prometheus metrics for the animal race service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Manager owns every Prometheus collector of the race service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Motion model
	distanceQueries prometheus.Counter
	reachQueries    *prometheus.CounterVec
	reachLatency    prometheus.Histogram

	// Game
	verdicts       *prometheus.CounterVec
	roundsStarted  *prometheus.CounterVec
	answers        *prometheus.CounterVec
	scoreDelta     prometheus.Histogram
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	framesStreamed *prometheus.CounterVec
	activeStreams  prometheus.Gauge
	practiceBatch  prometheus.Counter

	// Repository
	repositoryShardCount      prometheus.Gauge
	repositoryRecordsPerShard *prometheus.GaugeVec
	repositoryQueryLatency    prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "animalrace",
		subsystem:        "game",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.distanceQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("distance_queries_total"),
		Help: "Total number of forward motion model queries",
	})
	m.reachQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("reach_queries_total"),
		Help: "Total number of inverse motion model queries by outcome",
	}, []string{"reached"})
	m.reachLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("reach_latency_milliseconds"),
		Help:    "Inverse query latency in milliseconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	m.verdicts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("verdicts_total"),
		Help: "Total number of winner resolutions by judging mode",
	}, []string{"mode"})
	m.roundsStarted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("rounds_started_total"),
		Help: "Total number of rounds started by game mode",
	}, []string{"mode"})
	m.answers = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("answers_total"),
		Help: "Total number of answers by game mode and outcome",
	}, []string{"mode", "outcome"})
	m.scoreDelta = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("score_delta"),
		Help:    "Distribution of applied score deltas",
		Buckets: []float64{-10, -1, 0, 1, 10},
	})
	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("active_sessions"),
		Help: "Current number of game sessions",
	})
	m.sessionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("sessions_created_total"),
		Help: "Total number of sessions created",
	})
	m.framesStreamed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("frames_streamed_total"),
		Help: "Total number of race frames pushed to clients by transport",
	}, []string{"transport"})
	m.activeStreams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("active_streams"),
		Help: "Current number of open frame streams",
	})
	m.practiceBatch = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("practice_batches_total"),
		Help: "Total number of generated practice record batches",
	})

	m.repositoryShardCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("repository_shard_count"),
		Help: "Number of session store shards",
	})
	m.repositoryRecordsPerShard = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("repository_records_per_shard"),
		Help: "Number of sessions held per store shard",
	}, []string{"shard_id"})
	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("repository_query_latency_milliseconds"),
		Help:    "Session store lookup latency in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("http_requests_total"),
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("http_request_duration_milliseconds"),
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("errors_by_component_total"),
		Help: "Total number of errors by component and error type",
	}, []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("errors_by_endpoint_total"),
		Help: "Total number of errors by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name: m.name("memory_usage_bytes"),
		Help: "Current heap allocation in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name: m.name("goroutines"),
		Help: "Current number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name:    m.name("gc_pause_milliseconds"),
		Help:    "Average GC pause time in milliseconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
}

// RecordDistanceQuery counts a forward motion query.
func RecordDistanceQuery() {
	m := active()
	if m == nil {
		return
	}
	m.distanceQueries.Inc()
}

// RecordReachQuery counts an inverse query and observes its latency.
func RecordReachQuery(reached bool, latencyMs float64) {
	m := active()
	if m == nil {
		return
	}
	label := "false"
	if reached {
		label = "true"
	}
	m.reachQueries.WithLabelValues(label).Inc()
	m.reachLatency.Observe(latencyMs)
}

// RecordVerdict counts a winner resolution.
func RecordVerdict(mode string) {
	m := active()
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(mode).Inc()
}

// RecordRoundStarted counts a started round.
func RecordRoundStarted(mode string) {
	m := active()
	if m == nil {
		return
	}
	m.roundsStarted.WithLabelValues(mode).Inc()
}

// RecordAnswer counts an answer. outcome is correct, wrong, duplicate or rejected.
func RecordAnswer(mode, outcome string) {
	m := active()
	if m == nil {
		return
	}
	m.answers.WithLabelValues(mode, outcome).Inc()
}

// RecordScoreDelta observes an applied score delta.
func RecordScoreDelta(delta int) {
	m := active()
	if m == nil {
		return
	}
	m.scoreDelta.Observe(float64(delta))
}

// RecordSessionCreated counts a new session.
func RecordSessionCreated() {
	m := active()
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
}

// UpdateActiveSessions sets the current session count.
func UpdateActiveSessions(count int) {
	m := active()
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(count))
}

// RecordFrameStreamed counts a frame pushed over transport.
func RecordFrameStreamed(transport string) {
	m := active()
	if m == nil {
		return
	}
	m.framesStreamed.WithLabelValues(transport).Inc()
}

// StreamOpened increments the open stream gauge.
func StreamOpened() {
	m := active()
	if m == nil {
		return
	}
	m.activeStreams.Inc()
}

// StreamClosed decrements the open stream gauge.
func StreamClosed() {
	m := active()
	if m == nil {
		return
	}
	m.activeStreams.Dec()
}

// RecordPracticeBatch counts a generated practice batch.
func RecordPracticeBatch() {
	m := active()
	if m == nil {
		return
	}
	m.practiceBatch.Inc()
}

// UpdateRepositoryShardCount sets the number of store shards.
func UpdateRepositoryShardCount(count int) {
	m := active()
	if m == nil {
		return
	}
	m.repositoryShardCount.Set(float64(count))
}

// UpdateRepositoryRecordsPerShard sets the session count for a shard.
func UpdateRepositoryRecordsPerShard(shardID string, count int) {
	m := active()
	if m == nil {
		return
	}
	m.repositoryRecordsPerShard.WithLabelValues(shardID).Set(float64(count))
}

// RecordRepositoryQueryLatency records a store lookup latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	m := active()
	if m == nil {
		return
	}
	m.repositoryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	m := active()
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	m := active()
	if m == nil {
		return
	}
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	m := active()
	if m == nil {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	m := active()
	if m == nil {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	m := active()
	if m == nil {
		return
	}
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	m := active()
	if m == nil {
		return
	}
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(ms float64) {
	m := active()
	if m == nil {
		return
	}
	m.systemGCPauseTime.Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global returns the process-wide manager.
func Global() *Manager {
	return globalManager
}

// Enabled reports whether collection is on.
func (m *Manager) Enabled() bool { return m.enabled.Load() }

// SetEnabled turns recording through the package functions on or off.
// Collectors stay registered; a disabled manager just stops updating them.
func SetEnabled(enabled bool) {
	globalManager.enabled.Store(enabled)
}

// active returns the global manager while collection is on.
func active() *Manager {
	if globalManager == nil || !globalManager.enabled.Load() {
		return nil
	}
	return globalManager
}

// RefreshInterval returns how often gauges fed by polling should refresh.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }
