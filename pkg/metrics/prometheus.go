// Package metrics provides Prometheus metrics for the maison matching service.
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

// scoreBuckets spans the 0-100 match score range.
var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100} //nolint:gochecknoglobals // fixed histogram layout

// Manager manages all Prometheus metrics for the maison service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Matching Metrics
	matchesScored       prometheus.Counter
	matchScore          prometheus.Histogram
	scoringLatency      prometheus.Histogram
	rankings            prometheus.Counter
	rankedOpportunities prometheus.Histogram
	invalidInputs       *prometheus.CounterVec
	alignments          *prometheus.CounterVec
	recommendations     *prometheus.CounterVec

	// Recompute Metrics
	recomputeEnqueued  prometheus.Counter
	recomputeDuplicate prometheus.Counter
	recomputeRejected  prometheus.Counter

	// Store Metrics
	storeMatches            prometheus.Gauge
	storeUpserts            prometheus.Counter
	storeErrors             prometheus.Counter
	repositoryShardCount    prometheus.Gauge
	repositoryRecords       *prometheus.GaugeVec
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// Queue Metrics
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueTotal      prometheus.Counter
	queueDequeueTotal      prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker Metrics
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerIdleCount         prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorsByComponent *prometheus.CounterVec

	// System Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "maison",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// RefreshInterval returns how often gauges fed by polling should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	lat := m.histogramBuckets

	// Matching Metrics
	m.matchesScored = auto.NewCounter(m.counterOpts("matches_scored_total", "Total number of talent/opportunity pairs scored"))
	m.matchScore = auto.NewHistogram(m.histogramOpts("match_score", "Distribution of combined match scores", scoreBuckets))
	m.scoringLatency = auto.NewHistogram(m.histogramOpts("scoring_latency_milliseconds", "Latency of a single match score in milliseconds", lat))
	m.rankings = auto.NewCounter(m.counterOpts("rankings_total", "Total number of ranking requests served"))
	m.rankedOpportunities = auto.NewHistogram(m.histogramOpts("ranked_opportunities", "Number of opportunities returned per ranking",
		[]float64{0, 1, 5, 10, 25, 50, 100, 250}))
	m.invalidInputs = auto.NewCounterVec(m.counterOpts("invalid_inputs_total", "Inputs rejected as structurally invalid, by operation"),
		[]string{"operation"})
	m.alignments = auto.NewCounterVec(m.counterOpts("compensation_alignments_total", "Compensation alignment outcomes by kind"),
		[]string{"alignment"})
	m.recommendations = auto.NewCounterVec(m.counterOpts("recommendations_total", "Recommendation requests by outcome"),
		[]string{"outcome"})

	// Recompute Metrics
	m.recomputeEnqueued = auto.NewCounter(m.counterOpts("recompute_enqueued_total", "Recompute jobs accepted"))
	m.recomputeDuplicate = auto.NewCounter(m.counterOpts("recompute_duplicate_total", "Recompute jobs coalesced with a pending job"))
	m.recomputeRejected = auto.NewCounter(m.counterOpts("recompute_rejected_total", "Recompute jobs rejected by backpressure"))

	// Store Metrics
	m.storeMatches = auto.NewGauge(m.gaugeOpts("store_matches", "Number of matches held by the store"))
	m.storeUpserts = auto.NewCounter(m.counterOpts("store_upserts_total", "Total number of match upserts"))
	m.storeErrors = auto.NewCounter(m.counterOpts("store_errors_total", "Total number of failed store operations"))
	m.repositoryShardCount = auto.NewGauge(m.gaugeOpts("repository_shard_count", "Total number of repository shards"))
	m.repositoryRecords = auto.NewGaugeVec(m.gaugeOpts("repository_records_per_shard", "Number of matches per shard"),
		[]string{"shard_id"})
	m.repositoryUpdateLatency = auto.NewHistogram(m.histogramOpts("repository_update_latency_milliseconds", "Repository upsert latency in milliseconds", lat))
	m.repositoryQueryLatency = auto.NewHistogram(m.histogramOpts("repository_query_latency_milliseconds", "Repository query latency in milliseconds", lat))

	// Queue Metrics
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the recompute queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum recompute queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)"))
	m.queueEnqueueTotal = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of jobs enqueued"))
	m.queueDequeueTotal = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of enqueue errors"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts("queue_processing_latency_milliseconds", "Time a job waited in the queue in milliseconds", lat))

	// Worker Metrics
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured number of recompute workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of workers processing a job"))
	m.workerIdleCount = auto.NewGauge(m.gaugeOpts("worker_idle_count", "Number of idle workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Worker processing latency in milliseconds", lat))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of worker errors"))

	// HTTP Metrics
	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", lat),
		[]string{"endpoint", "method", "status_code"})

	// Error Metrics
	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})

	// System Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Matching Metrics Functions.

// RecordMatchScored records one scored pair and its combined score.
func RecordMatchScored(score int, latencyMs float64) {
	globalManager.matchesScored.Inc()
	globalManager.matchScore.Observe(float64(score))
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordRanking records a ranking request and the number of matches returned.
func RecordRanking(returned int) {
	globalManager.rankings.Inc()
	globalManager.rankedOpportunities.Observe(float64(returned))
}

// RecordInvalidInput increments the invalid input counter for operation.
func RecordInvalidInput(operation string) {
	globalManager.invalidInputs.WithLabelValues(operation).Inc()
}

// RecordAlignment increments the counter for a compensation alignment outcome.
func RecordAlignment(alignment string) {
	globalManager.alignments.WithLabelValues(alignment).Inc()
}

// RecordRecommendation increments the counter for a recommender outcome.
func RecordRecommendation(outcome string) {
	globalManager.recommendations.WithLabelValues(outcome).Inc()
}

// Recompute Metrics Functions.

// RecordRecomputeEnqueued increments the accepted recompute counter.
func RecordRecomputeEnqueued() {
	globalManager.recomputeEnqueued.Inc()
}

// RecordRecomputeDuplicate increments the coalesced recompute counter.
func RecordRecomputeDuplicate() {
	globalManager.recomputeDuplicate.Inc()
}

// RecordRecomputeRejected increments the rejected recompute counter.
func RecordRecomputeRejected() {
	globalManager.recomputeRejected.Inc()
}

// Store Metrics Functions.

// UpdateStoreMatches sets the number of stored matches.
func UpdateStoreMatches(count int) {
	globalManager.storeMatches.Set(float64(count))
}

// RecordStoreUpsert increments the upsert counter.
func RecordStoreUpsert() {
	globalManager.storeUpserts.Inc()
}

// RecordStoreError increments the store error counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// UpdateRepositoryShardCount sets the total number of repository shards.
func UpdateRepositoryShardCount(count int) {
	globalManager.repositoryShardCount.Set(float64(count))
}

// UpdateRepositoryRecordsPerShard sets the number of records for a specific shard.
func UpdateRepositoryRecordsPerShard(shardID string, count int) {
	globalManager.repositoryRecords.WithLabelValues(shardID).Set(float64(count))
}

// RecordRepositoryUpdateLatency records repository upsert latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records repository query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueTotal.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueTotal.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records how long a job waited in the queue.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	globalManager.workerIdleCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval returns the polling interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
