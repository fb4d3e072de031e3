// Package metrics provides Prometheus metrics for the futdash scraper and dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector futdash exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Fetcher
	fetchTotal     *prometheus.CounterVec
	fetchLatency   *prometheus.HistogramVec
	layoutDrift    *prometheus.CounterVec
	breakerState   prometheus.Gauge
	latestPlayerID prometheus.Gauge

	// Worker pool and queue
	poolWidth       prometheus.Gauge
	poolInFlight    prometheus.Gauge
	jobLatency      prometheus.Histogram
	queueEnqueued   prometheus.Counter
	queueDequeued   prometheus.Counter
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	batchRecords    *prometheus.CounterVec
	batchTotalRuns  *prometheus.CounterVec
	batchRunSeconds *prometheus.HistogramVec

	// Pipeline
	pipelineRows       *prometheus.GaugeVec
	pipelineDuration   prometheus.Histogram
	schemaViolations   *prometheus.CounterVec
	storageRowsWritten *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorByEndpoint     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "futdash",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.histogramBuckets
	}
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.customLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	latencyBuckets := []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

	m.fetchTotal = auto.NewCounterVec(m.counter("fetch_total", "Fetch attempts by kind (profile, update, latest) and outcome status"), []string{"kind", "status"})
	m.fetchLatency = auto.NewHistogramVec(m.histogram("fetch_latency_milliseconds", "Latency of a single upstream HTTP fetch", latencyBuckets), []string{"kind"})
	m.layoutDrift = auto.NewCounterVec(m.counter("layout_drift_total", "Profile pages whose markup did not match the detected layout"), []string{"section"})
	m.breakerState = auto.NewGauge(m.gauge("breaker_state", "Fetcher circuit breaker state (0 closed, 1 half-open, 2 open)"))
	m.latestPlayerID = auto.NewGauge(m.gauge("latest_player_id", "Newest player id discovered on the latest listing"))

	m.poolWidth = auto.NewGauge(m.gauge("pool_width", "Configured worker pool width"))
	m.poolInFlight = auto.NewGauge(m.gauge("pool_in_flight", "Jobs currently being processed by the worker pool"))
	m.jobLatency = auto.NewHistogram(m.histogram("job_latency_milliseconds", "Latency of one worker job", latencyBuckets))
	m.queueEnqueued = auto.NewCounter(m.counter("queue_enqueued_total", "Jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counter("queue_dequeued_total", "Jobs dequeued"))
	m.queueSize = auto.NewGauge(m.gauge("queue_size", "Jobs currently waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gauge("queue_capacity", "Queue capacity"))
	m.batchRecords = auto.NewCounterVec(m.counter("batch_records_total", "Records produced by batch stages by fetch status"), []string{"stage", "status"})
	m.batchTotalRuns = auto.NewCounterVec(m.counter("batch_runs_total", "Batch stage runs by outcome"), []string{"stage", "outcome"})
	m.batchRunSeconds = auto.NewHistogramVec(m.histogram("batch_run_seconds", "Wall time of a batch stage", []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600}), []string{"stage"})

	m.pipelineRows = auto.NewGaugeVec(m.gauge("pipeline_rows", "Rows emitted by the last pipeline run"), []string{"variant"})
	m.pipelineDuration = auto.NewHistogram(m.histogram("pipeline_duration_milliseconds", "Feature pipeline duration", latencyBuckets))
	m.schemaViolations = auto.NewCounterVec(m.counter("schema_violations_total", "Fatal data-contract violations by column"), []string{"column"})
	m.storageRowsWritten = auto.NewCounterVec(m.counter("storage_rows_written_total", "Rows persisted by table"), []string{"table"})

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds", "HTTP request duration", nil), []string{"endpoint", "method", "status_code"})
	m.errorByEndpoint = auto.NewCounterVec(m.counter("http_errors_total", "HTTP error responses by endpoint and type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
}

// RecordFetch counts one fetch by kind and status and observes its latency.
func RecordFetch(kind, status string, latencyMs float64) {
	globalManager.fetchTotal.WithLabelValues(kind, status).Inc()
	globalManager.fetchLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordLayoutDrift counts a profile section that fell back to defaults.
func RecordLayoutDrift(section string) {
	globalManager.layoutDrift.WithLabelValues(section).Inc()
}

// UpdateBreakerState sets the circuit breaker state gauge.
func UpdateBreakerState(state int) {
	globalManager.breakerState.Set(float64(state))
}

// UpdateLatestPlayerID records the newest publishable player id.
func UpdateLatestPlayerID(id int) {
	globalManager.latestPlayerID.Set(float64(id))
}

// UpdatePoolWidth sets the worker pool width gauge.
func UpdatePoolWidth(width int) {
	globalManager.poolWidth.Set(float64(width))
}

// AddPoolInFlight moves the in-flight gauge by delta.
func AddPoolInFlight(delta int) {
	globalManager.poolInFlight.Add(float64(delta))
}

// RecordJobLatency observes one worker job's latency.
func RecordJobLatency(latencyMs float64) {
	globalManager.jobLatency.Observe(latencyMs)
}

// RecordQueueEnqueue counts one enqueued job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts one dequeued job.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// UpdateQueueSize sets the queued job gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordBatchRecord counts one record produced by a batch stage.
func RecordBatchRecord(stage, status string) {
	globalManager.batchRecords.WithLabelValues(stage, status).Inc()
}

// RecordBatchRun counts a finished batch stage and observes its wall time.
func RecordBatchRun(stage, outcome string, d time.Duration) {
	globalManager.batchTotalRuns.WithLabelValues(stage, outcome).Inc()
	globalManager.batchRunSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// UpdatePipelineRows sets the number of rows emitted by a pipeline variant.
func UpdatePipelineRows(variant string, rows int) {
	globalManager.pipelineRows.WithLabelValues(variant).Set(float64(rows))
}

// RecordPipelineDuration observes one pipeline run.
func RecordPipelineDuration(latencyMs float64) {
	globalManager.pipelineDuration.Observe(latencyMs)
}

// RecordSchemaViolation counts a fatal coercion failure on column.
func RecordSchemaViolation(column string) {
	globalManager.schemaViolations.WithLabelValues(column).Inc()
}

// RecordRowsWritten counts rows persisted to table.
func RecordRowsWritten(table string, rows int) {
	globalManager.storageRowsWritten.WithLabelValues(table).Add(float64(rows))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts one HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry every futdash collector is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
