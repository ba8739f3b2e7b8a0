// Package metrics provides Prometheus metrics for the league service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// League business metrics
	commandsHandled      *prometheus.CounterVec
	transactionsProposed *prometheus.CounterVec
	resolutions          *prometheus.CounterVec
	capViolations        *prometheus.CounterVec
	registeredTeams      prometheus.Gauge
	pendingProposals     prometheus.Gauge

	// External collaborators
	rosterFetches       *prometheus.CounterVec
	rosterFetchLatency  prometheus.Histogram
	storeOperations     *prometheus.CounterVec
	storeLatency        *prometheus.HistogramVec
	announcementsFailed prometheus.Counter

	// Deferred job pipeline
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec
	workerActiveCount  prometheus.Gauge
	jobLatency         *prometheus.HistogramVec
	jobErrors          *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "league",
		subsystem:        "core",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(base string) string {
	if m.metricPrefix == "" {
		return base
	}
	return m.metricPrefix + "_" + base
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.commandsHandled = m.counterVec("commands_total", "Commands handled by command and outcome", "command", "outcome")
	m.transactionsProposed = m.counterVec("transactions_proposed_total", "Transactions entering the proposed state", "kind")
	m.resolutions = m.counterVec("resolutions_total", "Proposal resolutions by verdict", "verdict")
	m.capViolations = m.counterVec("cap_violations_total", "Trades refused by the apron rules", "rule")
	m.registeredTeams = m.gauge("registered_teams", "Teams registered in the league state")
	m.pendingProposals = m.gauge("pending_proposals", "Proposals still awaiting a resolution")

	m.rosterFetches = m.counterVec("roster_fetches_total", "Roster data source fetches by outcome", "outcome")
	m.rosterFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("roster_fetch_latency_milliseconds"),
		Help:        "Latency of roster data source fetches in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
	m.storeOperations = m.counterVec("store_operations_total", "State store operations", "backend", "op", "outcome")
	m.storeLatency = m.histogramVec("store_latency_milliseconds", "State store latency in milliseconds", "backend", "op")
	m.announcementsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("announcements_failed_total"),
		Help:        "Approval or public announcements that could not be delivered",
		ConstLabels: m.customLabels,
	})

	m.queueSize = m.gauge("job_queue_size", "Deferred jobs waiting in the queue")
	m.queueCapacity = m.gauge("job_queue_capacity", "Capacity of the deferred job queue")
	m.queueEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("job_queue_enqueued_total"),
		Help:        "Deferred jobs accepted by the queue",
		ConstLabels: m.customLabels,
	})
	m.queueEnqueueErrors = m.counterVec("job_queue_enqueue_errors_total", "Deferred jobs refused by the queue", "reason")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers running deferred jobs")
	m.jobLatency = m.histogramVec("job_latency_milliseconds", "Deferred job run time in milliseconds", "command")
	m.jobErrors = m.counterVec("job_errors_total", "Deferred jobs that ended in an error reply", "command")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
}

// RecordCommand counts one handled command.
func RecordCommand(command, outcome string) {
	globalManager.commandsHandled.WithLabelValues(command, outcome).Inc()
}

// RecordTransactionProposed counts a transaction entering the proposed state.
func RecordTransactionProposed(kind string) {
	globalManager.transactionsProposed.WithLabelValues(kind).Inc()
}

// RecordResolution counts an applied Accept or Reject.
func RecordResolution(verdict string) {
	globalManager.resolutions.WithLabelValues(verdict).Inc()
}

// RecordCapViolation counts a refused trade.
func RecordCapViolation(rule string) {
	globalManager.capViolations.WithLabelValues(rule).Inc()
}

// UpdateRegisteredTeams sets the registered team gauge.
func UpdateRegisteredTeams(count int) {
	globalManager.registeredTeams.Set(float64(count))
}

// UpdatePendingProposals sets the pending proposal gauge.
func UpdatePendingProposals(count int) {
	globalManager.pendingProposals.Set(float64(count))
}

// RecordRosterFetch records a roster fetch outcome and its latency.
func RecordRosterFetch(outcome string, latencyMs float64) {
	globalManager.rosterFetches.WithLabelValues(outcome).Inc()
	globalManager.rosterFetchLatency.Observe(latencyMs)
}

// RecordStoreOperation records a store load or save.
func RecordStoreOperation(backend, op, outcome string, latencyMs float64) {
	globalManager.storeOperations.WithLabelValues(backend, op, outcome).Inc()
	globalManager.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordAnnouncementFailure counts an undelivered notification.
func RecordAnnouncementFailure() {
	globalManager.announcementsFailed.Inc()
}

// UpdateQueueSize sets the current job queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the job queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueEnqueueError counts a refused job.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordJobLatency observes a deferred job's run time.
func RecordJobLatency(command string, latencyMs float64) {
	globalManager.jobLatency.WithLabelValues(command).Observe(latencyMs)
}

// RecordJobError counts a deferred job that failed.
func RecordJobError(command string) {
	globalManager.jobErrors.WithLabelValues(command).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
