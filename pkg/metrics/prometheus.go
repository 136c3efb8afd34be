package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by the services.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Catalog
	catalogSongs  prometheus.Gauge
	catalogMovies prometheus.Gauge

	// Search
	searches      prometheus.Counter
	searchResults prometheus.Histogram

	// Quiz
	quizSessionsActive  prometheus.Gauge
	quizSessionsCreated prometheus.Counter
	quizSessionsEvicted prometheus.Counter
	quizQuestions       prometheus.Counter
	quizAnswers         *prometheus.CounterVec
	quizUnavailable     prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Sync job
	syncRuns          *prometheus.CounterVec
	syncRows          *prometheus.CounterVec
	syncFetchAttempts prometheus.Counter

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "moviesongs",
		subsystem:        "",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.catalogSongs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_songs",
		Help:      "Number of songs in the loaded catalog",
	})

	m.catalogMovies = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_movie_appearances",
		Help:      "Number of movie appearances in the loaded catalog",
	})

	m.searches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "searches_total",
		Help:      "Total number of catalog searches",
	})

	m.searchResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "search_results",
		Help:      "Number of songs returned per search",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
	})

	m.quizSessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_sessions_active",
		Help:      "Number of quiz sessions currently held in memory",
	})

	m.quizSessionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_sessions_created_total",
		Help:      "Total number of quiz sessions started",
	})

	m.quizSessionsEvicted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_sessions_evicted_total",
		Help:      "Total number of quiz sessions evicted for capacity or idleness",
	})

	m.quizQuestions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_questions_total",
		Help:      "Total number of quiz questions generated",
	})

	m.quizAnswers = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "quiz_answers_total",
			Help:      "Total number of first answers by outcome",
		},
		[]string{"result"},
	)

	m.quizUnavailable = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_unavailable_total",
		Help:      "Quiz requests that found no eligible songs",
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

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "HTTP error responses by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.syncRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sync_runs_total",
			Help:      "Catalog sync runs by final status",
		},
		[]string{"status"},
	)

	m.syncRows = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sync_rows_total",
			Help:      "Source rows seen by the sync job, kept or dropped",
		},
		[]string{"outcome"},
	)

	m.syncFetchAttempts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_fetch_attempts_total",
		Help:      "Total number of source fetch attempts",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// UpdateCatalogSize records the size of the loaded catalog.
func UpdateCatalogSize(songs, movies int) {
	globalManager.catalogSongs.Set(float64(songs))
	globalManager.catalogMovies.Set(float64(movies))
}

// RecordSearch counts a search and the number of songs it returned.
func RecordSearch(results int) {
	globalManager.searches.Inc()
	globalManager.searchResults.Observe(float64(results))
}

// UpdateQuizSessionsActive sets the number of live quiz sessions.
func UpdateQuizSessionsActive(count int) {
	globalManager.quizSessionsActive.Set(float64(count))
}

// RecordQuizSessionCreated counts a new quiz session.
func RecordQuizSessionCreated() {
	globalManager.quizSessionsCreated.Inc()
}

// RecordQuizSessionsEvicted counts evicted quiz sessions.
func RecordQuizSessionsEvicted(count int) {
	if count > 0 {
		globalManager.quizSessionsEvicted.Add(float64(count))
	}
}

// RecordQuizQuestion counts a generated question.
func RecordQuizQuestion() {
	globalManager.quizQuestions.Inc()
}

// RecordQuizAnswer counts a first answer to a question.
func RecordQuizAnswer(correct bool) {
	result := "wrong"
	if correct {
		result = "correct"
	}
	globalManager.quizAnswers.WithLabelValues(result).Inc()
}

// RecordQuizUnavailable counts quiz requests against a catalog with no
// eligible songs.
func RecordQuizUnavailable() {
	globalManager.quizUnavailable.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error response for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordSyncRun records the final status of a sync run.
func RecordSyncRun(status string) {
	globalManager.syncRuns.WithLabelValues(status).Inc()
}

// RecordSyncRows adds count rows with the given outcome.
func RecordSyncRows(outcome string, count int) {
	if count > 0 {
		globalManager.syncRows.WithLabelValues(outcome).Add(float64(count))
	}
}

// RecordSyncFetchAttempt counts one fetch attempt against the source.
func RecordSyncFetchAttempt() {
	globalManager.syncFetchAttempts.Inc()
}

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// Configure rebuilds the global metrics on a fresh registry with opts.
// Call it once at startup, before any metric is recorded or exposed.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	customRegistry = registry
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(registry)}, opts...)...)
}

// GetRegistry returns the registry all global metrics are registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
