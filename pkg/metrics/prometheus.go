// Package metrics provides Prometheus metrics for the matchday balancer service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Run outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeInsufficient = "insufficient_players"
	OutcomeInvalid      = "invalid_request"
)

// Swap kind labels.
const (
	SwapStarter = "starter"
	SwapBench   = "bench"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	httpBuckets      []float64
	runBuckets       []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Balancer metrics
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	poolSize       prometheus.Histogram
	teamCount      prometheus.Histogram
	iterations     prometheus.Histogram
	swaps          *prometheus.CounterVec
	lastStdDev     prometheus.Gauge
	unpairedGroups prometheus.Counter
	converged      prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchday",
		subsystem:        "balancer",
		httpBuckets:      []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		runBuckets:       []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
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

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("runs_total"),
		Help:        "Balancing runs by outcome",
		ConstLabels: constLabels,
	}, []string{"outcome"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("run_duration_milliseconds"),
		Help:        "Wall time of a balancing run in milliseconds",
		Buckets:     m.runBuckets,
		ConstLabels: constLabels,
	})

	m.poolSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pool_size"),
		Help:        "Participants submitted per run",
		Buckets:     prometheus.LinearBuckets(4, 4, 12),
		ConstLabels: constLabels,
	})

	m.teamCount = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("team_count"),
		Help:        "Groups produced per run",
		Buckets:     prometheus.LinearBuckets(2, 2, 10),
		ConstLabels: constLabels,
	})

	m.iterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("search_iterations"),
		Help:        "Local-search iterations per run",
		Buckets:     []float64{0, 1, 2, 3, 5, 8, 13, 21, 30},
		ConstLabels: constLabels,
	})

	m.swaps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("swaps_total"),
		Help:        "Accepted local-search swaps by kind",
		ConstLabels: constLabels,
	}, []string{"kind"})

	m.lastStdDev = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_strength_stddev"),
		Help:        "Group strength standard deviation of the latest run",
		ConstLabels: constLabels,
	})

	m.unpairedGroups = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("unpaired_groups_total"),
		Help:        "Groups left without an opponent",
		ConstLabels: constLabels,
	})

	m.converged = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("converged_runs_total"),
		Help:        "Runs whose strength deviation ended below the convergence threshold",
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.httpBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "Errors by endpoint, method and type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})
}

// RunStats carries the figures recorded for a successful run.
type RunStats struct {
	Duration     time.Duration
	PoolSize     int
	TeamCount    int
	Iterations   int
	StarterSwaps int
	BenchSwaps   int
	StdDev       float64
	Converged    bool
	Unpaired     bool
}

// RecordRun records a successful balancing run on m.
func (m *Manager) RecordRun(s RunStats) {
	if !m.enabled {
		return
	}
	m.runs.WithLabelValues(OutcomeOK).Inc()
	m.runDuration.Observe(float64(s.Duration.Microseconds()) / 1000)
	m.poolSize.Observe(float64(s.PoolSize))
	m.teamCount.Observe(float64(s.TeamCount))
	m.iterations.Observe(float64(s.Iterations))
	m.swaps.WithLabelValues(SwapStarter).Add(float64(s.StarterSwaps))
	m.swaps.WithLabelValues(SwapBench).Add(float64(s.BenchSwaps))
	m.lastStdDev.Set(s.StdDev)
	if s.Converged {
		m.converged.Inc()
	}
	if s.Unpaired {
		m.unpairedGroups.Inc()
	}
}

// RecordRunFailure counts a run that ended with the given outcome label.
func (m *Manager) RecordRunFailure(outcome string, poolSize int) {
	if !m.enabled {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.poolSize.Observe(float64(poolSize))
}

// RecordRun records a successful run on the global manager.
func RecordRun(s RunStats) {
	globalManager.RecordRun(s)
}

// RecordRunFailure records a failed run on the global manager.
func RecordRunFailure(outcome string, poolSize int) {
	globalManager.RecordRunFailure(outcome, poolSize)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns how often gauge updaters should sample.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
