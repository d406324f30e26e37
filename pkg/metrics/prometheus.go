// Package metrics provides Prometheus metrics for clustering runs.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeConverged      = "converged"
	OutcomeDidNotConverge = "did_not_converge"
	OutcomeInvalid        = "invalid"
	OutcomeCancelled      = "cancelled"
)

// iterationBuckets spans the pass counts seen on small 2D inputs.
var iterationBuckets = []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89} //nolint:gochecknoglobals // fixed histogram layout

// Manager manages all Prometheus metrics for the clustering service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Clustering metrics
	runs            *prometheus.CounterVec
	iterations      prometheus.Histogram
	runDuration     prometheus.Histogram
	pointsClustered prometheus.Counter
	lastIterations  prometheus.Gauge
	clusterSize     *prometheus.GaugeVec
	blobsGenerated  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
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
		namespace:        "kmeans",
		subsystem:        "lloyd",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
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

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("runs_total"),
		Help:        "Total number of clustering runs by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.iterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("iterations"),
		Help:        "Reassignment passes performed per run",
		Buckets:     iterationBuckets,
		ConstLabels: labels,
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("run_duration_milliseconds"),
		Help:        "Wall time of a clustering run in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.pointsClustered = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("points_clustered_total"),
		Help:        "Total number of points passed through clustering runs",
		ConstLabels: labels,
	})

	m.lastIterations = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_iterations"),
		Help:        "Iterations performed by the most recent run",
		ConstLabels: labels,
	})

	m.clusterSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cluster_size"),
		Help:        "Number of points per cluster after the most recent run",
		ConstLabels: labels,
	}, []string{"cluster"})

	m.blobsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("blobs_generated_total"),
		Help:        "Total number of gaussian blobs sampled for demo data",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_component_total"),
			Help:        "Total number of errors by component",
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Total number of errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Total number of errors by HTTP endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// RecordRun records the outcome of one clustering run.
func (m *Manager) RecordRun(outcome string, iterations, points int, durationMs float64) {
	if !m.enabled {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.pointsClustered.Add(float64(points))
	m.runDuration.Observe(durationMs)
	if outcome == OutcomeInvalid {
		return
	}
	m.iterations.Observe(float64(iterations))
	m.lastIterations.Set(float64(iterations))
}

// UpdateClusterSizes replaces the per-cluster size gauges.
func (m *Manager) UpdateClusterSizes(sizes []int) {
	if !m.enabled {
		return
	}
	m.clusterSize.Reset()
	for i, n := range sizes {
		m.clusterSize.WithLabelValues(strconv.Itoa(i)).Set(float64(n))
	}
}

// RecordRun records the outcome of one clustering run.
func RecordRun(outcome string, iterations, points int, durationMs float64) {
	globalManager.RecordRun(outcome, iterations, points, durationMs)
}

// UpdateClusterSizes replaces the per-cluster size gauges.
func UpdateClusterSizes(sizes []int) {
	globalManager.UpdateClusterSizes(sizes)
}

// RecordBlobsGenerated adds n to the generated blob counter.
func RecordBlobsGenerated(n int) {
	if globalManager.enabled {
		globalManager.blobsGenerated.Add(float64(n))
	}
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent increments error rate by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType increments error rate by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint increments error rate by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current registry in the text exposition format,
// for collection by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
