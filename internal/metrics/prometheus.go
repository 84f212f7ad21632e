package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the voice antispoofing service
type Metrics struct {
	// Pipeline metrics
	AnalysesTotal    *prometheus.CounterVec // by source and status
	AnalysisDuration prometheus.Histogram
	AudioDuration    prometheus.Histogram
	UploadSize       prometheus.Histogram

	// Decode and feature metrics
	DecodeFailures  prometheus.Counter
	FeatureFailures *prometheus.CounterVec // by feature

	// Classifier metrics
	ClassifierRequests prometheus.Counter
	ClassifierFailures prometheus.Counter
	ClassifierDuration prometheus.Histogram
	ClassifierSkipped  prometheus.Counter

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// Pipeline metrics
		AnalysesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "antispoof_analyses_total",
			Help: "Total number of pipeline runs by source and verdict status",
		}, []string{"source", "status"}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "antispoof_analysis_duration_seconds",
			Help:    "End-to-end pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}),
		AudioDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "antispoof_audio_duration_seconds",
			Help:    "Duration of analyzed clips in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 0.25s to ~2 minutes
		}),
		UploadSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "antispoof_upload_size_bytes",
			Help:    "Size of uploaded audio byte streams",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to ~256MB
		}),

		// Decode and feature metrics
		DecodeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "antispoof_decode_failures_total",
			Help: "Total number of clips that failed to decode and fell back to the empty profile",
		}),
		FeatureFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "antispoof_feature_failures_total",
			Help: "Total number of per-feature computations that collapsed to undefined",
		}, []string{"feature"}),

		// Classifier metrics
		ClassifierRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "antispoof_classifier_requests_total",
			Help: "Total number of classifier invocations",
		}),
		ClassifierFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "antispoof_classifier_failures_total",
			Help: "Total number of classifier invocations that returned a failure verdict",
		}),
		ClassifierDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "antispoof_classifier_duration_seconds",
			Help:    "Classifier invocation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}),
		ClassifierSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "antispoof_classifier_skipped_total",
			Help: "Total number of runs where classification was bypassed by the record-mode policy",
		}),

		// HTTP API metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "antispoof_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "antispoof_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "antispoof_http_errors_total",
			Help: "Total number of HTTP error responses",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordHTTPRequest records metrics for a completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordHTTPError records an HTTP error response
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
