package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "submissions_bff"

// Metrics holds the gateway's Prometheus recorders.
type Metrics struct {
	registry *prometheus.Registry

	// UploadsTotal counts accepted uploads.
	//
	// Labels: submission_type
	UploadsTotal *prometheus.CounterVec

	// AntivirusDispatchFailuresTotal counts background scan dispatches that
	// failed. Nothing else reports these failures.
	AntivirusDispatchFailuresTotal prometheus.Counter

	// DownloadScansTotal counts synchronous scans made before a download.
	//
	// Labels: result (clean, not_clean)
	DownloadScansTotal *prometheus.CounterVec

	// AuditFailuresTotal counts protective monitoring events that could not be
	// recorded.
	AuditFailuresTotal prometheus.Counter

	// HTTPRequestDurationMilliseconds is the time taken to answer API requests.
	//
	// Labels: method, status
	HTTPRequestDurationMilliseconds *prometheus.HistogramVec

	// HTTPHandlerPanicsTotal counts recovered handler panics.
	//
	// Labels: method
	HTTPHandlerPanicsTotal *prometheus.CounterVec
}

// NewMetrics registers every recorder with reg. Tests pass a fresh registry
// so recorders never collide.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of files accepted for upload",
		}, []string{"submission_type"}),
		AntivirusDispatchFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "antivirus_dispatch_failures_total",
			Help:      "Total number of files that could not be sent to the antivirus service",
		}),
		DownloadScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_scans_total",
			Help:      "Total number of synchronous scans made before releasing a download",
		}, []string{"result"}),
		AuditFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_failures_total",
			Help:      "Total number of protective monitoring events that could not be recorded",
		}),
		HTTPRequestDurationMilliseconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "Time, in milliseconds, it took to respond to API requests",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}, []string{"method", "status"}),
		HTTPHandlerPanicsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_handler_panics_total",
			Help:      "Total number of HTTP handlers which have panicked while processing a request",
		}, []string{"method"}),
	}

	reg.MustRegister(
		m.UploadsTotal,
		m.AntivirusDispatchFailuresTotal,
		m.DownloadScansTotal,
		m.AuditFailuresTotal,
		m.HTTPRequestDurationMilliseconds,
		m.HTTPHandlerPanicsTotal,
	)

	return m
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ScanResult(clean bool) {
	result := "not_clean"
	if clean {
		result = "clean"
	}
	m.DownloadScansTotal.WithLabelValues(result).Inc()
}

// Timer measures how long an operation took, in milliseconds.
type Timer struct {
	startTime time.Time
}

func StartTimer() Timer {
	return Timer{startTime: time.Now()}
}

func (t Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Finish records the elapsed milliseconds on observer.
func (t Timer) Finish(observer prometheus.Observer) {
	observer.Observe(float64(t.Elapsed() / time.Millisecond))
}
