package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ghost_payroll"

// Metrics holds the service's prometheus collectors. A nil *Metrics is valid
// and records nothing, so components can be built without it in tests.
type Metrics struct {
	registry prometheus.Gatherer

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	scansTotal        *prometheus.CounterVec
	scanDuration      prometheus.Histogram
	anomaliesEmitted  *prometheus.CounterVec
	insertFailures    prometheus.Counter
	uploadsTotal      *prometheus.CounterVec
	uploadedRows      *prometheus.CounterVec
}

// NewMetrics registers every collector on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		scansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomaly_scans_total",
			Help:      "Anomaly scans run, by outcome.",
		}, []string{"outcome"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "anomaly_scan_duration_seconds",
			Help:      "Histogram of anomaly scan durations.",
			Buckets:   prometheus.DefBuckets,
		}),
		anomaliesEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_emitted_total",
			Help:      "Anomalies inserted by the scanner, by type.",
		}, []string{"type"}),
		insertFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomaly_insert_failures_total",
			Help:      "Anomaly inserts that failed during a scan.",
		}),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "CSV uploads processed, by file type and status.",
		}, []string{"file_type", "status"}),
		uploadedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_rows_total",
			Help:      "CSV rows handled during ingestion, by file type and result.",
		}, []string{"file_type", "result"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.scansTotal,
		m.scanDuration,
		m.anomaliesEmitted,
		m.insertFailures,
		m.uploadsTotal,
		m.uploadedRows,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latency labelled by the chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m == nil {
			return
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ScanFinished(duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.scansTotal.WithLabelValues(outcome).Inc()
	m.scanDuration.Observe(duration.Seconds())
}

func (m *Metrics) AnomalyEmitted(anomalyType string) {
	if m == nil {
		return
	}
	m.anomaliesEmitted.WithLabelValues(anomalyType).Inc()
}

func (m *Metrics) AnomalyInsertFailed() {
	if m == nil {
		return
	}
	m.insertFailures.Inc()
}

func (m *Metrics) UploadFinished(fileType, status string) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(fileType, status).Inc()
}

func (m *Metrics) RowsIngested(fileType string, stored, skipped int) {
	if m == nil {
		return
	}
	m.uploadedRows.WithLabelValues(fileType, "stored").Add(float64(stored))
	m.uploadedRows.WithLabelValues(fileType, "skipped").Add(float64(skipped))
}
