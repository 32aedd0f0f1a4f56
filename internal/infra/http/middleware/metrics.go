package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	pipelineEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_events_total",
			Help: "Total number of committed pipeline mutations",
		},
		[]string{"type"},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospect_status_transitions_total",
			Help: "Total number of prospect status changes",
		},
		[]string{"from", "to"},
	)

	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_store_errors_total",
			Help: "Total number of failed remote store operations",
		},
		[]string{"operation"},
	)

	calendarEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_events_total",
			Help: "Total number of calendar events created",
		},
		[]string{"provider", "status"},
	)

	importedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Total number of spreadsheet rows processed on import",
		},
		[]string{"outcome"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps prospect ids out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// MetricsRecorder counts committed pipeline mutations. It is registered as
// an event publisher next to the queue producer.
type MetricsRecorder struct{}

func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

func (MetricsRecorder) PublishPipelineEvent(_ context.Context, evt entity.PipelineEvent) error {
	pipelineEvents.WithLabelValues(string(evt.Type)).Inc()
	if evt.Type == entity.EventStatusChanged {
		statusTransitions.WithLabelValues(string(evt.FromStatus), string(evt.ToStatus)).Inc()
	}
	return nil
}

func RecordStoreError(operation string) {
	storeErrors.WithLabelValues(operation).Inc()
}

func RecordCalendarEvent(provider, status string) {
	calendarEvents.WithLabelValues(provider, status).Inc()
}

func RecordImport(imported, skipped, failed int) {
	importedRows.WithLabelValues("imported").Add(float64(imported))
	importedRows.WithLabelValues("skipped").Add(float64(skipped))
	importedRows.WithLabelValues("failed").Add(float64(failed))
}
