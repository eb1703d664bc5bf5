package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/darasa/core/attendance"
)

// Metrics holds the application collectors and the registry they are exposed from.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP requests by method, route and status
	Requests *prometheus.CounterVec

	// HTTP request latency by method and route
	RequestLatency *prometheus.HistogramVec

	// Attendance events appended to the ledger by course
	AttendanceRecorded *prometheus.CounterVec
}

var _ attendance.Observer = (*Metrics)(nil)

// New creates a Metrics instance with its own registry, so several servers can live in one process.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by method and route",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		AttendanceRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_events_recorded_total",
			Help: "Total attendance events recorded by course",
		}, []string{"course"}),
	}
}

// EventRecorded counts a recorded attendance event.
func (m *Metrics) EventRecorded(evt attendance.Event) {
	if m != nil {
		m.AttendanceRecorded.WithLabelValues(evt.Course).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records every request handled by echo. Errors are handed to the
// echo error handler first so that the final status is observed.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			if err := next(ctx); err != nil {
				ctx.Error(err)
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			method := ctx.Request().Method
			m.Requests.WithLabelValues(method, route, strconv.Itoa(ctx.Response().Status)).Inc()
			m.RequestLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
