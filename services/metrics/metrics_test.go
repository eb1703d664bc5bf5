package metrics

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/attendance"
)

func TestMetrics_EventRecorded(t *testing.T) {
	m := New("test")
	m.EventRecorded(attendance.Event{Course: "Physics"})
	m.EventRecorded(attendance.Event{Course: "Physics"})
	m.EventRecorded(attendance.Event{Course: "Art"})

	assert.Equal(t, float64(2), promtest.ToFloat64(m.AttendanceRecorded.WithLabelValues("Physics")))
	assert.Equal(t, float64(1), promtest.ToFloat64(m.AttendanceRecorded.WithLabelValues("Art")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.EventRecorded(attendance.Event{Course: "Physics"}) })
}

func TestMetrics_Middleware(t *testing.T) {
	m := New("test")
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ping/:id", func(ctx echo.Context) error { return ctx.String(http.StatusOK, "pong") })
	e.GET("/fail", func(ctx echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "nope") })

	for _, path := range []string{"/ping/1", "/ping/2", "/fail"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), promtest.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/ping/:id", "200")))
	assert.Equal(t, float64(1), promtest.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/fail", "400")))
	assert.Equal(t, 2, promtest.CollectAndCount(m.RequestLatency))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("test")
	m.EventRecorded(attendance.Event{Course: "Chemistry"})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `attendance_events_recorded_total{course="Chemistry"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
