package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticChecker Check

func (c staticChecker) Check(context.Context) Check { return Check(c) }

type panicChecker struct{}

func (panicChecker) Check(context.Context) Check { panic("boom") }

func TestHandler_AggregatesStatus(t *testing.T) {
	healthy := staticChecker{Name: "storage", Status: StatusHealthy}
	degraded := staticChecker{Name: "kafka", Status: StatusDegraded, Message: "publisher disabled"}
	unhealthy := staticChecker{Name: "storage", Status: StatusUnhealthy, Message: "down"}

	tests := []struct {
		name      string
		checkers  map[string]Checker
		want      Status
		wantCode  int
		wantReady int
	}{
		{"no checkers", nil, StatusHealthy, http.StatusOK, http.StatusOK},
		{"all healthy", map[string]Checker{"storage": healthy}, StatusHealthy, http.StatusOK, http.StatusOK},
		{"degraded keeps 200", map[string]Checker{"storage": healthy, "kafka": degraded}, StatusDegraded, http.StatusOK, http.StatusOK},
		{"unhealthy wins", map[string]Checker{"kafka": degraded, "storage": unhealthy}, StatusUnhealthy, http.StatusServiceUnavailable, http.StatusServiceUnavailable},
		{"panic is unhealthy", map[string]Checker{"broken": panicChecker{}}, StatusUnhealthy, http.StatusServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler("v1.0.0")
			for name, checker := range tt.checkers {
				handler.RegisterChecker(name, checker)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			require.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.want, resp.Status)
			assert.Equal(t, "v1.0.0", resp.Version)
			assert.Len(t, resp.Checks, len(tt.checkers))

			ready := httptest.NewRecorder()
			handler.ReadinessHandler(ready, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.wantReady, ready.Code)
			if tt.wantReady == http.StatusOK {
				assert.Equal(t, "ready", ready.Body.String())
			} else {
				assert.Equal(t, "not ready", ready.Body.String())
			}
		})
	}
}

func TestHandler_ReportPanicMessage(t *testing.T) {
	handler := NewHandler("test")
	handler.RegisterChecker("broken", panicChecker{})

	report := handler.Report(context.Background())
	require.Contains(t, report.Checks, "broken")
	assert.Equal(t, "broken", report.Checks["broken"].Name)
	assert.Contains(t, report.Checks["broken"].Message, "boom")
}

func TestHandler_RunsChecksConcurrently(t *testing.T) {
	handler := NewHandler("test")
	slow := func(context.Context) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	}
	for _, name := range []string{"a", "b", "c", "d"} {
		handler.RegisterChecker(name, NewSimpleChecker(name, slow))
	}

	start := time.Now()
	report := handler.Report(context.Background())
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Less(t, time.Since(start), 350*time.Millisecond)
}

func TestLivenessHandler(t *testing.T) {
	w := httptest.NewRecorder()
	LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestSimpleChecker(t *testing.T) {
	t.Run("healthy with duration", func(t *testing.T) {
		check := NewSimpleChecker("storage", func(context.Context) error {
			time.Sleep(10 * time.Millisecond)
			return nil
		}).Check(context.Background())

		assert.Equal(t, StatusHealthy, check.Status)
		assert.Equal(t, "storage", check.Name)
		assert.Empty(t, check.Message)
		assert.GreaterOrEqual(t, check.DurationMs, int64(10))
	})

	t.Run("error message", func(t *testing.T) {
		check := NewSimpleChecker("storage", func(context.Context) error {
			return errors.New("connection refused")
		}).Check(context.Background())

		assert.Equal(t, StatusUnhealthy, check.Status)
		assert.Equal(t, "connection refused", check.Message)
	})

	t.Run("timeout", func(t *testing.T) {
		check := NewSimpleChecker("slow", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}).WithTimeout(20 * time.Millisecond).Check(context.Background())

		assert.Equal(t, StatusUnhealthy, check.Status)
		assert.Equal(t, context.DeadlineExceeded.Error(), check.Message)
	})

	t.Run("zero timeout keeps caller deadline", func(t *testing.T) {
		var hasDeadline bool
		NewSimpleChecker("plain", func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}).WithTimeout(0).Check(context.Background())

		assert.False(t, hasDeadline)
	})
}
