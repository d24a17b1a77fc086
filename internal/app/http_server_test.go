package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	healthcheck "github.com/vladislavdragonenkov/orders/internal/health"
)

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHTTPRouter_Routes(t *testing.T) {
	router := newHTTPRouter(healthcheck.NewHandler("test"))

	tests := []struct {
		method string
		path   string
		want   int
		body   string
	}{
		{http.MethodGet, "/metrics", http.StatusOK, ""},
		{http.MethodGet, "/healthz", http.StatusOK, `"status":"healthy"`},
		{http.MethodGet, "/readyz", http.StatusOK, "ready"},
		{http.MethodGet, "/livez", http.StatusOK, "ok"},
		{http.MethodPost, "/metrics", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(t, router, tt.method, tt.path)
			assert.Equal(t, tt.want, w.Code)
			if tt.body != "" {
				assert.Contains(t, w.Body.String(), tt.body)
			}
		})
	}
}

func TestHTTPRouter_UnhealthyStorage(t *testing.T) {
	healthHandler := healthcheck.NewHandler("test")
	healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func(context.Context) error {
		return errors.New("connection refused")
	}))
	router := newHTTPRouter(healthHandler)

	assert.Equal(t, http.StatusServiceUnavailable, serve(t, router, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, router, http.MethodGet, "/readyz").Code)
	assert.Equal(t, http.StatusOK, serve(t, router, http.MethodGet, "/livez").Code, "liveness ignores storage")
}

func TestHTTPRouter_PanickingCheckerIsNotReady(t *testing.T) {
	healthHandler := healthcheck.NewHandler("test")
	healthHandler.RegisterChecker("broken", healthcheck.NewSimpleChecker("broken", func(context.Context) error {
		panic("boom")
	}))

	w := serve(t, newHTTPRouter(healthHandler), http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	return listener.Addr().String()
}

func waitForHTTP(t *testing.T, url string) *http.Response {
	t.Helper()
	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(url) //nolint:gosec // test URL
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, 20*time.Millisecond)
	return resp
}

func TestStartMetricsServer_ServesAndStopsOnCancel(t *testing.T) {
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := startMetricsServer(ctx, addr, log.WithField("test", "http"), healthcheck.NewHandler("test"))
	require.NotNil(t, srv)

	resp := waitForHTTP(t, fmt.Sprintf("http://%s/livez", addr))
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	assert.Eventually(t, func() bool {
		r, err := http.Get(fmt.Sprintf("http://%s/livez", addr)) //nolint:gosec // test URL
		if err == nil {
			r.Body.Close()
		}
		return err != nil
	}, 2*time.Second, 20*time.Millisecond, "server must stop after context cancellation")
}

func TestStartMetricsServer_BusyAddrDoesNotPanic(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := startMetricsServer(ctx, listener.Addr().String(), log.WithField("test", "http-busy"), healthcheck.NewHandler("test"))
	assert.NotNil(t, srv)
}

func TestShutdownHTTP(t *testing.T) {
	logger := log.WithField("test", "http-shutdown")
	assert.NotPanics(t, func() { shutdownHTTP(nil, logger) })

	addr := freeAddr(t)
	srv := &http.Server{Addr: addr, Handler: newHTTPRouter(healthcheck.NewHandler("test")), ReadHeaderTimeout: time.Second}
	go func() { _ = srv.ListenAndServe() }()

	resp := waitForHTTP(t, fmt.Sprintf("http://%s/livez", addr))
	resp.Body.Close()

	shutdownHTTP(srv, logger)
	_, err := http.Get(fmt.Sprintf("http://%s/livez", addr)) //nolint:gosec // test URL
	assert.Error(t, err)
}
