package app_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/renewable-forecast-ops/internal/app"
	"github.com/couchcryptid/renewable-forecast-ops/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer() *app.Server {
	return app.NewServer(observability.NewMetricsForTesting(), discardLogger())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns503BeforeStart(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRun_BlocksUntilCancelled(t *testing.T) {
	srv := newTestServer()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx, app.RunOptions{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second})
	}()

	// Readiness flips once the server loop has started.
	require.Eventually(t, func() bool {
		return srv.CheckReadiness(context.Background()) == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)
	require.Error(t, srv.CheckReadiness(context.Background()))
}

func TestRun_ListenFailure(t *testing.T) {
	srv := newTestServer()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := srv.Run(ctx, app.RunOptions{Host: "256.256.256.256", Port: 80})
	require.Error(t, err)
}

func TestMode(t *testing.T) {
	t.Setenv(app.ModeEnvVar, "")
	assert.Equal(t, app.ModeProduction, app.Mode())

	t.Setenv(app.ModeEnvVar, app.ModeDevelopment)
	assert.Equal(t, app.ModeDevelopment, app.Mode())
}
