// Package app is the forecasting web application's run entry point. The
// routes here are the operational surface only (health, readiness, metrics);
// forecasting endpoints are out of scope for the provisioning tooling.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/renewable-forecast-ops/internal/observability"
)

// ModeEnvVar is the environment variable the launcher sets before starting
// the application.
const ModeEnvVar = "FORECAST_ENV"

// Application modes.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Mode returns the application mode from the environment, defaulting to
// production when unset.
func Mode() string {
	if m := os.Getenv(ModeEnvVar); m != "" {
		return m
	}
	return ModeProduction
}

// RunOptions are the parameters the launcher hands to Run.
type RunOptions struct {
	Debug bool
	Host  string
	Port  int

	// ShutdownTimeout bounds the graceful drain. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Server is the application server. Run blocks for the process lifetime.
type Server struct {
	mux     *http.ServeMux
	metrics *observability.Metrics
	logger  *slog.Logger
	ready   atomic.Bool
}

// NewServer creates the application server with /healthz, /readyz, and
// /metrics routes.
func NewServer(metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		metrics: metrics,
		logger:  logger,
	}

	s.mux.HandleFunc("GET /healthz", s.instrument("/healthz", s.handleHealth))
	s.mux.HandleFunc("GET /readyz", s.instrument("/readyz", s.handleReady))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Run binds host:port and serves until the context is cancelled, then drains
// connections within the shutdown timeout. It returns the listen error if
// the server could not start.
func (s *Server) Run(ctx context.Context, opts RunOptions) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	mode := Mode()
	s.metrics.AppMode.WithLabelValues(mode).Set(1)
	s.logger.Info("starting forecast application",
		"host", opts.Host,
		"port", opts.Port,
		"debug", opts.Debug,
		"mode", mode,
	)

	srv := &http.Server{
		Addr:         net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		Handler:      s.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.ready.Store(true)
	defer s.ready.Store(false)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	s.logger.Info("shutdown complete")
	return nil
}

// CheckReadiness returns nil once the server is accepting connections.
func (s *Server) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errNotReady
	}
	return nil
}

// ServeHTTP delegates to the underlying mux, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

var errNotReady = errors.New("server has not started yet")

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.CheckReadiness(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// instrument wraps a handler with request count and duration metrics.
func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.RequestsTotal.WithLabelValues(path, strconv.Itoa(rec.status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
