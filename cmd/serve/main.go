// Command serve launches the renewable energy forecasting web application:
// it configures logging, ensures the runtime directories exist, sets the
// application mode, and starts the server for the life of the process.
//
// Usage:
//
//	go run ./cmd/serve [-debug] [-port PORT] [-host HOST]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/renewable-forecast-ops/internal/app"
	"github.com/couchcryptid/renewable-forecast-ops/internal/config"
	"github.com/couchcryptid/renewable-forecast-ops/internal/launcher"
	"github.com/couchcryptid/renewable-forecast-ops/internal/observability"
	"github.com/couchcryptid/renewable-forecast-ops/internal/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags override the environment-derived defaults.
	debug := flag.Bool("debug", cfg.Debug, "run in debug mode")
	port := flag.Int("port", cfg.Port, "port to run the application on")
	host := flag.String("host", cfg.Host, "host to run the application on")
	flag.Parse()

	logger, err := observability.NewLogger(observability.LogOptions{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Debug:  *debug,
	})
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	server := app.NewServer(metrics, logger)
	l := launcher.New(server, workspace.NewLayout("."), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := l.Start(ctx, launcher.Options{
		Debug:           *debug,
		Host:            *host,
		Port:            *port,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}); err != nil {
		logger.Error("application exited with error", "error", err)
		stop()
		os.Exit(1)
	}
}
