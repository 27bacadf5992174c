// Command setup performs the initial workspace setup for the renewable
// energy forecasting project: it creates the directory structure, downloads
// sample data, and provisions an isolated Python environment with the
// declared dependencies.
//
// Usage:
//
//	go run ./cmd/setup [-no-download] [-no-venv]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/renewable-forecast-ops/internal/bootstrap"
	"github.com/couchcryptid/renewable-forecast-ops/internal/config"
	"github.com/couchcryptid/renewable-forecast-ops/internal/dataset"
	"github.com/couchcryptid/renewable-forecast-ops/internal/notify"
	"github.com/couchcryptid/renewable-forecast-ops/internal/observability"
	"github.com/couchcryptid/renewable-forecast-ops/internal/venv"
	"github.com/couchcryptid/renewable-forecast-ops/internal/workspace"
)

func main() {
	noDownload := flag.Bool("no-download", false, "skip downloading sample data")
	noVenv := flag.Bool("no-venv", false, "skip virtual environment setup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(observability.LogOptions{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Debug:  cfg.Debug,
	})
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *noDownload, *noVenv); err != nil {
		logger.Error("setup failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, noDownload, noVenv bool) error {
	clock := clockwork.NewRealClock()
	layout := workspace.NewLayout(".")
	fetcher := dataset.NewFetcher(layout.Root, cfg.DownloadTimeout, clock, logger)

	var notifier bootstrap.Notifier = notify.Nop{}
	if cfg.NotifyEnabled {
		n := notify.NewNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer n.Close()
		notifier = n
		logger.Info("dataset notifications enabled", "topic", cfg.KafkaTopic)
	}

	desc := venv.NewDescriptor(cfg.VenvDir)
	provisioner := venv.NewProvisioner(cfg.PythonExec, desc, venv.ExecRunner{}, logger)

	b := bootstrap.New(layout, fetcher, provisioner, notifier, clock, logger)
	return b.Run(ctx, bootstrap.Options{
		SkipDownload:     noDownload,
		SkipVenv:         noVenv,
		Datasets:         dataset.Defaults(),
		RequirementsFile: cfg.RequirementsFile,
	})
}
