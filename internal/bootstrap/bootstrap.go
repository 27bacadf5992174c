// Package bootstrap orchestrates the one-shot workspace setup: directory
// tree, sample datasets, and the isolated runtime environment. Each step
// isolates its own failures; only directory creation aborts the run.
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/renewable-forecast-ops/internal/dataset"
)

// LayoutEnsurer creates the workspace directory tree.
type LayoutEnsurer interface {
	Ensure(logger *slog.Logger) error
}

// Fetcher materializes sample datasets.
type Fetcher interface {
	FetchAll(ctx context.Context, datasets []dataset.Dataset) []dataset.Result
}

// Provisioner creates the runtime environment and installs dependencies.
type Provisioner interface {
	Provision(ctx context.Context) error
	InstallRequirements(ctx context.Context, manifest string) error
}

// Notifier announces materialized datasets downstream.
type Notifier interface {
	Publish(ctx context.Context, results []dataset.Result) error
}

// Options gates the optional setup steps.
type Options struct {
	SkipDownload     bool
	SkipVenv         bool
	Datasets         []dataset.Dataset
	RequirementsFile string
}

// Bootstrap runs the setup steps against injected collaborators.
type Bootstrap struct {
	layout      LayoutEnsurer
	fetcher     Fetcher
	provisioner Provisioner
	notifier    Notifier
	clock       clockwork.Clock
	logger      *slog.Logger
}

// New creates a Bootstrap.
func New(layout LayoutEnsurer, fetcher Fetcher, provisioner Provisioner, notifier Notifier, clock clockwork.Clock, logger *slog.Logger) *Bootstrap {
	return &Bootstrap{
		layout:      layout,
		fetcher:     fetcher,
		provisioner: provisioner,
		notifier:    notifier,
		clock:       clock,
		logger:      logger,
	}
}

// Run executes the setup steps in order: directory tree, dataset download,
// environment provisioning, dependency install. A dataset failure never
// prevents provisioning; a provisioning failure short-circuits only the
// dependency install. The returned error is non-nil only for directory
// creation failures.
func (b *Bootstrap) Run(ctx context.Context, opts Options) error {
	start := b.clock.Now()
	b.logger.Info("starting workspace setup")

	if err := b.layout.Ensure(b.logger); err != nil {
		return err
	}
	b.logger.Info("directory structure ready")

	if opts.SkipDownload {
		b.logger.Info("skipping sample data download")
	} else {
		b.fetchAndNotify(ctx, opts.Datasets)
	}

	switch {
	case opts.SkipVenv:
		b.logger.Info("skipping virtual environment setup")
	default:
		if err := b.provisioner.Provision(ctx); err != nil {
			b.logger.Error("virtual environment provisioning failed", "error", err)
			break
		}
		if err := b.provisioner.InstallRequirements(ctx, opts.RequirementsFile); err != nil {
			b.logger.Error("dependency installation failed", "error", err)
		}
	}

	b.logger.Info("setup finished", "duration", b.clock.Since(start))
	return nil
}

func (b *Bootstrap) fetchAndNotify(ctx context.Context, datasets []dataset.Dataset) {
	results := b.fetcher.FetchAll(ctx, datasets)

	var materialized int
	for _, res := range results {
		if res.Materialized() {
			materialized++
		}
	}
	b.logger.Info("sample data setup completed", "materialized", materialized, "total", len(results))

	if err := b.notifier.Publish(ctx, results); err != nil {
		b.logger.Error("dataset notification failed", "error", err)
	}
}
