// Package launcher prepares the runtime surface (working directories, mode
// flag) and hands control to the application server for the life of the
// process.
package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/renewable-forecast-ops/internal/app"
	"github.com/couchcryptid/renewable-forecast-ops/internal/workspace"
)

// App is the application's run entry point.
type App interface {
	Run(ctx context.Context, opts app.RunOptions) error
}

// Options for one launch.
type Options struct {
	Debug bool
	Host  string
	Port  int

	ShutdownTimeout time.Duration
}

// Launcher wires the runtime directories, the mode flag, and the application.
type Launcher struct {
	app    App
	layout workspace.Layout
	logger *slog.Logger
}

// New creates a Launcher for the given application and workspace.
func New(a App, layout workspace.Layout, logger *slog.Logger) *Launcher {
	return &Launcher{app: a, layout: layout, logger: logger}
}

// Start runs the launch sequence in strict order: runtime directories, mode
// flag, then the blocking application Run. It returns the application's
// error; directory creation failures abort before the server starts.
func (l *Launcher) Start(ctx context.Context, opts Options) error {
	l.logger.Info("starting renewable energy forecasting application")
	if opts.Debug {
		l.logger.Info("running in debug mode")
	}

	if err := l.layout.EnsureRuntime(l.logger); err != nil {
		return err
	}

	mode := app.ModeProduction
	if opts.Debug {
		mode = app.ModeDevelopment
	}
	if err := os.Setenv(app.ModeEnvVar, mode); err != nil {
		return fmt.Errorf("set %s: %w", app.ModeEnvVar, err)
	}

	return l.app.Run(ctx, app.RunOptions{
		Debug:           opts.Debug,
		Host:            opts.Host,
		Port:            opts.Port,
		ShutdownTimeout: opts.ShutdownTimeout,
	})
}
