package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log rotation is fixed: 10 MiB per file, 10 historical backups.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 10
)

// LogOptions describes a logger configuration. It is built once at process
// start and handed to NewLogger; nothing mutates global logging state.
type LogOptions struct {
	Level  string // "debug", "info", "warn", "error"; default "info"
	Format string // "text" or "json"; default "text"
	Debug  bool   // forces debug level regardless of Level

	Dir  string // log directory, created if missing; default "logs"
	File string // log file name within Dir; default "app.log"

	// Console is the non-file sink. Defaults to os.Stderr.
	Console io.Writer
}

// NewLogger builds a logger with two sinks sharing one level and format: the
// console writer and a size-rotating file under Dir. The log directory is
// created here so the file sink never fails on a missing path.
func NewLogger(opts LogOptions) (*slog.Logger, error) {
	if opts.Console == nil {
		opts.Console = os.Stderr
	}
	if opts.Dir == "" {
		opts.Dir = "logs"
	}
	if opts.File == "" {
		opts.File = "app.log"
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", opts.Dir, err)
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, opts.File),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
	}

	handlerOpts := &slog.HandlerOptions{Level: Level(opts.Level, opts.Debug)}
	sink := io.MultiWriter(opts.Console, rotating)

	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(sink, handlerOpts)
	} else {
		handler = slog.NewTextHandler(sink, handlerOpts)
	}

	return slog.New(handler), nil
}

// Level maps a level name and the debug flag to a slog level. Debug wins.
func Level(name string, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
