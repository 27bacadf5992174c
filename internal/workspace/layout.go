// Package workspace defines the on-disk directory layout shared by the
// bootstrapper and the launcher, and the idempotent creation contract:
// pre-existing directories are a no-op, filesystem errors propagate.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Layout is the fixed directory tree rooted at the project directory.
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at the given project directory.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

// Dirs returns every directory the bootstrapper establishes, relative to Root.
func (l Layout) Dirs() []string {
	return []string{
		"data/raw/opsd",
		"data/raw/era5",
		"data/processed",
		"data/models",
		"logs",
		"models",
		"results",
		"uploads",
		"web/static/css",
		"web/static/js",
		"web/static/img",
		"web/templates",
		"notebooks",
		"docs/images",
	}
}

// RuntimeDirs returns the subset the launcher requires before the server starts.
func (l Layout) RuntimeDirs() []string {
	return []string{"uploads", "models", "results", "logs"}
}

// Path resolves a layout-relative path against Root.
func (l Layout) Path(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// Ensure creates the full directory tree. Directories that already exist are
// skipped silently; each directory actually created is logged.
func (l Layout) Ensure(logger *slog.Logger) error {
	return l.ensure(logger, l.Dirs())
}

// EnsureRuntime creates only the directories the launcher depends on.
func (l Layout) EnsureRuntime(logger *slog.Logger) error {
	return l.ensure(logger, l.RuntimeDirs())
}

func (l Layout) ensure(logger *slog.Logger, dirs []string) error {
	for _, dir := range dirs {
		path := l.Path(dir)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
		logger.Info("created directory", "path", dir)
	}
	return nil
}
