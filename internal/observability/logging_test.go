package observability

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_DebugFlagWins(t *testing.T) {
	for _, name := range []string{"", "info", "warn", "error", "debug"} {
		assert.Equal(t, slog.LevelDebug, Level(name, true), "level %q with debug", name)
	}
}

func TestLevel_Mapping(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level("debug", false))
	assert.Equal(t, slog.LevelInfo, Level("info", false))
	assert.Equal(t, slog.LevelWarn, Level("warn", false))
	assert.Equal(t, slog.LevelError, Level("error", false))
	assert.Equal(t, slog.LevelInfo, Level("", false))
	assert.Equal(t, slog.LevelInfo, Level("verbose", false))
}

func TestNewLogger_CreatesLogDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	var console bytes.Buffer
	_, err := NewLogger(LogOptions{Dir: dir, Console: &console})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewLogger_WritesBothSinks(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	var console bytes.Buffer
	logger, err := NewLogger(LogOptions{Dir: dir, File: "app.log", Console: &console})
	require.NoError(t, err)

	logger.Info("starting application", "port", 5000)

	assert.Contains(t, console.String(), "starting application")

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "starting application")
}

func TestNewLogger_VerbosityMapping(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	var console bytes.Buffer

	standard, err := NewLogger(LogOptions{Dir: dir, Console: &console})
	require.NoError(t, err)
	assert.False(t, standard.Enabled(ctx, slog.LevelDebug))
	assert.True(t, standard.Enabled(ctx, slog.LevelInfo))

	verbose, err := NewLogger(LogOptions{Dir: dir, Debug: true, Console: &console})
	require.NoError(t, err)
	assert.True(t, verbose.Enabled(ctx, slog.LevelDebug))
}

func TestNewLogger_JSONFormat(t *testing.T) {
	dir := t.TempDir()

	var console bytes.Buffer
	logger, err := NewLogger(LogOptions{Dir: dir, Format: "json", Console: &console})
	require.NoError(t, err)

	logger.Info("hello")
	assert.Contains(t, console.String(), `"msg":"hello"`)
}
