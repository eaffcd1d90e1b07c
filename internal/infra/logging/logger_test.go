package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesFormattedEntries(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("sync", "reconciled")
	logger.Error("task", "boom")

	content, err := os.ReadFile(filepath.Join(dir, "logs", "totodo.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO] [sync] reconciled")
	assert.Contains(t, string(content), "[ERROR] [task] boom")
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir, slog.LevelWarn)
	defer func() { _ = logger.Close() }()

	logger.Debug("sync", "noise")
	logger.Info("sync", "noise")
	logger.Warn("sync", "kept")

	content, err := os.ReadFile(filepath.Join(dir, "logs", "totodo.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "noise")
	assert.Contains(t, string(content), "kept")
}

func TestLogger_DisabledWithoutDataDir(t *testing.T) {
	logger := New("", slog.LevelDebug)

	// Must be a silent no-op.
	logger.Info("sync", "dropped")
	assert.NoError(t, logger.Close())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("unknown"))
}
