package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load_Defaults(t *testing.T) {
	// An empty config directory yields the built-in defaults.
	loader := NewLoaderWithDir(t.TempDir())

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Store.Backend)
	assert.Equal(t, 300, cfg.Sync.IntervalSeconds)
	assert.Equal(t, 30, cfg.Sync.ProbeSeconds)
	assert.True(t, cfg.Sync.Snapshots)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Remote.Configured())
}

func TestLoader_Load_OverlaysFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[remote]
url = "https://api.example.com"
api_key = "service-key"
access_token = "token"
user_id = "user-1"

[store]
backend = "sqlite"

[sync]
interval_seconds = 60
snapshots = false

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
	loader := NewLoaderWithDir(dir)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Remote.Configured())
	assert.Equal(t, "https://api.example.com", cfg.Remote.URL)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, 60, cfg.Sync.IntervalSeconds)
	assert.False(t, cfg.Sync.Snapshots)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields keep their defaults.
	assert.Equal(t, 30, cfg.Sync.ProbeSeconds)
	assert.NotEmpty(t, cfg.Store.Dir)
}

func TestLoader_Load_BadTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("not toml ["), 0o600))
	loader := NewLoaderWithDir(dir)

	_, err := loader.Load()
	assert.Error(t, err)
}

func TestLoader_Load_NormalizesIntervals(t *testing.T) {
	dir := t.TempDir()
	content := `
[sync]
interval_seconds = -1
probe_seconds = 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
	loader := NewLoaderWithDir(dir)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Sync.IntervalSeconds)
	assert.Equal(t, 30, cfg.Sync.ProbeSeconds)
}

func TestRemoteConfig_Configured(t *testing.T) {
	assert.False(t, RemoteConfig{URL: "https://api.example.com"}.Configured())
	assert.False(t, RemoteConfig{UserID: "user-1"}.Configured())
	assert.True(t, RemoteConfig{URL: "https://api.example.com", UserID: "user-1"}.Configured())
}
