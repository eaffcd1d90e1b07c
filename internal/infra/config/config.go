// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.toml"

// Config is the application configuration.
type Config struct {
	Remote RemoteConfig `toml:"remote"`
	Store  StoreConfig  `toml:"store"`
	Sync   SyncConfig   `toml:"sync"`
	Log    LogConfig    `toml:"log"`
}

// RemoteConfig holds remote store settings from the [remote] section.
type RemoteConfig struct {
	URL         string `toml:"url"`          // Base URL of the data API
	APIKey      string `toml:"api_key"`      // Service key sent on every request
	AccessToken string `toml:"access_token"` // Bearer token for the owning identity
	UserID      string `toml:"user_id"`      // Owning identity
}

// Configured returns true if the remote store can be used.
func (r RemoteConfig) Configured() bool {
	return r.URL != "" && r.UserID != ""
}

// StoreConfig holds local store settings from the [store] section.
type StoreConfig struct {
	Backend string `toml:"backend"` // "json" (default) or "sqlite"
	Dir     string `toml:"dir"`     // Data directory (default: XDG data dir)
}

// SyncConfig holds reconciliation settings from the [sync] section.
type SyncConfig struct {
	IntervalSeconds int  `toml:"interval_seconds"` // Periodic reconcile interval
	ProbeSeconds    int  `toml:"probe_seconds"`    // Connectivity probe interval
	Snapshots       bool `toml:"snapshots"`        // Archive a snapshot after each sync
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Backend: "json", Dir: defaultDataDir()},
		Sync:  SyncConfig{IntervalSeconds: 300, ProbeSeconds: 30, Snapshots: true},
		Log:   LogConfig{Level: "info"},
	}
}

// Loader loads configuration from TOML files.
type Loader struct {
	confDir string
}

// NewLoader creates a Loader reading from the default config directory.
func NewLoader() *Loader {
	return &Loader{confDir: defaultConfigDir()}
}

// NewLoaderWithDir creates a Loader with a custom config directory.
// This is useful for testing.
func NewLoaderWithDir(dir string) *Loader {
	return &Loader{confDir: dir}
}

// Load returns the configuration: defaults overlaid with the config file,
// if one exists.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()
	if l.confDir == "" {
		return cfg, nil
	}

	path := filepath.Join(l.confDir, ConfigFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = defaultDataDir()
	}
	if cfg.Sync.IntervalSeconds <= 0 {
		cfg.Sync.IntervalSeconds = 300
	}
	if cfg.Sync.ProbeSeconds <= 0 {
		cfg.Sync.ProbeSeconds = 30
	}
	return cfg, nil
}

// Path returns the location of the config file.
func (l *Loader) Path() string {
	return filepath.Join(l.confDir, ConfigFileName)
}

func defaultConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "totodo")
}

func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "totodo")
}
