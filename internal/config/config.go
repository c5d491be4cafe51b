// Package config provides configuration loading for tally.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName = "tally"

	BackendText   = "text"
	BackendSQLite = "sqlite"
)

// Config represents the complete tally configuration
type Config struct {
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

// StoreConfig selects where and how tasks are persisted
type StoreConfig struct {
	// Backend is "text" (pipe-delimited file) or "sqlite"
	Backend string `yaml:"backend"`
	// Path is the data file; empty means the XDG data-home default for the backend
	Path string `yaml:"path"`
}

// LogConfig configures the structured log output
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives log records; empty means the XDG state-home default
	File string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{Backend: BackendText},
		Log:   LogConfig{Level: "info"},
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendText, BackendSQLite:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendText, BackendSQLite, c.Store.Backend)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Merge overlays the non-empty fields of other onto c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Store.Backend != "" {
		c.Store.Backend = other.Store.Backend
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}
}

// DataPath resolves the store path, falling back to $XDG_DATA_HOME/tally.
func (c *Config) DataPath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dataHome, err := xdgDir("XDG_DATA_HOME", ".local", "share")
	if err != nil {
		return "", fmt.Errorf("determine data path: %w", err)
	}
	name := "tasks.txt"
	if c.Store.Backend == BackendSQLite {
		name = "tasks.db"
	}
	return filepath.Join(dataHome, appName, name), nil
}

// LogPath resolves the log file, falling back to $XDG_STATE_HOME/tally.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	stateHome, err := xdgDir("XDG_STATE_HOME", ".local", "state")
	if err != nil {
		return "", fmt.Errorf("determine log path: %w", err)
	}
	return filepath.Join(stateHome, appName, appName+".log"), nil
}

// ParseLevel maps a config level name onto slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level %q is not one of debug, info, warn, error", s)
}

func xdgDir(env string, fallback ...string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// SaveToFile writes the configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
