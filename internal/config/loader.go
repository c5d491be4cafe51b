package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	// Path overrides the user config location when set
	Path string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config ($XDG_CONFIG_HOME/tally/config.yaml, or Path)
// 3. overrides, typically built from command-line flags
func (l *Loader) Load(overrides *Config) (*Config, error) {
	config := DefaultConfig()

	path := l.configPath()
	if path != "" {
		if userConfig, err := LoadFromFile(path); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", path))
			config.Merge(userConfig)
		} else if !os.IsNotExist(err) {
			l.logger.Warn("Failed to load user config", slog.String("path", path), slog.String("error", err.Error()))
		}
	}

	config.Merge(overrides)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) configPath() string {
	if l.Path != "" {
		return l.Path
	}
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.yaml")
}
