// Package store persists the task collection between sessions.
package store

import (
	"fmt"
	"log/slog"

	"github.com/nissyi-gh/tally/internal/config"
	"github.com/nissyi-gh/tally/internal/model"
)

// Store loads and saves the whole task collection. Implementations never keep
// references to the slices they are given or return.
type Store interface {
	// Load returns the persisted tasks. A missing backing file is not an
	// error; undecodable entries are skipped and logged.
	Load() ([]model.Task, error)
	// Save replaces the persisted collection with tasks.
	Save(tasks []model.Task) error
	Path() string
	Close() error
}

// Open builds the backend selected by cfg.
func Open(cfg *config.Config, logger *slog.Logger) (Store, error) {
	path, err := cfg.DataPath()
	if err != nil {
		return nil, err
	}
	switch cfg.Store.Backend {
	case config.BackendText:
		return NewFileStore(path, logger), nil
	case config.BackendSQLite:
		return NewSQLiteStore(path, logger)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
