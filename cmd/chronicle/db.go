package main

import (
	"github.com/talekeeper/chronicle/internal/platform/config"
	"github.com/talekeeper/chronicle/internal/storage/sqlite"
)

// openStore loads the environment configuration and opens the event store.
func openStore() (*sqlite.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, config.Config{}, err
	}
	return store, cfg, nil
}
