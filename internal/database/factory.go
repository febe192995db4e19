package database

import (
	"fmt"
	"os"
	"path/filepath"

	"databazaar/internal/bazaar"
	"databazaar/internal/config"
)

// File and directory names used under StoreConfig.DataDir.
const (
	SQLiteFileName = "listings.db"
	PebbleDirName  = "listings.pebble"
)

// Backuper is implemented by stores that can write a consistent copy of
// themselves to another location.
type Backuper interface {
	BackupTo(dest string) error
}

// NewStorageFromConfig creates a bazaar.Storage implementation based on the store config type.
func NewStorageFromConfig(cfg config.StoreConfig) (bazaar.Storage, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		s, err := NewSQLiteStore(filepath.Join(cfg.DataDir, SQLiteFileName))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "pebble":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for pebble store")
		}
		p, err := NewPebbleStore(filepath.Join(cfg.DataDir, PebbleDirName))
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
