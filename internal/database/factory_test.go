package database

import (
	"os"
	"path/filepath"
	"testing"

	"databazaar/internal/config"
)

func TestNewStorageFromConfig(t *testing.T) {
	t.Run("memory store", func(t *testing.T) {
		cfg := config.StoreConfig{Type: "memory"}
		got, err := NewStorageFromConfig(cfg)

		if err != nil {
			t.Errorf("NewStorageFromConfig() unexpected error: %v", err)
			return
		}
		if _, ok := got.(*MemoryStore); !ok {
			t.Errorf("NewStorageFromConfig() = %T, want *MemoryStore", got)
		}
		got.Close()
	})

	t.Run("sqlite store", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		cfg := config.StoreConfig{Type: "sqlite", DataDir: dir}
		got, err := NewStorageFromConfig(cfg)

		if err != nil {
			t.Errorf("NewStorageFromConfig() unexpected error: %v", err)
			return
		}
		defer got.Close()

		if _, ok := got.(*SQLiteStore); !ok {
			t.Errorf("NewStorageFromConfig() = %T, want *SQLiteStore", got)
		}
		if _, err := os.Stat(filepath.Join(dir, SQLiteFileName)); err != nil {
			t.Errorf("database file not created: %v", err)
		}
	})

	t.Run("pebble store", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.StoreConfig{Type: "pebble", DataDir: dir}
		got, err := NewStorageFromConfig(cfg)

		if err != nil {
			t.Errorf("NewStorageFromConfig() unexpected error: %v", err)
			return
		}
		defer got.Close()

		if _, ok := got.(*PebbleStore); !ok {
			t.Errorf("NewStorageFromConfig() = %T, want *PebbleStore", got)
		}
	})

	t.Run("durable stores without data_dir", func(t *testing.T) {
		for _, typ := range []string{"sqlite", "pebble"} {
			got, err := NewStorageFromConfig(config.StoreConfig{Type: typ})

			if err == nil {
				t.Errorf("NewStorageFromConfig(%s) expected error for missing data_dir, got nil", typ)
			}
			if got != nil {
				t.Errorf("NewStorageFromConfig(%s) should return nil on error", typ)
				got.Close()
			}
		}
	})

	t.Run("unknown store type", func(t *testing.T) {
		got, err := NewStorageFromConfig(config.StoreConfig{Type: "unknown"})

		if err == nil {
			t.Error("NewStorageFromConfig() expected error for unknown type, got nil")
		}
		if got != nil {
			t.Error("NewStorageFromConfig() should return nil on error")
			got.Close()
		}
	})
}
