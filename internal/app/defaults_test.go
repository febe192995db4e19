package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("BAZAAR_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("BAZAAR_HOME", "/custom/bazaar")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if d.ConfigPath != "/custom/config.toml" {
			t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, "/custom/config.toml")
		}
		if d.BaseDir != "/custom/bazaar" {
			t.Errorf("BaseDir = %q, want %q", d.BaseDir, "/custom/bazaar")
		}
		if d.LogDir != "/custom/bazaar/log" {
			t.Errorf("LogDir = %q, want %q", d.LogDir, "/custom/bazaar/log")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("BAZAAR_CONFIG_PATH", "")
		t.Setenv("BAZAAR_HOME", "")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "bazaar.toml")
		if d.ConfigPath != wantConfig {
			t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "bazaar")
		if d.BaseDir != wantBase {
			t.Errorf("BaseDir = %q, want %q", d.BaseDir, wantBase)
		}
		if d.LogDir != filepath.Join(wantBase, "log") {
			t.Errorf("LogDir = %q, want %q", d.LogDir, filepath.Join(wantBase, "log"))
		}
	})
}
