package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults holds the application default paths.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - BAZAAR_CONFIG_PATH: config file location (default: ~/.config/bazaar.toml)
//   - BAZAAR_HOME: base directory for bazaar data (default: ~/.local/share/bazaar)
func GetDefaults() (*Defaults, error) {
	configPath := os.Getenv("BAZAAR_CONFIG_PATH")
	baseDir := os.Getenv("BAZAAR_HOME")

	if configPath == "" || baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		if configPath == "" {
			configPath = filepath.Join(homeDir, ".config", "bazaar.toml")
		}
		if baseDir == "" {
			baseDir = filepath.Join(homeDir, ".local", "share", "bazaar")
		}
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}
