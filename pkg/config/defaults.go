package config

import (
	"os"
	"path/filepath"
)

const appDirName = "landing-dashboard"

// configDir returns ~/.config/landing-dashboard, or "." without a home directory.
func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(homeDir, ".config", appDirName)
}

// DefaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/landing-dashboard/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"
