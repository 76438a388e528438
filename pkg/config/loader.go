package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by the loader.
const (
	EnvSourceURL  = "DASHBOARD_SOURCE_URL"
	EnvSourceFile = "DASHBOARD_SOURCE_FILE"
	EnvListen     = "DASHBOARD_LISTEN"
	EnvLogLevel   = "DASHBOARD_LOG_LEVEL"
	EnvTimezone   = "DASHBOARD_TIMEZONE"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Process environment variables
	// 2. .env file
	// 3. Configuration file
	// 4. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile returns the defaults overlaid with a specific file.
	LoadFromFile(path string) (*Config, error)
}

// Option customizes a loader.
type Option func(*loader)

// WithEnvFile sets the dotenv file consulted before the process environment.
// An empty path disables the dotenv layer.
func WithEnvFile(path string) Option {
	return func(l *loader) {
		l.envFile = path
	}
}

// loader implements the Loader interface.
type loader struct {
	configPath string
	envFile    string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, searches for config file in:
// 1. ./config.yaml (current directory)
// 2. ~/.config/landing-dashboard/config.yaml.
func NewLoader(configPath string, opts ...Option) Loader {
	l := &loader{
		configPath: configPath,
		envFile:    DefaultEnvFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	cfg := Default()

	configPath := l.configPath
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// An explicit path must load; a discovered one is best effort.
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = fileCfg
		}
	}

	dotenv, err := l.readEnvFile()
	if err != nil {
		return nil, err
	}
	cfg = applyEnvVars(cfg, func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return mergeFile(Default(), data)
}

// findConfigFile searches for a config file in standard locations.
//
// Returns empty string if no config file is found.
func (l *loader) findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		DefaultConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// readEnvFile reads the dotenv layer. A missing file is not an error.
func (l *loader) readEnvFile() (map[string]string, error) {
	if l.envFile == "" {
		return nil, nil
	}

	values, err := godotenv.Read(l.envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", l.envFile, err)
	}

	return values, nil
}

// mergeFile decodes YAML over base. Keys absent from the document keep
// their base value.
func mergeFile(base *Config, data []byte) (*Config, error) {
	result := *base
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	// A file-only source replaces the default URL instead of conflicting with it.
	var raw Config
	if err := yaml.Unmarshal(data, &raw); err == nil {
		if raw.Source.File != "" && raw.Source.URL == "" {
			result.Source.URL = ""
		}
	}

	return &result, nil
}

// applyEnvVars applies environment overrides to the configuration.
//
// Supported environment variables:
//   - DASHBOARD_SOURCE_URL: feed URL (clears source.file)
//   - DASHBOARD_SOURCE_FILE: feed file (clears source.url)
//   - DASHBOARD_LISTEN: HTTP listen address
//   - DASHBOARD_LOG_LEVEL: log level
//   - DASHBOARD_TIMEZONE: display timezone
func applyEnvVars(cfg *Config, getenv func(string) string) *Config {
	result := *cfg

	if url := getenv(EnvSourceURL); url != "" {
		result.Source.URL = url
		result.Source.File = ""
	}

	if file := getenv(EnvSourceFile); file != "" {
		result.Source.File = file
		result.Source.URL = ""
	}

	if listen := getenv(EnvListen); listen != "" {
		result.Server.Listen = listen
	}

	if logLevel := getenv(EnvLogLevel); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	if tz := getenv(EnvTimezone); tz != "" {
		result.Display.Timezone = tz
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file.
//
// Equivalent to:
//
//	loader := NewLoader(path)
//	return loader.Load()
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
