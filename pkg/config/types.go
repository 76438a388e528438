// Package config provides configuration management for landing-dashboard.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Process environment variables
// 3. .env file
// 4. Configuration file
// 5. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("feed: %s\n", cfg.Source.URL)
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultSourceURL is the public landing API the dashboard was built against.
const DefaultSourceURL = "http://mtorresg.pythonanywhere.com/landing/api/index/?format=json"

// Config represents the complete application configuration.
//
// Invariants:
// - exactly one of Source.URL and Source.File is set
// - Refresh.Interval, Refresh.WaitInterval and Refresh.WaitAttempts are > 0
// - Display.Timezone is empty, "Local" or a loadable IANA zone.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Refresh RefreshConfig `yaml:"refresh"`
	Display DisplayConfig `yaml:"display"`
	Chart   ChartConfig   `yaml:"chart"`
	Server  ServerConfig  `yaml:"server"`
	Notify  NotifyConfig  `yaml:"notify"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig selects where records are fetched from.
type SourceConfig struct {
	// Remote endpoint returning the JSON feed
	URL string `yaml:"url" validate:"omitempty,url"`

	// Local JSON file used instead of URL
	File string `yaml:"file"`

	// HTTP client timeout, 0 disables it
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// Re-run a cycle whenever File changes on disk
	WatchFile bool `yaml:"watch_file"`

	// Quiet period before a file change triggers a cycle
	WatchDebounce time.Duration `yaml:"watch_debounce" validate:"gte=0"`
}

// RefreshConfig controls the refresh controller timings.
type RefreshConfig struct {
	// Periodic refresh interval
	Interval time.Duration `yaml:"interval" validate:"gt=0"`

	// Delay between polls while waiting for the first data
	WaitInterval time.Duration `yaml:"wait_interval" validate:"gt=0"`

	// Number of polls before giving up and rendering a placeholder
	WaitAttempts int `yaml:"wait_attempts" validate:"gt=0"`
}

// DisplayConfig contains terminal display settings.
type DisplayConfig struct {
	// Output format for the once command (table, json, simple)
	Format string `yaml:"format" validate:"oneof=table json simple"`

	// Enable colored output
	ColorEnabled bool `yaml:"color_enabled"`

	// IANA zone used to turn instants into calendar days
	Timezone string `yaml:"timezone"`

	// Rows shown in the terminal record listing, 0 hides it
	MaxRows int `yaml:"max_rows" validate:"gte=0"`
}

// ChartConfig contains HTML chart page settings.
type ChartConfig struct {
	Title string `yaml:"title"`

	// When set, the page is rewritten on every cycle
	OutputPath string `yaml:"output_path"`
}

// ServerConfig contains HTTP dashboard settings.
type ServerConfig struct {
	Listen          string        `yaml:"listen" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// NotifyConfig controls desktop alerts.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	AppName string `yaml:"app_name"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format" validate:"oneof=text json"`
}

// fieldErrors maps validator namespaces to package sentinel errors.
var fieldErrors = map[string]error{
	"Config.Source.URL":             ErrInvalidSourceURL,
	"Config.Source.Timeout":         ErrInvalidTimeout,
	"Config.Source.WatchDebounce":   ErrInvalidTimeout,
	"Config.Refresh.Interval":       ErrInvalidRefreshInterval,
	"Config.Refresh.WaitInterval":   ErrInvalidWaitInterval,
	"Config.Refresh.WaitAttempts":   ErrInvalidWaitAttempts,
	"Config.Display.Format":         ErrInvalidDisplayFormat,
	"Config.Display.MaxRows":        ErrInvalidMaxRows,
	"Config.Server.Listen":          ErrInvalidListen,
	"Config.Server.ShutdownTimeout": ErrInvalidTimeout,
	"Config.Logging.Level":          ErrInvalidLogLevel,
	"Config.Logging.Format":         ErrInvalidLogFormat,
}

var validate = validator.New()

// Validate checks if the configuration satisfies all invariants.
//
// The first violation found is returned as one of the package sentinel
// errors so callers can match it with errors.Is.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	hasURL := strings.TrimSpace(c.Source.URL) != ""
	hasFile := strings.TrimSpace(c.Source.File) != ""
	switch {
	case !hasURL && !hasFile:
		return ErrNoSource
	case hasURL && hasFile:
		return ErrAmbiguousSource
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			if sentinel, ok := fieldErrors[fieldErrs[0].StructNamespace()]; ok {
				return sentinel
			}
		}
		return err
	}

	if _, err := c.Location(); err != nil {
		return ErrInvalidTimezone
	}

	return nil
}

// Location resolves Display.Timezone. Empty and "Local" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch tz := strings.TrimSpace(c.Display.Timezone); tz {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(tz)
	}
}

// Default returns a configuration with sensible default values.
//
// Timings: a 10 second refresh and a first-data wait of 10 polls, 100ms
// apart.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:           DefaultSourceURL,
			Timeout:       30 * time.Second,
			WatchDebounce: 200 * time.Millisecond,
		},
		Refresh: RefreshConfig{
			Interval:     10 * time.Second,
			WaitInterval: 100 * time.Millisecond,
			WaitAttempts: 10,
		},
		Display: DisplayConfig{
			Format:       "table",
			ColorEnabled: true,
			MaxRows:      10,
		},
		Chart: ChartConfig{
			Title: "Landing Page Dashboard",
		},
		Server: ServerConfig{
			Listen:          ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Notify: NotifyConfig{
			AppName: "Landing Dashboard",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}
