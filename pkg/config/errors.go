package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoSource is returned when neither a source URL nor a source file is set.
	ErrNoSource = errors.New("no data source: set source.url or source.file")

	// ErrAmbiguousSource is returned when both a source URL and a source file are set.
	ErrAmbiguousSource = errors.New("ambiguous data source: set only one of source.url and source.file")

	// ErrInvalidSourceURL is returned when the source URL cannot be parsed.
	ErrInvalidSourceURL = errors.New("invalid source url")

	// ErrInvalidTimeout is returned when a timeout or debounce is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be >= 0")

	// ErrInvalidRefreshInterval is returned when the refresh interval is <= 0.
	ErrInvalidRefreshInterval = errors.New("invalid refresh interval: must be > 0")

	// ErrInvalidWaitInterval is returned when the first-data poll interval is <= 0.
	ErrInvalidWaitInterval = errors.New("invalid wait interval: must be > 0")

	// ErrInvalidWaitAttempts is returned when the first-data poll count is <= 0.
	ErrInvalidWaitAttempts = errors.New("invalid wait attempts: must be > 0")

	// ErrInvalidDisplayFormat is returned when display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, json, or simple")

	// ErrInvalidMaxRows is returned when the record listing size is negative.
	ErrInvalidMaxRows = errors.New("invalid max rows: must be >= 0")

	// ErrInvalidTimezone is returned when the display timezone cannot be loaded.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidListen is returned when the server listen address is empty.
	ErrInvalidListen = errors.New("invalid listen address")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
