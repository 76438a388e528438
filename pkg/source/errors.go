package source

import (
	"errors"
	"fmt"
)

// Common errors returned by sources.
var (
	// ErrUnexpectedStatus is returned when the feed endpoint answers with a
	// non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrNoLocation is returned when a source has no URL or path.
	ErrNoLocation = errors.New("source location is empty")
)

// NetworkError reports a failed feed fetch.
type NetworkError struct {
	URL        string // Requested URL
	StatusCode int    // HTTP status, 0 when no response was received
	Err        error  // Underlying error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v: %d", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
