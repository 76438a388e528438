package parser

import "errors"

// Common errors returned by the parser package.
var (
	// ErrMalformedJSON is returned when the feed body is not valid JSON.
	ErrMalformedJSON = errors.New("malformed JSON feed")

	// ErrUnexpectedShape is returned when the feed is valid JSON but neither
	// an array nor an object.
	ErrUnexpectedShape = errors.New("unexpected feed shape: want array or object")

	// ErrFeedTooLarge is returned when a feed exceeds MaxFeedSize.
	ErrFeedTooLarge = errors.New("feed size exceeds maximum limit")
)

// ParseError provides context about a feed decoding failure.
type ParseError struct {
	Data string // Leading part of the offending body
	Err  error  // Underlying error
}

func (e *ParseError) Error() string {
	const maxLen = 100
	data := e.Data
	if len(data) > maxLen {
		data = data[:maxLen] + "..."
	}
	if data == "" {
		return "parse error: " + e.Err.Error()
	}
	return "parse error: " + e.Err.Error() + ": " + data
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
