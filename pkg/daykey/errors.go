package daykey

import "errors"

// Common errors returned by the daykey package.
var (
	// ErrEmpty is returned for blank timestamps. Callers exclude such records
	// instead of reporting them.
	ErrEmpty = errors.New("empty timestamp")

	// ErrUnparseable is returned when a timestamp has the shape of a known
	// format but does not denote a real date or time.
	ErrUnparseable = errors.New("unparseable timestamp")

	// ErrNoInstant is returned by ParseInstant for passthrough values.
	ErrNoInstant = errors.New("timestamp carries no recognisable instant")
)

// ParseError reports a timestamp that matched a format but failed to parse.
type ParseError struct {
	Input  string // Raw timestamp
	Format string // Name of the matching format
	Err    error  // Underlying error
}

func (e *ParseError) Error() string {
	return "date parse error (" + e.Format + "): " + e.Input + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
