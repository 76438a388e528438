// Package daykey maps the heterogeneous timestamps of the landing feed onto
// calendar-day keys.
//
// The feed mixes browser-rendered Spanish timestamps
// ("28/07/2025, 03:47:51 p. m."), ISO-8601 instants, SQL-style date-times and
// bare dates. Every one of them is reduced to a zero-padded DD/MM/YYYY Key in
// the display location, so that two responses from the same day always land
// in the same bucket.
package daykey

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the rendering of a Key.
const Layout = "02/01/2006"

// Key is a calendar-day label, DD/MM/YYYY.
type Key string

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }

// Date parses k as a D/M/YYYY calendar date. The result is midnight UTC.
func (k Key) Date() (time.Time, bool) {
	return parseDMY(string(k))
}

// Format is one entry of the normalizer dispatch table.
type Format struct {
	// Name identifies the format in logs and errors.
	Name string

	// Match reports whether a folded, trimmed timestamp has this shape.
	Match func(s string) bool

	key     func(s string, loc *time.Location) (Key, error)
	instant func(s string, loc *time.Location) (time.Time, error)
}

var (
	meridiemRe = regexp.MustCompile(`(?i)([ap])\.\s?m\.`)
	dmyRe      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)
	dateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s+\d`)
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// formats is the ordered dispatch table. The first match wins.
var formats = []Format{
	{
		Name: "long-form",
		Match: func(s string) bool {
			return strings.Contains(s, ",") && meridiemRe.MatchString(s)
		},
		key:     longFormKey,
		instant: longFormInstant,
	},
	{
		Name:    "iso-8601",
		Match:   isoRe.MatchString,
		key:     fromInstant(isoInstant),
		instant: isoInstant,
	},
	{
		Name:    "date-time",
		Match:   dateTimeRe.MatchString,
		key:     fromInstant(dateTimeInstant),
		instant: dateTimeInstant,
	},
	{
		Name:    "date",
		Match:   dateRe.MatchString,
		key:     dateKey,
		instant: dateInstant,
	},
	{
		Name:  "passthrough",
		Match: func(string) bool { return true },
		key: func(s string, _ *time.Location) (Key, error) {
			return canonical(s), nil
		},
		instant: func(string, *time.Location) (time.Time, error) {
			return time.Time{}, ErrNoInstant
		},
	},
}

// Formats returns a copy of the dispatch table in match order.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// Normalizer turns raw timestamps into day keys for one display location.
// It is stateless and safe for concurrent use.
type Normalizer struct {
	loc *time.Location
}

// New creates a Normalizer. A nil location means time.Local.
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// Location returns the display location.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize maps raw onto its day key.
//
// Blank input returns ErrEmpty. Input that matches a format but does not
// parse returns a *ParseError wrapping ErrUnparseable.
func (n *Normalizer) Normalize(raw string) (Key, error) {
	s, f, err := dispatch(raw)
	if err != nil {
		return "", err
	}

	k, err := f.key(s, n.loc)
	if err != nil {
		return "", &ParseError{Input: raw, Format: f.Name, Err: err}
	}
	return k, nil
}

// ParseInstant returns the full instant denoted by raw, in the display
// location. Passthrough values return ErrNoInstant.
func (n *Normalizer) ParseInstant(raw string) (time.Time, error) {
	s, f, err := dispatch(raw)
	if err != nil {
		return time.Time{}, err
	}

	t, err := f.instant(s, n.loc)
	if err != nil {
		if errors.Is(err, ErrNoInstant) {
			return time.Time{}, err
		}
		return time.Time{}, &ParseError{Input: raw, Format: f.Name, Err: err}
	}
	return t.In(n.loc), nil
}

// FormatName returns the name of the format raw dispatches to, or "" when
// raw is blank.
func FormatName(raw string) string {
	_, f, err := dispatch(raw)
	if err != nil {
		return ""
	}
	return f.Name
}

func dispatch(raw string) (string, Format, error) {
	s := fold(raw)
	if s == "" {
		return "", Format{}, ErrEmpty
	}
	for _, f := range formats {
		if f.Match(s) {
			return s, f, nil
		}
	}
	// unreachable: passthrough matches everything
	return s, formats[len(formats)-1], nil
}

// fold replaces the non-breaking spaces browsers emit in locale strings and
// trims the result.
func fold(raw string) string {
	s := strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(raw)
	return strings.TrimSpace(s)
}

func unparseable(cause error) error {
	return fmt.Errorf("%w: %v", ErrUnparseable, cause)
}

func longFormKey(s string, _ *time.Location) (Key, error) {
	return canonical(strings.TrimSpace(s[:strings.Index(s, ",")])), nil
}

// canonical zero pads s when it is a real D/M/YYYY date and returns it
// unchanged otherwise.
func canonical(s string) Key {
	if d, ok := parseDMY(s); ok {
		return Key(d.Format(Layout))
	}
	return Key(s)
}

func longFormInstant(s string, loc *time.Location) (time.Time, error) {
	normalized := meridiemRe.ReplaceAllStringFunc(s, func(m string) string {
		if strings.EqualFold(m[:1], "a") {
			return "AM"
		}
		return "PM"
	})

	var lastErr error
	for _, layout := range []string{"2/1/2006, 3:04:05 PM", "2/1/2006, 3:04 PM"} {
		t, err := time.ParseInLocation(layout, normalized, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, unparseable(lastErr)
}

func isoInstant(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	var lastErr error
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, unparseable(lastErr)
}

func dateTimeInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")

	var lastErr error
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, unparseable(lastErr)
}

func dateKey(s string, _ *time.Location) (Key, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", unparseable(err)
	}
	return Key(d.Format(Layout)), nil
}

func dateInstant(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, unparseable(err)
	}
	return d, nil
}

func fromInstant(instant func(string, *time.Location) (time.Time, error)) func(string, *time.Location) (Key, error) {
	return func(s string, loc *time.Location) (Key, error) {
		t, err := instant(s, loc)
		if err != nil {
			return "", err
		}
		return Key(t.In(loc).Format(Layout)), nil
	}
}

// parseDMY parses D/M/YYYY, rejecting dates that do not exist.
func parseDMY(s string) (time.Time, bool) {
	m := dmyRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}
