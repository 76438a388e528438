// Package refresh drives the dashboard: it fetches the feed, folds it into
// series and statistics and pushes the result into the render sinks, once
// at start-up and then on a timer or on demand.
//
// A single actor goroutine owns the chart and the current snapshot. Fetches
// run in their own goroutines and post their results back to the actor, so
// cycles may overlap; the last result to arrive is the one shown.
package refresh

import (
	"time"

	"github.com/0xmhha/landing-dashboard/pkg/aggregator"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
	"github.com/0xmhha/landing-dashboard/pkg/sink"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

// State is the controller lifecycle state.
type State int

// Controller states.
const (
	Uninitialized State = iota
	AwaitingData
	Ready
	Refreshing
	Error
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case AwaitingData:
		return "awaiting-data"
	case Ready:
		return "ready"
	case Refreshing:
		return "refreshing"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Config holds the controller timings.
type Config struct {
	// Interval between periodic refresh cycles.
	// Default: 10s.
	Interval time.Duration

	// WaitInterval is the delay between polls for the first data.
	// Default: 100ms.
	WaitInterval time.Duration

	// WaitAttempts is the number of polls before the placeholder is shown.
	// Default: 10.
	WaitAttempts int
}

// Snapshot is the outcome of the latest refresh cycle.
type Snapshot struct {
	Cycle     string
	State     State
	Series    aggregator.Series
	Reasons   aggregator.Series
	Stats     stats.Statistics
	Summary   stats.Summary
	Records   []parser.Record
	Err       error
	UpdatedAt time.Time

	// Excluded and Dropped count records left out of the day series.
	Excluded int
	Dropped  int
}

// Placeholder returns the label shown instead of the series, or "".
func (s Snapshot) Placeholder() string {
	switch {
	case s.Err != nil:
		return sink.ErrorLabel
	case len(s.Series) == 0:
		return sink.NoDataLabel
	default:
		return ""
	}
}

// Frame converts the snapshot for render sinks.
func (s Snapshot) Frame() sink.Frame {
	f := sink.Frame{
		Cycle:       s.Cycle,
		State:       s.State.String(),
		Series:      s.Series,
		Reasons:     s.Reasons,
		Stats:       s.Stats,
		Summary:     s.Summary,
		Records:     s.Records,
		Placeholder: s.Placeholder(),
		UpdatedAt:   s.UpdatedAt,
	}
	if s.Err != nil {
		f.Error = s.Err.Error()
	}
	return f
}
