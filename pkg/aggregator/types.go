// Package aggregator folds landing-page records into ordered count series.
//
// The day series is the backbone of the dashboard: every record's timestamp
// is normalized to a calendar-day key and counted, and the result is ordered
// chronologically. A categorical series per contact reason backs the bar
// chart.
//
// Example usage:
//
//	agg := aggregator.New(aggregator.Config{
//	    Normalizer: daykey.New(loc),
//	    Logger:     log,
//	})
//
//	series := agg.Aggregate(records)
//	for _, p := range series {
//	    fmt.Printf("%s: %d\n", p.Label, p.Count)
//	}
package aggregator

import (
	"github.com/0xmhha/landing-dashboard/pkg/daykey"
	"github.com/0xmhha/landing-dashboard/pkg/logger"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
)

// Dimension represents an aggregation dimension.
type Dimension string

const (
	// DimDay aggregates by calendar day (DD/MM/YYYY), chronologically.
	DimDay Dimension = "day"

	// DimReason aggregates by motivo, most frequent first.
	DimReason Dimension = "reason"
)

// NoReasonLabel is the bucket for records without a motivo.
const NoReasonLabel = "Sin motivo"

// Aggregator computes count series from records.
//
// Implementations are stateless: every call recomputes from the full input,
// so calling twice with the same records yields the same series.
type Aggregator interface {
	// Aggregate returns the per-day series.
	Aggregate(records []parser.Record) Series

	// AggregateBy returns the series for the given dimension.
	AggregateBy(records []parser.Record, dim Dimension) (Series, error)

	// Collect returns the series for dim along with record counters.
	Collect(records []parser.Record, dim Dimension) (Result, error)
}

// Point is one (label, count) entry of a series.
type Point struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Series is an ordered list of points with unique labels.
type Series []Point

// Labels returns the labels in series order.
func (s Series) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label
	}
	return labels
}

// Values returns the counts in series order.
func (s Series) Values() []int {
	values := make([]int, len(s))
	for i, p := range s {
		values[i] = p.Count
	}
	return values
}

// Total returns the sum of all counts.
func (s Series) Total() int {
	total := 0
	for _, p := range s {
		total += p.Count
	}
	return total
}

// Result is a series plus what happened to the input records.
type Result struct {
	Series Series

	// Processed is the number of records counted into the series.
	Processed int

	// Excluded is the number of records skipped for a blank key field.
	Excluded int

	// Dropped is the number of records whose timestamp failed to parse.
	Dropped int
}

// Config contains aggregator configuration.
type Config struct {
	// Normalizer maps timestamps to day keys.
	//
	// Default: daykey.New(time.Local).
	Normalizer *daykey.Normalizer

	// Logger receives a warning per dropped record.
	//
	// Default: logger.Noop().
	Logger logger.Logger
}
