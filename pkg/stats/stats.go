// Package stats derives dashboard statistics from aggregated series and
// raw records.
//
// Compute is pure and total: it accepts any ordered series, including an
// empty one, and never fails.
package stats

import (
	"fmt"

	"github.com/0xmhha/landing-dashboard/pkg/aggregator"
)

// Display slot names.
const (
	SlotActiveDays = "days-with-responses"
	SlotAverage    = "average-per-day"
	SlotPeakDay    = "peak-day"
)

// NoValue is shown when a statistic has nothing to report.
const NoValue = "N/A"

// Statistics summarizes a day series.
type Statistics struct {
	// ActiveDays is the number of days with at least one response.
	ActiveDays int `json:"active_days"`

	// AveragePerActiveDay is total responses over ActiveDays, 0 without
	// active days. Days present with a zero count do not dilute it.
	AveragePerActiveDay float64 `json:"average_per_active_day"`

	// PeakDay is the busiest day, the chronologically first on ties.
	// Nil when the series is empty or every count is zero.
	PeakDay *aggregator.Point `json:"peak_day,omitempty"`
}

// Compute derives statistics from a chronologically ordered series.
func Compute(series aggregator.Series) Statistics {
	var (
		st    Statistics
		total int
		peak  = -1
	)

	for i, p := range series {
		if p.Count > 0 {
			st.ActiveDays++
			total += p.Count
		}
		if peak < 0 || p.Count > series[peak].Count {
			peak = i
		}
	}

	if st.ActiveDays > 0 {
		st.AveragePerActiveDay = float64(total) / float64(st.ActiveDays)
	}

	if peak >= 0 && series[peak].Count > 0 {
		p := series[peak]
		st.PeakDay = &p
	}

	return st
}

// Slots renders the statistics for the three display slots.
func (s Statistics) Slots() map[string]string {
	return map[string]string{
		SlotActiveDays: fmt.Sprintf("%d", s.ActiveDays),
		SlotAverage:    s.FormatAverage(),
		SlotPeakDay:    s.FormatPeak(),
	}
}

// FormatAverage renders the average with one decimal, or "0" when there
// are no active days.
func (s Statistics) FormatAverage() string {
	if s.ActiveDays == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", s.AveragePerActiveDay)
}

// FormatPeak renders "DD/MM/YYYY (n)" or NoValue.
func (s Statistics) FormatPeak() string {
	if s.PeakDay == nil {
		return NoValue
	}
	return fmt.Sprintf("%s (%d)", s.PeakDay.Label, s.PeakDay.Count)
}
