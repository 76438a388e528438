package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

// simpleFormatter formats output as a single line.
type simpleFormatter struct {
	config Config
}

// FormatView implements Formatter.FormatView.
func (f *simpleFormatter) FormatView(w io.Writer, v View) error {
	line := fmt.Sprintf("Responses: %s | Days: %s | Avg/day: %s | Peak: %s | Last: %s",
		formatNumber(v.Frame.Summary.TotalResponses),
		v.Slots[stats.SlotActiveDays],
		v.Slots[stats.SlotAverage],
		v.Slots[stats.SlotPeakDay],
		orNoValue(v.Frame.Summary.LastResponse))

	if v.Frame.Error != "" {
		line += " | Error: " + v.Frame.Error
	}

	_, err := fmt.Fprintln(w, line)
	return err
}
