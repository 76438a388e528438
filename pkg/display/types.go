// Package display renders dashboard frames for the terminal.
//
// It supports multiple output formats (table, JSON, simple text) and
// provides Terminal, a live render sink that redraws the dashboard every
// time the refresh controller updates it.
package display

import (
	"io"

	"github.com/0xmhha/landing-dashboard/pkg/sink"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays the dashboard as formatted tables.
	FormatTable Format = "table"

	// FormatJSON displays the dashboard as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays a one-line summary.
	FormatSimple Format = "simple"
)

// View is what a formatter draws: the chart data and slot texts as the
// sinks currently hold them, plus the frame they came from.
type View struct {
	Labels []string          `json:"labels"`
	Values []int             `json:"values"`
	Slots  map[string]string `json:"slots"`
	Frame  sink.Frame        `json:"frame"`
}

// ViewFromFrame builds the view a sink would show for f.
func ViewFromFrame(f sink.Frame) View {
	if f.Placeholder != "" {
		return View{
			Labels: []string{f.Placeholder},
			Values: []int{0},
			Slots:  stats.Statistics{}.Slots(),
			Frame:  f,
		}
	}

	return View{
		Labels: f.Series.Labels(),
		Values: f.Series.Values(),
		Slots:  f.Stats.Slots(),
		Frame:  f,
	}
}

// Formatter formats dashboard views.
type Formatter interface {
	// FormatView writes the whole dashboard.
	//
	// Returns error if writing fails.
	FormatView(w io.Writer, v View) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Color enables ANSI colors in table output.
	Color bool

	// MaxRows limits the record listing. 0 hides it.
	MaxRows int

	// Width is the total width used for bar charts.
	// Default: terminal width, or 80 when not a terminal.
	Width int

	// Compact enables compact output (less whitespace).
	Compact bool
}
