package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/0xmhha/landing-dashboard/pkg/parser"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

// Title is the dashboard heading.
const Title = "Landing Page Dashboard"

const (
	barRune     = "█"
	minBarWidth = 10
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config

	heading func(a ...interface{}) string
	good    func(a ...interface{}) string
	bad     func(a ...interface{}) string
	muted   func(a ...interface{}) string
}

func newTableFormatter(cfg Config) *tableFormatter {
	style := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if cfg.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}

	return &tableFormatter{
		config:  cfg,
		heading: style(color.FgHiCyan, color.Bold),
		good:    style(color.FgGreen),
		bad:     style(color.FgRed, color.Bold),
		muted:   style(color.FgHiBlack),
	}
}

// FormatView implements Formatter.FormatView.
func (f *tableFormatter) FormatView(w io.Writer, v View) error {
	if err := writeHeader(w, Title, f.config.Compact, f.heading); err != nil {
		return err
	}
	if err := f.writeStatus(w, v); err != nil {
		return err
	}

	sum := v.Frame.Summary
	if err := f.section(w, "Summary", []string{"Metric", "Value"}, [][]string{
		{"Total responses", formatNumber(sum.TotalResponses)},
		{"Unique names", formatNumber(sum.UniqueNames)},
		{"Wants more info", formatNumber(sum.WantsMoreInfo)},
		{"Unique reasons", formatNumber(sum.UniqueReasons)},
		{"Last response", orNoValue(sum.LastResponse)},
	}); err != nil {
		return err
	}

	if err := f.section(w, "Statistics", []string{"Metric", "Value"}, [][]string{
		{"Days with responses", v.Slots[stats.SlotActiveDays]},
		{"Average per day", v.Slots[stats.SlotAverage]},
		{"Peak day", v.Slots[stats.SlotPeakDay]},
	}); err != nil {
		return err
	}

	if err := writeHeader(w, "Responses per day", f.config.Compact, f.heading); err != nil {
		return err
	}
	if err := f.writeBars(w, v.Labels, v.Values); err != nil {
		return err
	}

	if reasons := v.Frame.Reasons; len(reasons) > 0 {
		if err := writeHeader(w, "Responses per reason", f.config.Compact, f.heading); err != nil {
			return err
		}
		if err := f.writeBars(w, reasons.Labels(), reasons.Values()); err != nil {
			return err
		}
	}

	if f.config.MaxRows > 0 && len(v.Frame.Records) > 0 {
		return f.writeRecords(w, v.Frame.Records)
	}

	return nil
}

func (f *tableFormatter) writeStatus(w io.Writer, v View) error {
	state := v.Frame.State
	if state == "" {
		state = "unknown"
	}

	line := "State: " + f.good(state)
	if v.Frame.Error != "" {
		line = "State: " + f.bad(state) + "  " + f.bad(v.Frame.Error)
	}
	if !v.Frame.UpdatedAt.IsZero() {
		line += f.muted("  updated " + v.Frame.UpdatedAt.Format("15:04:05"))
	}
	if v.Frame.Cycle != "" {
		line += f.muted("  cycle " + v.Frame.Cycle)
	}

	_, err := fmt.Fprintln(w, line)
	return err
}

func (f *tableFormatter) section(w io.Writer, title string, header []string, rows [][]string) error {
	if err := writeHeader(w, title, f.config.Compact, f.heading); err != nil {
		return err
	}
	return f.writeTable(w, header, rows)
}

func (f *tableFormatter) writeRecords(w io.Writer, records []parser.Record) error {
	if err := writeHeader(w, "Latest responses", f.config.Compact, f.heading); err != nil {
		return err
	}

	shown := records
	if len(shown) > f.config.MaxRows {
		shown = shown[len(shown)-f.config.MaxRows:]
	}

	const cellWidth = 32
	rows := make([][]string, 0, len(shown))
	for _, r := range shown {
		rows = append(rows, []string{
			truncate(oneLine(r.Timestamp()), cellWidth),
			truncate(oneLine(r.Mensaje()), cellWidth),
			truncate(oneLine(r.Motivo()), cellWidth),
			truncate(oneLine(r.Nombre()), cellWidth),
		})
	}

	if err := f.writeTable(w, []string{"Fecha", "Mensaje", "Motivo", "Nombre"}, rows); err != nil {
		return err
	}

	if hidden := len(records) - len(shown); hidden > 0 {
		_, err := fmt.Fprintln(w, f.muted(fmt.Sprintf("… %d older responses not shown", hidden)))
		return err
	}
	return nil
}

// writeBars draws a horizontal bar per label, scaled to the largest value.
func (f *tableFormatter) writeBars(w io.Writer, labels []string, values []int) error {
	if len(labels) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	labelWidth, countWidth, maxVal := 0, 1, 0
	for i, l := range labels {
		if lw := runewidth.StringWidth(l); lw > labelWidth {
			labelWidth = lw
		}
		if i < len(values) {
			if cw := len(formatNumber(values[i])); cw > countWidth {
				countWidth = cw
			}
			if values[i] > maxVal {
				maxVal = values[i]
			}
		}
	}

	barWidth := f.config.Width - labelWidth - countWidth - 4
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	for i, l := range labels {
		value := 0
		if i < len(values) {
			value = values[i]
		}

		n := 0
		if maxVal > 0 {
			n = value * barWidth / maxVal
		}

		if _, err := fmt.Fprintf(w, "%s  %s %s\n",
			padRight(l, labelWidth),
			f.good(strings.Repeat(barRune, n))+strings.Repeat(" ", barWidth-n),
			formatNumber(value)); err != nil {
			return err
		}
	}

	return nil
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); i < len(widths) && cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	return nil
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	for i, cell := range cells {
		if i > 0 {
			if _, err := fmt.Fprint(w, gap); err != nil {
				return err
			}
		}
		if i == len(cells)-1 {
			if _, err := fmt.Fprint(w, cell); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprint(w, padRight(cell, widths[i])); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

func orNoValue(s string) string {
	if s == "" {
		return stats.NoValue
	}
	return s
}
