package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// New creates a new formatter based on configuration.
func New(cfg Config) Formatter {
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return newTableFormatter(cfg)
	}
}

// formatNumber formats a number with thousand separators.
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}

	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// truncate shortens s to at most width display cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// oneLine collapses whitespace so a cell never breaks the table.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// writeHeader writes a section header. style decorates the title only.
func writeHeader(w io.Writer, title string, compact bool, style func(a ...interface{}) string) error {
	if compact {
		_, err := fmt.Fprintf(w, "%s\n", style(title))
		return err
	}

	separator := strings.Repeat("=", runewidth.StringWidth(title))
	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", style(title), separator)
	return err
}
