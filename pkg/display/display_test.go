package display

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/0xmhha/landing-dashboard/pkg/aggregator"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
	"github.com/0xmhha/landing-dashboard/pkg/sink"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

func testFrame() sink.Frame {
	series := aggregator.Series{
		{Label: "28/07/2025", Count: 2},
		{Label: "29/07/2025", Count: 1},
	}
	return sink.Frame{
		Cycle:   "c-1",
		State:   "ready",
		Series:  series,
		Reasons: aggregator.Series{{Label: "consulta", Count: 3}},
		Stats:   stats.Compute(series),
		Summary: stats.Summary{
			TotalResponses: 1234,
			UniqueNames:    2,
			WantsMoreInfo:  3,
			UniqueReasons:  1,
			LastResponse:   "29/07/2025 09:00",
		},
		Records: []parser.Record{
			{"timestamp": "2025-07-28T15:47:51.000Z", "mensaje": "Hola\nquiero info", "motivo": "consulta", "nombre": "Ana"},
			{"timestamp": "2025-07-29 09:00:00", "motivo": "consulta", "nombre": "Luis"},
		},
		UpdatedAt: time.Date(2025, 7, 29, 9, 0, 5, 0, time.UTC),
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{name: "default format (table)", config: Config{}, want: "*display.tableFormatter"},
		{name: "table format", config: Config{Format: FormatTable}, want: "*display.tableFormatter"},
		{name: "json format", config: Config{Format: FormatJSON}, want: "*display.jsonFormatter"},
		{name: "simple format", config: Config{Format: FormatSimple}, want: "*display.simpleFormatter"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fmt.Sprintf("%T", New(tt.config))
			if got != tt.want {
				t.Errorf("New() type = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTableFormatter_FormatView(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := New(Config{Format: FormatTable, MaxRows: 5, Width: 60}).FormatView(&buf, ViewFromFrame(testFrame()))
	if err != nil {
		t.Fatalf("FormatView() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		Title,
		"State: ready",
		"1,234",
		"29/07/2025 09:00",
		"Days with responses",
		"1.5",
		"28/07/2025 (2)",
		"Responses per reason",
		"consulta",
		"Hola quiero info",
		"Luis",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}

	if strings.Contains(output, "\033[") {
		t.Error("output contains ANSI sequences with color disabled")
	}
}

func TestTableFormatter_BarsScale(t *testing.T) {
	t.Parallel()

	f := newTableFormatter(Config{Width: 40})

	var buf bytes.Buffer
	if err := f.writeBars(&buf, []string{"a", "b"}, []int{4, 2}); err != nil {
		t.Fatalf("writeBars() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	full := strings.Count(lines[0], barRune)
	half := strings.Count(lines[1], barRune)
	if full == 0 || half*2 != full {
		t.Errorf("bars = %d and %d, want the second half the first", full, half)
	}
}

func TestTableFormatter_RecordsLimited(t *testing.T) {
	t.Parallel()

	frame := testFrame()
	var buf bytes.Buffer
	if err := New(Config{MaxRows: 1}).FormatView(&buf, ViewFromFrame(frame)); err != nil {
		t.Fatalf("FormatView() error = %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "Ana") {
		t.Error("oldest record shown despite MaxRows=1")
	}
	if !strings.Contains(output, "1 older responses not shown") {
		t.Error("missing hidden-records note")
	}
}

func TestViewFromFramePlaceholder(t *testing.T) {
	t.Parallel()

	v := ViewFromFrame(sink.Frame{Placeholder: sink.ErrorLabel, Error: "dial tcp: refused"})

	if len(v.Labels) != 1 || v.Labels[0] != sink.ErrorLabel || v.Values[0] != 0 {
		t.Errorf("placeholder view = %v / %v", v.Labels, v.Values)
	}
	if v.Slots[stats.SlotPeakDay] != "N/A" || v.Slots[stats.SlotActiveDays] != "0" {
		t.Errorf("placeholder slots = %v", v.Slots)
	}

	var buf bytes.Buffer
	if err := New(Config{Format: FormatSimple}).FormatView(&buf, v); err != nil {
		t.Fatalf("FormatView() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Error: dial tcp: refused") {
		t.Errorf("simple output = %q", buf.String())
	}
}

func TestJSONFormatter_FormatView(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(Config{Format: FormatJSON}).FormatView(&buf, ViewFromFrame(testFrame())); err != nil {
		t.Fatalf("FormatView() error = %v", err)
	}

	var decoded struct {
		Labels []string          `json:"labels"`
		Values []int             `json:"values"`
		Slots  map[string]string `json:"slots"`
	}
	if err := sonic.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	if len(decoded.Labels) != 2 || decoded.Values[0] != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Slots[stats.SlotAverage] != "1.5" {
		t.Errorf("average slot = %q", decoded.Slots[stats.SlotAverage])
	}
}

func TestSimpleFormatter_FormatView(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(Config{Format: FormatSimple}).FormatView(&buf, ViewFromFrame(testFrame())); err != nil {
		t.Fatalf("FormatView() error = %v", err)
	}

	want := "Responses: 1,234 | Days: 2 | Avg/day: 1.5 | Peak: 28/07/2025 (2) | Last: 29/07/2025 09:00\n"
	if buf.String() != want {
		t.Errorf("FormatView() = %q, want %q", buf.String(), want)
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	term := NewTerminal(&buf, Config{Format: FormatSimple, Color: true})

	adapter := sink.NewAdapter(nil)
	frame := testFrame()
	adapter.Publish(term, frame)
	adapter.Render(term, term, frame.Series, frame.Stats)

	if strings.Contains(buf.String(), "\033[") {
		t.Error("non-terminal output must not contain ANSI sequences")
	}
	if !strings.Contains(buf.String(), "Days: 2 | Avg/day: 1.5") {
		t.Errorf("rendered = %q", buf.String())
	}

	buf.Reset()
	adapter.Placeholder(term, term, sink.NoDataLabel)
	if !strings.Contains(buf.String(), "Days: 0 | Avg/day: 0 | Peak: N/A") {
		t.Errorf("placeholder rendered = %q", buf.String())
	}

	if err := term.Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if err := term.Update(); err != ErrTerminalClosed {
		t.Errorf("Update() after Destroy = %v, want %v", err, ErrTerminalClosed)
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1500, "-1,500"},
	}

	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
