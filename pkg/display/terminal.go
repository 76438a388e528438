package display

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/0xmhha/landing-dashboard/pkg/sink"
)

// Terminal control sequences.
const (
	clearScreen    = "\033[2J"
	moveCursorHome = "\033[H"
)

// ErrTerminalClosed is returned by Update after Destroy.
var ErrTerminalClosed = errors.New("terminal sink destroyed")

// Terminal is a live render sink that redraws the whole dashboard on every
// Update. It implements sink.Chart, sink.Slots and sink.Framer and is safe
// for concurrent use.
type Terminal struct {
	mu        sync.Mutex
	out       io.Writer
	formatter Formatter
	board     *sink.Board
	clear     bool
	destroyed bool

	labels []string
	values []int
	frame  sink.Frame
}

// NewTerminal creates a terminal sink writing to out.
//
// When out is a terminal the screen is cleared before each redraw and the
// terminal width sizes the bar charts; otherwise colors are disabled and
// frames are appended.
func NewTerminal(out io.Writer, cfg Config) *Terminal {
	tty := false
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		tty = true
		if cfg.Width <= 0 {
			if width, _, err := term.GetSize(int(f.Fd())); err == nil {
				cfg.Width = width
			}
		}
	}
	cfg.Color = cfg.Color && tty

	return &Terminal{
		out:       out,
		formatter: New(cfg),
		board:     sink.NewStatsBoard(),
		clear:     tty && (cfg.Format == "" || cfg.Format == FormatTable),
	}
}

// Factory returns a sink.Factory producing terminals on out.
func Factory(out io.Writer, cfg Config) sink.Factory {
	return func() (sink.Chart, error) {
		return NewTerminal(out, cfg), nil
	}
}

// SetData implements sink.Chart.
func (t *Terminal) SetData(labels []string, values []int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.labels = append([]string(nil), labels...)
	t.values = append([]int(nil), values...)
}

// SetText implements sink.Slots.
func (t *Terminal) SetText(name, text string) error {
	return t.board.SetText(name, text)
}

// SetFrame implements sink.Framer.
func (t *Terminal) SetFrame(f sink.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.frame = f
}

// Update implements sink.Chart by redrawing the dashboard.
func (t *Terminal) Update() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return ErrTerminalClosed
	}

	var buf bytes.Buffer
	if t.clear {
		buf.WriteString(moveCursorHome + clearScreen)
	}

	v := View{
		Labels: t.labels,
		Values: t.values,
		Slots:  t.board.Values(),
		Frame:  t.frame,
	}
	if err := t.formatter.FormatView(&buf, v); err != nil {
		return err
	}

	_, err := t.out.Write(buf.Bytes())
	return err
}

// Destroy implements sink.Chart. Later updates fail with ErrTerminalClosed.
func (t *Terminal) Destroy() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.destroyed = true
	return nil
}

// Slots returns the statistic slot board.
func (t *Terminal) Slots() *sink.Board {
	return t.board
}
