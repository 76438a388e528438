// Package sink pushes series and statistics into long-lived render targets.
//
// A Chart holds labels and values and is redrawn with Update; Slots are
// named text targets for the statistics. Targets may be missing at any
// time: a nil chart, nil slots, or an unknown slot name is skipped and
// logged at debug level, never returned to the caller.
package sink

import (
	"errors"
	"time"

	"github.com/0xmhha/landing-dashboard/pkg/aggregator"
	"github.com/0xmhha/landing-dashboard/pkg/logger"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

// Placeholder labels.
const (
	NoDataLabel = "Sin datos disponibles"
	ErrorLabel  = "Error de conexión"
)

// ErrSinkMissing reports a render target that does not exist.
var ErrSinkMissing = errors.New("render target missing")

// Chart is a mutable chart instance.
type Chart interface {
	// SetData replaces the labels and the single dataset.
	SetData(labels []string, values []int)

	// Update redraws the chart with the current data.
	Update() error

	// Destroy releases the chart. It is not used afterwards.
	Destroy() error
}

// Slots are named text targets. SetText on an unknown name returns
// ErrSinkMissing.
type Slots interface {
	SetText(name, text string) error
}

// Framer is implemented by charts that show more than the day series.
type Framer interface {
	SetFrame(f Frame)
}

// Factory constructs a chart.
type Factory func() (Chart, error)

// Frame is everything one refresh cycle produced.
type Frame struct {
	Cycle       string            `json:"cycle"`
	State       string            `json:"state"`
	Series      aggregator.Series `json:"series"`
	Reasons     aggregator.Series `json:"reasons"`
	Stats       stats.Statistics  `json:"stats"`
	Summary     stats.Summary     `json:"summary"`
	Records     []parser.Record   `json:"records"`
	Placeholder string            `json:"placeholder,omitempty"`
	Error       string            `json:"error,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// slotOrder fixes the write order of the statistic slots.
var slotOrder = []string{stats.SlotActiveDays, stats.SlotAverage, stats.SlotPeakDay}

// Adapter writes into charts and slots.
type Adapter struct {
	logger logger.Logger
}

// NewAdapter creates an adapter. A nil logger discards output.
func NewAdapter(log logger.Logger) *Adapter {
	if log == nil {
		log = logger.Noop()
	}
	return &Adapter{logger: log.Component("sink")}
}

// Render pushes the statistics into slots and the series into chart.
// Slots are always written before the chart is updated.
func (a *Adapter) Render(chart Chart, slots Slots, series aggregator.Series, st stats.Statistics) {
	a.fill(slots, st.Slots())
	a.draw(chart, series.Labels(), series.Values())
}

// Placeholder renders a single zero-valued entry labelled label and resets
// the statistic slots.
func (a *Adapter) Placeholder(chart Chart, slots Slots, label string) {
	a.fill(slots, stats.Statistics{}.Slots())
	a.draw(chart, []string{label}, []int{0})
}

// Publish hands the full frame to charts that implement Framer.
func (a *Adapter) Publish(chart Chart, f Frame) {
	if chart == nil {
		return
	}
	if framer, ok := chart.(Framer); ok {
		framer.SetFrame(f)
	}
}

func (a *Adapter) draw(chart Chart, labels []string, values []int) {
	if chart == nil {
		a.logger.Debug("skipping chart", "error", ErrSinkMissing)
		return
	}

	chart.SetData(labels, values)
	if err := chart.Update(); err != nil {
		a.logger.Warn("chart update failed", "error", err)
	}
}

func (a *Adapter) fill(slots Slots, values map[string]string) {
	if slots == nil {
		a.logger.Debug("skipping slots", "error", ErrSinkMissing)
		return
	}

	for _, name := range slotOrder {
		err := slots.SetText(name, values[name])
		switch {
		case errors.Is(err, ErrSinkMissing):
			a.logger.Debug("skipping slot", "slot", name)
		case err != nil:
			a.logger.Warn("slot update failed", "slot", name, "error", err)
		}
	}
}
