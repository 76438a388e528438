package sink

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/landing-dashboard/pkg/aggregator"
	"github.com/0xmhha/landing-dashboard/pkg/logger"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

// fakeChart records what the adapter wrote.
type fakeChart struct {
	labels    []string
	values    []int
	updates   int
	destroyed bool
	frame     *Frame
	updateErr error
}

func (c *fakeChart) SetData(labels []string, values []int) {
	c.labels = labels
	c.values = values
}

func (c *fakeChart) Update() error {
	c.updates++
	return c.updateErr
}

func (c *fakeChart) Destroy() error {
	c.destroyed = true
	return nil
}

func (c *fakeChart) SetFrame(f Frame) {
	c.frame = &f
}

// plainChart does not implement Framer.
type plainChart struct{ updates int }

func (c *plainChart) SetData([]string, []int) {}
func (c *plainChart) Update() error           { c.updates++; return nil }
func (c *plainChart) Destroy() error          { return nil }

func TestRender(t *testing.T) {
	series := aggregator.Series{
		{Label: "28/07/2025", Count: 2},
		{Label: "29/07/2025", Count: 1},
	}
	chart := &fakeChart{}
	board := NewStatsBoard()

	NewAdapter(logger.Noop()).Render(chart, board, series, stats.Compute(series))

	assert.Equal(t, []string{"28/07/2025", "29/07/2025"}, chart.labels)
	assert.Equal(t, []int{2, 1}, chart.values)
	assert.Equal(t, 1, chart.updates)
	assert.Equal(t, map[string]string{
		stats.SlotActiveDays: "2",
		stats.SlotAverage:    "1.5",
		stats.SlotPeakDay:    "28/07/2025 (2)",
	}, board.Values())
}

func TestPlaceholder(t *testing.T) {
	for _, label := range []string{NoDataLabel, ErrorLabel} {
		t.Run(label, func(t *testing.T) {
			chart := &fakeChart{}
			board := NewStatsBoard()
			require.NoError(t, board.SetText(stats.SlotPeakDay, "01/07/2025 (9)"))

			NewAdapter(nil).Placeholder(chart, board, label)

			assert.Equal(t, []string{label}, chart.labels)
			assert.Equal(t, []int{0}, chart.values)
			assert.Equal(t, "0", mustText(t, board, stats.SlotActiveDays))
			assert.Equal(t, "0", mustText(t, board, stats.SlotAverage))
			assert.Equal(t, "N/A", mustText(t, board, stats.SlotPeakDay))
		})
	}
}

func TestMissingTargetsAreSkipped(t *testing.T) {
	a := NewAdapter(logger.Noop())
	series := aggregator.Series{{Label: "01/07/2025", Count: 1}}

	assert.NotPanics(t, func() {
		a.Render(nil, nil, series, stats.Compute(series))
		a.Placeholder(nil, nil, NoDataLabel)
		a.Publish(nil, Frame{})
	})

	// Only the peak slot exists; the others are silently skipped.
	partial := NewBoard(stats.SlotPeakDay)
	chart := &fakeChart{updateErr: errors.New("canvas gone")}
	assert.NotPanics(t, func() {
		a.Render(chart, partial, series, stats.Compute(series))
	})
	assert.Equal(t, "01/07/2025 (1)", mustText(t, partial, stats.SlotPeakDay))
	_, ok := partial.Text(stats.SlotAverage)
	assert.False(t, ok)
}

func TestPublish(t *testing.T) {
	framed := &fakeChart{}
	plain := &plainChart{}

	NewAdapter(nil).Publish(Multi{framed, plain}, Frame{Cycle: "c1"})

	require.NotNil(t, framed.frame)
	assert.Equal(t, "c1", framed.frame.Cycle)
}

func TestMulti(t *testing.T) {
	a, b := &fakeChart{}, &fakeChart{updateErr: errors.New("boom")}
	m := Multi{a, nil, b}

	m.SetData([]string{"x"}, []int{1})
	err := m.Update()

	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"x"}, a.labels)
	assert.Equal(t, []string{"x"}, b.labels)
	assert.Equal(t, 1, a.updates)

	require.NoError(t, m.Destroy())
	assert.True(t, a.destroyed)
	assert.True(t, b.destroyed)
}

func TestMultiFactory(t *testing.T) {
	built := &fakeChart{}
	ok := func() (Chart, error) { return built, nil }
	fail := func() (Chart, error) { return nil, errors.New("no canvas") }

	c, err := MultiFactory(ok, ok)()
	require.NoError(t, err)
	assert.Len(t, c, 2)

	_, err = MultiFactory(ok, fail)()
	assert.EqualError(t, err, "no canvas")
	assert.True(t, built.destroyed)
}

func TestMultiSlots(t *testing.T) {
	peak := NewBoard(stats.SlotPeakDay)
	avg := NewBoard(stats.SlotAverage)
	m := MultiSlots{peak, nil, avg}

	require.NoError(t, m.SetText(stats.SlotPeakDay, "p"))
	require.NoError(t, m.SetText(stats.SlotAverage, "a"))
	assert.ErrorIs(t, m.SetText("unknown", "u"), ErrSinkMissing)

	assert.Equal(t, "p", mustText(t, peak, stats.SlotPeakDay))
	assert.Equal(t, "a", mustText(t, avg, stats.SlotAverage))
}

func mustText(t *testing.T, b *Board, name string) string {
	t.Helper()
	v, ok := b.Text(name)
	require.True(t, ok, name)
	return v
}
