package sink

import (
	"errors"
	"sync"
)

// Multi fans a chart out to several charts. Nil members are skipped.
type Multi []Chart

// SetData implements Chart.SetData.
func (m Multi) SetData(labels []string, values []int) {
	for _, c := range m {
		if c != nil {
			c.SetData(labels, values)
		}
	}
}

// Update implements Chart.Update. Every member is updated; the errors are
// joined.
func (m Multi) Update() error {
	var errs []error
	for _, c := range m {
		if c != nil {
			errs = append(errs, c.Update())
		}
	}
	return errors.Join(errs...)
}

// Destroy implements Chart.Destroy.
func (m Multi) Destroy() error {
	var errs []error
	for _, c := range m {
		if c != nil {
			errs = append(errs, c.Destroy())
		}
	}
	return errors.Join(errs...)
}

// SetFrame implements Framer for members that support it.
func (m Multi) SetFrame(f Frame) {
	for _, c := range m {
		if framer, ok := c.(Framer); ok {
			framer.SetFrame(f)
		}
	}
}

// SetText implements Slots for members that also hold slots.
func (m Multi) SetText(name, text string) error {
	slots := make(MultiSlots, 0, len(m))
	for _, c := range m {
		if s, ok := c.(Slots); ok {
			slots = append(slots, s)
		}
	}
	return slots.SetText(name, text)
}

// MultiFactory builds a Multi from several factories. If one fails, the
// charts already built are destroyed.
func MultiFactory(factories ...Factory) Factory {
	return func() (Chart, error) {
		charts := make(Multi, 0, len(factories))
		for _, f := range factories {
			c, err := f()
			if err != nil {
				_ = charts.Destroy()
				return nil, err
			}
			charts = append(charts, c)
		}
		return charts, nil
	}
}

// MultiSlots fans slot writes out. A write succeeds if any member knows
// the slot.
type MultiSlots []Slots

// SetText implements Slots.SetText.
func (m MultiSlots) SetText(name, text string) error {
	var (
		found bool
		errs  []error
	)
	for _, s := range m {
		if s == nil {
			continue
		}
		err := s.SetText(name, text)
		switch {
		case err == nil:
			found = true
		case errors.Is(err, ErrSinkMissing):
			// not this member's slot
		default:
			found = true
			errs = append(errs, err)
		}
	}
	if !found {
		return ErrSinkMissing
	}
	return errors.Join(errs...)
}

// Board is an in-memory Slots holding a fixed set of slot names.
// It is safe for concurrent use.
type Board struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewBoard creates a board that accepts the given slot names.
func NewBoard(names ...string) *Board {
	values := make(map[string]string, len(names))
	for _, n := range names {
		values[n] = ""
	}
	return &Board{values: values}
}

// NewStatsBoard creates a board with the three statistic slots.
func NewStatsBoard() *Board {
	return NewBoard(slotOrder...)
}

// SetText implements Slots.SetText.
func (b *Board) SetText(name, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.values[name]; !ok {
		return ErrSinkMissing
	}
	b.values[name] = text
	return nil
}

// Text returns the current text of a slot.
func (b *Board) Text(name string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.values[name]
	return v, ok
}

// Values returns a copy of all slots.
func (b *Board) Values() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}
