package chart

import (
	"sync/atomic"

	"github.com/0xmhha/landing-dashboard/pkg/sink"
)

// Current tracks the page most recently built by its Factory, so readers
// keep seeing the live page after the refresh controller recreates it.
type Current struct {
	cfg  Config
	page atomic.Pointer[Page]
}

// NewCurrent creates a tracker for pages configured by cfg.
func NewCurrent(cfg Config) *Current {
	return &Current{cfg: cfg}
}

// Factory returns a sink.Factory whose pages replace the tracked one.
func (c *Current) Factory() sink.Factory {
	return func() (sink.Chart, error) {
		p := New(c.cfg)
		c.page.Store(p)
		return p, nil
	}
}

// Page returns the tracked page, nil before the first build.
func (c *Current) Page() *Page {
	return c.page.Load()
}

// HTML returns the tracked page's last render, nil if there is none.
func (c *Current) HTML() []byte {
	if p := c.page.Load(); p != nil {
		return p.HTML()
	}
	return nil
}
