package refresh

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/0xmhha/landing-dashboard/pkg/aggregator"
	"github.com/0xmhha/landing-dashboard/pkg/daykey"
	"github.com/0xmhha/landing-dashboard/pkg/logger"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
	"github.com/0xmhha/landing-dashboard/pkg/sink"
	"github.com/0xmhha/landing-dashboard/pkg/source"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

// Option configures a Controller.
type Option func(*Controller)

// WithSlots adds statistic slots written alongside the chart's own.
func WithSlots(s sink.Slots) Option {
	return func(c *Controller) {
		c.slots = s
	}
}

// WithNormalizer sets the day normalizer. Default: daykey.New(time.Local).
func WithNormalizer(n *daykey.Normalizer) Option {
	return func(c *Controller) {
		c.normalizer = n
	}
}

// Controller runs refresh cycles and owns the render sinks.
type Controller struct {
	config     Config
	logger     logger.Logger
	source     source.Source
	factory    sink.Factory
	slots      sink.Slots
	normalizer *daykey.Normalizer
	agg        aggregator.Aggregator
	adapter    *sink.Adapter

	mu       sync.RWMutex
	running  bool
	closed   bool
	stopChan chan struct{}
	done     chan struct{}
	snapshot Snapshot

	triggers chan struct{}
	recreate chan chan error

	// Update channel for consumers, fed once Updates has been called
	updates    chan Snapshot
	subscribed atomic.Bool

	// Owned by the actor goroutine while it runs.
	chart sink.Chart
}

// New creates a controller fetching from src and rendering into the charts
// built by factory.
func New(cfg Config, src source.Source, factory sink.Factory, log logger.Logger, opts ...Option) (*Controller, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidConfig)
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil chart factory", ErrInvalidConfig)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.WaitInterval <= 0 {
		cfg.WaitInterval = 100 * time.Millisecond
	}
	if cfg.WaitAttempts <= 0 {
		cfg.WaitAttempts = 10
	}
	if log == nil {
		log = logger.Noop()
	}

	c := &Controller{
		config:   cfg,
		logger:   log.Component("refresh"),
		source:   src,
		factory:  factory,
		triggers: make(chan struct{}, 1),
		recreate: make(chan chan error),
		updates:  make(chan Snapshot, 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.normalizer == nil {
		c.normalizer = daykey.New(nil)
	}

	c.agg = aggregator.New(aggregator.Config{
		Normalizer: c.normalizer,
		Logger:     log,
	})
	c.adapter = sink.NewAdapter(log)

	c.logger.Info("refresh controller created",
		"source", src.Location(),
		"interval", cfg.Interval,
		"wait_interval", cfg.WaitInterval,
		"wait_attempts", cfg.WaitAttempts)

	return c, nil
}

// Start launches the first fetch and the actor goroutine. It returns at
// once; the sinks are created when data arrives or the wait runs out.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.running {
		return ErrControllerRunning
	}

	c.running = true
	c.stopChan = make(chan struct{})
	c.done = make(chan struct{})
	c.snapshot = Snapshot{State: AwaitingData, UpdatedAt: time.Now()}

	r := &run{
		stop:    c.stopChan,
		done:    c.done,
		results: make(chan result, 4),
		first:   &slot{},
	}
	cycle := uuid.NewString()

	go func() {
		res := c.fetch(ctx, cycle)
		if !r.first.fill(res) {
			c.post(ctx, r, res)
		}
	}()

	go c.loop(ctx, r)

	c.logger.Info("refresh controller started", "cycle", cycle)
	return nil
}

// Stop stops the timer and the actor. Fetches still in flight complete and
// their results are discarded. The sinks stay as they are.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	if !c.running {
		c.mu.Unlock()
		return ErrControllerNotRunning
	}

	close(c.stopChan)
	c.running = false
	done := c.done
	c.mu.Unlock()

	<-done
	c.logger.Info("refresh controller stopped")
	return nil
}

// Close stops the controller, destroys the sinks and closes Updates.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	if c.running {
		close(c.stopChan)
		c.running = false
	}
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}

	var err error
	if c.chart != nil {
		err = c.chart.Destroy()
		c.chart = nil
	}

	close(c.updates)

	c.logger.Info("refresh controller closed")
	return err
}

// Trigger requests an immediate cycle. It never blocks; triggers arriving
// while one is already queued are coalesced.
func (c *Controller) Trigger() {
	select {
	case c.triggers <- struct{}{}:
	default:
	}
}

// Recreate destroys the chart and builds a new one from the factory,
// rendering the latest snapshot into it.
func (c *Controller) Recreate() error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrControllerClosed
	}
	if !c.running {
		c.mu.RUnlock()
		return ErrControllerNotRunning
	}
	stop := c.stopChan
	c.mu.RUnlock()

	reply := make(chan error, 1)
	select {
	case c.recreate <- reply:
	case <-stop:
		return ErrControllerNotRunning
	}

	select {
	case err := <-reply:
		return err
	case <-stop:
		return ErrControllerNotRunning
	}
}

// Snapshot returns the latest snapshot.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshot
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshot.State
}

// Updates returns a channel receiving every new snapshot. Nothing is queued
// until the first call, and snapshots are dropped when the consumer falls
// behind. The channel is closed by Close.
func (c *Controller) Updates() <-chan Snapshot {
	c.subscribed.Store(true)
	return c.updates
}

// run holds the channels of one Start..Stop span. Results of an earlier
// span never reach a later one.
type run struct {
	stop    chan struct{}
	done    chan struct{}
	results chan result
	first   *slot
}

// loop is the actor.
func (c *Controller) loop(ctx context.Context, r *run) {
	defer close(r.done)

	res, found, ok := c.await(ctx, r)
	if !ok {
		return
	}

	c.ensureChart()
	if found {
		c.apply(res)
	} else {
		c.logger.Warn("no data after waiting, showing placeholder",
			"attempts", c.config.WaitAttempts)
		c.setSnapshot(Snapshot{State: Ready, UpdatedAt: time.Now()})
		c.render(c.Snapshot())
	}

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-r.stop:
			return

		case <-ticker.C:
			c.startCycle(ctx, r, "timer")

		case <-c.triggers:
			c.startCycle(ctx, r, "trigger")

		case reply := <-c.recreate:
			reply <- c.recreateChart()

		case res := <-r.results:
			c.apply(res)
		}
	}
}

// await polls the first-data slot every WaitInterval, at most WaitAttempts
// times. ok is false when the controller stopped while waiting.
func (c *Controller) await(ctx context.Context, r *run) (res result, found, ok bool) {
	ticker := time.NewTicker(c.config.WaitInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < c.config.WaitAttempts; attempt++ {
		if res, found := r.first.take(); found {
			return res, true, true
		}

		select {
		case <-ctx.Done():
			r.first.abandon()
			return result{}, false, false
		case <-r.stop:
			r.first.abandon()
			return result{}, false, false
		case <-ticker.C:
		}
	}

	res, found = r.first.abandon()
	return res, found, true
}

// startCycle marks the controller Refreshing and fetches in the background.
func (c *Controller) startCycle(ctx context.Context, r *run, reason string) {
	cycle := uuid.NewString()
	c.logger.Debug("refresh cycle started", "cycle", cycle, "reason", reason)

	c.mu.Lock()
	c.snapshot.State = Refreshing
	snap := c.snapshot
	c.mu.Unlock()
	c.publish(snap)

	go func() {
		c.post(ctx, r, c.fetch(ctx, cycle))
	}()
}

// post hands a fetch result to the actor, or drops it once stopped.
func (c *Controller) post(ctx context.Context, r *run, res result) {
	select {
	case r.results <- res:
	case <-r.stop:
		c.logger.Debug("discarding result after stop", "cycle", res.cycle)
	case <-ctx.Done():
	}
}

// fetch retrieves and decodes the feed.
func (c *Controller) fetch(ctx context.Context, cycle string) result {
	body, err := c.source.Fetch(ctx)
	if err != nil {
		return result{cycle: cycle, err: err, at: time.Now()}
	}

	records, err := parser.DecodeFeed(body)
	if err != nil {
		return result{cycle: cycle, err: err, at: time.Now()}
	}

	return result{cycle: cycle, records: records, at: time.Now()}
}

// apply turns a fetch result into the current snapshot and renders it.
func (c *Controller) apply(res result) {
	log := c.logger.With("cycle", res.cycle)

	if res.err != nil {
		log.Warn("refresh cycle failed", "error", res.err)
		snap := Snapshot{Cycle: res.cycle, State: Error, Err: res.err, UpdatedAt: res.at}
		c.setSnapshot(snap)
		c.render(snap)
		return
	}

	day, err := c.agg.Collect(res.records, aggregator.DimDay)
	if err != nil {
		log.Error("aggregation failed", "error", err)
		snap := Snapshot{Cycle: res.cycle, State: Error, Err: err, UpdatedAt: res.at}
		c.setSnapshot(snap)
		c.render(snap)
		return
	}
	reasons, _ := c.agg.AggregateBy(res.records, aggregator.DimReason)

	snap := Snapshot{
		Cycle:     res.cycle,
		State:     Ready,
		Series:    day.Series,
		Reasons:   reasons,
		Stats:     stats.Compute(day.Series),
		Summary:   stats.Summarize(res.records, c.normalizer),
		Records:   res.records,
		UpdatedAt: res.at,
		Excluded:  day.Excluded,
		Dropped:   day.Dropped,
	}
	c.setSnapshot(snap)
	c.render(snap)

	log.Info("refresh cycle complete",
		"records", len(res.records),
		"days", len(day.Series),
		"excluded", day.Excluded,
		"dropped", day.Dropped)
}

// render pushes snap into the chart and the slots.
func (c *Controller) render(snap Snapshot) {
	c.adapter.Publish(c.chart, snap.Frame())

	if label := snap.Placeholder(); label != "" {
		c.adapter.Placeholder(c.chart, c.targetSlots(), label)
		return
	}
	c.adapter.Render(c.chart, c.targetSlots(), snap.Series, snap.Stats)
}

// targetSlots combines the external slots with the chart's own.
func (c *Controller) targetSlots() sink.Slots {
	var targets sink.MultiSlots
	if c.slots != nil {
		targets = append(targets, c.slots)
	}
	if s, ok := c.chart.(sink.Slots); ok {
		targets = append(targets, s)
	}
	if len(targets) == 0 {
		return nil
	}
	return targets
}

// ensureChart builds the chart once. A failing factory leaves it nil.
func (c *Controller) ensureChart() {
	if c.chart != nil {
		return
	}

	chart, err := c.factory()
	if err != nil {
		c.logger.Error("failed to create chart", "error", err)
		return
	}
	c.chart = chart
}

func (c *Controller) recreateChart() error {
	if c.chart != nil {
		if err := c.chart.Destroy(); err != nil {
			c.logger.Warn("failed to destroy chart", "error", err)
		}
		c.chart = nil
	}

	chart, err := c.factory()
	if err != nil {
		c.logger.Error("failed to recreate chart", "error", err)
		return fmt.Errorf("recreate chart: %w", err)
	}
	c.chart = chart

	c.render(c.Snapshot())
	c.logger.Info("chart recreated")
	return nil
}

func (c *Controller) setSnapshot(snap Snapshot) {
	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()

	c.publish(snap)
}

// publish sends snap to Updates without blocking.
func (c *Controller) publish(snap Snapshot) {
	if !c.subscribed.Load() {
		return
	}
	select {
	case c.updates <- snap:
	default:
		c.logger.Debug("updates channel full, dropping update", "cycle", snap.Cycle)
	}
}
