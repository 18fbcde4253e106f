package race

import (
	"context"
	"sync"
	"time"
)

const defaultTickHz = 60

// Controller advances a clock on a ticker and publishes frames.
type Controller struct {
	track  *Track
	clock  *Clock
	tickHz int
	now    func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithTickHz sets the frame rate.
func WithTickHz(hz int) ControllerOption {
	return func(c *Controller) {
		if hz > 0 {
			c.tickHz = hz
		}
	}
}

// WithNow overrides the wall clock.
func WithNow(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// NewController creates a controller for track driven by clock.
func NewController(track *Track, clock *Clock, opts ...ControllerOption) *Controller {
	c := &Controller{
		track:  track,
		clock:  clock,
		tickHz: defaultTickHz,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clock returns the controller's race clock.
func (c *Controller) Clock() *Clock { return c.clock }

// Track returns the controller's track.
func (c *Controller) Track() *Track { return c.track }

// Current computes the frame for the present instant.
func (c *Controller) Current() Frame {
	now := c.now()
	return c.track.Frame(c.clock.Elapsed(now), c.clock.Done(now))
}

// Done reports whether the race window is over.
func (c *Controller) Done() bool {
	return c.clock.Done(c.now())
}

// Run publishes a frame immediately and then once per tick until the
// final frame was sent, Stop is called, sink fails or ctx is done.
func (c *Controller) Run(ctx context.Context, sink func(Frame) error) error {
	ticker := time.NewTicker(time.Second / time.Duration(c.tickHz))
	defer ticker.Stop()

	for {
		f := c.Current()
		if err := sink(f); err != nil {
			return err
		}
		if f.Done {
			return nil
		}

		select {
		case <-c.stop:
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stop:
			return nil
		case <-ticker.C:
		}
	}
}

// Stop abandons the race. Safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
