package race

import (
	"math"
	"time"
)

// Clock maps wall-clock time onto simulated race time.
type Clock struct {
	start      time.Time
	multiplier float64
	duration   float64
}

// NewClock starts a clock at start. Simulated time runs multiplier times
// faster than the wall clock and stops at duration seconds.
func NewClock(start time.Time, multiplier, duration float64) *Clock {
	if !(multiplier > 0) {
		multiplier = 1
	}
	return &Clock{start: start, multiplier: multiplier, duration: duration}
}

// Start returns the wall-clock start instant.
func (c *Clock) Start() time.Time { return c.start }

// Multiplier returns the simulated-to-wall speed ratio.
func (c *Clock) Multiplier() float64 { return c.multiplier }

// Elapsed returns the simulated seconds at now, clamped to [0, duration].
func (c *Clock) Elapsed(now time.Time) float64 {
	sim := now.Sub(c.start).Seconds() * c.multiplier
	return math.Max(0, math.Min(sim, c.duration))
}

// Done reports whether the race window is over at now.
func (c *Clock) Done(now time.Time) bool {
	return c.Elapsed(now) >= c.duration
}

// Remaining returns the wall-clock time until the race window closes.
func (c *Clock) Remaining(now time.Time) time.Duration {
	left := (c.duration - c.Elapsed(now)) / c.multiplier
	return time.Duration(left * float64(time.Second))
}
