// Package practice generates randomized "all records" trials. Each trial
// has its own time and distance, so the only fair comparison is speed.
//
// The generator is deliberately separate from the motion model: its
// numbers come from base speeds and a random factor, never from the
// authored race profiles.
package practice

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/animalrace/internal/domain/roster"
)

// Default generator configuration.
const (
	defaultMinFactor = 0.5
	defaultMaxFactor = 1.5
)

// DefaultTimes are the trial durations a record can be drawn from.
var DefaultTimes = []int{5, 8, 10, 12, 15, 20}

// Record is one randomized trial.
type Record struct {
	CompetitorID string `json:"competitor_id"`
	Time         int    `json:"time"`
	Distance     int    `json:"distance"`
	Speed        int    `json:"speed"`
}

// Generator draws records from a private random source.
type Generator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	times     []int
	minFactor float64
	maxFactor float64
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed makes the generator reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // game randomness, not security
	}
}

// WithSource injects a random source.
func WithSource(src rand.Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.rng = rand.New(src) //nolint:gosec // game randomness, not security
		}
	}
}

// WithTimes overrides the trial durations.
func WithTimes(times ...int) Option {
	return func(g *Generator) {
		valid := make([]int, 0, len(times))
		for _, t := range times {
			if t > 0 {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			g.times = valid
		}
	}
}

// WithFactorRange sets the [min, max) speed variance around base speed.
func WithFactorRange(minFactor, maxFactor float64) Option {
	return func(g *Generator) {
		if minFactor > 0 && maxFactor > minFactor {
			g.minFactor = minFactor
			g.maxFactor = maxFactor
		}
	}
}

// NewGenerator creates a generator. Without WithSeed or WithSource it is
// seeded from the clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // game randomness, not security
		times:     append([]int(nil), DefaultTimes...),
		minFactor: defaultMinFactor,
		maxFactor: defaultMaxFactor,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate draws one record per competitor, in roster order.
func (g *Generator) Generate(competitors []roster.Competitor) []Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]Record, len(competitors))
	for i, c := range competitors {
		factor := g.minFactor + g.rng.Float64()*(g.maxFactor-g.minFactor)
		speed := int(math.Floor(c.BaseSpeed * factor))
		t := g.times[g.rng.Intn(len(g.times))]
		records[i] = Record{
			CompetitorID: c.ID,
			Time:         t,
			Distance:     speed * t,
			Speed:        speed,
		}
	}
	return records
}
