// Package motion is the race-physics model: a deterministic mapping from
// (competitor, elapsed time) to distance travelled, plus the inverse query
// built on top of it.
//
// Every competitor owns a Profile, either a list of constant-rate phases or
// a closed-form formula. Adding a competitor means registering a Profile;
// the accumulation code never changes.
//
// A Model holds no mutable state after construction and is safe for
// concurrent use.
package motion

import (
	"fmt"
	"math"
)

// Default race window and inverse sampling policy.
const (
	DefaultRaceDuration = 20.0
	DefaultSampleStep   = 0.1
)

// MaxSamples bounds the inverse scan. A duration/step pair that needs more
// samples is rejected by New.
const MaxSamples = 200

// sampleResolution snaps i*step onto a decimal grid so 0.1*3 samples 0.3
// and the last sample lands exactly on the race duration.
const sampleResolution = 1e9

// Model evaluates authored profiles over a fixed race window.
type Model struct {
	profiles map[string]Profile
	duration float64
	step     float64
	samples  int
}

// Option configures a Model.
type Option func(*Model)

// WithRaceDuration sets the simulated race length in seconds.
func WithRaceDuration(d float64) Option {
	return func(m *Model) {
		m.duration = d
	}
}

// WithSampleStep sets the inverse-query sampling step in seconds.
func WithSampleStep(step float64) Option {
	return func(m *Model) {
		m.step = step
	}
}

// WithProfile registers or replaces the profile for id.
func WithProfile(id string, p Profile) Option {
	return func(m *Model) {
		m.profiles[id] = p
	}
}

// WithProfiles replaces the whole registry.
func WithProfiles(profiles map[string]Profile) Option {
	return func(m *Model) {
		m.profiles = make(map[string]Profile, len(profiles))
		for id, p := range profiles {
			m.profiles[id] = p
		}
	}
}

// New builds a Model from the default profiles and the given options.
func New(opts ...Option) (*Model, error) {
	m := &Model{
		profiles: DefaultProfiles(),
		duration: DefaultRaceDuration,
		step:     DefaultSampleStep,
	}
	for _, opt := range opts {
		opt(m)
	}

	if !(m.duration > 0) || math.IsInf(m.duration, 0) {
		return nil, fmt.Errorf("%w: race duration %g", ErrInvalidOption, m.duration)
	}
	if !(m.step > 0) || m.step > m.duration {
		return nil, fmt.Errorf("%w: sample step %g", ErrInvalidOption, m.step)
	}
	for id, p := range m.profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", id, err)
		}
	}
	n := SampleCount(m.duration, m.step)
	if n > MaxSamples {
		return nil, fmt.Errorf("%w: %g/%g needs %g samples, max %d", ErrInvalidOption, m.duration, m.step, n, MaxSamples)
	}
	m.samples = int(n)
	return m, nil
}

var defaultModel = func() *Model {
	m, err := New()
	if err != nil {
		panic(err)
	}
	return m
}()

// Default returns the Model built from the authored profiles.
func Default() *Model { return defaultModel }

// Duration returns the race window in simulated seconds.
func (m *Model) Duration() float64 { return m.duration }

// Step returns the inverse-query sampling step.
func (m *Model) Step() float64 { return m.step }

// Has reports whether id has a registered profile.
func (m *Model) Has(id string) bool {
	_, ok := m.profiles[id]
	return ok
}

// Profile returns the registered profile for id.
func (m *Model) Profile(id string) (Profile, bool) {
	p, ok := m.profiles[id]
	return p, ok
}

// Clamp maps any elapsed time into the race window. NaN maps to 0.
func (m *Model) Clamp(elapsed float64) float64 {
	if math.IsNaN(elapsed) || elapsed < 0 {
		return 0
	}
	if elapsed > m.duration {
		return m.duration
	}
	return elapsed
}

// DistanceAt returns the floored distance id has covered after elapsed
// seconds. Unknown competitors never move.
func (m *Model) DistanceAt(id string, elapsed float64) int {
	p, ok := m.profiles[id]
	if !ok {
		return 0
	}
	return int(math.Floor(p.distance(m.Clamp(elapsed))))
}

// TimeToReach returns the earliest sampled time at which id has covered at
// least target. Samples run step, 2*step, ..., duration; false means the
// target is not reached inside the race window.
func (m *Model) TimeToReach(id string, target float64) (float64, bool) {
	for i := 1; i <= m.samples; i++ {
		t := m.sampleAt(i)
		if float64(m.DistanceAt(id, t)) >= target {
			return t, true
		}
	}
	return 0, false
}

// SampleCount is the number of inverse samples duration/step yields.
func SampleCount(duration, step float64) float64 {
	return math.Floor(duration/step + 1e-9)
}

// Samples returns the number of sampled times scanned by TimeToReach.
func (m *Model) Samples() int { return m.samples }

func (m *Model) sampleAt(i int) float64 {
	return math.Round(float64(i)*m.step*sampleResolution) / sampleResolution
}

// DistanceAt evaluates the default model.
func DistanceAt(id string, elapsed float64) int {
	return defaultModel.DistanceAt(id, elapsed)
}

// TimeToReach evaluates the default model.
func TimeToReach(id string, target float64) (float64, bool) {
	return defaultModel.TimeToReach(id, target)
}
