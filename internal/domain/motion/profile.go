package motion

import (
	"fmt"
	"math"
)

// Kind tags how a Profile accumulates distance.
type Kind int

const (
	// KindPhases sums constant-rate phases in time order.
	KindPhases Kind = iota
	// KindClosedForm evaluates Linear*t + Quadratic*t² directly.
	KindClosedForm
)

func (k Kind) String() string {
	switch k {
	case KindPhases:
		return "phases"
	case KindClosedForm:
		return "closed_form"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Open marks the end of a phase that runs until the race is over.
var Open = math.Inf(1)

// Phase is a contiguous interval [Start, End) travelled at a constant Rate.
type Phase struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Rate  float64 `json:"rate"`
}

// Profile is the velocity schedule of one competitor.
type Profile struct {
	Kind      Kind    `json:"kind"`
	Phases    []Phase `json:"phases,omitempty"`
	Linear    float64 `json:"linear,omitempty"`
	Quadratic float64 `json:"quadratic,omitempty"`
}

// Phases builds a phase-list profile. Callers pass phases in time order.
func Phases(phases ...Phase) Profile {
	cp := make([]Phase, len(phases))
	copy(cp, phases)
	return Profile{Kind: KindPhases, Phases: cp}
}

// ClosedForm builds a profile evaluated as linear*t + quadratic*t².
func ClosedForm(linear, quadratic float64) Profile {
	return Profile{Kind: KindClosedForm, Linear: linear, Quadratic: quadratic}
}

// Validate checks the profile is contiguous from 0, open-ended and never
// runs backwards.
func (p Profile) Validate() error {
	switch p.Kind {
	case KindPhases:
		return validatePhases(p.Phases)
	case KindClosedForm:
		if p.Linear < 0 || p.Quadratic < 0 || math.IsNaN(p.Linear) || math.IsNaN(p.Quadratic) {
			return fmt.Errorf("%w: negative closed-form coefficient", ErrInvalidProfile)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidProfile, p.Kind)
	}
}

func validatePhases(phases []Phase) error {
	if len(phases) == 0 {
		return fmt.Errorf("%w: no phases", ErrInvalidProfile)
	}
	if phases[0].Start != 0 {
		return fmt.Errorf("%w: first phase starts at %g, not 0", ErrInvalidProfile, phases[0].Start)
	}
	for i, ph := range phases {
		if ph.Rate < 0 || math.IsNaN(ph.Rate) {
			return fmt.Errorf("%w: phase %d has negative rate", ErrInvalidProfile, i)
		}
		if !(ph.End > ph.Start) {
			return fmt.Errorf("%w: phase %d ends at %g before it starts at %g", ErrInvalidProfile, i, ph.End, ph.Start)
		}
		if i > 0 && phases[i-1].End != ph.Start {
			return fmt.Errorf("%w: gap or overlap between phase %d and %d", ErrInvalidProfile, i-1, i)
		}
	}
	if last := phases[len(phases)-1]; !math.IsInf(last.End, 1) {
		return fmt.Errorf("%w: last phase must be open-ended", ErrInvalidProfile)
	}
	return nil
}

// distance returns the real-valued accumulation at t. t must already be
// clamped to the race window.
func (p Profile) distance(t float64) float64 {
	if p.Kind == KindClosedForm {
		return p.Linear*t + p.Quadratic*t*t
	}
	var d float64
	for _, ph := range p.Phases {
		if t <= ph.Start {
			break
		}
		d += (math.Min(t, ph.End) - ph.Start) * ph.Rate
	}
	return d
}
