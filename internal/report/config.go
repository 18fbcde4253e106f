// Package report prints an offline summary of the race model: distance
// and finish-time tables, verdicts per option and practice statistics,
// plus optional chart files.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/animalrace/internal/domain/model"
)

// ErrInvalidConfig marks unusable report settings.
var ErrInvalidConfig = errors.New("invalid report config")

// Config holds the report settings.
type Config struct {
	Times          []float64
	Distances      []float64
	PracticeRounds int
	Seed           int64
	Step           float64
	PNGPath        string
	HTMLPath       string
}

// DefaultConfig covers every option the game offers.
func DefaultConfig() Config {
	return Config{
		Times:          append([]float64(nil), model.TimeOptions...),
		Distances:      append([]float64(nil), model.DistanceOptions...),
		PracticeRounds: 100,
		Seed:           1,
		Step:           0.5,
	}
}

// Validate checks the settings before running.
func (c Config) Validate() error {
	switch {
	case len(c.Times) == 0 && len(c.Distances) == 0:
		return fmt.Errorf("%w: nothing to report", ErrInvalidConfig)
	case c.PracticeRounds < 0:
		return fmt.Errorf("%w: practice rounds must not be negative", ErrInvalidConfig)
	case !(c.Step > 0):
		return fmt.Errorf("%w: chart step must be positive", ErrInvalidConfig)
	}
	return nil
}

// ParseFloats parses a comma separated list such as "5,10,15".
func ParseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidConfig, p)
		}
		out = append(out, v)
	}
	return out, nil
}
