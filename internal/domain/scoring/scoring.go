// Package scoring turns an answer into a score delta and a running total.
package scoring

import (
	"context"
	"fmt"
)

// Default point values for an answer.
const (
	defaultCorrectPoints = 10
	defaultWrongPoints   = -1
	minTotal             = 0
)

// Option applies a configuration option to the PointsScorer.
type Option func(*PointsScorer)

// WithCorrectPoints sets the reward for a correct answer.
func WithCorrectPoints(points int) Option {
	return func(s *PointsScorer) {
		if points > 0 {
			s.correctPoints = points
		}
	}
}

// WithWrongPoints sets the penalty for a wrong answer. Positive values are
// treated as a penalty of that size.
func WithWrongPoints(points int) Option {
	return func(s *PointsScorer) {
		if points > 0 {
			points = -points
		}
		s.wrongPoints = points
	}
}

// Input is an answer to score against the player's current total.
type Input struct {
	Total   int
	Correct bool
}

// Result contains the applied delta and the new total.
type Result struct {
	Correct bool `json:"correct"`
	Delta   int  `json:"delta"`
	Total   int  `json:"total"`
}

// Scorer computes a score from an input.
type Scorer interface {
	// Score computes a score, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (Result, error)
}

// PointsScorer rewards correct answers, penalizes wrong ones and never lets
// the total go below zero.
type PointsScorer struct {
	correctPoints int
	wrongPoints   int
}

// NewPointsScorer creates a scorer with configuration options.
func NewPointsScorer(opts ...Option) *PointsScorer {
	s := &PointsScorer{
		correctPoints: defaultCorrectPoints,
		wrongPoints:   defaultWrongPoints,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score applies the answer to in.Total.
func (s *PointsScorer) Score(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}

	delta := s.wrongPoints
	if in.Correct {
		delta = s.correctPoints
	}
	return Result{
		Correct: in.Correct,
		Delta:   delta,
		Total:   max(minTotal, in.Total+delta),
	}, nil
}

// Points returns the configured reward and penalty.
func (s *PointsScorer) Points() (correct, wrong int) {
	return s.correctPoints, s.wrongPoints
}
