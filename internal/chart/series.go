// Package chart renders distance-over-time curves of the motion model as
// PNG (gonum/plot) or interactive HTML (go-echarts).
package chart

import (
	"errors"
	"math"

	"github.com/okian/animalrace/internal/domain/motion"
	"github.com/okian/animalrace/internal/domain/roster"
)

// ErrNoSeries is returned when there is nothing to draw.
var ErrNoSeries = errors.New("chart: no series")

// Point is one sample of a curve.
type Point struct {
	T float64 `json:"t"`
	D int     `json:"d"`
}

// Series is one competitor's curve over the race window.
type Series struct {
	CompetitorID string  `json:"competitor_id"`
	Name         string  `json:"name"`
	Points       []Point `json:"points"`
}

// Build samples every competitor at 0, step, 2*step, ... up to the race
// duration. Steps finer than the model step, including non-positive ones,
// fall back to the model step so a curve never has more points than the
// inverse scan samples.
func Build(m *motion.Model, competitors []roster.Competitor, step float64) []Series {
	if !(step >= m.Step()) {
		step = m.Step()
	}
	n := int(math.Floor(m.Duration()/step+1e-9)) + 1

	out := make([]Series, 0, len(competitors))
	for _, c := range competitors {
		s := Series{CompetitorID: c.ID, Name: c.Name, Points: make([]Point, n)}
		for i := range n {
			t := math.Round(float64(i)*step*1e9) / 1e9
			s.Points[i] = Point{T: t, D: m.DistanceAt(c.ID, t)}
		}
		out = append(out, s)
	}
	return out
}
