// Package race is the server-side race session controller: it owns the
// race clock, polls the motion model per tick and turns distances into
// lane positions and finish labels.
package race

import (
	"fmt"
	"math"

	"github.com/okian/animalrace/internal/domain/motion"
)

// Display defaults. Positions are a percentage of the track width.
const (
	DefaultDisplayScale = 3300.0
	DefaultMaxPercent   = 90.0
	NotFinishedLabel    = "not finished"
)

// Lane is one competitor's state in a frame.
type Lane struct {
	CompetitorID string  `json:"competitor_id"`
	Distance     int     `json:"distance"`
	Position     float64 `json:"position"`
	Finished     bool    `json:"finished"`
	Label        string  `json:"label,omitempty"`
}

// Frame is a snapshot of every lane at one simulated instant.
type Frame struct {
	Elapsed float64 `json:"elapsed"`
	Done    bool    `json:"done"`
	Lanes   []Lane  `json:"lanes"`
	Cues    []Cue   `json:"cues,omitempty"`
}

// Track converts motion model output into lane positions.
type Track struct {
	model      *motion.Model
	ids        []string
	scale      float64
	maxPercent float64
	target     float64
	cues       []Cue
	// finish labels per lane, resolved once when the target is set
	labels []string
}

// TrackOption configures a Track.
type TrackOption func(*Track)

// WithDisplayScale sets the distance that maps onto a full track.
func WithDisplayScale(scale float64) TrackOption {
	return func(t *Track) {
		if scale > 0 {
			t.scale = scale
		}
	}
}

// WithMaxPercent caps lane positions.
func WithMaxPercent(p float64) TrackOption {
	return func(t *Track) {
		if p > 0 {
			t.maxPercent = p
		}
	}
}

// WithTarget turns the track into a finish-line race over distance d.
func WithTarget(d float64) TrackOption {
	return func(t *Track) {
		if d > 0 {
			t.target = d
		}
	}
}

// WithCues attaches a narrative script to the track.
func WithCues(cues []Cue) TrackOption {
	return func(t *Track) {
		t.cues = append([]Cue(nil), cues...)
	}
}

// NewTrack creates a track for ids, in lane order.
func NewTrack(model *motion.Model, ids []string, opts ...TrackOption) *Track {
	t := &Track{
		model:      model,
		ids:        append([]string(nil), ids...),
		scale:      DefaultDisplayScale,
		maxPercent: DefaultMaxPercent,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.target > 0 {
		t.labels = make([]string, len(t.ids))
		for i, id := range t.ids {
			if ft, ok := model.TimeToReach(id, t.target); ok {
				t.labels[i] = fmt.Sprintf("%.1fs", ft)
			}
		}
	}
	return t
}

// Target returns the finish distance, or 0 for an open race.
func (t *Track) Target() float64 { return t.target }

// Position maps a distance onto the track percentage.
func (t *Track) Position(distance float64) float64 {
	return math.Min(distance/t.scale*t.maxPercent, t.maxPercent)
}

// Frame evaluates every lane at elapsed. done marks the final frame.
func (t *Track) Frame(elapsed float64, done bool) Frame {
	elapsed = t.model.Clamp(elapsed)
	f := Frame{Elapsed: elapsed, Done: done, Lanes: make([]Lane, len(t.ids))}
	for i, id := range t.ids {
		d := t.model.DistanceAt(id, elapsed)
		lane := Lane{CompetitorID: id, Distance: d, Position: t.Position(float64(d))}
		if t.target > 0 {
			switch {
			case float64(d) >= t.target:
				lane.Finished = true
				lane.Position = t.Position(t.target)
				lane.Label = t.labels[i]
			case done:
				lane.Label = NotFinishedLabel
			}
		}
		f.Lanes[i] = lane
	}
	f.Cues = activeCues(t.cues, elapsed)
	return f
}
