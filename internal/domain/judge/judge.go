// Package judge resolves who won a comparison round.
//
// Fixed-time and fixed-distance rounds are resolved purely from the motion
// model. Free rounds compare the speed of externally generated records.
package judge

import (
	"sort"

	"github.com/okian/animalrace/internal/domain/motion"
	"github.com/okian/animalrace/internal/domain/practice"
	"github.com/okian/animalrace/internal/domain/roster"
)

// Mode names a comparison policy.
type Mode string

const (
	ModeFixedTime     Mode = "fixed_time"
	ModeFixedDistance Mode = "fixed_distance"
	ModeFree          Mode = "free"
)

// Standing is one competitor's result in a round. Rank is 1-based; a
// competitor that did not reach the target distance has Rank 0.
type Standing struct {
	CompetitorID string  `json:"competitor_id"`
	Rank         int     `json:"rank"`
	Distance     int     `json:"distance"`
	Time         float64 `json:"time"`
	Reached      bool    `json:"reached"`
	Speed        int     `json:"speed,omitempty"`
}

// Verdict is the outcome of a round. Winners lists every answer that
// counts as correct.
type Verdict struct {
	Mode      Mode       `json:"mode"`
	Winner    string     `json:"winner,omitempty"`
	Winners   []string   `json:"winners"`
	Standings []Standing `json:"standings"`
}

// HasWinner reports whether anyone won the round.
func (v Verdict) HasWinner() bool { return len(v.Winners) > 0 }

// Accepts reports whether picking id is a correct answer.
func (v Verdict) Accepts(id string) bool {
	for _, w := range v.Winners {
		if w == id {
			return true
		}
	}
	return false
}

// Standing returns the result for id.
func (v Verdict) Standing(id string) (Standing, bool) {
	for _, s := range v.Standings {
		if s.CompetitorID == id {
			return s, true
		}
	}
	return Standing{}, false
}

// Judge compares roster competitors under a motion model.
type Judge struct {
	model  *motion.Model
	roster *roster.Roster
}

// New creates a Judge.
func New(model *motion.Model, r *roster.Roster) *Judge {
	return &Judge{model: model, roster: r}
}

// FixedTime ranks competitors by distance covered after t seconds. The
// first maximum in roster order wins ties.
func (j *Judge) FixedTime(t float64) Verdict {
	ids := j.roster.IDs()
	standings := make([]Standing, len(ids))
	winner, best := "", -1
	for i, id := range ids {
		d := j.model.DistanceAt(id, t)
		standings[i] = Standing{CompetitorID: id, Distance: d, Time: j.model.Clamp(t), Reached: true}
		if d > best {
			best, winner = d, id
		}
	}

	sort.SliceStable(standings, func(a, b int) bool {
		return standings[a].Distance > standings[b].Distance
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return newVerdict(ModeFixedTime, winner, standings)
}

// FixedDistance ranks competitors by the sampled time they need to cover
// distance. Competitors that never get there are excluded from winning.
func (j *Judge) FixedDistance(distance float64) Verdict {
	ids := j.roster.IDs()
	standings := make([]Standing, len(ids))
	winner, best := "", 0.0
	for i, id := range ids {
		t, ok := j.model.TimeToReach(id, distance)
		s := Standing{CompetitorID: id, Reached: ok, Time: t}
		if ok {
			s.Distance = j.model.DistanceAt(id, t)
			if winner == "" || t < best {
				best, winner = t, id
			}
		} else {
			s.Distance = j.model.DistanceAt(id, j.model.Duration())
		}
		standings[i] = s
	}

	sort.SliceStable(standings, func(a, b int) bool {
		sa, sb := standings[a], standings[b]
		if sa.Reached != sb.Reached {
			return sa.Reached
		}
		if sa.Reached {
			return sa.Time < sb.Time
		}
		return false
	})
	for i := range standings {
		if standings[i].Reached {
			standings[i].Rank = i + 1
		}
	}
	return newVerdict(ModeFixedDistance, winner, standings)
}

// Free ranks records by speed. Every record tied at the top speed is an
// accepted answer; Winner is the first of them.
func Free(records []practice.Record) Verdict {
	standings := make([]Standing, len(records))
	top := -1
	for i, rec := range records {
		standings[i] = Standing{
			CompetitorID: rec.CompetitorID,
			Distance:     rec.Distance,
			Time:         float64(rec.Time),
			Speed:        rec.Speed,
			Reached:      true,
		}
		if rec.Speed > top {
			top = rec.Speed
		}
	}

	var winners []string
	for _, rec := range records {
		if rec.Speed == top {
			winners = append(winners, rec.CompetitorID)
		}
	}

	sort.SliceStable(standings, func(a, b int) bool {
		return standings[a].Speed > standings[b].Speed
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}

	v := Verdict{Mode: ModeFree, Winners: winners, Standings: standings}
	if v.Winners == nil {
		v.Winners = []string{}
	}
	if len(winners) > 0 {
		v.Winner = winners[0]
	}
	return v
}

func newVerdict(mode Mode, winner string, standings []Standing) Verdict {
	v := Verdict{Mode: mode, Winner: winner, Winners: []string{}, Standings: standings}
	if winner != "" {
		v.Winners = []string{winner}
	}
	return v
}
