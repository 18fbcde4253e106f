// Package roster holds the fixed, ordered list of race competitors.
package roster

import (
	"errors"
	"fmt"

	"github.com/okian/animalrace/internal/domain/motion"
)

// Sentinel kinds for roster errors.
var (
	ErrDuplicateID = errors.New("duplicate competitor id")
	ErrEmptyID     = errors.New("empty competitor id")
)

// Trait is a presentation hint about how a competitor runs.
type Trait string

const (
	TraitSteady  Trait = "steady"
	TraitErratic Trait = "erratic"
	TraitLazy    Trait = "lazy"
	TraitFast    Trait = "fast"
)

// Competitor is one racing animal. BaseSpeed only feeds the practice
// generator; the motion model uses the authored profile for ID.
type Competitor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	BaseSpeed   float64 `json:"base_speed"`
	Description string  `json:"description"`
	Trait       Trait   `json:"trait"`
}

// Roster is an immutable ordered set of competitors. Order is the
// tie-break order for every comparison.
type Roster struct {
	list  []Competitor
	index map[string]int
}

// New builds a Roster, rejecting empty and duplicate IDs.
func New(competitors ...Competitor) (*Roster, error) {
	r := &Roster{
		list:  make([]Competitor, 0, len(competitors)),
		index: make(map[string]int, len(competitors)),
	}
	for _, c := range competitors {
		if c.ID == "" {
			return nil, ErrEmptyID
		}
		if _, dup := r.index[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		r.index[c.ID] = len(r.list)
		r.list = append(r.list, c)
	}
	return r, nil
}

// Default returns the five-animal roster.
func Default() *Roster {
	r, err := New(
		Competitor{ID: motion.Cheetah, Name: "치타", Emoji: "🐆", BaseSpeed: 190, Description: "자신감 넘치는", Trait: TraitFast},
		Competitor{ID: motion.Dog, Name: "강아지", Emoji: "🐕", BaseSpeed: 180, Description: "명랑한", Trait: TraitSteady},
		Competitor{ID: motion.Rabbit, Name: "토끼", Emoji: "🐇", BaseSpeed: 170, Description: "웃는 얼굴의", Trait: TraitLazy},
		Competitor{ID: motion.Turtle, Name: "거북이", Emoji: "🐢", BaseSpeed: 60, Description: "엉뚱한", Trait: TraitSteady},
		Competitor{ID: motion.Snail, Name: "달팽이", Emoji: "🐌", BaseSpeed: 20, Description: "열심히 기어가는", Trait: TraitSteady},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of competitors.
func (r *Roster) Len() int { return len(r.list) }

// All returns a copy of the competitors in roster order.
func (r *Roster) All() []Competitor {
	out := make([]Competitor, len(r.list))
	copy(out, r.list)
	return out
}

// IDs returns competitor IDs in roster order.
func (r *Roster) IDs() []string {
	ids := make([]string, len(r.list))
	for i, c := range r.list {
		ids[i] = c.ID
	}
	return ids
}

// Get looks up a competitor by ID.
func (r *Roster) Get(id string) (Competitor, bool) {
	i, ok := r.index[id]
	if !ok {
		return Competitor{}, false
	}
	return r.list[i], true
}

// Position returns the roster index of id, or -1.
func (r *Roster) Position(id string) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return -1
}
