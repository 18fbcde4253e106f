package race

import "github.com/okian/animalrace/internal/domain/motion"

// CueKind is how a cue is displayed next to a lane.
type CueKind string

const (
	CueBubble CueKind = "bubble"
	CueSFX    CueKind = "sfx"
)

// Display lifetimes in simulated seconds.
const (
	bubbleTTL = 1.5
	sfxTTL    = 1.0
)

// Cue is a scripted narrative line fired once elapsed passes At.
type Cue struct {
	CompetitorID string  `json:"competitor_id"`
	At           float64 `json:"at"`
	Kind         CueKind `json:"kind"`
	Text         string  `json:"text"`
}

func (c Cue) ttl() float64 {
	if c.Kind == CueSFX {
		return sfxTTL
	}
	return bubbleTTL
}

// Active reports whether the cue is on screen at elapsed.
func (c Cue) Active(elapsed float64) bool {
	return elapsed > c.At && elapsed <= c.At+c.ttl()
}

// DefaultCues is the showcase race script. Each line matches a phase
// change in the authored profiles.
func DefaultCues() []Cue {
	return []Cue{
		{CompetitorID: motion.Rabbit, At: 5, Kind: CueBubble, Text: "쿨쿨...💤"},
		{CompetitorID: motion.Cheetah, At: 5, Kind: CueBubble, Text: "이제 달려볼까!! 🔥"},
		{CompetitorID: motion.Cheetah, At: 5, Kind: CueSFX, Text: "⚡️"},
		{CompetitorID: motion.Snail, At: 8, Kind: CueBubble, Text: "초강력 부스터!! 🌪️"},
		{CompetitorID: motion.Snail, At: 8, Kind: CueSFX, Text: "✨"},
		{CompetitorID: motion.Rabbit, At: 10, Kind: CueBubble, Text: "헉! 늦었다!! 💦"},
		{CompetitorID: motion.Rabbit, At: 10, Kind: CueSFX, Text: "💨"},
		{CompetitorID: motion.Cheetah, At: 10, Kind: CueBubble, Text: "잠깐 쉬어가야지~ 🎵"},
		{CompetitorID: motion.Dog, At: 14, Kind: CueBubble, Text: "내가 1등이다!! 🐶"},
		{CompetitorID: motion.Cheetah, At: 15, Kind: CueBubble, Text: "마지막 스퍼트!! 🚀"},
		{CompetitorID: motion.Cheetah, At: 15, Kind: CueSFX, Text: "🔥"},
	}
}

// activeCues returns the cues on screen at elapsed, in script order.
func activeCues(cues []Cue, elapsed float64) []Cue {
	var out []Cue
	for _, c := range cues {
		if c.Active(elapsed) {
			out = append(out, c)
		}
	}
	return out
}
