// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"time"

	"github.com/okian/animalrace/internal/domain/judge"
	"github.com/okian/animalrace/internal/domain/practice"
)

// GameMode selects how a round is played and judged.
type GameMode string

const (
	ModeRace          GameMode = "race"           // showcase race, not judged
	ModeTimeMatch     GameMode = "time_match"     // who is furthest at T
	ModeDistanceMatch GameMode = "distance_match" // who reaches D first
	ModeAllRecords    GameMode = "all_records"    // who has the best practice speed
)

// Modes lists every game mode in menu order.
var Modes = []GameMode{ModeRace, ModeTimeMatch, ModeDistanceMatch, ModeAllRecords}

// Round options offered to players.
var (
	TimeOptions     = []float64{5, 10, 15, 20}
	DistanceOptions = []float64{500, 1500, 2000, 3200}
)

// Valid reports whether m is a known mode.
func (m GameMode) Valid() bool {
	return slices.Contains(Modes, m)
}

// Judged reports whether rounds of m accept answers.
func (m GameMode) Judged() bool {
	return m != ModeRace && m.Valid()
}

// Animated reports whether rounds of m run on a clock.
func (m GameMode) Animated() bool {
	return m == ModeRace || m == ModeDistanceMatch
}

// Options returns the allowed round values for m, nil when m takes none.
func (m GameMode) Options() []float64 {
	switch m {
	case ModeTimeMatch:
		return TimeOptions
	case ModeDistanceMatch:
		return DistanceOptions
	default:
		return nil
	}
}

// JudgeMode maps a game mode onto its comparison rule.
func (m GameMode) JudgeMode() judge.Mode {
	switch m {
	case ModeTimeMatch:
		return judge.ModeFixedTime
	case ModeDistanceMatch:
		return judge.ModeFixedDistance
	case ModeAllRecords:
		return judge.ModeFree
	default:
		return ""
	}
}

// RoundSummary describes a started round without revealing its winner.
type RoundSummary struct {
	RoundID    string            `json:"round_id"`
	Mode       GameMode          `json:"mode"`
	Value      float64           `json:"value,omitempty"`
	Animated   bool              `json:"animated"`
	Multiplier float64           `json:"multiplier,omitempty"`
	StartsAt   time.Time         `json:"starts_at"`
	Closed     bool              `json:"closed"`
	Records    []practice.Record `json:"records,omitempty"`
}

// Outcome is the result of one answer.
type Outcome struct {
	AnswerID     string   `json:"answer_id"`
	CompetitorID string   `json:"competitor_id"`
	Correct      bool     `json:"correct"`
	Duplicate    bool     `json:"duplicate"`
	Delta        int      `json:"delta"`
	Total        int      `json:"total"`
	Winners      []string `json:"winners,omitempty"`
	RoundClosed  bool     `json:"round_closed"`
}

// SessionView is the public state of a game session.
type SessionView struct {
	SessionID string        `json:"session_id"`
	Score     int           `json:"score"`
	Answered  int           `json:"answered"`
	Correct   int           `json:"correct"`
	CreatedAt time.Time     `json:"created_at"`
	Round     *RoundSummary `json:"round,omitempty"`
}
