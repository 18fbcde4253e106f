package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank      int    `json:"rank"`
	SessionID string `json:"session_id"`
	Score     int    `json:"score"`
}

// Leaderboard ranks sessions by their current score.
// Ordering: score DESC, then session ID ASC.
type Leaderboard struct {
	mu       sync.RWMutex
	byID     map[string]int
	maxLimit int
}

// NewLeaderboard creates an empty leaderboard. TopN never returns more
// than maxLimit rows; maxLimit <= 0 means 100.
func NewLeaderboard(maxLimit int) *Leaderboard {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Leaderboard{byID: make(map[string]int), maxLimit: maxLimit}
}

// Set records score as the current score of sessionID.
func (l *Leaderboard) Set(_ context.Context, sessionID string, score int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byID[sessionID] = score
}

// Remove drops sessionID from the board.
func (l *Leaderboard) Remove(_ context.Context, sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byID, sessionID)
}

// Rank returns the entry for sessionID or ErrNotFound.
func (l *Leaderboard) Rank(_ context.Context, sessionID string) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.byID[sessionID]; !ok {
		return Entry{}, ErrNotFound
	}
	for _, e := range l.sorted() {
		if e.SessionID == sessionID {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns the best n entries.
func (l *Leaderboard) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 || n > l.maxLimit {
		return nil, ErrInvalidLimit
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	all := l.sorted()
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// Count returns the number of ranked sessions.
func (l *Leaderboard) Count(_ context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byID)
}

func (l *Leaderboard) sorted() []Entry {
	out := make([]Entry, 0, len(l.byID))
	for id, score := range l.byID {
		out = append(out, Entry{SessionID: id, Score: score})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.SessionID, b.SessionID)
	})
	assignRanksWithTies(out)
	return out
}

// assignRanksWithTies gives equal scores the same rank; the next distinct
// score takes the following rank.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}
