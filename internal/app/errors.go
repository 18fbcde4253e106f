package service

import "errors"

// Sentinel errors returned by the game service.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownCompetitor = errors.New("unknown competitor")
	ErrInvalidMode       = errors.New("invalid game mode")
	ErrInvalidOption     = errors.New("invalid round option")
	ErrNoRound           = errors.New("no open round")
	ErrRaceRunning       = errors.New("race still running")
)
