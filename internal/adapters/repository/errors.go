package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrExists       = errors.New("record already exists")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
