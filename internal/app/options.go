package service

import (
	"time"

	"github.com/okian/animalrace/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRaceWindow sets the simulated race length and inverse sampling step.
func WithRaceWindow(duration, step float64) Option {
	return func(s *Service) {
		if duration > 0 {
			s.raceDuration = duration
		}
		if step > 0 {
			s.sampleStep = step
		}
	}
}

// WithDisplay sets the track scale and the lane position cap.
func WithDisplay(scale, maxPercent float64) Option {
	return func(s *Service) {
		if scale > 0 {
			s.displayScale = scale
		}
		if maxPercent > 0 {
			s.maxPercent = maxPercent
		}
	}
}

// WithTickHz sets the frame rate of streamed races.
func WithTickHz(hz int) Option {
	return func(s *Service) {
		if hz > 0 {
			s.tickHz = hz
		}
	}
}

// WithMultipliers sets the clock speed of the showcase and distance rounds.
func WithMultipliers(race, distance float64) Option {
	return func(s *Service) {
		if race > 0 {
			s.raceMultiplier = race
		}
		if distance > 0 {
			s.distanceMultiplier = distance
		}
	}
}

// WithReadyDelay sets the countdown before a showcase race starts.
func WithReadyDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.readyDelay = d
		}
	}
}

// WithPoints sets the score deltas for correct and wrong answers.
func WithPoints(correct, wrong int) Option {
	return func(s *Service) {
		s.correctPoints = correct
		s.wrongPoints = wrong
	}
}

// WithDedupeSize sets how many answer IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of session store shards.
func WithShardCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithPracticeSeed fixes the practice generator seed. 0 seeds from the clock.
func WithPracticeSeed(seed int64) Option {
	return func(s *Service) {
		s.practiceSeed = seed
	}
}

// WithLeaderboardLimit caps leaderboard queries.
func WithLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardLimit = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNow overrides the wall clock.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
