// Package config defines service configuration and its loader.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/animalrace/internal/domain/motion"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RaceDuration is the simulated race window in seconds.
	RaceDuration float64 `koanf:"race_duration"`

	// SampleStep is the inverse-query sampling step in seconds.
	SampleStep float64 `koanf:"sample_step"`

	// DisplayScale is the distance mapped onto the full track width.
	DisplayScale float64 `koanf:"display_scale"`

	// DisplayMaxPercent caps lane positions.
	DisplayMaxPercent float64 `koanf:"display_max_percent"`

	// TickHz is the frame rate of streamed races.
	TickHz int `koanf:"tick_hz"`

	// RaceMultiplier and DistanceMultiplier speed up the showcase and
	// distance-match clocks.
	RaceMultiplier     float64 `koanf:"race_multiplier"`
	DistanceMultiplier float64 `koanf:"distance_multiplier"`

	// CorrectPoints and WrongPoints are the score deltas per answer.
	CorrectPoints int `koanf:"correct_points"`
	WrongPoints   int `koanf:"wrong_points"`

	// AnswerDedupeSize bounds the remembered answer IDs.
	AnswerDedupeSize int `koanf:"answer_dedupe_size"`

	// ShardCount configures the number of shards in the session store.
	ShardCount int `koanf:"shard_count"`

	// ReadyDelay is the countdown before a showcase race starts, in seconds.
	ReadyDelay float64 `koanf:"ready_delay"`

	// LeaderboardLimit caps GET /leaderboard.
	LeaderboardLimit int `koanf:"leaderboard_limit"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// PracticeSeed seeds the practice generator; 0 seeds from the clock.
	PracticeSeed int64 `koanf:"practice_seed"`
}

// Option mutates a Config built by New.
type Option func(*Config)

// WithAddr overrides the listen address.
func WithAddr(addr string) Option {
	return func(c *Config) { c.Addr = addr }
}

// WithLogLevel overrides the log level.
func WithLogLevel(level string) Option {
	return func(c *Config) { c.LogLevel = level }
}

// WithPracticeSeed fixes the practice generator seed.
func WithPracticeSeed(seed int64) Option {
	return func(c *Config) { c.PracticeSeed = seed }
}

// New creates a Config with defaults and applies opts.
func New(opts ...Option) *Config {
	c := &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		RaceDuration:       20,
		SampleStep:         0.1,
		DisplayScale:       3300,
		DisplayMaxPercent:  90,
		TickHz:             60,
		RaceMultiplier:     1.0,
		DistanceMultiplier: 1.5,
		CorrectPoints:      10,
		WrongPoints:        -1,
		AnswerDedupeSize:   50_000,
		ShardCount:         8,
		ReadyDelay:         2,
		LeaderboardLimit:   100,
		MetricsEnabled:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks the values a running service depends on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !(c.RaceDuration > 0):
		return fmt.Errorf("%w: race_duration must be positive, got %g", ErrInvalidConfig, c.RaceDuration)
	case !(c.SampleStep > 0) || c.SampleStep > c.RaceDuration:
		return fmt.Errorf("%w: sample_step must be in (0, race_duration], got %g", ErrInvalidConfig, c.SampleStep)
	case motion.SampleCount(c.RaceDuration, c.SampleStep) > motion.MaxSamples:
		return fmt.Errorf("%w: race_duration/sample_step must not exceed %d samples", ErrInvalidConfig, motion.MaxSamples)
	case !(c.DisplayScale > 0):
		return fmt.Errorf("%w: display_scale must be positive", ErrInvalidConfig)
	case !(c.DisplayMaxPercent > 0) || c.DisplayMaxPercent > 100:
		return fmt.Errorf("%w: display_max_percent must be in (0, 100]", ErrInvalidConfig)
	case c.TickHz <= 0:
		return fmt.Errorf("%w: tick_hz must be positive", ErrInvalidConfig)
	case !(c.RaceMultiplier > 0) || !(c.DistanceMultiplier > 0):
		return fmt.Errorf("%w: clock multipliers must be positive", ErrInvalidConfig)
	case c.CorrectPoints <= 0:
		return fmt.Errorf("%w: correct_points must be positive", ErrInvalidConfig)
	case c.AnswerDedupeSize <= 0:
		return fmt.Errorf("%w: answer_dedupe_size must be positive", ErrInvalidConfig)
	case c.ShardCount <= 0:
		return fmt.Errorf("%w: shard_count must be positive", ErrInvalidConfig)
	case c.ReadyDelay < 0:
		return fmt.Errorf("%w: ready_delay must not be negative", ErrInvalidConfig)
	case c.LeaderboardLimit <= 0:
		return fmt.Errorf("%w: leaderboard_limit must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// JSONLogs reports whether the logger should emit JSON.
func (c *Config) JSONLogs() bool {
	return strings.EqualFold(c.LogFormat, "json")
}
