package repository

import "time"

const (
	defaultShardCount            = 8
	defaultMetricsUpdateInterval = 5 * time.Second
)

type options struct {
	shardCount            int
	metricsUpdateInterval time.Duration
}

// Option applies a configuration option to a ShardedStore.
type Option func(*options)

// WithShardCount sets the number of independently locked shards.
func WithShardCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shardCount = n
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval > 0 {
			o.metricsUpdateInterval = interval
		}
	}
}
