// Package repository holds the in-memory session store and the score
// leaderboard.
package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/animalrace/pkg/metrics"
)

// Store provides keyed access to live values.
type Store[V any] interface {
	// Create inserts v under id. Returns ErrExists if id is taken.
	Create(ctx context.Context, id string, v V) error
	// Get returns the value for id or ErrNotFound.
	Get(ctx context.Context, id string) (V, error)
	// Delete removes id. Returns ErrNotFound if it was absent.
	Delete(ctx context.Context, id string) error
	// Count returns the number of stored values.
	Count(ctx context.Context) int
}

type shard[V any] struct {
	mu   sync.RWMutex
	byID map[string]V
}

// ShardedStore spreads values over RWMutex-guarded shards by key hash.
type ShardedStore[V any] struct {
	shards   []*shard[V]
	interval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewShardedStore creates a store and starts its metrics updater. The
// updater stops on ctx cancellation or Close.
func NewShardedStore[V any](ctx context.Context, opts ...Option) *ShardedStore[V] {
	o := options{shardCount: defaultShardCount, metricsUpdateInterval: defaultMetricsUpdateInterval}
	for _, opt := range opts {
		opt(&o)
	}

	s := &ShardedStore[V]{
		shards:   make([]*shard[V], o.shardCount),
		interval: o.metricsUpdateInterval,
		stopChan: make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = &shard[V]{byID: make(map[string]V)}
	}

	metrics.UpdateRepositoryShardCount(len(s.shards))
	s.startMetricsUpdater(ctx)
	return s
}

func (s *ShardedStore[V]) shardFor(id string) *shard[V] {
	return s.shards[xxhash.Sum64String(id)%uint64(len(s.shards))]
}

// Create implements Store.
func (s *ShardedStore[V]) Create(_ context.Context, id string, v V) error {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.byID[id]; ok {
		metrics.RecordErrorByComponent("repository", "exists")
		return ErrExists
	}
	sh.byID[id] = v
	return nil
}

// Get implements Store.
func (s *ShardedStore[V]) Get(_ context.Context, id string) (V, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return v, ErrNotFound
	}
	return v, nil
}

// Delete implements Store.
func (s *ShardedStore[V]) Delete(_ context.Context, id string) error {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.byID[id]; !ok {
		return ErrNotFound
	}
	delete(sh.byID, id)
	return nil
}

// Count implements Store.
func (s *ShardedStore[V]) Count(_ context.Context) int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.byID)
		sh.mu.RUnlock()
	}
	return n
}

// Range calls fn for every value until fn returns false. Each shard is
// read-locked while it is visited, so fn must not call back into the store.
func (s *ShardedStore[V]) Range(fn func(id string, v V) bool) {
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, v := range sh.byID {
			if !fn(id, v) {
				sh.mu.RUnlock()
				return
			}
		}
		sh.mu.RUnlock()
	}
}

// Close stops the background metrics updater.
func (s *ShardedStore[V]) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *ShardedStore[V]) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *ShardedStore[V]) updateMetrics() {
	for i, sh := range s.shards {
		sh.mu.RLock()
		n := len(sh.byID)
		sh.mu.RUnlock()
		metrics.UpdateRepositoryRecordsPerShard("shard_"+strconv.Itoa(i), n)
	}
}
