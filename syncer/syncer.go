// Package syncer implements the synchronization engine: a strategy-gated
// state machine that mediates between a key-value store and a remote fetch
// operation, emitting an ordered sequence of Resource states per request.
//
// The package follows the module's conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Uses routine package for safe goroutine execution
// - Configuration with validation and defaults
// - Structured error handling
//
// A Sync call produces a finite sequence over a channel: at most one
// cache-derived emission, then at most one network-derived emission, then
// the channel closes. Store and codec faults degrade silently (logged at
// Warn); only fetch faults reach the consumer, and they arrive as an
// error-bearing Resource rather than as a failure of the sequence.
package syncer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dailyyoga/datasync/logger"
	"github.com/dailyyoga/datasync/routine"
	"github.com/dailyyoga/datasync/store"
)

// FetchFunc is the remote operation a Sync call invokes at most once.
// The context should be respected for cancellation and timeout; the engine
// imposes no timeout of its own, so callers needing bounded latency wrap
// the function themselves.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Syncer mediates between the store and a remote source for values of T.
type Syncer[T any] interface {
	// Sync produces the resource sequence for key under the given strategy.
	// The returned channel is finite, ordered and non-restartable: it closes
	// after the terminal emission. The error reports argument problems only
	// (empty key, nil fetch, unknown strategy); runtime faults travel inside
	// the sequence or are swallowed per the engine's containment rules.
	//
	// Concurrent Sync calls for the same key are independent: no
	// deduplication, no in-flight coalescing. Callers needing single-flight
	// semantics add it externally.
	Sync(ctx context.Context, key string, strategy Strategy, fetch FetchFunc[T]) (<-chan Resource[T], error)

	// Invalidate removes the entry stored under key.
	Invalidate(ctx context.Context, key string) error

	// Clear removes every stored entry whose key starts with prefix; an
	// empty prefix removes all entries.
	Clear(ctx context.Context, prefix string) error
}

// syncer is the default Syncer implementation.
type syncer[T any] struct {
	logger logger.Logger
	store  store.Store
	codec  Codec[T]

	name string
	ttl  time.Duration
}

// New creates a Syncer bound to a store and a codec.
// It returns an error if the configuration is invalid.
func New[T any](log logger.Logger, cfg *Config, st store.Store, codec Codec[T]) (Syncer[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNilStore
	}
	if codec == nil {
		return nil, ErrNilCodec
	}

	return &syncer[T]{
		logger: log,
		store:  st,
		codec:  codec,
		name:   cfg.Name,
		ttl:    cfg.TTL,
	}, nil
}

// maxEmissions is the upper bound on resources one Sync call produces: one
// from the cache phase, one from the network phase. The sequence channel is
// buffered to this bound so the producer goroutine finishes even when the
// consumer abandons the sequence.
const maxEmissions = 2

func (s *syncer[T]) Sync(
	ctx context.Context, key string, strategy Strategy, fetch FetchFunc[T],
) (<-chan Resource[T], error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if fetch == nil {
		return nil, ErrNilFetch
	}
	if !strategy.Valid() {
		return nil, ErrInvalidStrategy(strategy)
	}

	out := make(chan Resource[T], maxEmissions)
	routine.GoNamedWithContext(ctx, s.logger, s.name+"-sync", func(ctx context.Context) {
		defer close(out)
		s.run(ctx, out, key, strategy, fetch)
	})
	return out, nil
}

// phase is a state of the per-request machine. terminated is reached by
// exactly one of: cache-hit-and-stop, cache-only-exhausted, or one network
// attempt.
type phase int

const (
	cachePhase phase = iota
	networkPhase
	terminated
)

// run drives the two-phase state machine for one request.
func (s *syncer[T]) run(
	ctx context.Context, out chan<- Resource[T], key string, strategy Strategy, fetch FetchFunc[T],
) {
	p := cachePhase
	if strategy.skipsCache() {
		p = networkPhase
	}

	for p != terminated {
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch p {
		case cachePhase:
			p = s.consultCache(ctx, out, key, strategy)
		case networkPhase:
			p = s.fetchNetwork(ctx, out, key, fetch)
		}
	}
}

// consultCache performs phase 1: one store read, one emission. A store
// fault or corrupt payload degrades to the miss path; cache faults must
// never abort the flow.
func (s *syncer[T]) consultCache(
	ctx context.Context, out chan<- Resource[T], key string, strategy Strategy,
) phase {
	payload, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed, treating as miss",
			zap.String("syncer", s.name),
			zap.String("key", key),
			zap.Error(err),
		)
		ok = false
	}

	if ok {
		v, err := s.codec.Decode(payload)
		if err != nil {
			s.logger.Warn("cached payload corrupt, treating as miss",
				zap.String("syncer", s.name),
				zap.String("key", key),
				zap.Error(err),
			)
		} else {
			if !s.emit(ctx, out, FromCache(v)) {
				return terminated
			}
			if strategy.stopsAfterCacheHit() {
				return terminated
			}
			return networkPhase
		}
	}

	// Miss: emit the loading marker so consumers can tell "no cache, about
	// to fetch" from silence.
	if !s.emit(ctx, out, Loading[T]()) {
		return terminated
	}
	if strategy.cacheOnly() {
		return terminated
	}
	return networkPhase
}

// fetchNetwork performs phase 2: exactly one fetch attempt, no retry. On
// success the value is persisted best-effort before the emission; encode
// and write faults are swallowed.
func (s *syncer[T]) fetchNetwork(
	ctx context.Context, out chan<- Resource[T], key string, fetch FetchFunc[T],
) phase {
	v, err := fetch(ctx)
	if err != nil {
		s.emit(ctx, out, Failed[T](err))
		return terminated
	}

	if payload, err := s.codec.Encode(v); err != nil {
		s.logger.Warn("encode failed, skipping persistence",
			zap.String("syncer", s.name),
			zap.String("key", key),
			zap.Error(err),
		)
	} else if err := s.store.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("cache write failed, data not persisted",
			zap.String("syncer", s.name),
			zap.String("key", key),
			zap.Error(err),
		)
	}

	s.emit(ctx, out, FromNetwork(v))
	return terminated
}

// emit delivers one resource, reporting false when the consumer's context
// ended instead. The channel buffer covers the full emission bound, so the
// send itself never blocks on a slow consumer.
func (s *syncer[T]) emit(ctx context.Context, out chan<- Resource[T], r Resource[T]) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// Invalidate removes the entry stored under key.
func (s *syncer[T]) Invalidate(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return ErrStore("delete", err)
	}
	s.logger.Debug("cache entry invalidated",
		zap.String("syncer", s.name),
		zap.String("key", key),
	)
	return nil
}

// Clear removes every stored entry whose key starts with prefix.
func (s *syncer[T]) Clear(ctx context.Context, prefix string) error {
	if err := s.store.Clear(ctx, prefix); err != nil {
		return ErrStore("clear", err)
	}
	s.logger.Debug("cache cleared",
		zap.String("syncer", s.name),
		zap.String("prefix", prefix),
	)
	return nil
}
