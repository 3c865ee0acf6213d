// Package refresh provides periodic background revalidation on top of the
// synchronization engine: one key, re-synchronized on a fixed interval or a
// cron schedule, with a thread-safe snapshot of the latest result and an
// unbounded stream of every emission.
//
// The stream is deliberately unbounded so a slow or absent consumer can
// never stall the refresh loop; Stop closes it after the loop exits. Runs
// are never retried: a failed run publishes its error resource and the next
// scheduled run tries again naturally.
package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/smallnest/chanx"
	"go.uber.org/zap"

	"github.com/dailyyoga/datasync/logger"
	"github.com/dailyyoga/datasync/routine"
	"github.com/dailyyoga/datasync/syncer"
)

// updatesInitCap is the initial buffer capacity of the updates stream.
const updatesInitCap = 16

// Refresher keeps one key continuously synchronized in the background.
type Refresher[T any] interface {
	// Start performs an initial synchronous run, then launches the
	// background schedule. It returns an error if called twice.
	Start() error

	// Stop halts the schedule, waits for an in-flight run and closes the
	// updates stream. It can be called multiple times safely.
	Stop()

	// Latest returns the terminal resource of the most recent completed
	// run. Before the first run finishes it returns the zero (loading)
	// resource.
	Latest() syncer.Resource[T]

	// Updates streams every emission of every run, in order. The channel is
	// unbounded and closes after Stop.
	Updates() <-chan syncer.Resource[T]

	// Refresh triggers one run immediately, outside the schedule. The error
	// reports invalid runtime state or argument problems only; fetch
	// failures travel through Latest and Updates as error resources.
	Refresh(ctx context.Context) error
}

// refresher is the default Refresher implementation.
type refresher[T any] struct {
	logger logger.Logger
	engine syncer.Syncer[T]
	fetch  syncer.FetchFunc[T]

	name     string
	key      string
	strategy syncer.Strategy
	interval time.Duration
	cronSpec string
	timeout  time.Duration

	mu     sync.RWMutex
	latest syncer.Resource[T]

	updates *chanx.UnboundedChan[syncer.Resource[T]]

	// pubMu orders publications against the close of the updates stream.
	pubMu  sync.RWMutex
	closed bool

	ctx     context.Context
	cancel  context.CancelFunc
	cron    *cron.Cron
	wg      sync.WaitGroup
	started atomic.Bool
	once    sync.Once
}

// New creates a Refresher driving the given engine and fetch function.
// It returns an error if the configuration is invalid.
// The returned Refresher must have Start() called before use.
func New[T any](
	log logger.Logger,
	cfg *Config,
	engine syncer.Syncer[T],
	fetch syncer.FetchFunc[T],
) (Refresher[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, ErrNilSyncer
	}
	if fetch == nil {
		return nil, ErrNilFetch
	}

	return &refresher[T]{
		logger:   log,
		engine:   engine,
		fetch:    fetch,
		name:     cfg.Name,
		key:      cfg.Key,
		strategy: cfg.Strategy,
		interval: cfg.Interval,
		cronSpec: cfg.CronSpec,
		timeout:  cfg.Timeout,
		updates:  chanx.NewUnboundedChan[syncer.Resource[T]](context.Background(), updatesInitCap),
	}, nil
}

func (r *refresher[T]) Start() error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())

	// Initial load, synchronous so callers observe a populated Latest once
	// Start returns.
	if err := r.runOnce(r.ctx); err != nil {
		r.cancel()
		return err
	}

	if r.cronSpec != "" {
		r.startCron()
	} else {
		r.startTicker()
	}

	r.logger.Info("refresher started",
		zap.String("refresher", r.name),
		zap.String("key", r.key),
		zap.String("strategy", r.strategy.String()),
	)
	return nil
}

// startTicker runs the fixed-interval schedule.
func (r *refresher[T]) startTicker() {
	r.wg.Add(1)
	routine.GoNamedWithContext(r.ctx, r.logger, r.name+"-refresh", func(ctx context.Context) {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := r.runOnce(ctx); err != nil {
					r.logger.Error("periodic refresh failed",
						zap.String("refresher", r.name),
						zap.Error(err),
					)
				}
			case <-ctx.Done():
				r.logger.Info("stopping refresh loop", zap.String("refresher", r.name))
				return
			}
		}
	})
}

// startCron runs the cron schedule. The spec was validated at construction,
// so AddFunc cannot fail here.
func (r *refresher[T]) startCron() {
	c := cron.New(cron.WithSeconds())
	_, _ = c.AddFunc(r.cronSpec, func() {
		if err := r.runOnce(r.ctx); err != nil {
			r.logger.Error("scheduled refresh failed",
				zap.String("refresher", r.name),
				zap.Error(err),
			)
		}
	})
	c.Start()
	r.cron = c
}

func (r *refresher[T]) Stop() {
	r.once.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		if r.cron != nil {
			<-r.cron.Stop().Done()
		}
		r.wg.Wait()

		r.pubMu.Lock()
		r.closed = true
		close(r.updates.In)
		r.pubMu.Unlock()

		r.logger.Info("refresher stopped", zap.String("refresher", r.name))
	})
}

func (r *refresher[T]) Latest() syncer.Resource[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

func (r *refresher[T]) Updates() <-chan syncer.Resource[T] {
	return r.updates.Out
}

func (r *refresher[T]) Refresh(ctx context.Context) error {
	if !r.started.Load() {
		return ErrNotStarted
	}
	r.pubMu.RLock()
	closed := r.closed
	r.pubMu.RUnlock()
	if closed {
		return ErrStopped
	}
	return r.runOnce(ctx)
}

// runOnce performs one synchronization run: every emission goes to the
// updates stream, the terminal one becomes Latest.
func (r *refresher[T]) runOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	seq, err := r.engine.Sync(runCtx, r.key, r.strategy, r.fetch)
	if err != nil {
		return ErrRefresh(err)
	}

	var (
		last    syncer.Resource[T]
		emitted bool
	)
	for res := range seq {
		if res.IsError() {
			r.logger.Warn("refresh run produced an error",
				zap.String("refresher", r.name),
				zap.String("key", r.key),
				zap.Error(res.Err()),
			)
		}
		last = res
		emitted = true
		r.publish(res)
	}

	if emitted {
		r.mu.Lock()
		r.latest = last
		r.mu.Unlock()
	}
	return nil
}

// publish forwards one emission to the updates stream, dropping it when the
// stream is already closed. The unbounded channel means the send never
// blocks on a slow consumer.
func (r *refresher[T]) publish(res syncer.Resource[T]) {
	r.pubMu.RLock()
	defer r.pubMu.RUnlock()
	if r.closed {
		return
	}
	r.updates.In <- res
}
