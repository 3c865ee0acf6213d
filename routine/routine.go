// Package routine provides panic-safe goroutine execution.
//
// A panic inside a bare `go func()` tears down the whole process. The
// helpers here recover, log the panic with its stack through the project
// logger, and let the rest of the program keep running.
package routine

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/dailyyoga/datasync/logger"
	"go.uber.org/zap"
)

// Runner executes functions in goroutines with panic recovery and tracks
// them so callers can wait for completion.
type Runner interface {
	// Go runs fn in a new goroutine with panic recovery
	Go(fn func())

	// GoNamed runs fn in a new goroutine; name tags recovery log entries
	GoNamed(name string, fn func())

	// GoNamedWithContext runs fn with ctx in a new goroutine
	GoNamedWithContext(ctx context.Context, name string, fn func(ctx context.Context))

	// Wait blocks until every goroutine started by this Runner has returned
	Wait()
}

type defaultRunner struct {
	log logger.Logger
	wg  sync.WaitGroup
}

// New creates a Runner that logs recovered panics through log
func New(log logger.Logger) Runner {
	return &defaultRunner{log: log}
}

func (r *defaultRunner) Go(fn func()) {
	r.GoNamed("", fn)
}

func (r *defaultRunner) GoNamed(name string, fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer recoverPanic(r.log, name)
		fn()
	}()
}

func (r *defaultRunner) GoNamedWithContext(ctx context.Context, name string, fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer recoverPanic(r.log, name)
		fn(ctx)
	}()
}

func (r *defaultRunner) Wait() {
	r.wg.Wait()
}

// Go runs fn in a new goroutine with panic recovery, without tracking.
func Go(log logger.Logger, fn func()) {
	GoNamed(log, "", fn)
}

// GoNamed runs fn in a new goroutine with panic recovery; name tags recovery
// log entries.
func GoNamed(log logger.Logger, name string, fn func()) {
	go func() {
		defer recoverPanic(log, name)
		fn()
	}()
}

// GoNamedWithContext runs fn with ctx in a new goroutine with panic recovery.
func GoNamedWithContext(ctx context.Context, log logger.Logger, name string, fn func(ctx context.Context)) {
	go func() {
		defer recoverPanic(log, name)
		fn(ctx)
	}()
}

// recoverPanic logs a recovered panic with its stack. Must be deferred.
func recoverPanic(log logger.Logger, name string) {
	rec := recover()
	if rec == nil {
		return
	}
	fields := []zap.Field{
		zap.Any("panic", rec),
		zap.String("stack", string(debug.Stack())),
	}
	if name != "" {
		fields = append([]zap.Field{zap.String("routine", name)}, fields...)
	}
	log.Error("goroutine panicked", fields...)
}
