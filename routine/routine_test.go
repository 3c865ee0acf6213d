package routine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dailyyoga/datasync/logger"
)

func TestRunner_Go(t *testing.T) {
	runner := New(logger.Nop())

	var executed atomic.Bool
	runner.Go(func() {
		executed.Store(true)
	})

	runner.Wait()

	if !executed.Load() {
		t.Error("expected function to be executed")
	}
}

func TestRunner_Go_WithPanic(t *testing.T) {
	runner := New(logger.Nop())

	var afterPanic atomic.Bool
	runner.Go(func() {
		panic("test panic")
	})
	runner.Go(func() {
		afterPanic.Store(true)
	})

	runner.Wait()

	if !afterPanic.Load() {
		t.Error("expected goroutine after panic to execute")
	}
}

func TestRunner_GoNamed_WithPanic(t *testing.T) {
	runner := New(logger.Nop())

	runner.GoNamed("panic-routine", func() {
		panic("named panic")
	})

	// Wait must return; the panic must not escape.
	runner.Wait()
}

func TestRunner_GoNamedWithContext(t *testing.T) {
	runner := New(logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawDone atomic.Bool
	runner.GoNamedWithContext(ctx, "ctx-routine", func(ctx context.Context) {
		select {
		case <-ctx.Done():
			sawDone.Store(true)
		case <-time.After(time.Second):
		}
	})

	runner.Wait()

	if !sawDone.Load() {
		t.Error("expected goroutine to observe cancelled context")
	}
}

func TestGo_PackageLevel(t *testing.T) {
	done := make(chan struct{})
	Go(logger.Nop(), func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}

func TestGoNamed_PanicRecovered(t *testing.T) {
	done := make(chan struct{})
	GoNamed(logger.Nop(), "exploder", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
	// Reaching this point means the panic did not propagate.
}

func TestGoNamedWithContext_PackageLevel(t *testing.T) {
	got := make(chan string, 1)
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")

	GoNamedWithContext(ctx, logger.Nop(), "reader", func(ctx context.Context) {
		v, _ := ctx.Value(ctxKey{}).(string)
		got <- v
	})

	select {
	case v := <-got:
		if v != "value" {
			t.Errorf("expected context value 'value', got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}

type ctxKey struct{}
