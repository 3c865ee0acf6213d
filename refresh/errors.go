package refresh

import (
	"fmt"
	"time"

	"github.com/dailyyoga/datasync/syncer"
)

// Predefined errors
var (
	// ErrAlreadyStarted is returned when Start is called twice
	ErrAlreadyStarted = fmt.Errorf("refresh: already started")
	// ErrNotStarted is returned when Refresh is called before Start
	ErrNotStarted = fmt.Errorf("refresh: not started")
	// ErrStopped is returned when Refresh is called after Stop
	ErrStopped = fmt.Errorf("refresh: stopped")
	// ErrNilSyncer is returned when a Refresher is constructed without an engine
	ErrNilSyncer = fmt.Errorf("refresh: syncer is required")
	// ErrNilFetch is returned when a Refresher is constructed without a fetch function
	ErrNilFetch = fmt.Errorf("refresh: fetch function is required")
)

// Error constructors

// ErrInvalidName returns an error for an invalid refresher name
func ErrInvalidName(name string) error {
	return fmt.Errorf("refresh: invalid name: %q (must be non-empty)", name)
}

// ErrInvalidKey returns an error for an invalid key
func ErrInvalidKey(key string) error {
	return fmt.Errorf("refresh: invalid key: %q (must be non-empty)", key)
}

// ErrInvalidInterval returns an error for an invalid refresh interval
func ErrInvalidInterval(interval time.Duration) error {
	return fmt.Errorf("refresh: invalid interval: %v (must be > 0)", interval)
}

// ErrInvalidTimeout returns an error for an invalid per-run timeout
func ErrInvalidTimeout(timeout time.Duration) error {
	return fmt.Errorf("refresh: invalid timeout: %v (must be > 0)", timeout)
}

// ErrInvalidStrategy returns an error for an unknown strategy value
func ErrInvalidStrategy(s syncer.Strategy) error {
	return fmt.Errorf("refresh: invalid strategy: %d", int(s))
}

// ErrInvalidCronSpec reports an unparsable cron expression
func ErrInvalidCronSpec(spec string, err error) error {
	return fmt.Errorf("refresh: invalid cron spec %q: %w", spec, err)
}

// ErrRefresh wraps a refresh run failure
func ErrRefresh(err error) error {
	return fmt.Errorf("refresh: run failed: %w", err)
}
