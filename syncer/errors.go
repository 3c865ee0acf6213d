package syncer

import (
	"fmt"
	"time"
)

// Predefined errors
var (
	// ErrNilStore is returned when a Syncer is constructed without a store
	ErrNilStore = fmt.Errorf("syncer: store is required")
	// ErrNilCodec is returned when a Syncer is constructed without a codec
	ErrNilCodec = fmt.Errorf("syncer: codec is required")
	// ErrEmptyKey is returned when Sync is called with an empty key
	ErrEmptyKey = fmt.Errorf("syncer: key must be non-empty")
	// ErrNilFetch is returned when Sync is called without a fetch function
	ErrNilFetch = fmt.Errorf("syncer: fetch function is required")
)

// Error constructors

// ErrInvalidName returns an error for an invalid syncer name
func ErrInvalidName(name string) error {
	return fmt.Errorf("syncer: invalid name: %q (must be non-empty)", name)
}

// ErrInvalidTTL returns an error for a negative TTL
func ErrInvalidTTL(ttl time.Duration) error {
	return fmt.Errorf("syncer: invalid ttl: %v (must be >= 0)", ttl)
}

// ErrInvalidStrategy returns an error for an unknown strategy value
func ErrInvalidStrategy(s Strategy) error {
	return fmt.Errorf("syncer: invalid strategy: %d", int(s))
}

// ErrStore wraps a store operation failure surfaced by Invalidate or Clear
func ErrStore(op string, err error) error {
	return fmt.Errorf("syncer: store %s failed: %w", op, err)
}
