// Package store defines the key-value persistence contract consumed by the
// synchronization engine.
//
// A Store maps string keys to string values. The contract is deliberately
// minimal: absence of a key is a normal result rather than an error, TTLs
// are advisory, Delete is idempotent, and the only consistency requirement
// is that a write followed by a read of the same key, with no intervening
// mutation and no concurrent writers, returns the written value. Nothing is
// transactional across calls, and the engine never depends on more.
//
// Backends live in the subpackages memory, redis, mysql and sqlite; the
// storetest subpackage provides a conformance suite any implementation can
// run against itself.
package store

import (
	"context"
	"time"
)

// Store is the abstract key-value capability backends implement.
//
// Implementations must be safe for concurrent use by multiple goroutines and
// own their internal consistency; callers get no cross-call atomicity.
type Store interface {
	// Get returns the value stored under key. A missing key yields ok ==
	// false with a nil error; a non-nil error is reserved for genuine I/O
	// faults.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any existing value. ttl is an
	// advisory expiry hint; zero stores the entry without expiry, and a
	// backend may ignore the hint entirely.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry whose key starts with prefix. An empty
	// prefix removes all entries.
	Clear(ctx context.Context, prefix string) error
}
