// Package storetest provides a conformance suite for store.Store
// implementations.
//
// Backend packages import it from their own tests and hand it a factory:
//
//	func TestConformance(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) store.Store {
//	        return memory.New()
//	    })
//	}
//
// The suite checks the contract only: absence semantics, read-after-write,
// overwrite, idempotent delete, prefix clearing. TTL expiry is advisory and
// deliberately not part of the suite; backends that honor it test that
// behavior themselves.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dailyyoga/datasync/store"
)

// Factory returns a fresh store for one subtest. Implementations backed by
// shared infrastructure must isolate state per call (new temp file, fresh
// database, fresh namespace).
type Factory func(t *testing.T) store.Store

// Run executes the conformance suite against stores produced by open.
func Run(t *testing.T, open Factory) {
	t.Run("MissingKey", func(t *testing.T) { testMissingKey(t, open(t)) })
	t.Run("ReadAfterWrite", func(t *testing.T) { testReadAfterWrite(t, open(t)) })
	t.Run("EmptyValue", func(t *testing.T) { testEmptyValue(t, open(t)) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, open(t)) })
	t.Run("DeleteIdempotent", func(t *testing.T) { testDeleteIdempotent(t, open(t)) })
	t.Run("ClearAll", func(t *testing.T) { testClearAll(t, open(t)) })
	t.Run("ClearPrefix", func(t *testing.T) { testClearPrefix(t, open(t)) })
	t.Run("ClearPrefixMultibyte", func(t *testing.T) { testClearPrefixMultibyte(t, open(t)) })
	t.Run("ZeroTTLPersists", func(t *testing.T) { testZeroTTLPersists(t, open(t)) })
}

// testKey returns a key that cannot collide across suite runs sharing a
// backend.
func testKey(part string) string {
	return fmt.Sprintf("storetest/%s/%s", uuid.New().String(), part)
}

func testMissingKey(t *testing.T, s store.Store) {
	ctx := context.Background()

	value, ok, err := s.Get(ctx, testKey("missing"))
	require.NoError(t, err, "reading a missing key must not fail")
	require.False(t, ok, "missing key must read as absent")
	require.Empty(t, value)
}

func testReadAfterWrite(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := testKey("raw")

	require.NoError(t, s.Set(ctx, key, "payload", 0))

	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok, "written key must read as present")
	require.Equal(t, "payload", value)
}

func testEmptyValue(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := testKey("empty")

	require.NoError(t, s.Set(ctx, key, "", 0))

	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok, "presence must be independent of content")
	require.Equal(t, "", value)
}

func testOverwrite(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := testKey("overwrite")

	require.NoError(t, s.Set(ctx, key, "first", 0))
	require.NoError(t, s.Set(ctx, key, "second", 0))

	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", value)
}

func testDeleteIdempotent(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := testKey("delete")

	require.NoError(t, s.Set(ctx, key, "payload", 0))
	require.NoError(t, s.Delete(ctx, key))

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok, "deleted key must read as absent")

	require.NoError(t, s.Delete(ctx, key), "deleting an absent key must succeed")
}

func testClearAll(t *testing.T, s store.Store) {
	ctx := context.Background()
	keys := []string{testKey("a"), testKey("b"), testKey("c")}

	for i, key := range keys {
		require.NoError(t, s.Set(ctx, key, fmt.Sprintf("v%d", i), 0))
	}
	require.NoError(t, s.Clear(ctx, ""))

	for _, key := range keys {
		_, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.False(t, ok, "key %q must be gone after Clear(\"\")", key)
	}
}

func testClearPrefix(t *testing.T, s store.Store) {
	ctx := context.Background()
	prefix := testKey("scoped") + "/"
	inside := []string{prefix + "one", prefix + "two"}
	outside := testKey("unscoped")

	for _, key := range inside {
		require.NoError(t, s.Set(ctx, key, "in", 0))
	}
	require.NoError(t, s.Set(ctx, outside, "out", 0))

	require.NoError(t, s.Clear(ctx, prefix))

	for _, key := range inside {
		_, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.False(t, ok, "key %q must be gone after prefix clear", key)
	}

	value, ok, err := s.Get(ctx, outside)
	require.NoError(t, err)
	require.True(t, ok, "keys outside the prefix must survive")
	require.Equal(t, "out", value)
}

func testClearPrefixMultibyte(t *testing.T, s store.Store) {
	ctx := context.Background()
	// Keys are caller-chosen strings; a backend must match prefixes by
	// characters, not bytes, or multibyte prefixes never clear.
	prefix := testKey("café") + "/日本/"
	inside := []string{prefix + "東京", prefix + "大阪"}
	outside := testKey("café") + "/別/entry"

	for _, key := range inside {
		require.NoError(t, s.Set(ctx, key, "in", 0))
	}
	require.NoError(t, s.Set(ctx, outside, "out", 0))

	require.NoError(t, s.Clear(ctx, prefix))

	for _, key := range inside {
		_, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.False(t, ok, "key %q must be gone after multibyte prefix clear", key)
	}

	value, ok, err := s.Get(ctx, outside)
	require.NoError(t, err)
	require.True(t, ok, "keys outside the prefix must survive")
	require.Equal(t, "out", value)
}

func testZeroTTLPersists(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := testKey("ttl0")

	require.NoError(t, s.Set(ctx, key, "stays", 0))

	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok, "zero TTL must mean no expiry")
	require.Equal(t, "stays", value)
}
