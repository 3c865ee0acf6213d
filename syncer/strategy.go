package syncer

// Strategy selects whether and in what order a Sync call consults the cache
// and the network. It is pure configuration: the engine's phase gating is
// the only interpreter.
type Strategy int

const (
	// StaleWhileRevalidate reveals cached data immediately (when present),
	// then fetches and reveals the fresh result. The zero value, so a caller
	// leaving the strategy unset gets this behavior.
	StaleWhileRevalidate Strategy = iota
	// CacheFirst returns cached data and stops; the network is consulted
	// only on a cache miss.
	CacheFirst
	// NetworkOnly skips the cache entirely and always fetches.
	NetworkOnly
	// CacheOnly consults the cache and never fetches.
	CacheOnly
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StaleWhileRevalidate:
		return "stale_while_revalidate"
	case CacheFirst:
		return "cache_first"
	case NetworkOnly:
		return "network_only"
	case CacheOnly:
		return "cache_only"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the four defined strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StaleWhileRevalidate, CacheFirst, NetworkOnly, CacheOnly:
		return true
	default:
		return false
	}
}

// skipsCache reports whether the cache phase is skipped entirely.
func (s Strategy) skipsCache() bool {
	return s == NetworkOnly
}

// stopsAfterCacheHit reports whether a successful cache read terminates the
// sequence without a network phase.
func (s Strategy) stopsAfterCacheHit() bool {
	return s == CacheFirst || s == CacheOnly
}

// cacheOnly reports whether the network phase is forbidden even on a miss.
func (s Strategy) cacheOnly() bool {
	return s == CacheOnly
}
