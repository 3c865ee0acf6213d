package syncer

// Source identifies the provenance of a Resource's data at emission time.
type Source int

const (
	// SourceNone tags resources without a freshness claim: the initial
	// loading marker and error emissions.
	SourceNone Source = iota
	// SourceCache tags data read back from the store.
	SourceCache
	// SourceNetwork tags data obtained from the fetch operation.
	SourceNetwork
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceCache:
		return "cache"
	case SourceNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Resource is an immutable snapshot of synchronization progress for one
// logical request. Values are constructed once by the engine (or by the
// constructors below) and never mutated afterwards; all fields are
// unexported and every emission transfers a copy to the consumer.
type Resource[T any] struct {
	data    T
	hasData bool
	err     error
	source  Source
}

// Loading returns the marker resource emitted when the cache is empty and a
// fetch is about to start: no data, no error, SourceNone.
func Loading[T any]() Resource[T] {
	return Resource[T]{}
}

// FromCache returns a resource carrying data read from the store.
func FromCache[T any](v T) Resource[T] {
	return Resource[T]{data: v, hasData: true, source: SourceCache}
}

// FromNetwork returns a resource carrying freshly fetched data.
func FromNetwork[T any](v T) Resource[T] {
	return Resource[T]{data: v, hasData: true, source: SourceNetwork}
}

// Failed returns a resource carrying a fetch failure and no data.
func Failed[T any](err error) Resource[T] {
	return Resource[T]{err: err}
}

// FailedWith returns a resource carrying a fetch failure alongside stale
// data. The source is always SourceNone: the error supersedes any freshness
// claim the stale value might otherwise make. The engine itself emits Failed
// only; this constructor exists for consumers layering their own fallback.
func FailedWith[T any](err error, stale T) Resource[T] {
	return Resource[T]{data: stale, hasData: true, err: err}
}

// Data returns the carried value and whether one is present.
func (r Resource[T]) Data() (T, bool) {
	return r.data, r.hasData
}

// HasData reports whether the resource carries a value.
func (r Resource[T]) HasData() bool {
	return r.hasData
}

// Err returns the carried failure, or nil.
func (r Resource[T]) Err() error {
	return r.err
}

// Source returns the provenance of the carried data.
func (r Resource[T]) Source() Source {
	return r.source
}

// IsLoading reports whether the resource is the initial marker: no data and
// no error yet.
func (r Resource[T]) IsLoading() bool {
	return !r.hasData && r.err == nil
}

// IsError reports whether the resource carries a failure.
func (r Resource[T]) IsError() bool {
	return r.err != nil
}
