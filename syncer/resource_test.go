package syncer

import (
	"errors"
	"testing"
)

func TestResource_Loading(t *testing.T) {
	r := Loading[int]()

	if !r.IsLoading() {
		t.Error("Loading resource must report IsLoading")
	}
	if r.HasData() || r.IsError() {
		t.Error("Loading resource must carry neither data nor error")
	}
	if r.Source() != SourceNone {
		t.Errorf("expected SourceNone, got %v", r.Source())
	}
}

func TestResource_FromCache(t *testing.T) {
	r := FromCache(42)

	v, ok := r.Data()
	if !ok || v != 42 {
		t.Errorf("expected data 42, got %v (ok=%v)", v, ok)
	}
	if r.Source() != SourceCache {
		t.Errorf("expected SourceCache, got %v", r.Source())
	}
	if r.IsLoading() || r.IsError() {
		t.Error("data-bearing resource must be neither loading nor error")
	}
}

func TestResource_FromNetwork(t *testing.T) {
	r := FromNetwork("fresh")

	v, ok := r.Data()
	if !ok || v != "fresh" {
		t.Errorf("expected data %q, got %q (ok=%v)", "fresh", v, ok)
	}
	if r.Source() != SourceNetwork {
		t.Errorf("expected SourceNetwork, got %v", r.Source())
	}
}

func TestResource_Failed(t *testing.T) {
	cause := errors.New("boom")
	r := Failed[int](cause)

	if !r.IsError() {
		t.Error("Failed resource must report IsError")
	}
	if !errors.Is(r.Err(), cause) {
		t.Errorf("expected wrapped cause, got %v", r.Err())
	}
	if r.HasData() || r.IsLoading() {
		t.Error("Failed resource carries no data and is not loading")
	}
	if r.Source() != SourceNone {
		t.Errorf("expected SourceNone, got %v", r.Source())
	}
}

func TestResource_FailedWith(t *testing.T) {
	cause := errors.New("boom")
	r := FailedWith(cause, "stale")

	if !r.IsError() {
		t.Error("FailedWith resource must report IsError")
	}
	v, ok := r.Data()
	if !ok || v != "stale" {
		t.Errorf("expected stale data, got %q (ok=%v)", v, ok)
	}
	// The error supersedes the data's freshness claim.
	if r.Source() != SourceNone {
		t.Errorf("FailedWith must force SourceNone, got %v", r.Source())
	}
	if r.IsLoading() {
		t.Error("FailedWith resource is not loading")
	}
}

func TestSource_String(t *testing.T) {
	tests := []struct {
		source Source
		want   string
	}{
		{SourceNone, "none"},
		{SourceCache, "cache"},
		{SourceNetwork, "network"},
		{Source(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.source.String(); got != tt.want {
			t.Errorf("Source(%d).String() = %q, want %q", int(tt.source), got, tt.want)
		}
	}
}

func TestStrategy_Valid(t *testing.T) {
	for _, s := range []Strategy{StaleWhileRevalidate, CacheFirst, NetworkOnly, CacheOnly} {
		if !s.Valid() {
			t.Errorf("strategy %v must be valid", s)
		}
	}
	if Strategy(42).Valid() {
		t.Error("out-of-range strategy must be invalid")
	}
}

func TestStrategy_String(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     string
	}{
		{StaleWhileRevalidate, "stale_while_revalidate"},
		{CacheFirst, "cache_first"},
		{NetworkOnly, "network_only"},
		{CacheOnly, "cache_only"},
		{Strategy(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.strategy.String(); got != tt.want {
			t.Errorf("Strategy(%d).String() = %q, want %q", int(tt.strategy), got, tt.want)
		}
	}
}

func TestStrategy_DefaultIsStaleWhileRevalidate(t *testing.T) {
	// The zero value is the documented default for callers that leave the
	// strategy unset.
	var s Strategy
	if s != StaleWhileRevalidate {
		t.Errorf("zero value must be StaleWhileRevalidate, got %v", s)
	}
}
