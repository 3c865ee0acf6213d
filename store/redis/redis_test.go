package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/dailyyoga/datasync/logger"
	"github.com/dailyyoga/datasync/store"
	"github.com/dailyyoga/datasync/store/storetest"
)

func setupTestStore(t *testing.T, cfg *Config) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Addr = mr.Addr()
	s, err := New(logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

// ============ Config Tests ============

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"valid", &Config{Addr: "localhost:6379"}, false},
		{"empty addr", &Config{}, true},
		{"negative db", &Config{Addr: "localhost:6379", DB: -1}, true},
		{"negative pool", &Config{Addr: "localhost:6379", PoolSize: -1}, true},
		{"negative timeout", &Config{Addr: "localhost:6379", DialTimeout: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_MergeDefaults(t *testing.T) {
	cfg := (&Config{Addr: "custom:6379"}).MergeDefaults()
	if cfg.Addr != "custom:6379" || cfg.PoolSize != 10 || cfg.DialTimeout != 5*time.Second {
		t.Error("MergeDefaults failed")
	}
	if cfg.KeyPrefix != "datasync:" {
		t.Errorf("expected default key prefix, got %q", cfg.KeyPrefix)
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := &Config{Addr: "localhost:6379", Username: "u", Password: "p", DB: 1, PoolSize: 20}
	opts := cfg.Options()
	if opts.Addr != "localhost:6379" || opts.DB != 1 || opts.PoolSize != 20 {
		t.Error("Options conversion failed")
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Error("credentials lost in Options conversion")
	}
}

func TestNew_Unreachable(t *testing.T) {
	_, err := New(logger.Nop(), &Config{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
}

// ============ Contract ============

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, _ := setupTestStore(t, nil)
		return s
	})
}

// ============ Backend Behavior ============

func TestStore_TTLExpiry(t *testing.T) {
	s, mr := setupTestStore(t, nil)
	ctx := context.Background()

	if err := s.Set(ctx, "ephemeral", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "ephemeral"); !ok {
		t.Fatal("entry must be present before expiry")
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := s.Get(ctx, "ephemeral"); ok {
		t.Error("entry must be absent after expiry")
	}
}

func TestStore_ClearScopedToNamespace(t *testing.T) {
	mr := miniredis.RunT(t)

	open := func(prefix string) *Store {
		s, err := New(logger.Nop(), &Config{Addr: mr.Addr(), KeyPrefix: prefix})
		if err != nil {
			t.Fatalf("failed to create redis store: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	a := open("tenant-a:")
	b := open("tenant-b:")
	ctx := context.Background()

	if err := a.Set(ctx, "k", "va", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := b.Set(ctx, "k", "vb", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := a.Clear(ctx, ""); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, ok, _ := a.Get(ctx, "k"); ok {
		t.Error("tenant-a entry must be gone after its own Clear")
	}
	v, ok, err := b.Get(ctx, "k")
	if err != nil || !ok || v != "vb" {
		t.Errorf("tenant-b entry must survive tenant-a's Clear: %q ok=%v err=%v", v, ok, err)
	}
}

func TestStore_ClearEscapesGlobMetacharacters(t *testing.T) {
	s, _ := setupTestStore(t, nil)
	ctx := context.Background()

	// A literal "*" in the prefix must not match everything.
	if err := s.Set(ctx, "a*b/x", "in", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "acb/x", "out", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := s.Clear(ctx, "a*b/"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, ok, _ := s.Get(ctx, "a*b/x"); ok {
		t.Error("entry under the literal prefix must be gone")
	}
	if _, ok, _ := s.Get(ctx, "acb/x"); !ok {
		t.Error("entry outside the literal prefix must survive")
	}
}

func TestEscapeGlob(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a*b", `a\*b`},
		{"a?b", `a\?b`},
		{"a[b]", `a\[b\]`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		if got := escapeGlob(tt.in); got != tt.want {
			t.Errorf("escapeGlob(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
