// Package redis provides a redis-backed implementation of the store
// contract. All keys are namespaced under a configurable prefix, TTLs map to
// native redis expiry, and Clear walks the namespace with SCAN so it never
// touches keys owned by other tenants of the same database.
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dailyyoga/datasync/logger"
	"github.com/dailyyoga/datasync/store"
)

// scanCount is the COUNT hint for SCAN and the DEL batch size during Clear.
const scanCount = 100

// Store is a redis-backed key-value store.
type Store struct {
	logger logger.Logger
	client *goredis.Client
	prefix string
}

var _ store.Store = (*Store)(nil)

// New connects to redis and returns the store. It returns an error if the
// configuration is invalid or the server is unreachable.
func New(log logger.Logger, cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := goredis.NewClient(cfg.Options())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ErrConnection(err)
	}

	log.Info("redis store connected",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.String("key_prefix", cfg.KeyPrefix),
	)

	return &Store{
		logger: log,
		client: client,
		prefix: cfg.KeyPrefix,
	}, nil
}

// Get returns the value stored under key, reporting absence for missing and
// expired entries.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, ErrCommand("get", err)
	}
	return val, true, nil
}

// Set stores value under key. A positive ttl becomes a native redis expiry;
// zero stores without expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return ErrCommand("set", err)
	}
	return nil
}

// Delete removes key; deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return ErrCommand("del", err)
	}
	return nil
}

// Clear removes every entry whose key starts with prefix, scoped to this
// store's namespace. An empty prefix removes the whole namespace.
func (s *Store) Clear(ctx context.Context, prefix string) error {
	pattern := escapeGlob(s.prefix+prefix) + "*"

	iter := s.client.Scan(ctx, 0, pattern, scanCount).Iterator()
	batch := make([]string, 0, scanCount)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanCount {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return ErrCommand("del", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return ErrCommand("scan", err)
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return ErrCommand("del", err)
		}
	}
	return nil
}

// Close releases the underlying client connections.
func (s *Store) Close() error {
	return s.client.Close()
}

// escapeGlob neutralizes redis MATCH metacharacters so a literal prefix
// cannot match unrelated keys.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
