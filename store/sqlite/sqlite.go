// Package sqlite provides an embedded implementation of the store contract
// on database/sql with the mattn/go-sqlite3 driver. A single kv_entries
// table holds the payloads; TTLs are stored as absolute unix-nanosecond
// timestamps and honored lazily on read.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/dailyyoga/datasync/logger"
	"github.com/dailyyoga/datasync/store"
)

const bootstrap = `
CREATE TABLE IF NOT EXISTS kv_entries (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL,
	expires_at INTEGER
);`

// Store is a sqlite-backed key-value store.
type Store struct {
	logger logger.Logger
	db     *sql.DB
}

var _ store.Store = (*Store)(nil)

// New opens (creating if needed) the database at file and bootstraps the
// kv_entries table. Use ":memory:" for an ephemeral store.
func New(log logger.Logger, file string) (*Store, error) {
	if file == "" {
		return nil, ErrInvalidConfig("file is required")
	}

	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, ErrOpen(err)
	}
	// A single connection sidesteps sqlite's writer lock contention between
	// pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(bootstrap); err != nil {
		_ = db.Close()
		return nil, ErrOpen(err)
	}

	log.Info("sqlite store opened", zap.String("file", file))

	return &Store{logger: log, db: db}, nil
}

// Get returns the value stored under key, reporting absence for missing and
// expired entries. An expired row is evicted by the read that notices it.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT v, expires_at FROM kv_entries WHERE k = ?", key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, ErrQuery("select", err)
	}

	if expiresAt.Valid && expiresAt.Int64 <= time.Now().UnixNano() {
		if _, err := s.db.ExecContext(ctx,
			"DELETE FROM kv_entries WHERE k = ? AND expires_at <= ?", key, time.Now().UnixNano(),
		); err != nil {
			s.logger.Warn("failed to evict expired entry", zap.String("key", key), zap.Error(err))
		}
		return "", false, nil
	}
	return value, true, nil
}

// Set stores value under key, overwriting any existing row. A positive ttl
// records an absolute expiry; zero stores without expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (k, v, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return ErrQuery("upsert", err)
	}
	return nil
}

// Delete removes key; deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE k = ?", key); err != nil {
		return ErrQuery("delete", err)
	}
	return nil
}

// Clear removes every entry whose key starts with prefix; an empty prefix
// removes all entries. The prefix is matched with substr, so LIKE
// metacharacters in keys need no escaping. The slice length comes from
// sqlite's own length(), which counts characters like substr does; Go's
// len would count bytes and miss multibyte prefixes.
func (s *Store) Clear(ctx context.Context, prefix string) error {
	var err error
	if prefix == "" {
		_, err = s.db.ExecContext(ctx, "DELETE FROM kv_entries")
	} else {
		_, err = s.db.ExecContext(ctx,
			"DELETE FROM kv_entries WHERE substr(k, 1, length(?)) = ?", prefix, prefix)
	}
	if err != nil {
		return ErrQuery("clear", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
