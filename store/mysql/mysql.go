// Package mysql provides a mysql-backed implementation of the store
// contract on gorm. Entries live in a single key-value table; TTLs become
// an absolute expires_at column filtered on read, and gorm's logging is
// bridged into the project logger.
package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	glogger "gorm.io/gorm/logger"

	"github.com/dailyyoga/datasync/logger"
	"github.com/dailyyoga/datasync/store"
)

// kvEntry is the row shape of the key-value table.
type kvEntry struct {
	K         string     `gorm:"column:k;primaryKey;size:255"`
	V         string     `gorm:"column:v;type:mediumtext;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
}

// Store is a mysql-backed key-value store.
type Store struct {
	logger logger.Logger
	db     *gorm.DB
	table  string
}

var _ store.Store = (*Store)(nil)

// New connects to mysql, migrates the key-value table and returns the
// store. It returns an error if the configuration is invalid or the server
// is unreachable.
func New(log logger.Logger, cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var gormLogLevel glogger.LogLevel
	switch strings.ToLower(cfg.LogLevel) {
	case "silent":
		gormLogLevel = glogger.Silent
	case "error":
		gormLogLevel = glogger.Error
	case "warn":
		gormLogLevel = glogger.Warn
	case "info":
		gormLogLevel = glogger.Info
	default:
		gormLogLevel = glogger.Warn
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: &gormLogger{
			logger:        log,
			level:         gormLogLevel,
			slowThreshold: cfg.SlowThreshold,
		},
		PrepareStmt: true,
	})
	if err != nil {
		return nil, ErrConnection(err)
	}

	sqldb, err := db.DB()
	if err != nil {
		return nil, ErrConnection(err)
	}
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqldb.Ping(); err != nil {
		return nil, ErrConnection(err)
	}

	if err := db.Table(cfg.Table).AutoMigrate(&kvEntry{}); err != nil {
		return nil, ErrQuery("migrate", err)
	}

	log.Info("mysql store connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.String("table", cfg.Table),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return &Store{logger: log, db: db, table: cfg.Table}, nil
}

// Get returns the value stored under key, reporting absence for missing and
// expired rows. An expired row is evicted by the read that notices it.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var e kvEntry
	err := s.db.WithContext(ctx).Table(s.table).Where("k = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, ErrQuery("select", err)
	}

	if e.ExpiresAt != nil && !time.Now().Before(*e.ExpiresAt) {
		if err := s.db.WithContext(ctx).Table(s.table).
			Where("k = ? AND expires_at <= ?", key, time.Now()).
			Delete(&kvEntry{}).Error; err != nil {
			s.logger.Warn("failed to evict expired entry", zap.String("key", key), zap.Error(err))
		}
		return "", false, nil
	}
	return e.V, true, nil
}

// Set stores value under key, overwriting any existing row. A positive ttl
// records an absolute expiry; zero stores without expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := kvEntry{K: key, V: value}
	if ttl > 0 {
		expiresAt := time.Now().Add(ttl)
		e.ExpiresAt = &expiresAt
	}

	err := s.db.WithContext(ctx).Table(s.table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "k"}},
			DoUpdates: clause.AssignmentColumns([]string{"v", "expires_at"}),
		}).
		Create(&e).Error
	if err != nil {
		return ErrQuery("upsert", err)
	}
	return nil
}

// Delete removes key; deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Table(s.table).
		Where("k = ?", key).Delete(&kvEntry{}).Error; err != nil {
		return ErrQuery("delete", err)
	}
	return nil
}

// Clear removes every entry whose key starts with prefix; an empty prefix
// removes all rows. The prefix is matched with LEFT, so LIKE metacharacters
// in keys need no escaping. The slice length comes from CHAR_LENGTH, which
// counts characters like LEFT does; Go's len would count bytes and miss
// multibyte prefixes.
func (s *Store) Clear(ctx context.Context, prefix string) error {
	tx := s.db.WithContext(ctx).Table(s.table)
	if prefix == "" {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else {
		tx = tx.Where("LEFT(k, CHAR_LENGTH(?)) = ?", prefix, prefix)
	}
	if err := tx.Delete(&kvEntry{}).Error; err != nil {
		return ErrQuery("clear", err)
	}
	return nil
}

// Ping verifies the connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	sqldb, err := s.db.DB()
	if err != nil {
		return ErrConnection(err)
	}
	return sqldb.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqldb, err := s.db.DB()
	if err != nil {
		return ErrConnection(err)
	}
	return sqldb.Close()
}
