package redis

import (
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config is the configuration for the redis-backed store
type Config struct {
	// Addr is the host:port of the redis server (required)
	Addr string `mapstructure:"addr"`
	// Username is the username for redis ACL authentication
	Username string `mapstructure:"username"`
	// Password is the password for redis authentication
	Password string `mapstructure:"password"`
	// DB is the redis database number
	// default: 0
	DB int `mapstructure:"db"`
	// PoolSize is the maximum number of socket connections
	// default: 10
	PoolSize int `mapstructure:"pool_size"`
	// DialTimeout is the timeout for establishing new connections
	// default: 5 * time.Second
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// KeyPrefix namespaces every key this store touches, so Clear("") only
	// removes the store's own entries
	// default: "datasync:"
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DefaultConfig returns the default configuration for the redis store
// Note: Addr has no default value and must be explicitly set by the user
func DefaultConfig() *Config {
	return &Config{
		PoolSize:    10,
		DialTimeout: 5 * time.Second,
		KeyPrefix:   "datasync:",
	}
}

// MergeDefaults fills unset fields with their defaults and returns the config
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.PoolSize == 0 {
		c.PoolSize = defaults.PoolSize
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = defaults.DialTimeout
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaults.KeyPrefix
	}
	return c
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrInvalidConfig("addr is required")
	}
	if c.DB < 0 {
		return ErrInvalidConfig("db must be >= 0")
	}
	if c.PoolSize < 0 {
		return ErrInvalidConfig("pool_size must be >= 0")
	}
	if c.DialTimeout < 0 {
		return ErrInvalidConfig("dial_timeout must be >= 0")
	}
	return nil
}

// Options converts the config into go-redis client options
func (c *Config) Options() *goredis.Options {
	return &goredis.Options{
		Addr:        c.Addr,
		Username:    c.Username,
		Password:    c.Password,
		DB:          c.DB,
		PoolSize:    c.PoolSize,
		DialTimeout: c.DialTimeout,
	}
}
