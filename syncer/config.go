package syncer

import "time"

// Config holds configuration for a Syncer
type Config struct {
	// Name identifies the syncer in log entries (required)
	Name string `mapstructure:"name"`
	// TTL is the advisory time-to-live passed to the store when the engine
	// persists fetched data; zero stores without expiry
	// default: 0
	TTL time.Duration `mapstructure:"ttl"`
}

// DefaultConfig returns the default configuration for a Syncer
// Note: Name has no default value and must be explicitly set by the user
func DefaultConfig() *Config {
	return &Config{}
}

// MergeDefaults fills unset fields with their defaults and returns the config
func (c *Config) MergeDefaults() *Config {
	// TTL zero means "no expiry" and is the default; nothing to merge today.
	return c
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrInvalidName(c.Name)
	}
	if c.TTL < 0 {
		return ErrInvalidTTL(c.TTL)
	}
	return nil
}
