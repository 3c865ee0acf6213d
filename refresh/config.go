package refresh

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dailyyoga/datasync/syncer"
)

// cronParser accepts the 6-field cron format with a leading seconds field,
// the same format the scheduler itself runs.
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Config holds configuration for a Refresher
type Config struct {
	// Name identifies the refresher in log entries (required)
	Name string `mapstructure:"name"`
	// Key is the store key kept in sync (required)
	Key string `mapstructure:"key"`
	// Strategy is the synchronization strategy each run uses
	// default: syncer.StaleWhileRevalidate
	Strategy syncer.Strategy `mapstructure:"strategy"`
	// Interval is the delay between runs in fixed-interval mode
	// default: 5 * time.Minute
	Interval time.Duration `mapstructure:"interval"`
	// CronSpec schedules runs by cron expression (6 fields, seconds first)
	// When set it takes precedence over Interval
	CronSpec string `mapstructure:"cron_spec"`
	// Timeout bounds each run
	// default: 30 * time.Second
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the default configuration for a Refresher
// Note: Name and Key have no default values and must be explicitly set
func DefaultConfig() *Config {
	return &Config{
		Interval: 5 * time.Minute,
		Timeout:  30 * time.Second,
	}
}

// MergeDefaults fills unset fields with their defaults and returns the config
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Interval == 0 {
		c.Interval = defaults.Interval
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	return c
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrInvalidName(c.Name)
	}
	if c.Key == "" {
		return ErrInvalidKey(c.Key)
	}
	if !c.Strategy.Valid() {
		return ErrInvalidStrategy(c.Strategy)
	}
	if c.Interval <= 0 {
		return ErrInvalidInterval(c.Interval)
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout(c.Timeout)
	}
	if c.CronSpec != "" {
		if _, err := cronParser.Parse(c.CronSpec); err != nil {
			return ErrInvalidCronSpec(c.CronSpec, err)
		}
	}
	return nil
}
