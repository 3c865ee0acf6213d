package logger

import "go.uber.org/zap/zapcore"

// Encodings understood by New
const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// Config is the configuration for the logger
type Config struct {
	// Level is the minimum enabled logging level: debug, info, warn, error,
	// dpanic, panic or fatal
	// default: "info"
	Level string `mapstructure:"level"`
	// Encoding selects the output format, json or console
	// default: "json"
	Encoding string `mapstructure:"encoding"`
	// OutputPaths are the destinations for log output
	// default: []string{"stdout"}
	OutputPaths []string `mapstructure:"output_paths"`
	// ErrorOutputPaths are the destinations for zap-internal errors
	// default: []string{"stderr"}
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// DefaultConfig returns the configuration used when no Config is provided
func DefaultConfig() *Config {
	return &Config{
		Level:            "info",
		Encoding:         EncodingJSON,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// MergeDefaults fills unset fields with their defaults and returns the config
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Level == "" {
		c.Level = defaults.Level
	}
	if c.Encoding == "" {
		c.Encoding = defaults.Encoding
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = defaults.OutputPaths
	}
	if len(c.ErrorOutputPaths) == 0 {
		c.ErrorOutputPaths = defaults.ErrorOutputPaths
	}
	return c
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return ErrInvalidLevel(c.Level, err)
	}
	if c.Encoding != EncodingJSON && c.Encoding != EncodingConsole {
		return ErrInvalidEncoding(c.Encoding)
	}
	return nil
}
