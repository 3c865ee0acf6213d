package logger

import "fmt"

// ErrBuild wraps a zap build failure
func ErrBuild(err error) error {
	return fmt.Errorf("logger: failed to build logger: %w", err)
}

// ErrInvalidLevel reports an unknown log level
func ErrInvalidLevel(level string, err error) error {
	return fmt.Errorf("logger: invalid level %q: %w", level, err)
}

// ErrInvalidEncoding reports an unsupported encoding
func ErrInvalidEncoding(encoding string) error {
	return fmt.Errorf("logger: invalid encoding %q, must be %q or %q", encoding, EncodingJSON, EncodingConsole)
}
