package redis

import "fmt"

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("redis: invalid config: %s", msg)
}

// ErrConnection wraps a connection failure
func ErrConnection(err error) error {
	return fmt.Errorf("redis: connection failed: %w", err)
}

// ErrCommand wraps a failed redis command
func ErrCommand(op string, err error) error {
	return fmt.Errorf("redis: %s failed: %w", op, err)
}
