package sqlite

import "fmt"

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("sqlite: invalid config: %s", msg)
}

// ErrOpen wraps a database open or bootstrap failure
func ErrOpen(err error) error {
	return fmt.Errorf("sqlite: open failed: %w", err)
}

// ErrQuery wraps a failed statement
func ErrQuery(op string, err error) error {
	return fmt.Errorf("sqlite: %s failed: %w", op, err)
}
