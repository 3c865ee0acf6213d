package mysql

import "fmt"

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("mysql: invalid config: %s", msg)
}

// ErrConnection database connection error
func ErrConnection(err error) error {
	return fmt.Errorf("mysql: connection failed: %w", err)
}

// ErrQuery wraps a failed statement
func ErrQuery(op string, err error) error {
	return fmt.Errorf("mysql: %s failed: %w", op, err)
}
