package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// global holds the logger used by the package-level functions. It starts
// unset and is installed by New; logging before that falls back to a nop
// logger, so early calls are safe and silent.
var global atomic.Pointer[zap.Logger]

func setGlobal(l *zap.Logger) {
	global.Store(l)
}

// SetGlobal replaces the global logger. Build the logger with
// zap.AddCallerSkip(1) if caller locations should point at the code invoking
// the package-level functions rather than at this package.
func SetGlobal(l *zap.Logger) {
	setGlobal(l)
}

// Global returns the current global logger, installing a nop logger first if
// none has been configured yet.
func Global() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, zap.NewNop())
	return global.Load()
}

// Debug logs a message at debug level using the global logger.
func Debug(msg string, fields ...zap.Field) {
	Global().Debug(msg, fields...)
}

// Info logs a message at info level using the global logger.
func Info(msg string, fields ...zap.Field) {
	Global().Info(msg, fields...)
}

// Warn logs a message at warn level using the global logger.
func Warn(msg string, fields ...zap.Field) {
	Global().Warn(msg, fields...)
}

// Error logs a message at error level using the global logger.
func Error(msg string, fields ...zap.Field) {
	Global().Error(msg, fields...)
}
