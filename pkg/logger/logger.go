// Package logger provides basic logging functionalities on top of zap.
//
// Components that take a *zap.Logger get it from L(); command entry points
// use the package-level leveled helpers.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines a simple interface for logging.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base  = build("info")
	std   Logger = base.Sugar()
)

// ParseLevel maps "debug", "info", "warn", "error" and "fatal" onto a zap
// level. Unknown names map to info.
func ParseLevel(logLevel string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(logLevel)))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

func build(logLevel string) *zap.Logger {
	var cfg zap.Config
	if ParseLevel(logLevel) == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = level

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// NewLogger creates a zap logger for logLevel and installs it as the global
// logger. Debug level uses zap's development encoder; every other level uses
// the production JSON encoder.
func NewLogger(logLevel string) *zap.Logger {
	level.SetLevel(ParseLevel(logLevel))
	l := build(logLevel)

	mu.Lock()
	base = l
	std = l.Sugar()
	mu.Unlock()
	return l
}

// L returns the global zap logger for injection into components.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetGlobalLogLevel reconfigures the global logger's level.
func SetGlobalLogLevel(logLevel string) {
	level.SetLevel(ParseLevel(logLevel))
}

// Sync flushes buffered log entries.
func Sync() error {
	return L().Sync()
}

func current() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// Debug logs a debug message using the global std logger.
func Debug(args ...interface{}) {
	current().Debug(args...)
}

// Debugf logs a debug message with formatting.
func Debugf(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// Info logs an informational message using the global std logger.
func Info(args ...interface{}) {
	current().Info(args...)
}

// Infof logs an informational message with formatting.
func Infof(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Warn logs a warning.
func Warn(args ...interface{}) {
	current().Warn(args...)
}

// Warnf logs a warning with formatting.
func Warnf(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Error logs an error message using the global std logger.
func Error(args ...interface{}) {
	current().Error(args...)
}

// Errorf logs an error message with formatting.
func Errorf(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// Fatal logs a message and exits with status 1.
func Fatal(args ...interface{}) {
	current().Fatal(args...)
}

// Fatalf logs a formatted message and exits with status 1.
func Fatalf(format string, args ...interface{}) {
	current().Fatalf(format, args...)
}
