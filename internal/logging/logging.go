package logging

import (
	"go.uber.org/zap"
)

var logger *zap.Logger

// GetLogger returns the global logger instance.
func GetLogger() *zap.Logger {
	if logger == nil {
		logger, _ = zap.NewDevelopment()
	}
	return logger
}

// SetLogger sets the global logger instance.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Debugf logs a debug message with printf-style formatting.
func Debugf(msg string, args ...interface{}) {
	GetLogger().Sugar().Debugf(msg, args...)
}

// Infof logs an info message with printf-style formatting.
func Infof(msg string, args ...interface{}) {
	GetLogger().Sugar().Infof(msg, args...)
}

// Warnf logs a warning message with printf-style formatting.
func Warnf(msg string, args ...interface{}) {
	GetLogger().Sugar().Warnf(msg, args...)
}

// Errorf logs an error message with printf-style formatting.
func Errorf(msg string, args ...interface{}) {
	GetLogger().Sugar().Errorf(msg, args...)
}

// Fatalf logs a fatal message with printf-style formatting and exits.
func Fatalf(msg string, args ...interface{}) {
	GetLogger().Sugar().Fatalf(msg, args...)
}

// Info logs a structured info message.
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Error logs a structured error message.
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}
