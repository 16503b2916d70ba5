// Package logger provides structured logging with configurable log levels.
// It wraps log/slog: JSON output in production, text output elsewhere.
package logger
