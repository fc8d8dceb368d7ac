// Package logger provides structured logging configuration using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel names the environment variable overriding the log level.
const EnvLogLevel = "SHUFFLEPLAY_LOG_LEVEL"

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string // "text" or "json"
	Output io.Writer
}

// NewLogger creates a configured slog.Logger. A nil Output writes to stderr,
// keeping stdout free for simulation reports.
func NewLogger(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		// Add a source location for debug level
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps DEBUG, INFO, WARN, WARNING and ERROR (any case) to a level.
// ok is false for anything else.
func ParseLevel(s string) (level slog.Level, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// LevelFromEnv returns the level named by SHUFFLEPLAY_LOG_LEVEL.
// ok is false when the variable is unset or names no level.
func LevelFromEnv() (level slog.Level, ok bool) {
	return ParseLevel(os.Getenv(EnvLogLevel))
}

// DefaultConfig returns the default logger configuration.
// The SHUFFLEPLAY_LOG_LEVEL environment variable sets the level; default INFO.
func DefaultConfig() Config {
	level := slog.LevelInfo
	if parsed, ok := LevelFromEnv(); ok {
		level = parsed
	}

	return Config{
		Level:  level,
		Format: "text",
	}
}
