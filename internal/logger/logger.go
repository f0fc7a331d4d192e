package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogFormat defines the available log formats
type LogFormat string

const (
	// FormatJSON is the JSON format
	FormatJSON LogFormat = "json"
	// FormatConsole is the console format
	FormatConsole LogFormat = "console"
)

// ParseLogFormat parses a string into a LogFormat, defaulting to console
func ParseLogFormat(format string) LogFormat {
	switch strings.ToLower(format) {
	case "json":
		return FormatJSON
	default:
		return FormatConsole
	}
}

// Config holds the configuration for the logger
type Config struct {
	// Level is the log level (debug, info, warn, error)
	Level string
	// Format is the log format (json, console)
	Format LogFormat
	// Output is the output writer (default: os.Stderr)
	Output io.Writer
}

// New builds a zerolog logger from the given configuration
func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var l zerolog.Logger
	switch cfg.Format {
	case FormatJSON:
		l = zerolog.New(output)
	default:
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		})
	}

	return l.Level(level).With().Timestamp().Logger()
}

// OpenFile opens (creating if needed) a log file for appending.
// The TUI owns the terminal, so it logs here instead of stderr.
func OpenFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
