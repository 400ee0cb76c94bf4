package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/scriptlet-converter/internal/models"
)

// Environment variables read by NewFromEnv
const (
	EnvLogLevel  = "SCRIPTLET_CONVERTER_LOG_LEVEL"
	EnvLogFormat = "SCRIPTLET_CONVERTER_LOG_FORMAT"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Output     io.Writer
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     os.Stderr,
	}
}

// ConfigFrom builds a logging config from the [log] section of the config file.
// Unknown levels and formats keep the defaults.
func ConfigFrom(lc models.LogConfig) Config {
	cfg := DefaultConfig()
	if level, ok := ParseLevel(lc.Level); ok {
		cfg.Level = level
	}
	switch lc.Format {
	case "json", "console":
		cfg.Format = lc.Format
	}
	return cfg
}

// ParseLevel maps trace, debug, info, warn and error to zerolog levels
func ParseLevel(level string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	}
	return zerolog.NoLevel, false
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var output io.Writer = out
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewFromEnv creates a logger from the config file section, overridden by
// SCRIPTLET_CONVERTER_LOG_LEVEL and SCRIPTLET_CONVERTER_LOG_FORMAT
func NewFromEnv(lc models.LogConfig) zerolog.Logger {
	if level := os.Getenv(EnvLogLevel); level != "" {
		lc.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		lc.Format = format
	}
	return New(ConfigFrom(lc))
}
