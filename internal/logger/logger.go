// Package logger builds the zerolog loggers used by the service and by the
// pgx query tracer.
package logger

import (
	"io"
	"os"
	"time"

	"booklibrary/internal/config"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr, JSON unless cfg.Pretty is set.
func New(cfg config.LogConfig, service, env string) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out, cfg.Level).With().
		Str("service", service).
		Str("env", env).
		Logger()
}

// NewWithWriter returns a timestamped logger at the named level. Unknown
// levels fall back to info.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// PgxTraceLevel maps a zerolog level name onto the pgx tracelog level.
// ok is false when tracing should stay off.
func PgxTraceLevel(level string) (tracelog.LogLevel, bool) {
	switch level {
	case "trace":
		return tracelog.LogLevelTrace, true
	case "debug":
		return tracelog.LogLevelDebug, true
	case "info":
		return tracelog.LogLevelInfo, true
	case "warn":
		return tracelog.LogLevelWarn, true
	case "error":
		return tracelog.LogLevelError, true
	default:
		return tracelog.LogLevelNone, false
	}
}
