// Package weavelog builds the process-wide structured logger. Level and
// encoding are controlled by environment variables so the same binary logs
// plain text in a terminal and JSON under a supervisor without a flag.
package weavelog

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a logger writing to stderr. WEAVE_LOG sets the minimum level
// (debug, info, warn, error; default info), WEAVE_LOG_STYLE selects the
// encoding ("json" or anything else for text). verbose forces debug
// regardless of WEAVE_LOG, for the --verbose CLI flag.
func New(verbose bool) *slog.Logger {
	level := parseLevel(os.Getenv("WEAVE_LOG"))
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(os.Getenv("WEAVE_LOG_STYLE")), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
