// Package logging installs the process-wide slog default for the CLI.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Setup configures the default logger from the output destination and the
// IMGVEC_LOG_LEVEL value. Diagnostics always go to stderr; they are emitted
// as JSON when stdout carries the NDJSON/CSV embedding stream, and as text
// otherwise.
func Setup(destination, level string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if destination == "stdout" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// ParseLevel maps an IMGVEC_LOG_LEVEL value to a slog.Level. Unknown or
// empty values fall back to info.
func ParseLevel(s string) slog.Level {
	if lvl, ok := levels[strings.ToLower(s)]; ok {
		return lvl
	}
	return slog.LevelInfo
}
