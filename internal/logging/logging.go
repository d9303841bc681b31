// Package logging configures the shell's diagnostic logger. Diagnostics go
// to a file selected by environment variables, never to the session's
// terminal stream, which carries a strict ANSI protocol that stray output
// would corrupt.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variables controlling diagnostics.
const (
	EnvFile  = "USHELL_DEBUG_FILE"
	EnvLevel = "USHELL_DEBUG_LEVEL"
)

// New builds the process logger. With no USHELL_DEBUG_FILE set every record
// is discarded.
func New() *slog.Logger {
	path := os.Getenv(EnvFile)
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		// Nowhere safe to report this; run silent.
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv(EnvLevel)),
	}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
