// Package logger configures the global zerolog logger. The TUI owns the
// terminal, so log records go to a file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const logFile = "onair/onair.log"

// DefaultPath returns $XDG_STATE_HOME/onair/onair.log, creating its directory.
func DefaultPath() (string, error) {
	return xdg.StateFile(logFile)
}

// ParseLevel maps a level name to a zerolog level. Unknown names are errors;
// an empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

// Setup points the global logger at path (DefaultPath when empty) with the
// given level. The returned closer flushes and closes the file.
func Setup(level, path string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("log path: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	Use(f, lvl)
	log.Debug().Str("path", path).Str("level", lvl.String()).Msg("logging started")
	return f, nil
}

// Use sends the global logger to w.
func Use(w io.Writer, lvl zerolog.Level) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
