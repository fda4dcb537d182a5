// Package logging builds the process logger: log/slog text or JSON records
// on stderr, optionally copied to a log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options selects where and how log records are written.
type Options struct {
	Level   slog.Level
	JSON    bool   // JSON lines instead of logfmt-style text
	LogFile string // also append records to this file when set
}

// Setup builds a logger writing to w and, when opts.LogFile is set, to that
// file as well. The returned cleanup closes the file handle.
func Setup(w io.Writer, opts Options) (*slog.Logger, func(), error) {
	cleanup := func() {}
	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(w, f)
		cleanup = func() {
			_ = f.Close()
		}
	}

	ho := &slog.HandlerOptions{Level: opts.Level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, ho)
	} else {
		handler = slog.NewTextHandler(w, ho)
	}
	return slog.New(handler), cleanup, nil
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (valid: debug, info, warn, error)", s)
	}
}
