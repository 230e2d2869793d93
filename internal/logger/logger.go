// Package logger holds the process-wide slog logger used by treekit
// packages that are not handed one explicitly.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// L is the global logger. It discards everything until Init enables it.
var L = discard()

// Options configures Init.
type Options struct {
	Enabled bool       // false discards all output
	Path    string     // log file; empty writes to stderr
	Level   slog.Level // minimum level
	JSON    bool       // JSON records instead of text
}

// Init replaces L according to opts. The returned close function releases
// the log file, if one was opened.
func Init(opts Options) (func() error, error) {
	if !opts.Enabled {
		L = discard()
		return func() error { return nil }, nil
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
		closeFn = f.Close
	}

	hopts := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(w, hopts))
	} else {
		L = slog.New(slog.NewTextHandler(w, hopts))
	}
	return closeFn, nil
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
