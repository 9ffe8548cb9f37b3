package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel converts debug, info, warn or error (any case) to an slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// Options configures the process-wide diagnostics set up by Setup.
type Options struct {
	// Level is the minimum level written to both outputs.
	Level slog.Level

	// Console receives human-readable output. Nil means os.Stderr.
	Console io.Writer

	// File is the path of the rotated log file. Empty disables file output.
	File string

	// MaxSizeMB is the size at which File is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// JSON switches the handler to JSON output.
	JSON bool
}

// Diagnostics owns the logger and its rotated file for the lifetime of the process.
// Create it once at startup with Setup, inject Logger into components, and
// call Close at exit.
type Diagnostics struct {
	// Logger is the secure logger writing to the console and the file.
	Logger *slog.Logger

	level *slog.LevelVar
	file  *lumberjack.Logger
	once  sync.Once
}

// Setup builds the process logger. Console and file output share one
// SecureHandler so redaction applies to both.
func Setup(opts Options) (*Diagnostics, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	d := &Diagnostics{level: new(slog.LevelVar)}
	d.level.Set(opts.Level)

	out := console
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		d.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		out = io.MultiWriter(console, d.file)
	}

	handlerOpts := &slog.HandlerOptions{Level: d.level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, handlerOpts)
	} else {
		h = slog.NewTextHandler(out, handlerOpts)
	}
	d.Logger = slog.New(NewSecureHandler(h))

	return d, nil
}

// SetLevel changes the minimum level at runtime.
func (d *Diagnostics) SetLevel(level slog.Level) {
	d.level.Set(level)
}

// Close flushes and closes the log file. It is safe to call more than once.
func (d *Diagnostics) Close() error {
	var err error
	d.once.Do(func() {
		if d.file != nil {
			err = d.file.Close()
		}
	})
	return err
}

// NewSecureLogger creates a text logger writing to w with sanitization.
// It is meant for tests and tools that do not need the full Setup lifecycle.
func NewSecureLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSecureHandler(h))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
