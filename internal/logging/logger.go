// Package logging provides structured logging for snipsync using slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level aliases for convenience.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	defaultLogger *slog.Logger
	defaultOnce   sync.Once
)

// Options configures the logger behavior.
type Options struct {
	// Level sets the minimum log level. Defaults to LevelWarn so that a
	// plain run only reports malformed snippet files.
	Level slog.Level
	// Output sets the output destination. Defaults to os.Stderr.
	Output io.Writer
	// JSON switches the handler to JSON output.
	JSON bool
	// AddSource includes source file and line in log output.
	AddSource bool
}

// DefaultOptions returns options suitable for CLI usage.
func DefaultOptions() Options {
	return Options{
		Level:  LevelWarn,
		Output: os.Stderr,
	}
}

// New creates a new logger with the given options.
func New(opts Options) *slog.Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	return slog.New(handler)
}

// Default returns the default logger, creating it if necessary.
func Default() *slog.Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(DefaultOptions())
	})
	return defaultLogger
}

// SetDefault replaces the default logger and installs it as slog's default.
func SetDefault(logger *slog.Logger) {
	// Trigger the once so Default() won't replace the logger later.
	defaultOnce.Do(func() {})
	defaultLogger = logger
	slog.SetDefault(logger)
}

// FromContext returns the logger stored in ctx, falling back to Default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return Default()
}

// NewContext returns a context carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

type loggerKey struct{}

// Debug logs at debug level using the default logger.
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// Info logs at info level using the default logger.
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

// Warn logs at warn level using the default logger.
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

// Error logs at error level using the default logger.
func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

// Attribute keys shared across packages.
const (
	KeyEditor    = "editor"
	KeyLanguage  = "language"
	KeySection   = "section"
	KeySnippet   = "snippet"
	KeyPath      = "path"
	KeyField     = "field"
	KeyOperation = "operation"
	KeyCount     = "count"
	KeyError     = "error"
)

// Editor returns an attribute naming the editor format (sublime, rstudio).
func Editor(e string) slog.Attr {
	return slog.String(KeyEditor, e)
}

// Language returns an attribute for a tree language key.
func Language(l string) slog.Attr {
	return slog.String(KeyLanguage, l)
}

// Section returns an attribute for a snippet section.
func Section(s string) slog.Attr {
	return slog.String(KeySection, s)
}

// Snippet returns an attribute for a snippet name.
func Snippet(name string) slog.Attr {
	return slog.String(KeySnippet, name)
}

// Path returns an attribute for a file path.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Field returns an attribute naming a missing or malformed field.
func Field(f string) slog.Attr {
	return slog.String(KeyField, f)
}

// Operation returns an attribute for the step being performed.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Err returns an attribute for an error value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

// Count returns an attribute for item counts.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}
