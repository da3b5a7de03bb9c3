// Package log wraps slog with a component name and ledger-specific helpers.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger that remembers which component it belongs to.
type Logger struct {
	*slog.Logger
	component string
	root      slog.Handler
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
	Handler   slog.Handler
}

// DefaultConfig logs text at info level to stdout.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Output:    os.Stdout,
	}
}

// New builds a logger. An explicit Handler wins over Level and Output.
func New(cfg Config) *Logger {
	handler := cfg.Handler
	if handler == nil {
		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level})
	}
	component := cfg.Component
	if component == "" {
		component = ComponentApp
	}
	return &Logger{
		Logger:    slog.New(handler).With(FieldComponent, component),
		component: component,
		root:      handler,
	}
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), component: l.component, root: l.root}
}

// WithComponent returns a logger on the same handler tagged with another
// component. Attributes added with With are not carried over.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    slog.New(l.root).With(FieldComponent, component),
		component: component,
		root:      l.root,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// Mutation logs a successful state change with its operation name.
func (l *Logger) Mutation(ctx context.Context, op string, args ...any) {
	l.InfoContext(ctx, "Ledger updated", append([]any{FieldOperation, op}, args...)...)
}

// Failure logs an error together with the operation that produced it.
func (l *Logger) Failure(ctx context.Context, msg, op string, err error, args ...any) {
	l.ErrorContext(ctx, msg, append([]any{FieldOperation, op, FieldError, err}, args...)...)
}

// SetDefault installs logger as the process-wide slog default.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

// Default wraps the current slog default.
func Default() *Logger {
	h := slog.Default().Handler()
	return &Logger{Logger: slog.New(h), component: ComponentApp, root: h}
}
