// Package logger builds the application slog.Logger: a console or JSON
// handler on stdout, optionally fanned out to Fluent Bit.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"
)

type Config struct {
	Writer    io.Writer
	Level     slog.Leveler
	Format    string // "text", "json" or "color"
	AddSource bool

	FluentEnabled bool
	FluentHost    string
	FluentPort    int
	FluentTag     string
	FluentLevel   slog.Leveler
}

// ParseLevel maps LOG_LEVEL values to slog levels, defaulting to info.
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

// New returns the logger and a closer that flushes the Fluent Bit client
// when one was opened.
func New(cfg Config) (*slog.Logger, func() error, error) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	handlers := []slog.Handler{consoleHandler(cfg)}
	closer := func() error { return nil }

	if cfg.FluentEnabled {
		if cfg.FluentTag == "" {
			return nil, nil, errors.New("fluent tag prefix is required")
		}
		client, err := fluent.New(fluent.Config{
			FluentHost: cfg.FluentHost,
			FluentPort: cfg.FluentPort,
			TagPrefix:  cfg.FluentTag,
			Async:      true,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create fluentd logger: %w", err)
		}
		level := cfg.FluentLevel
		if level == nil {
			level = cfg.Level
		}
		handlers = append(handlers, NewFluentHandler(client, level))
		closer = client.Close
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), closer, nil
	}
	return slog.New(NewMultiHandler(handlers...)), closer, nil
}

func consoleHandler(cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{AddSource: cfg.AddSource, Level: cfg.Level}
	switch cfg.Format {
	case "json":
		return slog.NewJSONHandler(cfg.Writer, opts)
	case "color":
		return tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	default:
		return slog.NewTextHandler(cfg.Writer, opts)
	}
}

// Discard is a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type ctxKey struct{}

func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
