package app

import (
	"context"
	"io"

	charmLog "github.com/charmbracelet/log"

	"github.com/hylla/laneboard/internal/board"
)

// SeedLoader supplies the initial board content.
type SeedLoader interface {
	LoadSeed(context.Context) (board.Seed, error)
}

// SeedLoaderFunc adapts a function to SeedLoader.
type SeedLoaderFunc func(context.Context) (board.Seed, error)

// LoadSeed calls f.
func (f SeedLoaderFunc) LoadSeed(ctx context.Context) (board.Seed, error) {
	return f(ctx)
}

// Logger receives service diagnostics as structured key/value pairs.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// charmLogger adapts a charm logger to Logger.
type charmLogger struct {
	l *charmLog.Logger
}

// NewCharmLogger wraps l so it can be handed to the service.
func NewCharmLogger(l *charmLog.Logger) Logger {
	if l == nil {
		l = charmLog.New(io.Discard)
	}
	return charmLogger{l: l}
}

func (c charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }
