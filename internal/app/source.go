package app

import (
	"context"
	"strings"
)

// Source names the surface a gesture arrived from.
type Source string

// Source values.
const (
	SourceTUI  Source = "tui"
	SourceHTTP Source = "http"
	SourceMCP  Source = "mcp"
	SourceCLI  Source = "cli"
)

// WithSource attaches a normalized gesture source to context.
func WithSource(ctx context.Context, source Source) context.Context {
	return context.WithValue(ctx, sourceContextKey{}, normalizeSource(source))
}

// SourceFromContext returns the gesture source when present.
func SourceFromContext(ctx context.Context) (Source, bool) {
	source, ok := ctx.Value(sourceContextKey{}).(Source)
	if !ok || source == "" {
		return "", false
	}
	return source, true
}

// sourceContextKey stores context keys for gesture sources.
type sourceContextKey struct{}

// normalizeSource trims and lowercases source names; unknown names are kept
// so adapters can label themselves.
func normalizeSource(source Source) Source {
	return Source(strings.ToLower(strings.TrimSpace(string(source))))
}

func sourceLabel(ctx context.Context) string {
	if source, ok := SourceFromContext(ctx); ok {
		return string(source)
	}
	return "unknown"
}
