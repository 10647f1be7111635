package logger

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

type contextKey int

const (
	loggerKey contextKey = iota
	fieldsKey
)

// requestFields is shared by every context derived from the one WithRequest returned, so
// attributes annotated deep in the handler chain are visible to the middleware that opened it.
type requestFields struct {
	mu    sync.Mutex
	attrs []any
}

// WithRequest opens a collection point for Annotate. Calling it again on the same chain is a no-op.
func WithRequest(ctx context.Context) context.Context {
	if _, ok := ctx.Value(fieldsKey).(*requestFields); ok {
		return ctx
	}
	return context.WithValue(ctx, fieldsKey, &requestFields{})
}

// Annotate records key/value pairs on the enclosing request. Without one it falls back to With.
func Annotate(ctx context.Context, args ...any) context.Context {
	rf, ok := ctx.Value(fieldsKey).(*requestFields)
	if !ok {
		return With(ctx, args...)
	}
	rf.mu.Lock()
	rf.attrs = append(rf.attrs, args...)
	rf.mu.Unlock()
	return ctx
}

// Fields returns what has been annotated on the enclosing request so far.
func Fields(ctx context.Context) []any {
	rf, ok := ctx.Value(fieldsKey).(*requestFields)
	if !ok {
		return nil
	}
	rf.mu.Lock()
	defer rf.mu.Unlock()
	return slices.Clone(rf.attrs)
}

// With scopes fields to ctx and its children only.
func With(ctx context.Context, fields ...any) context.Context {
	l := scoped(ctx).With(fields...)
	return context.WithValue(ctx, loggerKey, l)
}

// From returns the logger for ctx with the request annotations applied.
func From(ctx context.Context) *slog.Logger {
	l := scoped(ctx)
	if attrs := Fields(ctx); len(attrs) > 0 {
		l = l.With(attrs...)
	}
	return l
}

func scoped(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
