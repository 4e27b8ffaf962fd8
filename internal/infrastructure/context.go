package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

// TraceIDContextKey holds the request or cycle id that log records carry as
// trace_id.
const TraceIDContextKey contextKey = "trace_id"

// GenerateTraceID returns a random UUID v4.
func GenerateTraceID() string {
	return uuid.NewString()
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID returns the id stored by WithTraceID, or "".
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(TraceIDContextKey).(string)
	return id
}

// EnsureTraceID returns ctx unchanged if it carries an id, otherwise a child
// with a fresh one. Background refresh cycles and websocket clients use it.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, GenerateTraceID())
}

// LoggerFromContext is the global logger, tagged with ctx's trace id when
// there is one.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if id := GetTraceID(ctx); id != "" {
		return GetLogger().With(slog.String("trace_id", id))
	}
	return GetLogger()
}

// WithComponent tags logger with a component name. A nil logger means the
// global one.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}
