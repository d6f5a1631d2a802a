package logger

import (
	"context"

	"github.com/google/uuid"
)

type correlationIDKey struct{}

// WithCorrelationID attaches id to ctx so every entry logged for one CLI
// invocation can be grouped.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID extracts the correlation ID from ctx, or "" when none is set.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// NewCorrelationID returns a random UUIDv4 string.
func NewCorrelationID() string {
	return uuid.NewString()
}

// WithContext returns a logger carrying the correlation ID stored in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if l == nil {
		return nil
	}
	id := CorrelationID(ctx)
	if id == "" {
		return l
	}
	derived := Logger{base: l.base.With().Str("correlation_id", id).Logger()}
	return &derived
}
