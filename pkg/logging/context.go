package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// WithLogger returns a copy of ctx carrying the given logger.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*zerolog.Logger); ok {
		return logger
	}
	return Default()
}
