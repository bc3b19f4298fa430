// Package logging defines the structured logging interface the services
// and HTTP layer log through, decoupling them from a concrete backend.
package logging

import "context"

// Logger logs leveled, structured messages. The variadic args are
// alternating key-value pairs:
//
//	log.Info(ctx, "pdf attached", "nocId", id, "url", url)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs.
	With(args ...any) Logger
}
