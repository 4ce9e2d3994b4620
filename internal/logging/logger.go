// Package logging defines the structured logger the server components depend
// on, so services and handlers never import a concrete logging backend.
package logging

import "context"

// Logger is a leveled, context-aware structured logger. Variadic args are
// alternating key-value pairs, as in log/slog:
//
//	log.Info(ctx, "chat turn complete", "user_id", userID, "session", sessionID)
type Logger interface {
	// Info records normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn records degraded but recoverable conditions, such as a failed
	// verification mail or an image analysis error during a chat turn.
	Warn(ctx context.Context, msg string, args ...any)

	// Error records failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds the given key-value pairs to every record.
	With(args ...any) Logger
}
