// Package requestcontext carries per-request identifiers through context so
// handlers and services can correlate logs and audit events without
// threading extra parameters.
package requestcontext

import "context"

type contextKey string

const (
	keyRequestID contextKey = "request_id"
	keyActor     contextKey = "actor"
)

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// RequestID returns the request id, or "" when none was set.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(keyRequestID).(string)
	return v
}

// WithActor returns a context carrying the acting party identifier
// (principal, relying party, or orchestrator id).
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, keyActor, actor)
}

// Actor returns the acting party identifier, or "" when none was set.
func Actor(ctx context.Context) string {
	v, _ := ctx.Value(keyActor).(string)
	return v
}
