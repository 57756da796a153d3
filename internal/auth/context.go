package auth

import "context"

type ctxKey string

const actorKey ctxKey = "actor_id"

// WithActor records who performs a mutation; movements persist it verbatim.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// GetActor returns the acting user id, or "" when the mutation is
// system-initiated (e.g. the order event listener).
func GetActor(ctx context.Context) string {
	if val, ok := ctx.Value(actorKey).(string); ok {
		return val
	}
	return ""
}
