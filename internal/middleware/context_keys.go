package middleware

import "context"

// actorIDKey and orgIDKey carry the authenticated actor and organization through
// the request context. They are set by AuthMiddleware.
const (
	actorIDKey = contextKey("actorID")
	orgIDKey   = contextKey("orgID")
)

// GetActorIDFromCtx retrieves the authenticated actor (user) ID.
func GetActorIDFromCtx(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(actorIDKey).(string)
	return actorID, ok
}

// GetOrgIDFromCtx retrieves the organization the request is scoped to.
func GetOrgIDFromCtx(ctx context.Context) (string, bool) {
	orgID, ok := ctx.Value(orgIDKey).(string)
	return orgID, ok
}

// WithAuthContext returns a context carrying actor and org IDs. Used by the auth
// middleware and by tests.
func WithAuthContext(ctx context.Context, actorID string, orgID string) context.Context {
	ctx = context.WithValue(ctx, actorIDKey, actorID)
	return context.WithValue(ctx, orgIDKey, orgID)
}
