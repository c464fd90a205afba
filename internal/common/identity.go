package common

import "context"

// Identity is the authenticated account bound to a session: the account ID
// used to key persisted predictions plus the name shown by the view layer.
type Identity struct {
	AccountID   string
	DisplayName string
}

type contextKey int

const identityContextKey contextKey = iota

// WithIdentity stores a session identity in the request context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the session identity from context, or nil
// when the request carries no bound session.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey).(*Identity)
	return id
}
