package contextutil

import "context"

// Identity is the authenticated caller, as resolved by the HTTP middleware.
type Identity struct {
	UserID string
	OrgID  string
}

const identityKey contextKey = "identity"

// WithIdentity returns a context carrying the caller's identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the caller's identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
