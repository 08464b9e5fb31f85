package auth

import "context"

// Identity is the minimal authenticated principal derived from a verified
// session token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IsZero reports whether no identity was resolved for the request.
func (i Identity) IsZero() bool {
	return i.ID == ""
}

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity stores the resolved identity on the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil || identity.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity resolved by the session middleware,
// or the zero Identity when the request is unauthenticated.
func IdentityFromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	if identity, ok := ctx.Value(identityKey).(Identity); ok {
		return identity
	}
	return Identity{}
}
