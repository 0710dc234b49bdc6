package domain

import (
	"context"
	"fmt"
)

// Identity is the caller established from a verified bearer token. It lives
// only for the duration of a request.
type Identity struct {
	Subject string
	Role    Role
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the authentication
// middleware, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok {
		return nil
	}
	return &id
}

// RequireRole fails with ErrAccessDenied unless id is present and holds the
// required role.
func RequireRole(id *Identity, required Role) error {
	if id == nil {
		return fmt.Errorf("%w: no authenticated identity", ErrAccessDenied)
	}
	if id.Role != required {
		return fmt.Errorf("%w: role %s required", ErrAccessDenied, required)
	}
	return nil
}
