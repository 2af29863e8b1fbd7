package context

import (
	"context"

	"miniblog/internal/domain/entity"
)

// WithIdentity returns a new context carrying the verified caller identity.
func WithIdentity(ctx context.Context, identity entity.Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, identity)
}

// IdentityFrom returns the caller identity stored by the authentication guard.
func IdentityFrom(ctx context.Context) (entity.Identity, bool) {
	identity, ok := ctx.Value(KeyIdentity).(entity.Identity)

	return identity, ok
}
