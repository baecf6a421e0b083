package auth

import (
	"context"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Identity is what the middleware extracts from a verified token.
type Identity struct {
	UserID string
	Role   user.Role
}

type contextKey struct{}

// NewContext stashes an identity on the request context.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity placed by the middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
