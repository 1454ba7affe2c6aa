// server/internal/auth/gate.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"medcamp-api-server/internal/models"
	"medcamp-api-server/internal/store"
)

// Gate resolves roles against the users collection. Roles are never read
// from the token: every check costs one lookup so a role change applies to
// the next request.
type Gate struct {
	users store.Collection
}

func NewGate(users store.Collection) *Gate {
	return &Gate{users: users}
}

// IsAdmin looks up the identity named by claims and reports whether it holds
// the admin role. A missing identity is not an error.
func (g *Gate) IsAdmin(ctx context.Context, claims Claims) (bool, error) {
	email := claims.Email()
	if email == "" {
		return false, nil
	}

	var user models.User
	err := g.users.FindOne(ctx, bson.M{"email": email}, &user)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup role for %s: %w", email, err)
	}
	return user.IsAdmin(), nil
}

// RequireAdmin fails with ErrForbidden unless the caller is an admin.
func (g *Gate) RequireAdmin(ctx context.Context, claims Claims) error {
	ok, err := g.IsAdmin(ctx, claims)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// RequireSelf fails with ErrForbidden when the caller asks about an identity
// other than its own.
func RequireSelf(claims Claims, email string) error {
	if claims.Email() == "" || claims.Email() != email {
		return ErrForbidden
	}
	return nil
}
