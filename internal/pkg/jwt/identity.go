package jwt

import (
	"context"
	"fmt"

	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// IdentityFromContext reads the verified token claims placed in the request
// context by the jwtauth middleware and rebuilds the caller identity the
// services operate on.
func IdentityFromContext(ctx context.Context) (user.Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Identity{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Identity{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	roleStr, ok := claims["role"].(string)
	role := user.Role(roleStr)
	if !ok || !role.Valid() {
		return user.Identity{}, fmt.Errorf("role claim is missing or invalid")
	}

	identity := user.Identity{ID: userID, Role: role}
	if managerID, ok := claims["manager_id"].(string); ok && managerID != "" {
		identity.ManagerID = &managerID
	}

	return identity, nil
}
