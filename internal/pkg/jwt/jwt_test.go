package jwt

import (
	"context"
	"testing"

	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestAccessTokenIdentityRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	managerID := "mgr-1"
	identity := user.Identity{ID: "user-1", Role: user.RoleUser, ManagerID: &managerID}

	tokenString, expiresAt, err := svc.GenerateAccessToken(identity, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, int64(0))

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)
	got, err := IdentityFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestAccessTokenWithoutManager(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	identity := user.Identity{ID: "admin-1", Role: user.RoleAdmin}
	tokenString, _, err := svc.GenerateAccessToken(identity, "admin@example.com")
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	got, err := IdentityFromContext(jwtauth.NewContext(context.Background(), token, nil))
	require.NoError(t, err)
	assert.Nil(t, got.ManagerID)
	assert.Equal(t, user.RoleAdmin, got.Role)
}

func TestIdentityFromContextMissingClaims(t *testing.T) {
	_, err := IdentityFromContext(context.Background())
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))
}
