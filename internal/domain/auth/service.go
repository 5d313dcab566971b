package auth

import (
	"context"
)

// Service handles registration, login, and email verification.
type Service interface {
	// Register creates an account with the user or manager role (admin is
	// never self-service) and sends a verification email.
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)

	// Login checks credentials, requires a verified email, records the
	// sign-in, and returns a token pair.
	Login(ctx context.Context, req LoginRequest, session SessionInfo) (LoginResponse, error)

	// VerifyEmail redeems a verification token.
	VerifyEmail(ctx context.Context, token string) error

	// ResendVerification issues a fresh token for an unverified account.
	ResendVerification(ctx context.Context, email string) error

	// LoginWithGoogle signs in an existing account matched by the verified
	// Google email. Accounts are never auto-created from OAuth.
	LoginWithGoogle(ctx context.Context, code string, session SessionInfo) (LoginResponse, error)

	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
}
