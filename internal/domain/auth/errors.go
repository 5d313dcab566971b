package auth

import "errors"

var (
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInvalidToken             = errors.New("invalid token")
	ErrTokenExpired             = errors.New("token expired")
	ErrEmailNotVerified         = errors.New("email not verified")
	ErrVerificationTokenInvalid = errors.New("verification token is invalid or expired")
	ErrEmailAlreadyVerified     = errors.New("email already verified")
	ErrOAuthAccountNotFound     = errors.New("no account registered for this google account")
)
