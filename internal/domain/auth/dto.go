package auth

import (
	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "a valid email is required",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// SessionInfo captures where a login came from, for the login history.
type SessionInfo struct {
	IPAddress string
	UserAgent string
}

// LoginResponse carries the token pair plus the signed-in user.
type LoginResponse struct {
	AccessToken           string        `json:"access_token"`
	AccessTokenExpiresAt  int64         `json:"access_token_expires_at"`
	RefreshToken          string        `json:"-"`
	RefreshTokenExpiresAt int64         `json:"-"`
	User                  user.Response `json:"user"`
}

// RegisterResponse is returned after a successful registration; the account
// stays unusable until the verification link is followed.
type RegisterResponse struct {
	User    user.Response `json:"user"`
	Message string        `json:"message"`
}
