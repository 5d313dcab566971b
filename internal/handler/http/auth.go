package http

import (
	"encoding/json"
	"net/http"

	"github.com/authsphere/authsphere-backend-go/internal/domain/auth"
	"github.com/authsphere/authsphere-backend-go/internal/handler/http/response"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/jwt"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/oauth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
	ResendVerification(w http.ResponseWriter, r *http.Request)
	GoogleLogin(w http.ResponseWriter, r *http.Request)
	GoogleCallback(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService   auth.Service
	jwtService    jwt.Service
	googleService oauth.GoogleService
}

func NewAuthHandler(authService auth.Service, jwtService jwt.Service, googleService oauth.GoogleService) AuthHandler {
	return &authHandlerImpl{
		authService:   authService,
		jwtService:    jwtService,
		googleService: googleService,
	}
}

func sessionInfo(r *http.Request) auth.SessionInfo {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return auth.SessionInfo{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

func (h *authHandlerImpl) writeLogin(w http.ResponseWriter, result auth.LoginResponse) {
	http.SetCookie(w, h.jwtService.RefreshTokenCookie(result.RefreshToken, result.RefreshTokenExpiresAt))
	response.Success(w, result)
}

// Register implements AuthHandler.
func (h *authHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result.User)
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req, sessionInfo(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.writeLogin(w, result)
}

// VerifyEmail implements AuthHandler.
func (h *authHandlerImpl) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.BadRequest(w, "Query parameter 'token' is required", nil)
		return
	}

	if err := h.authService.VerifyEmail(r.Context(), token); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "email verified", nil)
}

// ResendVerification implements AuthHandler.
func (h *authHandlerImpl) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req auth.ResendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.authService.ResendVerification(r.Context(), req.Email); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "verification email sent if the account exists", nil)
}

// GoogleLogin implements AuthHandler. Redirects the browser to Google's
// consent screen.
func (h *authHandlerImpl) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := h.googleService.GenerateState(r.UserAgent())
	http.Redirect(w, r, h.googleService.RedirectURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback implements AuthHandler.
func (h *authHandlerImpl) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		response.BadRequest(w, "Query parameter 'code' is required", nil)
		return
	}

	result, err := h.authService.LoginWithGoogle(r.Context(), code, sessionInfo(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.writeLogin(w, result)
}

// RefreshToken implements AuthHandler. The refresh token travels in an
// http-only cookie, never in the response body.
func (h *authHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.Unauthorized(w, "Refresh token cookie is missing")
		return
	}

	result, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.writeLogin(w, result)
}

// Logout implements AuthHandler. Revokes the refresh token and expires the
// cookie.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		h.jwtService.RevokeToken(cookie.Value)
	}

	expired := h.jwtService.RefreshTokenCookie("", 0)
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	response.SuccessWithMessage(w, "logged out", nil)
}
