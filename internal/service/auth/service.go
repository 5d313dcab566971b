package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/auth"
	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/email"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/jwt"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/oauth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const verificationTokenTTL = 24 * time.Hour

type AuthServiceImpl struct {
	repo          user.Repository
	loginRepo     user.LoginHistoryRepository
	jwtService    jwt.Service
	emailService  email.Service
	googleService oauth.GoogleService
	frontendURL   string
	logger        *slog.Logger

	now func() time.Time
}

func NewAuthService(
	repo user.Repository,
	loginRepo user.LoginHistoryRepository,
	jwtService jwt.Service,
	emailService email.Service,
	googleService oauth.GoogleService,
	frontendURL string,
	logger *slog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		repo:          repo,
		loginRepo:     loginRepo,
		jwtService:    jwtService,
		emailService:  emailService,
		googleService: googleService,
		frontendURL:   frontendURL,
		logger:        logger,
		now:           time.Now,
	}
}

func identityOf(u user.User) user.Identity {
	return user.Identity{
		ID:        u.ID,
		Role:      u.Role,
		ManagerID: u.ManagerID,
	}
}

func (s *AuthServiceImpl) sendVerification(u user.User, token string, expiresAt time.Time) {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)
	if err := s.emailService.SendVerification(u.Email, u.Name, link, expiresAt.Format(time.RFC1123)); err != nil {
		s.logger.Warn("failed to send verification email",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
	}
}

// Register implements auth.Service. The account starts unverified and cannot
// log in until the emailed token is redeemed.
func (s *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.RegisterResponse{}, err
	}

	role := user.RoleUser
	if req.Role != "" {
		role = user.Role(req.Role)
	}
	if role == user.RoleAdmin || !role.Valid() {
		return auth.RegisterResponse{}, user.ErrInvalidRole
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return auth.RegisterResponse{}, err
	}
	if existing != nil {
		return auth.RegisterResponse{}, user.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.RegisterResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	token := uuid.NewString()
	expiresAt := s.now().Add(verificationTokenTTL)

	created, err := s.repo.Create(ctx, user.User{
		Name:                       req.Name,
		Email:                      req.Email,
		PasswordHash:               string(hash),
		Role:                       role,
		EmailVerificationToken:     &token,
		EmailVerificationExpiresAt: &expiresAt,
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	s.sendVerification(created, token, expiresAt)

	return auth.RegisterResponse{
		User:    user.ToResponse(created),
		Message: "registration successful, please verify your email",
	}, nil
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionInfo) (auth.LoginResponse, error) {
	accessToken, accessExp, err := s.jwtService.GenerateAccessToken(identityOf(u), u.Email)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExp, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.loginRepo.Create(ctx, user.LoginHistory{
		UserID:    u.ID,
		LoggedAt:  s.now().UTC(),
		IPAddress: session.IPAddress,
		UserAgent: session.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record login",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
	}

	return auth.LoginResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExp,
		User:                  user.ToResponse(u),
	}, nil
}

// Login implements auth.Service.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionInfo) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if u == nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if !u.EmailVerified {
		return auth.LoginResponse{}, auth.ErrEmailNotVerified
	}

	return s.issueTokens(ctx, *u, session)
}

// VerifyEmail implements auth.Service.
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	u, err := s.repo.GetByVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if u == nil {
		return auth.ErrVerificationTokenInvalid
	}
	if u.EmailVerificationExpiresAt == nil || s.now().After(*u.EmailVerificationExpiresAt) {
		return auth.ErrVerificationTokenInvalid
	}

	u.EmailVerified = true
	u.EmailVerificationToken = nil
	u.EmailVerificationExpiresAt = nil

	_, err = s.repo.Update(ctx, *u)
	return err
}

// ResendVerification implements auth.Service. An unknown email reports
// success so the endpoint cannot be used to probe for accounts.
func (s *AuthServiceImpl) ResendVerification(ctx context.Context, emailAddr string) error {
	u, err := s.repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}
	if u.EmailVerified {
		return auth.ErrEmailAlreadyVerified
	}

	token := uuid.NewString()
	expiresAt := s.now().Add(verificationTokenTTL)
	u.EmailVerificationToken = &token
	u.EmailVerificationExpiresAt = &expiresAt

	updated, err := s.repo.Update(ctx, *u)
	if err != nil {
		return err
	}

	s.sendVerification(updated, token, expiresAt)

	return nil
}

// LoginWithGoogle implements auth.Service. Sign-in only: the account must
// already exist and the Google email must be verified on Google's side.
func (s *AuthServiceImpl) LoginWithGoogle(ctx context.Context, code string, session auth.SessionInfo) (auth.LoginResponse, error) {
	token, err := s.googleService.Exchange(ctx, code)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	account, err := s.googleService.FetchUser(ctx, token)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to fetch google account: %w", err)
	}
	if !account.VerifiedEmail {
		return auth.LoginResponse{}, auth.ErrOAuthAccountNotFound
	}

	u, err := s.repo.GetByEmail(ctx, account.Email)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if u == nil {
		return auth.LoginResponse{}, auth.ErrOAuthAccountNotFound
	}

	// Google has vouched for the address; a pending local verification is
	// redundant at this point.
	if !u.EmailVerified {
		u.EmailVerified = true
		u.EmailVerificationToken = nil
		u.EmailVerificationExpiresAt = nil
		updated, err := s.repo.Update(ctx, *u)
		if err != nil {
			return auth.LoginResponse{}, err
		}
		u = &updated
	}

	return s.issueTokens(ctx, *u, session)
}

// Refresh implements auth.Service. The used refresh token is revoked; each
// exchange hands out a fresh pair.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	if s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	decoded, err := s.jwtService.JWTAuth().Decode(refreshToken)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	claims, err := decoded.AsMap(ctx)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	accessToken, accessExp, err := s.jwtService.GenerateAccessToken(identityOf(u), u.Email)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, refreshExp, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.jwtService.RevokeToken(refreshToken)

	return auth.LoginResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresAt: refreshExp,
		User:                  user.ToResponse(u),
	}, nil
}
