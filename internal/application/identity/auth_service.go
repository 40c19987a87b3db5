package identity

import (
	"context"
	"errors"
	"time"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/identity"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/auth"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains the login lockout policy
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	recorder   *appaudit.Recorder
	config     AuthServiceConfig
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	recorder *appaudit.Recorder,
	config AuthServiceConfig,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		recorder:   recorder,
		config:     config,
	}
}

// Login checks credentials and issues a token pair. Unknown emails and wrong
// passwords get the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.L(ctx)
	actor := shared.ActorFromContext(ctx)

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if shared.IsNotFound(err) {
			log.Warn("Login attempt for unknown email", zap.String("email", req.Email))
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !user.IsActive() {
		log.Warn("Login attempt for disabled account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewUnauthorizedError("ACCOUNT_DISABLED", "Account has been disabled")
	}
	if user.IsLocked() {
		log.Warn("Login attempt for locked account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewUnauthorizedError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			log.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			log.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewUnauthorizedError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		return nil, invalidCredentials()
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess(actor.IPAddress)
	if err := s.userRepo.Save(ctx, user); err != nil {
		log.Error("Failed to update user after successful login", zap.Error(err))
	}

	// The request carries no actor yet; record the login for the user who just authenticated.
	ctx = shared.WithActor(ctx, shared.Actor{
		UserID:    &user.ID,
		Email:     user.Email,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	})
	s.recorder.Record(ctx, audit.ActionLogin, audit.EntityUser, user.ID, nil)
	log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &LoginResponse{
		TokenResponse: toTokenResponse(pair),
		User:          ToUserResponse(user),
	}, nil
}

// Refresh exchanges a refresh token for a new pair. The used refresh token is
// revoked, so each one works once.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewUnauthorizedError("TOKEN_INVALID", "Invalid user ID in token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewUnauthorizedError("TOKEN_INVALID", "User no longer exists")
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewUnauthorizedError("ACCOUNT_DISABLED", "Account is no longer active")
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		logger.L(ctx).Error("Failed to revoke used refresh token", zap.Error(err))
	}

	response := toTokenResponse(pair)
	return &response, nil
}

// Logout revokes the access token until it expires, and the refresh token when given
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, req LogoutRequest) error {
	if err := s.blacklist.AddToBlacklist(ctx, access.ID, access.RemainingTTL()); err != nil {
		return err
	}
	if req.RefreshToken != "" {
		if refresh, err := s.jwtService.ValidateRefreshToken(req.RefreshToken); err == nil && refresh.UserID == access.UserID {
			if err := s.blacklist.AddToBlacklist(ctx, refresh.ID, refresh.RemainingTTL()); err != nil {
				logger.L(ctx).Warn("Failed to revoke refresh token on logout", zap.Error(err))
			}
		}
	}

	userID, _ := access.UserUUID()
	s.recorder.Record(ctx, audit.ActionLogout, audit.EntityUser, userID, nil)
	logger.L(ctx).Info("User logged out", zap.String("user_id", access.UserID))
	return nil
}

// ValidateAccessToken checks signature, expiry and revocation of an access token.
// Used by the authentication middleware.
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context) (*UserResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the caller's password and revokes their other sessions
func (s *AuthService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	if err := s.blacklist.InvalidateUser(ctx, user.ID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
		logger.L(ctx).Error("Failed to revoke sessions after password change", zap.Error(err))
	}
	s.recorder.Record(ctx, audit.ActionUpdate, audit.EntityUser, user.ID, map[string]any{"password_changed": true})
	return nil
}

func (s *AuthService) issue(user *identity.User) (*auth.TokenPair, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        string(user.Role),
		Permissions: user.EffectivePermissions(),
	})
	if err != nil {
		return nil, shared.NewDomainError(shared.KindInternal, "TOKEN_ERROR", "Failed to generate authentication tokens")
	}
	return pair, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return shared.NewUnauthorizedError("TOKEN_REVOKED", "Token has been revoked")
	}
	return nil
}

func toTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

func invalidCredentials() error {
	return shared.NewUnauthorizedError("INVALID_CREDENTIALS", "Invalid email or password")
}

func tokenError(err error) error {
	if errors.Is(err, auth.ErrExpiredToken) {
		return shared.NewUnauthorizedError("TOKEN_EXPIRED", "Token has expired")
	}
	return shared.NewUnauthorizedError("TOKEN_INVALID", "Invalid token")
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	actor := shared.ActorFromContext(ctx)
	if actor.UserID == nil {
		return uuid.Nil, shared.NewUnauthorizedError("UNAUTHORIZED", "Authentication required")
	}
	return *actor.UserID, nil
}
