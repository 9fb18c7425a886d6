package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/uasphere/uas-backend/internal/app/models"
	"github.com/uasphere/uas-backend/internal/app/models/dto"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
	"github.com/uasphere/uas-backend/internal/pkg/auth"
	"github.com/uasphere/uas-backend/internal/pkg/email"
	"github.com/uasphere/uas-backend/internal/pkg/validation"
)

// UserRepository defines the user store operations the services need
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByLoginID(ctx context.Context, loginID string) (*models.User, error)
	LoginIDExists(ctx context.Context, loginID string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error
	UpdateLoginID(ctx context.Context, userID int64, newLoginID string) error
	UpdateProfile(ctx context.Context, userID int64, fields map[string]interface{}) error
}

// TokenRepository defines the refresh token store operations the services need
type TokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// AuthService defines the interface for account and session operations
type AuthService interface {
	Register(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshSession(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	RecoverPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	RecoverLoginID(ctx context.Context, req *dto.ForgotLoginIDRequest) error
	UpdateAccount(ctx context.Context, userID int64, req *dto.UpdateAccountRequest) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, userID int64) (*dto.AccountResponse, error)
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo     UserRepository
	tokenRepo    TokenRepository
	jwtService   *auth.JWTService
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
		emailService: emailService,
		logger:       logger,
	}
}

// Register creates a new account and opens its first session
func (s *authServiceImpl) Register(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := validation.ValidLoginID(req.LoginID); err != nil {
		return nil, err
	}
	if err := validation.ValidPassword(req.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidName("first name", req.FirstName); err != nil {
		return nil, err
	}
	if err := validation.ValidName("last name", req.LastName); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	exists, err := s.userRepo.LoginIDExists(ctx, req.LoginID)
	if err != nil {
		return nil, fmt.Errorf("error checking if login ID exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrLoginIDExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		LoginID:   strings.TrimSpace(req.LoginID),
		Password:  hashedPassword,
		Role:      req.Role,
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	userID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("user creation error: %w", err)
	}
	user.ID = userID

	// Notification failure never fails the registration.
	if err := s.emailService.SendWelcomeEmail(user.Email, user.FirstName, user.LoginID); err != nil {
		s.logger.Warn().Err(err).Str("loginID", user.LoginID).Msg("Failed to send welcome email")
	}

	token, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.SignupResponse{
		Account: accountResponse(user),
		Token:   *token,
	}, nil
}

// Login authenticates a user. The requested role must match the stored one.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if err := validation.ValidLoginID(req.LoginID); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}
	if !req.Role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	user, err := s.userRepo.GetUserByLoginID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Role != req.Role {
		return nil, apperrors.ErrRoleMismatch
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login time")
	}

	return s.generateTokenResponse(ctx, user)
}

// Logout revokes the refresh token. Logging out an already closed session
// is not an error.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apperrors.ErrTokenInvalid
	}

	err := s.tokenRepo.RevokeToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil
		}
		return fmt.Errorf("error revoking token: %w", err)
	}

	return nil
}

// RefreshSession rotates a refresh token and issues a new token pair
func (s *authServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTokenNotFound, apperrors.ErrTokenExpired, apperrors.ErrTokenRevoked) {
			return nil, err
		}
		return nil, fmt.Errorf("token validation error: %w", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	// Rotation: the old token must not be reusable.
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateTokenResponse(ctx, user)
}

// RecoverPassword resets the credential for a login ID and closes all sessions
func (s *authServiceImpl) RecoverPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	if err := validation.ValidLoginID(req.LoginID); err != nil {
		return err
	}
	if err := validation.ValidPassword(req.NewPassword); err != nil {
		return err
	}
	if !req.Role.Valid() {
		return apperrors.ErrInvalidRole
	}

	user, err := s.userRepo.GetUserByLoginID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrInvalidCredentials
		}
		return fmt.Errorf("error looking up user: %w", err)
	}

	if user.Role != req.Role {
		return apperrors.ErrRoleMismatch
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	// Every open session becomes invalid after a reset.
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to revoke sessions after password reset")
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, user.FirstName); err != nil {
		s.logger.Warn().Err(err).Str("loginID", user.LoginID).Msg("Failed to send password reset email")
	}

	return nil
}

// RecoverLoginID changes the login identifier after password re-authentication
func (s *authServiceImpl) RecoverLoginID(ctx context.Context, req *dto.ForgotLoginIDRequest) error {
	if err := validation.ValidLoginID(req.CurrentLoginID); err != nil {
		return err
	}
	if err := validation.ValidNewLoginID(req.NewLoginID); err != nil {
		return err
	}
	if req.Password == "" {
		return fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}
	if !req.Role.Valid() {
		return apperrors.ErrInvalidRole
	}

	user, err := s.userRepo.GetUserByLoginID(ctx, req.CurrentLoginID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrInvalidCredentials
		}
		return fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return apperrors.ErrInvalidCredentials
	}

	if user.Role != req.Role {
		return apperrors.ErrRoleMismatch
	}

	newLoginID := strings.TrimSpace(req.NewLoginID)
	if err := s.userRepo.UpdateLoginID(ctx, user.ID, newLoginID); err != nil {
		return fmt.Errorf("error updating login ID: %w", err)
	}

	// Access tokens carry the login ID in their claims, so existing
	// sessions are closed.
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to revoke sessions after login ID change")
	}

	if err := s.emailService.SendLoginIDChangedEmail(user.Email, user.FirstName, newLoginID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send login ID changed email")
	}

	return nil
}

// UpdateAccount applies a partial account update after password re-authentication
func (s *authServiceImpl) UpdateAccount(ctx context.Context, userID int64, req *dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	if req.CurrentPassword == "" {
		return nil, fmt.Errorf("%w: current password cannot be empty", apperrors.ErrValidationFailed)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return nil, apperrors.ErrInvalidCredentials
	}

	fields := map[string]interface{}{}
	passwordChanged := false

	if req.NewPassword != nil {
		if err := validation.ValidPassword(*req.NewPassword); err != nil {
			return nil, err
		}
		hashedPassword, err := auth.HashPassword(*req.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		fields["password"] = hashedPassword
		passwordChanged = true
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperrors.ErrInvalidRole
		}
		fields["role"] = *req.Role
		user.Role = *req.Role
	}
	if req.Email != nil {
		if err := validation.ValidEmail(*req.Email); err != nil {
			return nil, err
		}
		fields["email"] = strings.TrimSpace(*req.Email)
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.FirstName != nil {
		if err := validation.ValidName("first name", *req.FirstName); err != nil {
			return nil, err
		}
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if err := validation.ValidName("last name", *req.LastName); err != nil {
			return nil, err
		}
		fields["last_name"] = strings.TrimSpace(*req.LastName)
		user.LastName = strings.TrimSpace(*req.LastName)
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, fmt.Errorf("error updating account: %w", err)
	}

	if passwordChanged {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke sessions after password change")
		}
	}

	resp := accountResponse(user)
	return &resp, nil
}

// GetAccount retrieves the account details for a user
func (s *authServiceImpl) GetAccount(ctx context.Context, userID int64) (*dto.AccountResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := accountResponse(user)
	return &resp, nil
}

// PurgeExpiredSessions deletes expired and stale revoked refresh tokens
// and returns how many were removed
func (s *authServiceImpl) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := s.tokenRepo.CleanupExpiredTokens(ctx)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}

	if deleted > 0 {
		s.logger.Info().Int64("deleted", deleted).Msg("Purged expired sessions")
	}
	return deleted, nil
}

// generateTokenResponse creates and persists a token pair for a user
func (s *authServiceImpl) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	tokenExpiry := s.jwtService.GetRefreshTokenExpiry()
	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, tokenExpiry); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}

func accountResponse(user *models.User) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        user.ID,
		LoginID:   user.LoginID,
		Role:      string(user.Role),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
