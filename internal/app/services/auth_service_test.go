package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/uasphere/uas-backend/internal/app/models"
	"github.com/uasphere/uas-backend/internal/app/models/dto"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
	"github.com/uasphere/uas-backend/internal/pkg/auth"
)

type AuthServiceTestSuite struct {
	suite.Suite
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	emails *fakeEmailService
	svc    AuthService
	req    *dto.SignupRequest
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.users = newFakeUserRepo()
	s.tokens = newFakeTokenRepo()
	s.emails = &fakeEmailService{}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})

	s.svc = NewAuthService(s.users, s.tokens, jwtService, s.emails, zerolog.Nop())
	s.req = &dto.SignupRequest{
		LoginID:   "jdoe",
		Password:  "Secret123!",
		Role:      models.RoleUser,
		Email:     "jdoe@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func (s *AuthServiceTestSuite) register() *dto.SignupResponse {
	resp, err := s.svc.Register(context.Background(), s.req)
	s.Require().NoError(err)
	return resp
}

func (s *AuthServiceTestSuite) TestRegister_CreatesAccountAndSession() {
	resp := s.register()

	assert.Equal(s.T(), "jdoe", resp.Account.LoginID)
	assert.Equal(s.T(), "user", resp.Account.Role)
	assert.NotEmpty(s.T(), resp.Token.AccessToken)
	assert.NotEmpty(s.T(), resp.Token.RefreshToken)
	assert.Equal(s.T(), "Bearer", resp.Token.TokenType)
	assert.Equal(s.T(), 1, s.emails.welcomeSent)
	assert.Equal(s.T(), 1, s.tokens.activeCount(resp.Account.ID))
}

func (s *AuthServiceTestSuite) TestRegister_HashesThePassword() {
	resp := s.register()

	user, err := s.users.GetUserByID(context.Background(), resp.Account.ID)
	s.Require().NoError(err)
	assert.NotEqual(s.T(), s.req.Password, user.Password)
	assert.True(s.T(), auth.CheckPassword(user.Password, s.req.Password))
}

func (s *AuthServiceTestSuite) TestRegister_RejectsDuplicateLoginID() {
	s.register()

	dup := *s.req
	dup.Email = "other@example.com"
	_, err := s.svc.Register(context.Background(), &dup)

	assert.ErrorIs(s.T(), err, apperrors.ErrLoginIDExists)
}

func (s *AuthServiceTestSuite) TestRegister_ValidatesInput() {
	tests := []struct {
		name    string
		mutate  func(r *dto.SignupRequest)
		wantErr error
	}{
		{"empty login ID", func(r *dto.SignupRequest) { r.LoginID = "  " }, apperrors.ErrValidationFailed},
		{"short password", func(r *dto.SignupRequest) { r.Password = "short" }, apperrors.ErrInvalidPassword},
		{"bad email", func(r *dto.SignupRequest) { r.Email = "not-an-email" }, apperrors.ErrInvalidEmail},
		{"unknown role", func(r *dto.SignupRequest) { r.Role = "superuser" }, apperrors.ErrInvalidRole},
		{"empty first name", func(r *dto.SignupRequest) { r.FirstName = "" }, apperrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := *s.req
			tt.mutate(&req)
			_, err := s.svc.Register(context.Background(), &req)
			assert.ErrorIs(s.T(), err, tt.wantErr)
		})
	}
}

func (s *AuthServiceTestSuite) TestLogin_ReturnsTokenPair() {
	s.register()

	resp, err := s.svc.Login(context.Background(), &dto.LoginRequest{
		LoginID:  "jdoe",
		Password: "Secret123!",
		Role:     models.RoleUser,
	})

	s.Require().NoError(err)
	assert.NotEmpty(s.T(), resp.AccessToken)
	assert.NotEmpty(s.T(), resp.RefreshToken)
}

func (s *AuthServiceTestSuite) TestLogin_RecordsLastLogin() {
	resp := s.register()

	_, err := s.svc.Login(context.Background(), &dto.LoginRequest{
		LoginID:  "jdoe",
		Password: "Secret123!",
		Role:     models.RoleUser,
	})
	s.Require().NoError(err)

	user, err := s.users.GetUserByID(context.Background(), resp.Account.ID)
	s.Require().NoError(err)
	assert.NotNil(s.T(), user.LastLoginAt)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	s.register()

	_, err := s.svc.Login(context.Background(), &dto.LoginRequest{
		LoginID:  "jdoe",
		Password: "WrongPass1!",
		Role:     models.RoleUser,
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownLoginIDHidesExistence() {
	_, err := s.svc.Login(context.Background(), &dto.LoginRequest{
		LoginID:  "nobody",
		Password: "Secret123!",
		Role:     models.RoleUser,
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_RoleMustMatchStoredRole() {
	s.register()

	_, err := s.svc.Login(context.Background(), &dto.LoginRequest{
		LoginID:  "jdoe",
		Password: "Secret123!",
		Role:     models.RoleAdmin,
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrRoleMismatch)
}

func (s *AuthServiceTestSuite) TestLogout_RevokesRefreshToken() {
	resp := s.register()

	err := s.svc.Logout(context.Background(), resp.Token.RefreshToken)

	s.Require().NoError(err)
	assert.Equal(s.T(), 0, s.tokens.activeCount(resp.Account.ID))
}

func (s *AuthServiceTestSuite) TestLogout_IsIdempotent() {
	resp := s.register()

	s.Require().NoError(s.svc.Logout(context.Background(), resp.Token.RefreshToken))
	assert.NoError(s.T(), s.svc.Logout(context.Background(), resp.Token.RefreshToken))
}

func (s *AuthServiceTestSuite) TestLogout_EmptyToken() {
	err := s.svc.Logout(context.Background(), "  ")

	assert.ErrorIs(s.T(), err, apperrors.ErrTokenInvalid)
}

func (s *AuthServiceTestSuite) TestRefreshSession_RotatesToken() {
	resp := s.register()

	refreshed, err := s.svc.RefreshSession(context.Background(), resp.Token.RefreshToken)
	s.Require().NoError(err)

	assert.NotEqual(s.T(), resp.Token.RefreshToken, refreshed.RefreshToken)

	// The old token must not be reusable.
	_, err = s.svc.RefreshSession(context.Background(), resp.Token.RefreshToken)
	assert.ErrorIs(s.T(), err, apperrors.ErrTokenRevoked)
}

func (s *AuthServiceTestSuite) TestRefreshSession_UnknownToken() {
	_, err := s.svc.RefreshSession(context.Background(), "no-such-token")

	assert.ErrorIs(s.T(), err, apperrors.ErrTokenNotFound)
}

func (s *AuthServiceTestSuite) TestRecoverPassword_ReplacesCredentialAndClosesSessions() {
	resp := s.register()

	err := s.svc.RecoverPassword(context.Background(), &dto.ForgotPasswordRequest{
		LoginID:     "jdoe",
		NewPassword: "NewSecret456!",
		Role:        models.RoleUser,
	})
	s.Require().NoError(err)

	assert.Equal(s.T(), 0, s.tokens.activeCount(resp.Account.ID))
	assert.Equal(s.T(), 1, s.emails.passwordResetSent)

	_, err = s.svc.Login(context.Background(), &dto.LoginRequest{
		LoginID:  "jdoe",
		Password: "NewSecret456!",
		Role:     models.RoleUser,
	})
	assert.NoError(s.T(), err)
}

func (s *AuthServiceTestSuite) TestRecoverPassword_RoleMustMatch() {
	s.register()

	err := s.svc.RecoverPassword(context.Background(), &dto.ForgotPasswordRequest{
		LoginID:     "jdoe",
		NewPassword: "NewSecret456!",
		Role:        models.RoleManager,
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrRoleMismatch)
}

func (s *AuthServiceTestSuite) TestRecoverLoginID_ChangesIdentifierAndClosesSessions() {
	resp := s.register()

	err := s.svc.RecoverLoginID(context.Background(), &dto.ForgotLoginIDRequest{
		CurrentLoginID: "jdoe",
		NewLoginID:     "jane.doe",
		Password:       "Secret123!",
		Role:           models.RoleUser,
	})
	s.Require().NoError(err)

	assert.Equal(s.T(), 0, s.tokens.activeCount(resp.Account.ID))
	assert.Equal(s.T(), 1, s.emails.loginIDChangeSent)

	_, err = s.svc.Login(context.Background(), &dto.LoginRequest{
		LoginID:  "jane.doe",
		Password: "Secret123!",
		Role:     models.RoleUser,
	})
	assert.NoError(s.T(), err)
}

func (s *AuthServiceTestSuite) TestRecoverLoginID_RequiresPassword() {
	s.register()

	err := s.svc.RecoverLoginID(context.Background(), &dto.ForgotLoginIDRequest{
		CurrentLoginID: "jdoe",
		NewLoginID:     "jane.doe",
		Password:       "WrongPass1!",
		Role:           models.RoleUser,
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestRecoverLoginID_NewIDTooShort() {
	s.register()

	err := s.svc.RecoverLoginID(context.Background(), &dto.ForgotLoginIDRequest{
		CurrentLoginID: "jdoe",
		NewLoginID:     "ab",
		Password:       "Secret123!",
		Role:           models.RoleUser,
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidLoginID)
}

func (s *AuthServiceTestSuite) TestUpdateAccount_PartialUpdate() {
	resp := s.register()

	email := "new@example.com"
	updated, err := s.svc.UpdateAccount(context.Background(), resp.Account.ID, &dto.UpdateAccountRequest{
		CurrentPassword: "Secret123!",
		Email:           &email,
	})

	s.Require().NoError(err)
	assert.Equal(s.T(), "new@example.com", updated.Email)
	assert.Equal(s.T(), "Jane", updated.FirstName)
	// No password change, sessions stay open.
	assert.Equal(s.T(), 1, s.tokens.activeCount(resp.Account.ID))
}

func (s *AuthServiceTestSuite) TestUpdateAccount_PasswordChangeClosesSessions() {
	resp := s.register()

	newPassword := "Changed789!"
	_, err := s.svc.UpdateAccount(context.Background(), resp.Account.ID, &dto.UpdateAccountRequest{
		CurrentPassword: "Secret123!",
		NewPassword:     &newPassword,
	})

	s.Require().NoError(err)
	assert.Equal(s.T(), 0, s.tokens.activeCount(resp.Account.ID))
}

func (s *AuthServiceTestSuite) TestUpdateAccount_RequiresCurrentPassword() {
	resp := s.register()

	email := "new@example.com"
	_, err := s.svc.UpdateAccount(context.Background(), resp.Account.ID, &dto.UpdateAccountRequest{
		CurrentPassword: "WrongPass1!",
		Email:           &email,
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestGetAccount() {
	resp := s.register()

	account, err := s.svc.GetAccount(context.Background(), resp.Account.ID)

	s.Require().NoError(err)
	assert.Equal(s.T(), "jdoe", account.LoginID)
	assert.Equal(s.T(), "jdoe@example.com", account.Email)
}

func (s *AuthServiceTestSuite) TestGetAccount_UnknownUser() {
	_, err := s.svc.GetAccount(context.Background(), 999)

	assert.ErrorIs(s.T(), err, apperrors.ErrUserNotFound)
}

func (s *AuthServiceTestSuite) TestPurgeExpiredSessions() {
	resp := s.register()

	s.Require().NoError(s.tokens.CreateToken(context.Background(), "expired-token", resp.Account.ID, time.Now().Add(-time.Hour)))
	s.Require().NoError(s.tokens.CreateToken(context.Background(), "stale-revoked", resp.Account.ID, time.Now().Add(time.Hour)))
	s.tokens.tokens["stale-revoked"].revoked = true
	s.tokens.tokens["stale-revoked"].createdAt = time.Now().Add(-31 * 24 * time.Hour)

	deleted, err := s.svc.PurgeExpiredSessions(context.Background())

	s.Require().NoError(err)
	assert.Equal(s.T(), int64(2), deleted)
	// The live session from registration survives the purge.
	assert.Equal(s.T(), 1, s.tokens.activeCount(resp.Account.ID))
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
