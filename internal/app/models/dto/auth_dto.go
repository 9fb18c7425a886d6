package dto

import "github.com/uasphere/uas-backend/internal/app/models"

// SignupRequest represents a registration request
type SignupRequest struct {
	LoginID   string      `json:"loginId" binding:"required,max=50"`
	Password  string      `json:"password" binding:"required,min=8"`
	Role      models.Role `json:"role" binding:"required"`
	Email     string      `json:"email" binding:"required,email"`
	FirstName string      `json:"firstName" binding:"required"`
	LastName  string      `json:"lastName" binding:"required"`
}

// LoginRequest represents login credentials. The role tag must match the
// stored role for the login to succeed.
type LoginRequest struct {
	LoginID  string      `json:"loginId" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

// LogoutRequest carries the refresh token to revoke
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenRequest represents a session refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ForgotPasswordRequest resets the credential for a login ID
type ForgotPasswordRequest struct {
	LoginID     string      `json:"loginId" binding:"required"`
	NewPassword string      `json:"newPassword" binding:"required,min=8"`
	Role        models.Role `json:"role" binding:"required"`
}

// ForgotLoginIDRequest changes the login identifier after password
// re-authentication
type ForgotLoginIDRequest struct {
	CurrentLoginID string      `json:"currentLoginId" binding:"required"`
	NewLoginID     string      `json:"newLoginId" binding:"required,min=5,max=50"`
	Password       string      `json:"password" binding:"required"`
	Role           models.Role `json:"role" binding:"required"`
}

// UpdateAccountRequest updates account details. Nil fields are left
// unchanged; the current password is always required.
type UpdateAccountRequest struct {
	CurrentPassword string       `json:"currentPassword" binding:"required"`
	NewPassword     *string      `json:"newPassword,omitempty"`
	Role            *models.Role `json:"role,omitempty"`
	Email           *string      `json:"email,omitempty"`
	FirstName       *string      `json:"firstName,omitempty"`
	LastName        *string      `json:"lastName,omitempty"`
}

// TokenResponse represents the session tokens issued on login
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType" example:"Bearer"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
}

// AccountResponse represents account details without the credential
type AccountResponse struct {
	ID        int64  `json:"id"`
	LoginID   string `json:"loginId"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SignupResponse is returned after a successful registration
type SignupResponse struct {
	Account AccountResponse `json:"account"`
	Token   TokenResponse   `json:"token"`
}
