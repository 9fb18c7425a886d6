// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/uasphere/uas-backend/internal/app/models/dto"
	"github.com/uasphere/uas-backend/internal/app/services"
	"github.com/uasphere/uas-backend/internal/middleware"
)

// AuthController handles account and session operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles account registration
// @Summary Register a new account
// @Description Creates an account with a login ID, credential, role and contact details
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account registration information"
// @Success 201 {object} dto.APIResponse{data=dto.SignupResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or policy violation"
// @Failure 409 {object} dto.ErrorResponse "Login ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	signupResponse, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("loginID", req.LoginID).Msg("Signup failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("loginID", req.LoginID).
		Str("role", string(req.Role)).
		Int64("userID", signupResponse.Account.ID).
		Msg("Account registered")

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: signupResponse,
	})
}

// Login handles user login
// @Summary Open a session
// @Description Authenticates a login ID, credential and role tag and returns session tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials or role mismatch"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	tokenResponse, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("loginID", req.LoginID).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("loginID", req.LoginID).Msg("User logged in")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: tokenResponse,
	})
}

// Logout handles session closing
// @Summary Close a session
// @Description Revokes the refresh token. Closing an already closed session succeeds.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LogoutRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.LogoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid logout request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
		c.logger.Warn().Err(err).Msg("Logout failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Logged out"},
	})
}

// RefreshToken handles session refresh
// @Summary Refresh a session
// @Description Rotates the refresh token and returns a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Session refreshed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unknown, expired or revoked token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid refresh request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	tokenResponse, err := c.authService.RefreshSession(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Session refresh failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: tokenResponse,
	})
}

// ForgotPassword handles credential recovery
// @Summary Reset a forgotten password
// @Description Resets the credential for a login ID and role and closes every open session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Login ID, role and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password reset"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or policy violation"
// @Failure 401 {object} dto.ErrorResponse "Unknown login ID or role mismatch"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid forgot password request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.RecoverPassword(ctx.Request.Context(), &req); err != nil {
		c.logger.Warn().Err(err).Str("loginID", req.LoginID).Msg("Password recovery failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("loginID", req.LoginID).Msg("Password reset")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Password reset"},
	})
}

// ForgotLoginID handles login identifier recovery
// @Summary Change a login ID
// @Description Replaces the login identifier after password re-authentication
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotLoginIDRequest true "Current login ID, new login ID, password and role"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Login ID changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or policy violation"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials or role mismatch"
// @Failure 409 {object} dto.ErrorResponse "New login ID already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/forgot-login-id [post]
func (c *AuthController) ForgotLoginID(ctx *gin.Context) {
	var req dto.ForgotLoginIDRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid forgot login ID request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.RecoverLoginID(ctx.Request.Context(), &req); err != nil {
		c.logger.Warn().Err(err).Str("loginID", req.CurrentLoginID).Msg("Login ID recovery failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("newLoginID", req.NewLoginID).Msg("Login ID changed")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Login ID changed"},
	})
}

// GetAccountDetails returns the authenticated account
// @Summary Get account details
// @Description Returns the account associated with the session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AccountResponse} "Account details"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/account-details [get]
func (c *AuthController) GetAccountDetails(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	account, err := c.authService.GetAccount(ctx.Request.Context(), userID)
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to load account")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: account,
	})
}

// UpdateAccountDetails applies a partial account update
// @Summary Update account details
// @Description Updates selected account fields after current password re-authentication
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.AccountResponse} "Updated account"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or policy violation"
// @Failure 401 {object} dto.ErrorResponse "Wrong current password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/update-account-details [post]
func (c *AuthController) UpdateAccountDetails(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid update account request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	account, err := c.authService.UpdateAccount(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Account update failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", userID).Msg("Account updated")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: account,
	})
}
