package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/uasphere/uas-backend/internal/app/models/dto"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to API responses
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrInvalidEmail, apperrors.ErrInvalidPassword,
		apperrors.ErrInvalidRole, apperrors.ErrInvalidLoginID):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
				WithDetails(err.Error()),
		})
	case errors.Is(err, apperrors.ErrRoleMismatch):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeRoleMismatch, "Role does not match this account"),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenNotFound):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found"),
		})
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"),
		})
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound, apperrors.ErrProgramNotFound,
		apperrors.ErrScheduleNotFound, apperrors.ErrApplicationNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found").
				WithDetails(err.Error()),
		})
	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists,
		apperrors.ErrLoginIDExists, apperrors.ErrProgramAlreadyExists,
		apperrors.ErrParticipantExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists").
				WithDetails(err.Error()),
		})
	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrProgramHasSchedules, apperrors.ErrScheduleHasApplications,
		apperrors.ErrNotAccepted):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Operation conflicts with current state").
				WithDetails(err.Error()),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
