package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/uasphere/uas-backend/internal/app/models/dto"
	"github.com/uasphere/uas-backend/internal/app/services"
	"github.com/uasphere/uas-backend/internal/middleware"
	"github.com/uasphere/uas-backend/internal/pkg/helpers"
)

// ApplicationController handles admission applications and enrollment
type ApplicationController struct {
	applicationService services.ApplicationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		logger:             logger,
	}
}

// SubmitApplication records a new admission application
// @Summary Submit an admission application
// @Description Creates an application in pending state for a scheduled program
// @Tags applications
// @Accept json
// @Produce json
// @Param request body dto.SubmitApplicationRequest true "Application details"
// @Success 201 {object} dto.APIResponse{data=models.Application} "Submitted application"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or dates"
// @Failure 404 {object} dto.ErrorResponse "Scheduled program not found"
// @Router /applications [post]
func (c *ApplicationController) SubmitApplication(ctx *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid application request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	app, err := c.applicationService.SubmitApplication(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Application submission failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: app})
}

// GetApplication returns one application
// @Summary Get an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id} [get]
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	app, err := c.applicationService.GetApplication(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: app})
}

// ListApplications lists applications with optional filters
// @Summary List applications
// @Description Returns a page of applications, optionally filtered by schedule and status
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param scheduledProgramId query int false "Schedule filter"
// @Param status query string false "Status filter (pending, accepted, rejected)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Application} "Application page"
// @Router /applications [get]
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	var scheduledProgramID *int64
	if raw := ctx.Query("scheduledProgramId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identifier").
				WithField("scheduledProgramId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		scheduledProgramID = &parsed
	}
	status := ctx.Query("status")

	apps, total, err := c.applicationService.ListApplications(ctx.Request.Context(), scheduledProgramID, status, page, size)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list applications")
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       apps,
		Pagination: &pagination,
	})
}

// ReviewApplication records a review decision
// @Summary Review an application
// @Description Sets the application status and an optional interview date
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.UpdateApplicationRequest true "Review decision"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Reviewed application"
// @Failure 400 {object} dto.ErrorResponse "Unknown status or invalid date"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id} [put]
func (c *ApplicationController) ReviewApplication(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid review request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	app, err := c.applicationService.ReviewApplication(ctx.Request.Context(), id, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("applicationID", id).Msg("Application review failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: app})
}

// DeleteApplication removes an application
// @Summary Delete an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Application deleted"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id} [delete]
func (c *ApplicationController) DeleteApplication(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.applicationService.DeleteApplication(ctx.Request.Context(), id); err != nil {
		c.logger.Warn().Err(err).Int64("applicationID", id).Msg("Application deletion failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Application deleted"},
	})
}

// EnrollParticipant enrolls an accepted applicant
// @Summary Enroll an accepted applicant
// @Description Creates a participant for an accepted application in its scheduled program
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.EnrollParticipantRequest true "Enrollment details"
// @Success 201 {object} dto.APIResponse{data=models.Participant} "Enrolled participant"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application not accepted or already enrolled"
// @Router /applications/{id}/participants [post]
func (c *ApplicationController) EnrollParticipant(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.EnrollParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid enrollment request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	participant, err := c.applicationService.EnrollParticipant(ctx.Request.Context(), id, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("applicationID", id).Msg("Enrollment failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: participant})
}

// ListParticipants lists the participants of a scheduled program
// @Summary List participants of a schedule
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Schedule ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Participant} "Participants"
// @Failure 404 {object} dto.ErrorResponse "Schedule not found"
// @Router /scheduled-programs/{id}/participants [get]
func (c *ApplicationController) ListParticipants(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	participants, err := c.applicationService.ListParticipants(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: participants})
}
