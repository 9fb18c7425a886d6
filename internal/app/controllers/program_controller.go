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

// ProgramController handles catalog operations for offered and
// scheduled programs
type ProgramController struct {
	programService services.ProgramService
	logger         zerolog.Logger
}

// NewProgramController creates a new ProgramController
func NewProgramController(programService services.ProgramService, logger zerolog.Logger) *ProgramController {
	return &ProgramController{
		programService: programService,
		logger:         logger,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identifier").
			WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// ListPrograms lists the offered programs
// @Summary List offered programs
// @Description Returns a page of the program catalog
// @Tags programs
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.ProgramOffered} "Program page"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs [get]
func (c *ProgramController) ListPrograms(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	programs, total, err := c.programService.ListPrograms(ctx.Request.Context(), page, size)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list programs")
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       programs,
		Pagination: &pagination,
	})
}

// GetProgram returns one offered program
// @Summary Get an offered program
// @Tags programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse{data=models.ProgramOffered} "Program"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /programs/{id} [get]
func (c *ProgramController) GetProgram(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	program, err := c.programService.GetProgram(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: program})
}

// CreateProgram adds a program to the catalog
// @Summary Create an offered program
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProgramRequest true "Program details"
// @Success 201 {object} dto.APIResponse{data=models.ProgramOffered} "Created program"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Program name already exists"
// @Router /programs [post]
func (c *ProgramController) CreateProgram(ctx *gin.Context) {
	var req dto.CreateProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create program request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	program, err := c.programService.CreateProgram(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("name", req.Name).Msg("Program creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: program})
}

// SearchPrograms finds programs by name or description
// @Summary Search offered programs
// @Description Finds programs matching a name or description term; name wins when both are given
// @Tags programs
// @Accept json
// @Produce json
// @Param name query string false "Name term"
// @Param description query string false "Description term"
// @Success 200 {object} dto.APIResponse{data=[]models.ProgramOffered} "Matching programs"
// @Failure 400 {object} dto.ErrorResponse "No search term given"
// @Router /programs/search [get]
func (c *ProgramController) SearchPrograms(ctx *gin.Context) {
	var req dto.SearchProgramRequest

	// The search form arrives as query parameters on GET and as a JSON
	// body on POST.
	if ctx.Request.Method == http.MethodPost {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}
	} else {
		if err := ctx.ShouldBindQuery(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}
	}

	programs, err := c.programService.SearchProgram(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: programs})
}

// UpdateProgram replaces an offered program's details
// @Summary Update an offered program
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param request body dto.UpdateProgramRequest true "New program details"
// @Success 200 {object} dto.APIResponse{data=models.ProgramOffered} "Updated program"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 409 {object} dto.ErrorResponse "Program name already exists"
// @Router /programs/{id} [put]
func (c *ProgramController) UpdateProgram(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid update program request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	program, err := c.programService.UpdateProgram(ctx.Request.Context(), id, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("programID", id).Msg("Program update failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: program})
}

// DeleteProgram removes an offered program
// @Summary Delete an offered program
// @Description Removes a program; fails while scheduled instances reference it
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Program deleted"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 409 {object} dto.ErrorResponse "Program still has schedules"
// @Router /programs/{id} [delete]
func (c *ProgramController) DeleteProgram(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.programService.DeleteProgram(ctx.Request.Context(), id); err != nil {
		c.logger.Warn().Err(err).Int64("programID", id).Msg("Program deletion failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Program deleted"},
	})
}

// ListSchedules lists scheduled programs
// @Summary List scheduled programs
// @Description Returns a page of scheduled programs, optionally filtered by offered program
// @Tags schedules
// @Produce json
// @Param programId query int false "Offered program ID filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.ProgramScheduled} "Schedule page"
// @Router /scheduled-programs [get]
func (c *ProgramController) ListSchedules(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	var programID *int64
	if raw := ctx.Query("programId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identifier").
				WithField("programId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		programID = &parsed
	}

	schedules, total, err := c.programService.ListSchedules(ctx.Request.Context(), programID, page, size)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list schedules")
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       schedules,
		Pagination: &pagination,
	})
}

// GetSchedule returns one scheduled program
// @Summary Get a scheduled program
// @Tags schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} dto.APIResponse{data=models.ProgramScheduled} "Schedule"
// @Failure 404 {object} dto.ErrorResponse "Schedule not found"
// @Router /scheduled-programs/{id} [get]
func (c *ProgramController) GetSchedule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	schedule, err := c.programService.GetSchedule(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: schedule})
}

// CreateSchedule schedules an offered program
// @Summary Schedule an offered program
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateScheduleRequest true "Schedule details"
// @Success 201 {object} dto.APIResponse{data=models.ProgramScheduled} "Created schedule"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or dates"
// @Failure 404 {object} dto.ErrorResponse "Offered program not found"
// @Router /scheduled-programs [post]
func (c *ProgramController) CreateSchedule(ctx *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create schedule request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	schedule, err := c.programService.CreateSchedule(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("programID", req.ProgramID).Msg("Schedule creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: schedule})
}

// UpdateSchedule replaces a scheduled program's details
// @Summary Update a scheduled program
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Schedule ID"
// @Param request body dto.UpdateScheduleRequest true "New schedule details"
// @Success 200 {object} dto.APIResponse{data=models.ProgramScheduled} "Updated schedule"
// @Failure 404 {object} dto.ErrorResponse "Schedule or program not found"
// @Router /scheduled-programs/{id} [put]
func (c *ProgramController) UpdateSchedule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid update schedule request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	schedule, err := c.programService.UpdateSchedule(ctx.Request.Context(), id, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("scheduleID", id).Msg("Schedule update failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: schedule})
}

// DeleteSchedule removes a scheduled program
// @Summary Delete a scheduled program
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Schedule ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Schedule deleted"
// @Failure 404 {object} dto.ErrorResponse "Schedule not found"
// @Failure 409 {object} dto.ErrorResponse "Schedule still has applications"
// @Router /scheduled-programs/{id} [delete]
func (c *ProgramController) DeleteSchedule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.programService.DeleteSchedule(ctx.Request.Context(), id); err != nil {
		c.logger.Warn().Err(err).Int64("scheduleID", id).Msg("Schedule deletion failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Schedule deleted"},
	})
}
