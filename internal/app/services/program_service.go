package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/uasphere/uas-backend/internal/app/models"
	"github.com/uasphere/uas-backend/internal/app/models/dto"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
	"github.com/uasphere/uas-backend/internal/pkg/helpers"
)

// ProgramRepository defines the offered program store operations
type ProgramRepository interface {
	CreateProgram(ctx context.Context, program *models.ProgramOffered) (int64, error)
	GetProgramByID(ctx context.Context, id int64) (*models.ProgramOffered, error)
	GetProgramByName(ctx context.Context, name string) (*models.ProgramOffered, error)
	SearchPrograms(ctx context.Context, column, term string) ([]*models.ProgramOffered, error)
	ListPrograms(ctx context.Context, offset uint64, limit int) ([]*models.ProgramOffered, error)
	CountPrograms(ctx context.Context) (int64, error)
	UpdateProgram(ctx context.Context, program *models.ProgramOffered) error
	DeleteProgram(ctx context.Context, id int64) error
}

// ScheduleRepository defines the scheduled program store operations
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule *models.ProgramScheduled) (int64, error)
	GetScheduleByID(ctx context.Context, id int64) (*models.ProgramScheduled, error)
	ListSchedules(ctx context.Context, programID *int64, offset uint64, limit int) ([]*models.ProgramScheduled, error)
	CountSchedules(ctx context.Context, programID *int64) (int64, error)
	UpdateSchedule(ctx context.Context, schedule *models.ProgramScheduled) error
	DeleteSchedule(ctx context.Context, id int64) error
}

// ProgramService defines the interface for catalog operations
type ProgramService interface {
	CreateProgram(ctx context.Context, req *dto.CreateProgramRequest) (*models.ProgramOffered, error)
	GetProgram(ctx context.Context, id int64) (*models.ProgramOffered, error)
	SearchProgram(ctx context.Context, req *dto.SearchProgramRequest) ([]*models.ProgramOffered, error)
	ListPrograms(ctx context.Context, page, size int) ([]*models.ProgramOffered, int64, error)
	UpdateProgram(ctx context.Context, id int64, req *dto.UpdateProgramRequest) (*models.ProgramOffered, error)
	DeleteProgram(ctx context.Context, id int64) error

	CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*models.ProgramScheduled, error)
	GetSchedule(ctx context.Context, id int64) (*models.ProgramScheduled, error)
	ListSchedules(ctx context.Context, programID *int64, page, size int) ([]*models.ProgramScheduled, int64, error)
	UpdateSchedule(ctx context.Context, id int64, req *dto.UpdateScheduleRequest) (*models.ProgramScheduled, error)
	DeleteSchedule(ctx context.Context, id int64) error
}

// programServiceImpl implements ProgramService
type programServiceImpl struct {
	programRepo  ProgramRepository
	scheduleRepo ScheduleRepository
	logger       zerolog.Logger
}

// NewProgramService creates a new ProgramService
func NewProgramService(programRepo ProgramRepository, scheduleRepo ScheduleRepository, logger zerolog.Logger) ProgramService {
	return &programServiceImpl{
		programRepo:  programRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// CreateProgram adds a new program to the catalog
func (s *programServiceImpl) CreateProgram(ctx context.Context, req *dto.CreateProgramRequest) (*models.ProgramOffered, error) {
	program := &models.ProgramOffered{
		Name:                     strings.TrimSpace(req.Name),
		Description:              req.Description,
		ApplicantEligibility:     req.ApplicantEligibility,
		DurationMonths:           req.DurationMonths,
		DegreeCertificateOffered: req.DegreeCertificateOffered,
	}

	if program.Name == "" {
		return nil, fmt.Errorf("%w: program name cannot be empty", apperrors.ErrValidationFailed)
	}
	if program.DurationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", apperrors.ErrValidationFailed)
	}

	// Name uniqueness is checked up front; the unique constraint still
	// backs it under concurrent writers.
	if _, err := s.programRepo.GetProgramByName(ctx, program.Name); err == nil {
		return nil, apperrors.ErrProgramAlreadyExists
	} else if !errors.Is(err, apperrors.ErrProgramNotFound) {
		return nil, fmt.Errorf("error checking program name: %w", err)
	}

	id, err := s.programRepo.CreateProgram(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = id

	s.logger.Info().Int64("programID", id).Str("name", program.Name).Msg("Program created")
	return program, nil
}

// GetProgram retrieves an offered program
func (s *programServiceImpl) GetProgram(ctx context.Context, id int64) (*models.ProgramOffered, error) {
	return s.programRepo.GetProgramByID(ctx, id)
}

// SearchProgram finds programs by name or description. The name takes
// precedence when both terms are given.
func (s *programServiceImpl) SearchProgram(ctx context.Context, req *dto.SearchProgramRequest) ([]*models.ProgramOffered, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)

	switch {
	case name != "":
		return s.programRepo.SearchPrograms(ctx, "name", name)
	case description != "":
		return s.programRepo.SearchPrograms(ctx, "description", description)
	default:
		return nil, fmt.Errorf("%w: a name or description search term is required", apperrors.ErrValidationFailed)
	}
}

// ListPrograms retrieves a page of the catalog
func (s *programServiceImpl) ListPrograms(ctx context.Context, page, size int) ([]*models.ProgramOffered, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	programs, err := s.programRepo.ListPrograms(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.programRepo.CountPrograms(ctx)
	if err != nil {
		return nil, 0, err
	}

	return programs, total, nil
}

// UpdateProgram replaces the details of an offered program
func (s *programServiceImpl) UpdateProgram(ctx context.Context, id int64, req *dto.UpdateProgramRequest) (*models.ProgramOffered, error) {
	program := &models.ProgramOffered{
		ID:                       id,
		Name:                     strings.TrimSpace(req.Name),
		Description:              req.Description,
		ApplicantEligibility:     req.ApplicantEligibility,
		DurationMonths:           req.DurationMonths,
		DegreeCertificateOffered: req.DegreeCertificateOffered,
	}

	if program.Name == "" {
		return nil, fmt.Errorf("%w: program name cannot be empty", apperrors.ErrValidationFailed)
	}
	if program.DurationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", apperrors.ErrValidationFailed)
	}

	if err := s.programRepo.UpdateProgram(ctx, program); err != nil {
		return nil, err
	}

	return program, nil
}

// DeleteProgram removes an offered program. Programs with scheduled
// instances cannot be removed.
func (s *programServiceImpl) DeleteProgram(ctx context.Context, id int64) error {
	if err := s.programRepo.DeleteProgram(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("programID", id).Msg("Program deleted")
	return nil
}

// CreateSchedule schedules an offered program
func (s *programServiceImpl) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*models.ProgramScheduled, error) {
	startDate, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", apperrors.ErrValidationFailed)
	}
	endDate, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", apperrors.ErrValidationFailed)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date cannot precede start date", apperrors.ErrValidationFailed)
	}
	if req.SessionsPerWeek <= 0 {
		return nil, fmt.Errorf("%w: sessions per week must be positive", apperrors.ErrValidationFailed)
	}

	// The program must exist before scheduling it.
	program, err := s.programRepo.GetProgramByID(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}

	schedule := &models.ProgramScheduled{
		ProgramID:       program.ID,
		Location:        strings.TrimSpace(req.Location),
		StartDate:       startDate,
		EndDate:         endDate,
		SessionsPerWeek: req.SessionsPerWeek,
		ProgramName:     program.Name,
	}

	id, err := s.scheduleRepo.CreateSchedule(ctx, schedule)
	if err != nil {
		return nil, err
	}
	schedule.ID = id

	s.logger.Info().Int64("scheduleID", id).Int64("programID", program.ID).Msg("Program scheduled")
	return schedule, nil
}

// GetSchedule retrieves a scheduled program
func (s *programServiceImpl) GetSchedule(ctx context.Context, id int64) (*models.ProgramScheduled, error) {
	return s.scheduleRepo.GetScheduleByID(ctx, id)
}

// ListSchedules retrieves a page of scheduled programs, optionally for one program
func (s *programServiceImpl) ListSchedules(ctx context.Context, programID *int64, page, size int) ([]*models.ProgramScheduled, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	schedules, err := s.scheduleRepo.ListSchedules(ctx, programID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.scheduleRepo.CountSchedules(ctx, programID)
	if err != nil {
		return nil, 0, err
	}

	return schedules, total, nil
}

// UpdateSchedule replaces the details of a scheduled program
func (s *programServiceImpl) UpdateSchedule(ctx context.Context, id int64, req *dto.UpdateScheduleRequest) (*models.ProgramScheduled, error) {
	startDate, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", apperrors.ErrValidationFailed)
	}
	endDate, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", apperrors.ErrValidationFailed)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date cannot precede start date", apperrors.ErrValidationFailed)
	}
	if req.SessionsPerWeek <= 0 {
		return nil, fmt.Errorf("%w: sessions per week must be positive", apperrors.ErrValidationFailed)
	}

	program, err := s.programRepo.GetProgramByID(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}

	schedule := &models.ProgramScheduled{
		ID:              id,
		ProgramID:       program.ID,
		Location:        strings.TrimSpace(req.Location),
		StartDate:       startDate,
		EndDate:         endDate,
		SessionsPerWeek: req.SessionsPerWeek,
		ProgramName:     program.Name,
	}

	if err := s.scheduleRepo.UpdateSchedule(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// DeleteSchedule removes a scheduled program
func (s *programServiceImpl) DeleteSchedule(ctx context.Context, id int64) error {
	if err := s.scheduleRepo.DeleteSchedule(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("scheduleID", id).Msg("Schedule deleted")
	return nil
}
