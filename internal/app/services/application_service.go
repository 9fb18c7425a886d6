package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/uasphere/uas-backend/internal/app/models"
	"github.com/uasphere/uas-backend/internal/app/models/dto"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
	"github.com/uasphere/uas-backend/internal/pkg/helpers"
	"github.com/uasphere/uas-backend/internal/pkg/validation"
)

// ApplicationRepository defines the admission application store operations
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *models.Application) (int64, error)
	GetApplicationByID(ctx context.Context, id int64) (*models.Application, error)
	ListApplications(ctx context.Context, scheduledProgramID *int64, status string, offset uint64, limit int) ([]*models.Application, error)
	CountApplications(ctx context.Context, scheduledProgramID *int64, status string) (int64, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status string, dateOfInterview *time.Time) error
	DeleteApplication(ctx context.Context, id int64) error
}

// ParticipantRepository defines the participant store operations
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, participant *models.Participant) (int64, error)
	ListParticipantsBySchedule(ctx context.Context, scheduledProgramID int64) ([]*models.Participant, error)
	NextRollNo(ctx context.Context, scheduledProgramID int64) (int, error)
}

// ApplicationService defines the interface for admission operations
type ApplicationService interface {
	SubmitApplication(ctx context.Context, req *dto.SubmitApplicationRequest) (*models.Application, error)
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	ListApplications(ctx context.Context, scheduledProgramID *int64, status string, page, size int) ([]*models.Application, int64, error)
	ReviewApplication(ctx context.Context, id int64, req *dto.UpdateApplicationRequest) (*models.Application, error)
	DeleteApplication(ctx context.Context, id int64) error
	EnrollParticipant(ctx context.Context, applicationID int64, req *dto.EnrollParticipantRequest) (*models.Participant, error)
	ListParticipants(ctx context.Context, scheduledProgramID int64) ([]*models.Participant, error)
}

// applicationServiceImpl implements ApplicationService
type applicationServiceImpl struct {
	applicationRepo ApplicationRepository
	participantRepo ParticipantRepository
	scheduleRepo    ScheduleRepository
	logger          zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applicationRepo ApplicationRepository,
	participantRepo ParticipantRepository,
	scheduleRepo ScheduleRepository,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationServiceImpl{
		applicationRepo: applicationRepo,
		participantRepo: participantRepo,
		scheduleRepo:    scheduleRepo,
		logger:          logger,
	}
}

// SubmitApplication records a new admission application in pending state
func (s *applicationServiceImpl) SubmitApplication(ctx context.Context, req *dto.SubmitApplicationRequest) (*models.Application, error) {
	if err := validation.ValidName("full name", req.FullName); err != nil {
		return nil, err
	}
	if err := validation.ValidEmail(req.Email); err != nil {
		return nil, err
	}
	if req.MarksObtained < 0 || req.MarksObtained > 100 {
		return nil, fmt.Errorf("%w: marks must be between 0 and 100", apperrors.ErrValidationFailed)
	}

	dateOfBirth, err := helpers.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date of birth", apperrors.ErrValidationFailed)
	}
	if !dateOfBirth.Before(time.Now()) {
		return nil, fmt.Errorf("%w: date of birth must be in the past", apperrors.ErrValidationFailed)
	}

	// The targeted schedule must exist.
	if _, err := s.scheduleRepo.GetScheduleByID(ctx, req.ScheduledProgramID); err != nil {
		return nil, err
	}

	app := &models.Application{
		FullName:             strings.TrimSpace(req.FullName),
		DateOfBirth:          dateOfBirth,
		HighestQualification: strings.TrimSpace(req.HighestQualification),
		MarksObtained:        req.MarksObtained,
		Goals:                req.Goals,
		Email:                strings.TrimSpace(req.Email),
		ScheduledProgramID:   req.ScheduledProgramID,
		Status:               models.ApplicationPending,
	}

	id, err := s.applicationRepo.CreateApplication(ctx, app)
	if err != nil {
		return nil, err
	}
	app.ID = id

	s.logger.Info().Int64("applicationID", id).Int64("scheduleID", app.ScheduledProgramID).Msg("Application submitted")
	return app, nil
}

// GetApplication retrieves an application
func (s *applicationServiceImpl) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	return s.applicationRepo.GetApplicationByID(ctx, id)
}

// ListApplications retrieves a page of applications with optional filters
func (s *applicationServiceImpl) ListApplications(ctx context.Context, scheduledProgramID *int64, status string, page, size int) ([]*models.Application, int64, error) {
	if status != "" && !validStatus(status) {
		return nil, 0, fmt.Errorf("%w: unknown application status %q", apperrors.ErrValidationFailed, status)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)

	apps, err := s.applicationRepo.ListApplications(ctx, scheduledProgramID, status, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.applicationRepo.CountApplications(ctx, scheduledProgramID, status)
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// ReviewApplication records a review decision and optional interview date
func (s *applicationServiceImpl) ReviewApplication(ctx context.Context, id int64, req *dto.UpdateApplicationRequest) (*models.Application, error) {
	if !validStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown application status %q", apperrors.ErrValidationFailed, req.Status)
	}

	app, err := s.applicationRepo.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var dateOfInterview *time.Time
	if req.DateOfInterview != nil {
		parsed, err := helpers.ParseDate(*req.DateOfInterview)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid interview date", apperrors.ErrValidationFailed)
		}
		dateOfInterview = &parsed
	} else {
		dateOfInterview = app.DateOfInterview
	}

	if err := s.applicationRepo.UpdateApplicationStatus(ctx, id, req.Status, dateOfInterview); err != nil {
		return nil, err
	}

	app.Status = req.Status
	app.DateOfInterview = dateOfInterview

	s.logger.Info().Int64("applicationID", id).Str("status", req.Status).Msg("Application reviewed")
	return app, nil
}

// DeleteApplication removes an application
func (s *applicationServiceImpl) DeleteApplication(ctx context.Context, id int64) error {
	return s.applicationRepo.DeleteApplication(ctx, id)
}

// EnrollParticipant enrolls an accepted applicant into the scheduled
// program their application targets
func (s *applicationServiceImpl) EnrollParticipant(ctx context.Context, applicationID int64, req *dto.EnrollParticipantRequest) (*models.Participant, error) {
	app, err := s.applicationRepo.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.Status != models.ApplicationAccepted {
		return nil, apperrors.ErrNotAccepted
	}

	rollNo := req.RollNo
	if rollNo == 0 {
		rollNo, err = s.participantRepo.NextRollNo(ctx, app.ScheduledProgramID)
		if err != nil {
			return nil, err
		}
	}

	participant := &models.Participant{
		RollNo:             rollNo,
		Email:              app.Email,
		ApplicationID:      app.ID,
		ScheduledProgramID: app.ScheduledProgramID,
	}

	id, err := s.participantRepo.CreateParticipant(ctx, participant)
	if err != nil {
		return nil, err
	}
	participant.ID = id

	s.logger.Info().Int64("participantID", id).Int64("applicationID", app.ID).Int("rollNo", rollNo).Msg("Participant enrolled")
	return participant, nil
}

// ListParticipants retrieves the participants of a scheduled program
func (s *applicationServiceImpl) ListParticipants(ctx context.Context, scheduledProgramID int64) ([]*models.Participant, error) {
	if _, err := s.scheduleRepo.GetScheduleByID(ctx, scheduledProgramID); err != nil {
		return nil, err
	}

	return s.participantRepo.ListParticipantsBySchedule(ctx, scheduledProgramID)
}

func validStatus(status string) bool {
	switch status {
	case models.ApplicationPending, models.ApplicationAccepted, models.ApplicationRejected:
		return true
	}
	return false
}
