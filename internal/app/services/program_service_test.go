package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/uasphere/uas-backend/internal/app/models"
	"github.com/uasphere/uas-backend/internal/app/models/dto"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
)

type ProgramServiceTestSuite struct {
	suite.Suite
	programs  *fakeProgramRepo
	schedules *fakeScheduleRepo
	svc       ProgramService
}

func (s *ProgramServiceTestSuite) SetupTest() {
	s.programs = newFakeProgramRepo()
	s.schedules = newFakeScheduleRepo(s.programs)
	s.svc = NewProgramService(s.programs, s.schedules, zerolog.Nop())
}

func (s *ProgramServiceTestSuite) createProgram(name string) *models.ProgramOffered {
	program, err := s.svc.CreateProgram(context.Background(), &dto.CreateProgramRequest{
		Name:                     name,
		Description:              "A demanding course of study",
		ApplicantEligibility:     "Bachelor degree",
		DurationMonths:           12,
		DegreeCertificateOffered: "Postgraduate Diploma",
	})
	s.Require().NoError(err)
	return program
}

func (s *ProgramServiceTestSuite) createSchedule(programID int64) *models.ProgramScheduled {
	schedule, err := s.svc.CreateSchedule(context.Background(), &dto.CreateScheduleRequest{
		ProgramID:       programID,
		Location:        "Main Campus",
		StartDate:       "2026-09-01",
		EndDate:         "2027-08-31",
		SessionsPerWeek: 3,
	})
	s.Require().NoError(err)
	return schedule
}

func (s *ProgramServiceTestSuite) TestCreateProgram() {
	program := s.createProgram("Data Science")

	assert.NotZero(s.T(), program.ID)
	assert.Equal(s.T(), "Data Science", program.Name)
}

func (s *ProgramServiceTestSuite) TestCreateProgram_NameMustBeUnique() {
	s.createProgram("Data Science")

	_, err := s.svc.CreateProgram(context.Background(), &dto.CreateProgramRequest{
		Name:                     "Data Science",
		Description:              "Another description",
		ApplicantEligibility:     "Any",
		DurationMonths:           6,
		DegreeCertificateOffered: "Certificate",
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrProgramAlreadyExists)

	// The duplicate is refused before any write.
	_, total, listErr := s.svc.ListPrograms(context.Background(), 1, 10)
	s.Require().NoError(listErr)
	assert.Equal(s.T(), int64(1), total)
}

func (s *ProgramServiceTestSuite) TestCreateProgram_Validation() {
	tests := []struct {
		name string
		req  dto.CreateProgramRequest
	}{
		{"blank name", dto.CreateProgramRequest{Name: "   ", Description: "d", ApplicantEligibility: "e", DurationMonths: 6, DegreeCertificateOffered: "c"}},
		{"zero duration", dto.CreateProgramRequest{Name: "n", Description: "d", ApplicantEligibility: "e", DurationMonths: 0, DegreeCertificateOffered: "c"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.CreateProgram(context.Background(), &tt.req)
			assert.ErrorIs(s.T(), err, apperrors.ErrValidationFailed)
		})
	}
}

func (s *ProgramServiceTestSuite) TestSearchProgram_ByName() {
	s.createProgram("Data Science")
	s.createProgram("Software Engineering")

	found, err := s.svc.SearchProgram(context.Background(), &dto.SearchProgramRequest{Name: "data"})

	s.Require().NoError(err)
	s.Require().Len(found, 1)
	assert.Equal(s.T(), "Data Science", found[0].Name)
}

func (s *ProgramServiceTestSuite) TestSearchProgram_NameWinsOverDescription() {
	s.createProgram("Data Science")

	found, err := s.svc.SearchProgram(context.Background(), &dto.SearchProgramRequest{
		Name:        "data",
		Description: "no such description",
	})

	s.Require().NoError(err)
	assert.Len(s.T(), found, 1)
}

func (s *ProgramServiceTestSuite) TestSearchProgram_RequiresATerm() {
	_, err := s.svc.SearchProgram(context.Background(), &dto.SearchProgramRequest{})

	assert.ErrorIs(s.T(), err, apperrors.ErrValidationFailed)
}

func (s *ProgramServiceTestSuite) TestListPrograms() {
	s.createProgram("Data Science")
	s.createProgram("Software Engineering")

	programs, total, err := s.svc.ListPrograms(context.Background(), 1, 10)

	s.Require().NoError(err)
	assert.Equal(s.T(), int64(2), total)
	assert.Len(s.T(), programs, 2)
}

func (s *ProgramServiceTestSuite) TestUpdateProgram() {
	program := s.createProgram("Data Science")

	updated, err := s.svc.UpdateProgram(context.Background(), program.ID, &dto.UpdateProgramRequest{
		Name:                     "Applied Data Science",
		Description:              "Updated description",
		ApplicantEligibility:     "Bachelor degree",
		DurationMonths:           18,
		DegreeCertificateOffered: "Master of Science",
	})

	s.Require().NoError(err)
	assert.Equal(s.T(), "Applied Data Science", updated.Name)

	stored, err := s.svc.GetProgram(context.Background(), program.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), 18, stored.DurationMonths)
}

func (s *ProgramServiceTestSuite) TestUpdateProgram_UnknownID() {
	_, err := s.svc.UpdateProgram(context.Background(), 999, &dto.UpdateProgramRequest{
		Name:                     "Ghost",
		Description:              "d",
		ApplicantEligibility:     "e",
		DurationMonths:           6,
		DegreeCertificateOffered: "c",
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrProgramNotFound)
}

func (s *ProgramServiceTestSuite) TestDeleteProgram() {
	program := s.createProgram("Data Science")

	s.Require().NoError(s.svc.DeleteProgram(context.Background(), program.ID))

	_, err := s.svc.GetProgram(context.Background(), program.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrProgramNotFound)
}

func (s *ProgramServiceTestSuite) TestDeleteProgram_BlockedBySchedules() {
	program := s.createProgram("Data Science")
	s.createSchedule(program.ID)

	err := s.svc.DeleteProgram(context.Background(), program.ID)

	assert.ErrorIs(s.T(), err, apperrors.ErrProgramHasSchedules)
}

func (s *ProgramServiceTestSuite) TestCreateSchedule() {
	program := s.createProgram("Data Science")

	schedule := s.createSchedule(program.ID)

	assert.NotZero(s.T(), schedule.ID)
	assert.Equal(s.T(), program.ID, schedule.ProgramID)
	assert.Equal(s.T(), "Data Science", schedule.ProgramName)
}

func (s *ProgramServiceTestSuite) TestCreateSchedule_UnknownProgram() {
	_, err := s.svc.CreateSchedule(context.Background(), &dto.CreateScheduleRequest{
		ProgramID:       999,
		Location:        "Main Campus",
		StartDate:       "2026-09-01",
		EndDate:         "2027-08-31",
		SessionsPerWeek: 3,
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrProgramNotFound)
}

func (s *ProgramServiceTestSuite) TestCreateSchedule_Validation() {
	program := s.createProgram("Data Science")

	tests := []struct {
		name string
		req  dto.CreateScheduleRequest
	}{
		{"bad start date", dto.CreateScheduleRequest{ProgramID: program.ID, Location: "L", StartDate: "not-a-date", EndDate: "2027-08-31", SessionsPerWeek: 3}},
		{"bad end date", dto.CreateScheduleRequest{ProgramID: program.ID, Location: "L", StartDate: "2026-09-01", EndDate: "31/08/2027", SessionsPerWeek: 3}},
		{"end before start", dto.CreateScheduleRequest{ProgramID: program.ID, Location: "L", StartDate: "2027-08-31", EndDate: "2026-09-01", SessionsPerWeek: 3}},
		{"zero sessions", dto.CreateScheduleRequest{ProgramID: program.ID, Location: "L", StartDate: "2026-09-01", EndDate: "2027-08-31", SessionsPerWeek: 0}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.CreateSchedule(context.Background(), &tt.req)
			assert.ErrorIs(s.T(), err, apperrors.ErrValidationFailed)
		})
	}
}

func (s *ProgramServiceTestSuite) TestListSchedules_FilterByProgram() {
	first := s.createProgram("Data Science")
	second := s.createProgram("Software Engineering")
	s.createSchedule(first.ID)
	s.createSchedule(first.ID)
	s.createSchedule(second.ID)

	schedules, total, err := s.svc.ListSchedules(context.Background(), &first.ID, 1, 10)

	s.Require().NoError(err)
	assert.Equal(s.T(), int64(2), total)
	assert.Len(s.T(), schedules, 2)
}

func (s *ProgramServiceTestSuite) TestUpdateSchedule() {
	program := s.createProgram("Data Science")
	schedule := s.createSchedule(program.ID)

	updated, err := s.svc.UpdateSchedule(context.Background(), schedule.ID, &dto.UpdateScheduleRequest{
		ProgramID:       program.ID,
		Location:        "City Annex",
		StartDate:       "2026-10-01",
		EndDate:         "2027-09-30",
		SessionsPerWeek: 2,
	})

	s.Require().NoError(err)
	assert.Equal(s.T(), "City Annex", updated.Location)
	assert.Equal(s.T(), 2, updated.SessionsPerWeek)
}

func (s *ProgramServiceTestSuite) TestDeleteSchedule() {
	program := s.createProgram("Data Science")
	schedule := s.createSchedule(program.ID)

	s.Require().NoError(s.svc.DeleteSchedule(context.Background(), schedule.ID))

	_, err := s.svc.GetSchedule(context.Background(), schedule.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrScheduleNotFound)
}

func TestProgramServiceSuite(t *testing.T) {
	suite.Run(t, new(ProgramServiceTestSuite))
}
