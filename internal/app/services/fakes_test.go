package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/uasphere/uas-backend/internal/app/models"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
)

// In-memory stores used by the service tests.

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]*models.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (int64, error) {
	for _, u := range r.users {
		if u.LoginID == user.LoginID {
			return 0, apperrors.ErrLoginIDExists
		}
	}
	id := r.nextID
	r.nextID++
	stored := *user
	stored.ID = id
	r.users[id] = &stored
	return id, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByLoginID(_ context.Context, loginID string) (*models.User, error) {
	for _, u := range r.users {
		if u.LoginID == loginID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) LoginIDExists(_ context.Context, loginID string) (bool, error) {
	for _, u := range r.users {
		if u.LoginID == loginID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, hashedPassword string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) UpdateLoginID(_ context.Context, userID int64, newLoginID string) error {
	for id, u := range r.users {
		if u.LoginID == newLoginID && id != userID {
			return apperrors.ErrLoginIDExists
		}
	}
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.LoginID = newLoginID
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, userID int64, fields map[string]interface{}) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for column, value := range fields {
		switch column {
		case "password":
			u.Password = value.(string)
		case "role":
			u.Role = value.(models.Role)
		case "email":
			u.Email = value.(string)
		case "first_name":
			u.FirstName = value.(string)
		case "last_name":
			u.LastName = value.(string)
		}
	}
	return nil
}

type tokenRecord struct {
	userID    int64
	expiry    time.Time
	revoked   bool
	createdAt time.Time
}

type fakeTokenRepo struct {
	tokens map[string]*tokenRecord
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*tokenRecord{}}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, token string, userID int64, expiryDate time.Time) error {
	if _, ok := r.tokens[token]; ok {
		return apperrors.ErrTokenInvalid
	}
	r.tokens[token] = &tokenRecord{userID: userID, expiry: expiryDate, createdAt: time.Now()}
	return nil
}

func (r *fakeTokenRepo) GetTokenByValue(_ context.Context, token string) (int64, time.Time, error) {
	rec, ok := r.tokens[token]
	if !ok {
		return 0, time.Time{}, apperrors.ErrTokenNotFound
	}
	if rec.revoked {
		return 0, time.Time{}, apperrors.ErrTokenRevoked
	}
	if rec.expiry.Before(time.Now()) {
		return 0, time.Time{}, apperrors.ErrTokenExpired
	}
	return rec.userID, rec.expiry, nil
}

func (r *fakeTokenRepo) RevokeToken(_ context.Context, token string) error {
	rec, ok := r.tokens[token]
	if !ok || rec.revoked {
		return apperrors.ErrTokenNotFound
	}
	rec.revoked = true
	return nil
}

func (r *fakeTokenRepo) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for _, rec := range r.tokens {
		if rec.userID == userID {
			rec.revoked = true
		}
	}
	return nil
}

func (r *fakeTokenRepo) CleanupExpiredTokens(_ context.Context) (int64, error) {
	staleBefore := time.Now().Add(-30 * 24 * time.Hour)
	var deleted int64
	for token, rec := range r.tokens {
		if rec.expiry.Before(time.Now()) || (rec.revoked && rec.createdAt.Before(staleBefore)) {
			delete(r.tokens, token)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTokenRepo) activeCount(userID int64) int {
	n := 0
	for _, rec := range r.tokens {
		if rec.userID == userID && !rec.revoked {
			n++
		}
	}
	return n
}

type fakeEmailService struct {
	welcomeSent       int
	passwordResetSent int
	loginIDChangeSent int
}

func (s *fakeEmailService) SendWelcomeEmail(string, string, string) error {
	s.welcomeSent++
	return nil
}

func (s *fakeEmailService) SendPasswordResetEmail(string, string) error {
	s.passwordResetSent++
	return nil
}

func (s *fakeEmailService) SendLoginIDChangedEmail(string, string, string) error {
	s.loginIDChangeSent++
	return nil
}

type fakeProgramRepo struct {
	nextID   int64
	programs map[int64]*models.ProgramOffered

	// schedulesByProgram lets DeleteProgram mimic the foreign key restriction.
	schedules *fakeScheduleRepo
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{nextID: 1, programs: map[int64]*models.ProgramOffered{}}
}

func (r *fakeProgramRepo) CreateProgram(_ context.Context, program *models.ProgramOffered) (int64, error) {
	for _, p := range r.programs {
		if p.Name == program.Name {
			return 0, apperrors.ErrProgramAlreadyExists
		}
	}
	id := r.nextID
	r.nextID++
	stored := *program
	stored.ID = id
	r.programs[id] = &stored
	return id, nil
}

func (r *fakeProgramRepo) GetProgramByID(_ context.Context, id int64) (*models.ProgramOffered, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, apperrors.ErrProgramNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProgramRepo) GetProgramByName(_ context.Context, name string) (*models.ProgramOffered, error) {
	for _, p := range r.programs {
		if p.Name == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperrors.ErrProgramNotFound
}

func (r *fakeProgramRepo) SearchPrograms(_ context.Context, column, term string) ([]*models.ProgramOffered, error) {
	var out []*models.ProgramOffered
	for _, p := range r.programs {
		value := p.Name
		if column == "description" {
			value = p.Description
		}
		if containsFold(value, term) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeProgramRepo) ListPrograms(_ context.Context, offset uint64, limit int) ([]*models.ProgramOffered, error) {
	var out []*models.ProgramOffered
	for _, p := range r.programs {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if int(offset) >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProgramRepo) CountPrograms(_ context.Context) (int64, error) {
	return int64(len(r.programs)), nil
}

func (r *fakeProgramRepo) UpdateProgram(_ context.Context, program *models.ProgramOffered) error {
	if _, ok := r.programs[program.ID]; !ok {
		return apperrors.ErrProgramNotFound
	}
	stored := *program
	r.programs[program.ID] = &stored
	return nil
}

func (r *fakeProgramRepo) DeleteProgram(_ context.Context, id int64) error {
	if _, ok := r.programs[id]; !ok {
		return apperrors.ErrProgramNotFound
	}
	if r.schedules != nil {
		for _, s := range r.schedules.schedules {
			if s.ProgramID == id {
				return apperrors.ErrProgramHasSchedules
			}
		}
	}
	delete(r.programs, id)
	return nil
}

type fakeScheduleRepo struct {
	nextID    int64
	schedules map[int64]*models.ProgramScheduled
	programs  *fakeProgramRepo
}

func newFakeScheduleRepo(programs *fakeProgramRepo) *fakeScheduleRepo {
	r := &fakeScheduleRepo{nextID: 1, schedules: map[int64]*models.ProgramScheduled{}, programs: programs}
	if programs != nil {
		programs.schedules = r
	}
	return r
}

func (r *fakeScheduleRepo) CreateSchedule(_ context.Context, schedule *models.ProgramScheduled) (int64, error) {
	if r.programs != nil {
		if _, ok := r.programs.programs[schedule.ProgramID]; !ok {
			return 0, apperrors.ErrProgramNotFound
		}
	}
	id := r.nextID
	r.nextID++
	stored := *schedule
	stored.ID = id
	r.schedules[id] = &stored
	return id, nil
}

func (r *fakeScheduleRepo) GetScheduleByID(_ context.Context, id int64) (*models.ProgramScheduled, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, apperrors.ErrScheduleNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeScheduleRepo) ListSchedules(_ context.Context, programID *int64, offset uint64, limit int) ([]*models.ProgramScheduled, error) {
	var out []*models.ProgramScheduled
	for _, s := range r.schedules {
		if programID != nil && s.ProgramID != *programID {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	if int(offset) >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeScheduleRepo) CountSchedules(_ context.Context, programID *int64) (int64, error) {
	var n int64
	for _, s := range r.schedules {
		if programID == nil || s.ProgramID == *programID {
			n++
		}
	}
	return n, nil
}

func (r *fakeScheduleRepo) UpdateSchedule(_ context.Context, schedule *models.ProgramScheduled) error {
	if _, ok := r.schedules[schedule.ID]; !ok {
		return apperrors.ErrScheduleNotFound
	}
	stored := *schedule
	r.schedules[schedule.ID] = &stored
	return nil
}

func (r *fakeScheduleRepo) DeleteSchedule(_ context.Context, id int64) error {
	if _, ok := r.schedules[id]; !ok {
		return apperrors.ErrScheduleNotFound
	}
	delete(r.schedules, id)
	return nil
}

type fakeApplicationRepo struct {
	nextID       int64
	applications map[int64]*models.Application
	participants *fakeParticipantRepo
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{nextID: 1, applications: map[int64]*models.Application{}}
}

func (r *fakeApplicationRepo) CreateApplication(_ context.Context, app *models.Application) (int64, error) {
	id := r.nextID
	r.nextID++
	stored := *app
	stored.ID = id
	r.applications[id] = &stored
	return id, nil
}

func (r *fakeApplicationRepo) GetApplicationByID(_ context.Context, id int64) (*models.Application, error) {
	a, ok := r.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeApplicationRepo) ListApplications(_ context.Context, scheduledProgramID *int64, status string, offset uint64, limit int) ([]*models.Application, error) {
	var out []*models.Application
	for _, a := range r.applications {
		if scheduledProgramID != nil && a.ScheduledProgramID != *scheduledProgramID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if int(offset) >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeApplicationRepo) CountApplications(_ context.Context, scheduledProgramID *int64, status string) (int64, error) {
	var n int64
	for _, a := range r.applications {
		if scheduledProgramID != nil && a.ScheduledProgramID != *scheduledProgramID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		n++
	}
	return n, nil
}

func (r *fakeApplicationRepo) UpdateApplicationStatus(_ context.Context, id int64, status string, dateOfInterview *time.Time) error {
	a, ok := r.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	a.Status = status
	a.DateOfInterview = dateOfInterview
	return nil
}

func (r *fakeApplicationRepo) DeleteApplication(_ context.Context, id int64) error {
	if _, ok := r.applications[id]; !ok {
		return apperrors.ErrApplicationNotFound
	}
	if r.participants != nil {
		for _, p := range r.participants.participants {
			if p.ApplicationID == id {
				return apperrors.ErrParticipantExists
			}
		}
	}
	delete(r.applications, id)
	return nil
}

type fakeParticipantRepo struct {
	nextID       int64
	participants map[int64]*models.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{nextID: 1, participants: map[int64]*models.Participant{}}
}

func (r *fakeParticipantRepo) CreateParticipant(_ context.Context, participant *models.Participant) (int64, error) {
	for _, p := range r.participants {
		if p.ApplicationID == participant.ApplicationID {
			return 0, apperrors.ErrParticipantExists
		}
		if p.ScheduledProgramID == participant.ScheduledProgramID && p.RollNo == participant.RollNo {
			return 0, apperrors.ErrParticipantExists
		}
	}
	id := r.nextID
	r.nextID++
	stored := *participant
	stored.ID = id
	r.participants[id] = &stored
	return id, nil
}

func (r *fakeParticipantRepo) ListParticipantsBySchedule(_ context.Context, scheduledProgramID int64) ([]*models.Participant, error) {
	var out []*models.Participant
	for _, p := range r.participants {
		if p.ScheduledProgramID == scheduledProgramID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNo < out[j].RollNo })
	return out, nil
}

func (r *fakeParticipantRepo) NextRollNo(_ context.Context, scheduledProgramID int64) (int, error) {
	max := 0
	for _, p := range r.participants {
		if p.ScheduledProgramID == scheduledProgramID && p.RollNo > max {
			max = p.RollNo
		}
	}
	return max + 1, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
