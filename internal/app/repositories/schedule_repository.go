package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uasphere/uas-backend/internal/app/models"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
	"github.com/uasphere/uas-backend/internal/pkg/dberrors"
	"github.com/uasphere/uas-backend/internal/pkg/logger"
)

// ScheduleRepository handles scheduled program database operations
type ScheduleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// scheduleColumns are always selected with a join to programs_offered so the
// program name is available for display.
var scheduleColumns = []string{
	"s.id", "s.program_id", "s.location", "s.start_date", "s.end_date", "s.sessions_per_week", "p.name",
}

func scanSchedule(row pgx.Row) (*models.ProgramScheduled, error) {
	schedule := &models.ProgramScheduled{}
	err := row.Scan(
		&schedule.ID, &schedule.ProgramID, &schedule.Location,
		&schedule.StartDate, &schedule.EndDate, &schedule.SessionsPerWeek, &schedule.ProgramName,
	)
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// CreateSchedule creates a new scheduled program
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule *models.ProgramScheduled) (int64, error) {
	sql, args, err := r.sb.Insert("programs_scheduled").
		Columns("program_id", "location", "start_date", "end_date", "sessions_per_week").
		Values(schedule.ProgramID, schedule.Location, schedule.StartDate, schedule.EndDate, schedule.SessionsPerWeek).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create schedule SQL")
		return 0, fmt.Errorf("failed to build create schedule query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Int64("programID", schedule.ProgramID).Msg("Error executing create schedule query")
		return 0, fmt.Errorf("error creating schedule: %w", err)
	}

	return id, nil
}

// GetScheduleByID retrieves a scheduled program by ID
func (r *ScheduleRepository) GetScheduleByID(ctx context.Context, id int64) (*models.ProgramScheduled, error) {
	sql, args, err := r.sb.Select(scheduleColumns...).
		From("programs_scheduled s").
		Join("programs_offered p ON p.id = s.program_id").
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get schedule by ID SQL")
		return nil, fmt.Errorf("failed to build get schedule query: %w", err)
	}

	schedule, err := scanSchedule(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScheduleNotFound
		}
		logger.Error().Err(err).Int64("scheduleID", id).Msg("Error scanning schedule row")
		return nil, fmt.Errorf("error getting schedule by ID: %w", err)
	}

	return schedule, nil
}

// ListSchedules retrieves a page of scheduled programs, optionally filtered by program
func (r *ScheduleRepository) ListSchedules(ctx context.Context, programID *int64, offset uint64, limit int) ([]*models.ProgramScheduled, error) {
	query := r.sb.Select(scheduleColumns...).
		From("programs_scheduled s").
		Join("programs_offered p ON p.id = s.program_id").
		OrderBy("s.start_date ASC", "p.name ASC").
		Offset(offset).
		Limit(uint64(limit))

	if programID != nil {
		query = query.Where(squirrel.Eq{"s.program_id": *programID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list schedules SQL")
		return nil, fmt.Errorf("failed to build list schedules query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list schedules query")
		return nil, fmt.Errorf("error querying schedules: %w", err)
	}
	defer rows.Close()

	schedules := []*models.ProgramScheduled{}
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning schedule row during list")
			return nil, fmt.Errorf("error scanning schedule row: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating schedule rows")
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}

	return schedules, nil
}

// CountSchedules returns the number of scheduled programs, optionally filtered by program
func (r *ScheduleRepository) CountSchedules(ctx context.Context, programID *int64) (int64, error) {
	query := r.sb.Select("COUNT(*)").From("programs_scheduled")
	if programID != nil {
		query = query.Where(squirrel.Eq{"program_id": *programID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count schedules SQL")
		return 0, fmt.Errorf("failed to build count schedules query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count schedules query")
		return 0, fmt.Errorf("error counting schedules: %w", err)
	}

	return count, nil
}

// UpdateSchedule updates an existing scheduled program
func (r *ScheduleRepository) UpdateSchedule(ctx context.Context, schedule *models.ProgramScheduled) error {
	sql, args, err := r.sb.Update("programs_scheduled").
		SetMap(map[string]interface{}{
			"program_id":        schedule.ProgramID,
			"location":          schedule.Location,
			"start_date":        schedule.StartDate,
			"end_date":          schedule.EndDate,
			"sessions_per_week": schedule.SessionsPerWeek,
		}).
		Where(squirrel.Eq{"id": schedule.ID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update schedule SQL")
		return fmt.Errorf("failed to build update schedule query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Int64("scheduleID", schedule.ID).Msg("Error executing update schedule query")
		return fmt.Errorf("error updating schedule: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrScheduleNotFound
	}

	return nil
}

// DeleteSchedule deletes a scheduled program by ID
func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("programs_scheduled").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building delete schedule SQL")
		return fmt.Errorf("failed to build delete schedule query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrScheduleHasApplications
		}
		logger.Error().Err(err).Int64("scheduleID", id).Msg("Error executing delete schedule query")
		return fmt.Errorf("error deleting schedule: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrScheduleNotFound
	}

	return nil
}
