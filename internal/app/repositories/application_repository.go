package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uasphere/uas-backend/internal/app/models"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
	"github.com/uasphere/uas-backend/internal/pkg/dberrors"
	"github.com/uasphere/uas-backend/internal/pkg/logger"
)

// ApplicationRepository handles admission application database operations
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var applicationColumns = []string{
	"id", "full_name", "date_of_birth", "highest_qualification", "marks_obtained",
	"goals", "email", "scheduled_program_id", "status", "date_of_interview",
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	app := &models.Application{}
	err := row.Scan(
		&app.ID, &app.FullName, &app.DateOfBirth, &app.HighestQualification, &app.MarksObtained,
		&app.Goals, &app.Email, &app.ScheduledProgramID, &app.Status, &app.DateOfInterview,
	)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// CreateApplication creates a new admission application
func (r *ApplicationRepository) CreateApplication(ctx context.Context, app *models.Application) (int64, error) {
	sql, args, err := r.sb.Insert("applications").
		Columns("full_name", "date_of_birth", "highest_qualification", "marks_obtained",
			"goals", "email", "scheduled_program_id", "status").
		Values(app.FullName, app.DateOfBirth, app.HighestQualification, app.MarksObtained,
			app.Goals, app.Email, app.ScheduledProgramID, app.Status).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create application SQL")
		return 0, fmt.Errorf("failed to build create application query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrScheduleNotFound
		}
		logger.Error().Err(err).Str("email", app.Email).Msg("Error executing create application query")
		return 0, fmt.Errorf("error creating application: %w", err)
	}

	return id, nil
}

// GetApplicationByID retrieves an application by ID
func (r *ApplicationRepository) GetApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).
		From("applications").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get application by ID SQL")
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	app, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error scanning application row")
		return nil, fmt.Errorf("error getting application by ID: %w", err)
	}

	return app, nil
}

// ListApplications retrieves a page of applications with optional filters
func (r *ApplicationRepository) ListApplications(ctx context.Context, scheduledProgramID *int64, status string, offset uint64, limit int) ([]*models.Application, error) {
	query := r.sb.Select(applicationColumns...).
		From("applications").
		OrderBy("id ASC").
		Offset(offset).
		Limit(uint64(limit))

	if scheduledProgramID != nil {
		query = query.Where(squirrel.Eq{"scheduled_program_id": *scheduledProgramID})
	}
	if status != "" {
		query = query.Where(squirrel.Eq{"status": status})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list applications SQL")
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list applications query")
		return nil, fmt.Errorf("error querying applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning application row during list")
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating application rows")
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}

	return apps, nil
}

// CountApplications returns the number of applications matching the filters
func (r *ApplicationRepository) CountApplications(ctx context.Context, scheduledProgramID *int64, status string) (int64, error) {
	query := r.sb.Select("COUNT(*)").From("applications")
	if scheduledProgramID != nil {
		query = query.Where(squirrel.Eq{"scheduled_program_id": *scheduledProgramID})
	}
	if status != "" {
		query = query.Where(squirrel.Eq{"status": status})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count applications SQL")
		return 0, fmt.Errorf("failed to build count applications query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count applications query")
		return 0, fmt.Errorf("error counting applications: %w", err)
	}

	return count, nil
}

// UpdateApplicationStatus sets the review decision on an application
func (r *ApplicationRepository) UpdateApplicationStatus(ctx context.Context, id int64, status string, dateOfInterview *time.Time) error {
	sql, args, err := r.sb.Update("applications").
		SetMap(map[string]interface{}{
			"status":            status,
			"date_of_interview": dateOfInterview,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update application status SQL")
		return fmt.Errorf("failed to build update application status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error executing update application status query")
		return fmt.Errorf("error updating application status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// DeleteApplication deletes an application by ID
func (r *ApplicationRepository) DeleteApplication(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("applications").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building delete application SQL")
		return fmt.Errorf("failed to build delete application query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrParticipantExists
		}
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error executing delete application query")
		return fmt.Errorf("error deleting application: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}

	return nil
}
