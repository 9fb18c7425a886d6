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

// ParticipantRepository handles enrolled participant database operations
type ParticipantRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateParticipant enrolls an accepted applicant into a scheduled program
func (r *ParticipantRepository) CreateParticipant(ctx context.Context, participant *models.Participant) (int64, error) {
	sql, args, err := r.sb.Insert("participants").
		Columns("roll_no", "email", "application_id", "scheduled_program_id").
		Values(participant.RollNo, participant.Email, participant.ApplicationID, participant.ScheduledProgramID).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create participant SQL")
		return 0, fmt.Errorf("failed to build create participant query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrParticipantExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Int64("applicationID", participant.ApplicationID).Msg("Error executing create participant query")
		return 0, fmt.Errorf("error creating participant: %w", err)
	}

	return id, nil
}

// GetParticipantByID retrieves a participant by ID
func (r *ParticipantRepository) GetParticipantByID(ctx context.Context, id int64) (*models.Participant, error) {
	sql, args, err := r.sb.Select("id", "roll_no", "email", "application_id", "scheduled_program_id").
		From("participants").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get participant by ID SQL")
		return nil, fmt.Errorf("failed to build get participant query: %w", err)
	}

	participant := &models.Participant{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&participant.ID, &participant.RollNo, &participant.Email,
		&participant.ApplicationID, &participant.ScheduledProgramID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("participantID", id).Msg("Error scanning participant row")
		return nil, fmt.Errorf("error getting participant by ID: %w", err)
	}

	return participant, nil
}

// ListParticipantsBySchedule retrieves all participants of a scheduled program ordered by roll number
func (r *ParticipantRepository) ListParticipantsBySchedule(ctx context.Context, scheduledProgramID int64) ([]*models.Participant, error) {
	sql, args, err := r.sb.Select("id", "roll_no", "email", "application_id", "scheduled_program_id").
		From("participants").
		Where(squirrel.Eq{"scheduled_program_id": scheduledProgramID}).
		OrderBy("roll_no ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list participants SQL")
		return nil, fmt.Errorf("failed to build list participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("scheduledProgramID", scheduledProgramID).Msg("Error executing list participants query")
		return nil, fmt.Errorf("error querying participants: %w", err)
	}
	defer rows.Close()

	participants := []*models.Participant{}
	for rows.Next() {
		participant := &models.Participant{}
		if err := rows.Scan(
			&participant.ID, &participant.RollNo, &participant.Email,
			&participant.ApplicationID, &participant.ScheduledProgramID,
		); err != nil {
			logger.Error().Err(err).Msg("Error scanning participant row during list")
			return nil, fmt.Errorf("error scanning participant row: %w", err)
		}
		participants = append(participants, participant)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating participant rows")
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}

	return participants, nil
}

// NextRollNo returns the next roll number for a scheduled program
func (r *ParticipantRepository) NextRollNo(ctx context.Context, scheduledProgramID int64) (int, error) {
	sql, args, err := r.sb.Select("COALESCE(MAX(roll_no), 0) + 1").
		From("participants").
		Where(squirrel.Eq{"scheduled_program_id": scheduledProgramID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building next roll number SQL")
		return 0, fmt.Errorf("failed to build next roll number query: %w", err)
	}

	var next int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&next); err != nil {
		logger.Error().Err(err).Int64("scheduledProgramID", scheduledProgramID).Msg("Error executing next roll number query")
		return 0, fmt.Errorf("error computing next roll number: %w", err)
	}

	return next, nil
}
