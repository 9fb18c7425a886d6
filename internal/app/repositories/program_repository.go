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

// ProgramRepository handles offered program database operations
type ProgramRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProgramRepository creates a new ProgramRepository
func NewProgramRepository(db *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var programColumns = []string{
	"id", "name", "description", "applicant_eligibility", "duration_months", "degree_certificate_offered",
}

func scanProgram(row pgx.Row) (*models.ProgramOffered, error) {
	program := &models.ProgramOffered{}
	err := row.Scan(
		&program.ID, &program.Name, &program.Description,
		&program.ApplicantEligibility, &program.DurationMonths, &program.DegreeCertificateOffered,
	)
	if err != nil {
		return nil, err
	}
	return program, nil
}

// CreateProgram creates a new offered program
func (r *ProgramRepository) CreateProgram(ctx context.Context, program *models.ProgramOffered) (int64, error) {
	sql, args, err := r.sb.Insert("programs_offered").
		Columns("name", "description", "applicant_eligibility", "duration_months", "degree_certificate_offered").
		Values(program.Name, program.Description, program.ApplicantEligibility, program.DurationMonths, program.DegreeCertificateOffered).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create program SQL")
		return 0, fmt.Errorf("failed to build create program query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrProgramAlreadyExists
		}
		logger.Error().Err(err).Str("name", program.Name).Msg("Error executing create program query")
		return 0, fmt.Errorf("error creating program: %w", err)
	}

	return id, nil
}

// GetProgramByID retrieves an offered program by ID
func (r *ProgramRepository) GetProgramByID(ctx context.Context, id int64) (*models.ProgramOffered, error) {
	sql, args, err := r.sb.Select(programColumns...).
		From("programs_offered").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get program by ID SQL")
		return nil, fmt.Errorf("failed to build get program query: %w", err)
	}

	program, err := scanProgram(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Int64("programID", id).Msg("Error scanning program row")
		return nil, fmt.Errorf("error getting program by ID: %w", err)
	}

	return program, nil
}

// GetProgramByName retrieves an offered program by its exact name
func (r *ProgramRepository) GetProgramByName(ctx context.Context, name string) (*models.ProgramOffered, error) {
	sql, args, err := r.sb.Select(programColumns...).
		From("programs_offered").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get program by name SQL")
		return nil, fmt.Errorf("failed to build get program query: %w", err)
	}

	program, err := scanProgram(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Str("name", name).Msg("Error scanning program row")
		return nil, fmt.Errorf("error getting program by name: %w", err)
	}

	return program, nil
}

// SearchPrograms finds programs whose name or description contains the given term
func (r *ProgramRepository) SearchPrograms(ctx context.Context, column, term string) ([]*models.ProgramOffered, error) {
	if column != "name" && column != "description" {
		return nil, fmt.Errorf("unsupported search column: %s", column)
	}

	sql, args, err := r.sb.Select(programColumns...).
		From("programs_offered").
		Where(squirrel.ILike{column: "%" + term + "%"}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building search programs SQL")
		return nil, fmt.Errorf("failed to build search programs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("term", term).Msg("Error executing search programs query")
		return nil, fmt.Errorf("error searching programs: %w", err)
	}
	defer rows.Close()

	programs := []*models.ProgramOffered{}
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning program row during search")
			return nil, fmt.Errorf("error scanning program row: %w", err)
		}
		programs = append(programs, program)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating program rows")
		return nil, fmt.Errorf("error iterating program rows: %w", err)
	}

	return programs, nil
}

// ListPrograms retrieves a page of offered programs ordered by name
func (r *ProgramRepository) ListPrograms(ctx context.Context, offset uint64, limit int) ([]*models.ProgramOffered, error) {
	sql, args, err := r.sb.Select(programColumns...).
		From("programs_offered").
		OrderBy("name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list programs SQL")
		return nil, fmt.Errorf("failed to build list programs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list programs query")
		return nil, fmt.Errorf("error querying programs: %w", err)
	}
	defer rows.Close()

	programs := []*models.ProgramOffered{}
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning program row during list")
			return nil, fmt.Errorf("error scanning program row: %w", err)
		}
		programs = append(programs, program)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating program rows")
		return nil, fmt.Errorf("error iterating program rows: %w", err)
	}

	return programs, nil
}

// CountPrograms returns the total number of offered programs
func (r *ProgramRepository) CountPrograms(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("programs_offered").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building count programs SQL")
		return 0, fmt.Errorf("failed to build count programs query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count programs query")
		return 0, fmt.Errorf("error counting programs: %w", err)
	}

	return count, nil
}

// UpdateProgram updates an existing offered program
func (r *ProgramRepository) UpdateProgram(ctx context.Context, program *models.ProgramOffered) error {
	sql, args, err := r.sb.Update("programs_offered").
		SetMap(map[string]interface{}{
			"name":                       program.Name,
			"description":                program.Description,
			"applicant_eligibility":      program.ApplicantEligibility,
			"duration_months":            program.DurationMonths,
			"degree_certificate_offered": program.DegreeCertificateOffered,
		}).
		Where(squirrel.Eq{"id": program.ID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update program SQL")
		return fmt.Errorf("failed to build update program query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrProgramAlreadyExists
		}
		logger.Error().Err(err).Int64("programID", program.ID).Msg("Error executing update program query")
		return fmt.Errorf("error updating program: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}

	return nil
}

// DeleteProgram deletes an offered program by ID.
// The ON DELETE RESTRICT constraint on scheduled programs surfaces as a
// foreign key violation here.
func (r *ProgramRepository) DeleteProgram(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("programs_offered").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building delete program SQL")
		return fmt.Errorf("failed to build delete program query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrProgramHasSchedules
		}
		logger.Error().Err(err).Int64("programID", id).Msg("Error executing delete program query")
		return fmt.Errorf("error deleting program: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}

	return nil
}
