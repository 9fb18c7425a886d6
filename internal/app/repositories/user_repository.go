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

// UserRepository handles user account database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var userColumns = []string{
	"id", "login_id", "password", "role", "email",
	"first_name", "last_name", "created_at", "updated_at", "last_login_at",
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.LoginID, &user.Password, &user.Role, &user.Email,
		&user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser creates a new user account
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("users").
		Columns("login_id", "password", "role", "email", "first_name", "last_name", "created_at", "updated_at").
		Values(user.LoginID, user.Password, user.Role, user.Email, user.FirstName, user.LastName, now, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrLoginIDExists
		}
		logger.Error().Err(err).Str("loginID", user.LoginID).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by ID SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}

	return user, nil
}

// GetUserByLoginID retrieves a user by login ID
func (r *UserRepository) GetUserByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"login_id": loginID}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by login ID SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("loginID", loginID).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user by login ID: %w", err)
	}

	return user, nil
}

// LoginIDExists checks whether a login ID is already taken
func (r *UserRepository) LoginIDExists(ctx context.Context, loginID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("users").
		Where(squirrel.Eq{"login_id": loginID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building login ID exists SQL")
		return false, fmt.Errorf("failed to build login ID existence query: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Str("loginID", loginID).Msg("Error checking login ID existence")
		return false, fmt.Errorf("error checking login ID existence: %w", err)
	}

	return exists, nil
}

// UpdateLastLogin records the time of a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update last login SQL")
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update last login query")
		return fmt.Errorf("error updating last login: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash for a user
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	sql, args, err := r.sb.Update("users").
		SetMap(map[string]interface{}{
			"password":   hashedPassword,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update password SQL")
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update password query")
		return fmt.Errorf("error updating password: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateLoginID replaces a user's login ID
func (r *UserRepository) UpdateLoginID(ctx context.Context, userID int64, newLoginID string) error {
	sql, args, err := r.sb.Update("users").
		SetMap(map[string]interface{}{
			"login_id":   newLoginID,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update login ID SQL")
		return fmt.Errorf("failed to build update login ID query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrLoginIDExists
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update login ID query")
		return fmt.Errorf("error updating login ID: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateProfile applies a partial update of account fields.
// The fields map uses column names as keys; an empty map is a no-op.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	sql, args, err := r.sb.Update("users").
		SetMap(fields).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrLoginIDExists
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
