package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/uasphere/uas-backend/internal/app/models"
	appRepos "github.com/uasphere/uas-backend/internal/app/repositories"
	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
	"github.com/uasphere/uas-backend/internal/pkg/auth"
)

// CreateDefaultData creates the default admin account and a couple of
// catalog entries if they don't exist yet.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	programRepo := appRepos.NewProgramRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	// --- Default admin account --- //
	exists, err := userRepo.LoginIDExists(ctx, "admin")
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin account exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin account...")

		hashedPassword, err := auth.HashPassword("Admin123!")
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				LoginID:   "admin",
				Password:  hashedPassword,
				Role:      appModels.RoleAdmin,
				Email:     "admin@uas.app",
				FirstName: "Default",
				LastName:  "Admin",
			}
			if _, err := userRepo.CreateUser(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrLoginIDExists) {
				lgr.Error().Err(err).Msg("Error creating default admin account")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	// --- Sample offered programs --- //
	samplePrograms := []*appModels.ProgramOffered{
		{
			Name:                     "Data Science",
			Description:              "Applied statistics, machine learning and data engineering",
			ApplicantEligibility:     "Bachelor degree in a quantitative field",
			DurationMonths:           12,
			DegreeCertificateOffered: "Postgraduate Diploma",
		},
		{
			Name:                     "Software Engineering",
			Description:              "Design and construction of large software systems",
			ApplicantEligibility:     "Bachelor degree in computer science or equivalent",
			DurationMonths:           18,
			DegreeCertificateOffered: "Master of Engineering",
		},
	}

	for _, program := range samplePrograms {
		if _, err := programRepo.CreateProgram(ctx, program); err != nil && !errors.Is(err, apperrors.ErrProgramAlreadyExists) {
			lgr.Error().Err(err).Str("name", program.Name).Msg("Error creating sample program")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
