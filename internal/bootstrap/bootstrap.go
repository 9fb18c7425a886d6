package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/uasphere/uas-backend/internal/app/controllers"
	appMigrations "github.com/uasphere/uas-backend/internal/app/migrations"
	appRepos "github.com/uasphere/uas-backend/internal/app/repositories"
	appRoutes "github.com/uasphere/uas-backend/internal/app/routes"
	appServices "github.com/uasphere/uas-backend/internal/app/services"
	"github.com/uasphere/uas-backend/internal/config"
	"github.com/uasphere/uas-backend/internal/db"
	appMiddleware "github.com/uasphere/uas-backend/internal/middleware"
	pkgAuth "github.com/uasphere/uas-backend/internal/pkg/auth"
	"github.com/uasphere/uas-backend/internal/pkg/email"
	"github.com/uasphere/uas-backend/internal/pkg/helpers"
	"github.com/uasphere/uas-backend/internal/pkg/logger"
	"github.com/uasphere/uas-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           appServices.AuthService
	ProgramService        appServices.ProgramService
	ApplicationService    appServices.ApplicationService
	AuthController        *appControllers.AuthController
	ProgramController     *appControllers.ProgramController
	ApplicationController *appControllers.ApplicationController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	RateLimiter           *appMiddleware.RateLimiter
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	EmailService          email.EmailService
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Seed data failures are logged, not fatal.
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		deps.EmailService,
		lgr,
	)
	deps.ProgramService = appServices.NewProgramService(
		deps.Repos.ProgramRepository,
		deps.Repos.ScheduleRepository,
		lgr,
	)
	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos.ApplicationRepository,
		deps.Repos.ParticipantRepository,
		deps.Repos.ScheduleRepository,
		lgr,
	)

	// Stale sessions from previous runs are removed once at startup;
	// failure is logged, not fatal.
	if _, err := deps.AuthService.PurgeExpiredSessions(context.Background()); err != nil {
		lgr.Warn().Err(err).Msg("Failed to purge expired sessions")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.PerMinute)
	}

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.ProgramController = appControllers.NewProgramController(deps.ProgramService, lgr)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ProgramController,
		deps.ApplicationController,
		deps.AuthMiddleware,
		deps.RateLimiter,
	)

	return router
}
