package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/aboadu/classtrack/internal/app/controllers"
	appMigrations "github.com/aboadu/classtrack/internal/app/migrations"
	appRepos "github.com/aboadu/classtrack/internal/app/repositories"
	"github.com/aboadu/classtrack/internal/app/repositories/memstore"
	appRoutes "github.com/aboadu/classtrack/internal/app/routes"
	appServices "github.com/aboadu/classtrack/internal/app/services"
	"github.com/aboadu/classtrack/internal/config"
	"github.com/aboadu/classtrack/internal/db"
	appMiddleware "github.com/aboadu/classtrack/internal/middleware"
	pkgAuth "github.com/aboadu/classtrack/internal/pkg/auth"
	"github.com/aboadu/classtrack/internal/pkg/logger"
	"github.com/aboadu/classtrack/internal/pkg/validation"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	SessionService       appServices.SessionService
	AttendanceService    appServices.AttendanceService
	SessionController    *appControllers.SessionController
	AttendanceController *appControllers.AttendanceController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	CheckInLimiter       appMiddleware.Limiter
	Stores               *appRepos.Stores
	JWTService           *pkgAuth.JWTService
	Logger               zerolog.Logger
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

// SetupStores selects and initializes the storage backend fixed by the
// configured driver. Returns the stores plus a cleanup function closing any
// underlying connections.
func SetupStores(cfg *config.Config, lgr zerolog.Logger) (*appRepos.Stores, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory store; all data is lost on shutdown")
		return memstore.NewStores(), func() {}, nil

	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		pool := database.Pool

		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(pool)

		migrationsDir := "migrations"
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			pool.Close()
			lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
			return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}

		if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
			pool.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		stores := appRepos.NewPostgresStores(pool, cfg.QueryTimeout())
		return stores, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// BuildDependencies wires services, controllers and middleware.
func BuildDependencies(cfg *config.Config, stores *appRepos.Stores, lgr zerolog.Logger) (*Dependencies, error) {
	if err := validation.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})

	sessionService := appServices.NewSessionService(stores.Sessions, cfg.Attendance.CodeAttempts)
	attendanceService := appServices.NewAttendanceService(stores.Sessions, stores.CheckIns, cfg.Attendance.ExportRowCap)

	var limiter appMiddleware.Limiter
	if !cfg.RateLimit.Enabled {
		limiter = allowAll{}
	} else if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = appMiddleware.NewRedisLimiter(client, cfg.RateLimit.PerMinute)
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis rate limiter configured")
	} else {
		limiter = appMiddleware.NewMemoryLimiter(cfg.RateLimit.Burst, cfg.RateLimit.PerMinute)
		lgr.Info().Msg("In-process rate limiter configured")
	}

	return &Dependencies{
		SessionService:       sessionService,
		AttendanceService:    attendanceService,
		SessionController:    appControllers.NewSessionController(sessionService),
		AttendanceController: appControllers.NewAttendanceController(attendanceService),
		AuthMiddleware:       appMiddleware.NewAuthMiddleware(jwtService),
		CheckInLimiter:       limiter,
		Stores:               stores,
		JWTService:           jwtService,
		Logger:               lgr,
	}, nil
}

// SetupRouter builds the gin engine with all middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.Metrics())

	appRoutes.SetupRouter(router, deps.SessionController, deps.AttendanceController, deps.AuthMiddleware, deps.CheckInLimiter)

	return router
}

type allowAll struct{}

func (allowAll) Allow(_ context.Context, _ string) bool { return true }
