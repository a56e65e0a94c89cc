package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/handler"
	"github.com/quickpoll/backend/src/repository"
	"github.com/quickpoll/backend/src/service"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	postgresDriver "gorm.io/driver/postgres"
	sqliteDriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Application struct {
	config         AppConfig
	database       *gorm.DB
	redis          *redis.Client
	PollService    *service.PollService
	VoteService    *service.VoteService
	CaptchaService *service.CaptchaService
	Eligibility    *service.EligibilityService
	Sweeper        *service.CaptchaSweeper
}

func NewApplication(ctx context.Context, config AppConfig) (*Application, error) {
	logger := zerolog.Ctx(ctx).With().Str("function", "NewApplication").Logger()

	database, err := OpenDatabase(*config.DBDriver, *config.DSN)
	if err != nil {
		logger.Error().Err(err).Msg("connection to database failed")
		return nil, err
	}
	logger.Info().Str("driver", *config.DBDriver).Msg("Database connection established")

	app := &Application{
		config:   config,
		database: database,
	}

	// run migration files
	if *config.DBDriver == "postgres" {
		if err := MigrationUp(*config.DSN, *config.MigrationPath); err != nil {
			logger.Error().Err(err).Msg("database migration failed")
			app.Shutdown(ctx)
			return nil, err
		}
	} else if err := repository.AutoMigrate(database); err != nil {
		logger.Error().Err(err).Msg("database auto-migration failed")
		app.Shutdown(ctx)
		return nil, err
	}

	var challengeStore repository.ChallengeStore
	if *config.CaptchaStore == "redis" {
		redisOpts, err := redis.ParseURL(*config.RedisAddr)
		if err != nil {
			logger.Error().Err(err).Msg("failed to parse redis URL")
			app.Shutdown(ctx)
			return nil, err
		}

		app.redis = redis.NewClient(redisOpts)

		// Test Redis connection
		if err := app.redis.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("connection to redis failed")
			app.Shutdown(ctx)
			return nil, err
		}
		logger.Info().Msg("Redis connection established")

		challengeStore = repository.NewCaptchaCacheRepository(app.redis, "captcha")
	} else {
		challengeStore = repository.NewCaptchaRepository(database)
	}

	location, err := time.LoadLocation(*config.DisplayTimezone)
	if err != nil {
		logger.Warn().Err(err).Str("timezone", *config.DisplayTimezone).Msg("unknown display timezone, using UTC")
		location = time.UTC
	}

	pollRepo := repository.NewPollRepository(database)
	voteRepo := repository.NewVoteRepository(database)

	app.Eligibility = service.NewEligibilityService(voteRepo)
	app.CaptchaService = service.NewCaptchaService(challengeStore, service.CaptchaConfig{
		Kind:              domain.CaptchaKind(*config.CaptchaKind),
		ChallengeTTL:      *config.CaptchaTTL,
		VerifiedTTL:       *config.VerifiedTokenTTL,
		PositionTolerance: float64(*config.PositionTolerance),
	})
	app.PollService = service.NewPollService(pollRepo, app.Eligibility, location)
	app.VoteService = service.NewVoteService(pollRepo, voteRepo, app.Eligibility, app.CaptchaService)
	app.Sweeper = service.NewCaptchaSweeper(challengeStore, *config.SweepInterval)

	if *config.SeedDemoPoll {
		if err := app.PollService.SeedDemoPoll(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to seed demo poll")
		}
	}

	return app, nil
}

// OpenDatabase connects with the given driver and verifies the connection.
// Unique constraint violations are translated to gorm.ErrDuplicatedKey.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgresDriver.Open(dsn)
	case "sqlite":
		dialector = sqliteDriver.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	db, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database connection: %w", err)
	}

	// SQLite allows a single writer; one connection avoids busy errors
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

func (app *Application) Shutdown(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("function", "Shutdown").Logger()

	// Close database connection
	if app.database != nil {
		db, err := app.database.DB()
		if err != nil {
			logger.Error().Err(err).Msg("Failed to get underlying database connection")
		} else {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close database connection")
			} else {
				logger.Info().Msg("Database connection closed")
			}
		}
	}

	// Close Redis connection
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close redis connection")
		} else {
			logger.Info().Msg("Redis connection closed")
		}
	}
}

func (app *Application) RunHTTPServer(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("function", "RunHTTPServer").Logger()

	// Set to release mode to disable Gin logger
	gin.SetMode(gin.ReleaseMode)

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())

	// Register routes
	app.registerRoutes(ctx, ginRouter)

	// Build HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", *app.config.Port),
		Handler: ginRouter,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Msgf("HTTP server is on http://localhost:%s/health", *app.config.Port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Panic().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info().Msg("Gracefully shutting down HTTP server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shutdown HTTP server gracefully")
	} else {
		logger.Info().Msg("HTTP server shutdown complete")
	}
}

func (app *Application) RunCaptchaSweeper(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("function", "RunCaptchaSweeper").Logger()

	if err := app.Sweeper.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("Captcha sweeper exited")
	}
}

func (app *Application) healthChecks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error {
			db, err := app.database.DB()
			if err != nil {
				return err
			}
			return db.PingContext(ctx)
		},
	}
	if app.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (app *Application) registerRoutes(ctx context.Context, router *gin.Engine) {
	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = *app.config.AllowOrigins
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With", handler.HeaderAPISecret, handler.HeaderFingerprint, handler.HeaderRequestID}
	config.ExposeHeaders = []string{handler.HeaderCaptchaToken}
	config.AllowCredentials = true

	router.Use(cors.New(config))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler.RegisterRoutes(ctx, router, handler.Dependencies{
		PollService:    app.PollService,
		VoteService:    app.VoteService,
		CaptchaService: app.CaptchaService,
		Eligibility:    app.Eligibility,
		APISecret:      *app.config.APISecret,
		HealthChecks:   app.healthChecks(),
	})
}
