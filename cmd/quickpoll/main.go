package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/quickpoll/backend/docs/swagger"
	"github.com/quickpoll/backend/src/app"
	"github.com/rs/zerolog"
)

// @license.name  MIT

// @BasePath  /

const (
	AppName    = "QuickPoll"
	AppVersion = "0.3.0"

	shutdownTimeout = 15 * time.Second
)

func main() {
	// .env is optional in production
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Overload(".env"); err != nil {
			log.Fatalf("Error loading .env file: %v", err)
		}
	}

	os.Exit(run(*app.NewAppConfig()))
}

// run starts every worker and blocks until SIGINT or SIGTERM. It returns the
// process exit code.
func run(config app.AppConfig) int {
	swagger.SwaggerInfo.Title = AppName + " API"
	swagger.SwaggerInfo.Version = AppVersion
	swagger.SwaggerInfo.Description = "Single-question polls with duplicate-vote prevention and a captcha gate"
	swagger.SwaggerInfo.Host = *config.Host

	logger := app.InitLogger(*config.LogLevel, *config.Environment)

	ctx, stop := signal.NotifyContext(logger.WithContext(context.Background()), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("version", AppVersion).
		Str("environment", *config.Environment).
		Str("db_driver", *config.DBDriver).
		Str("captcha_kind", *config.CaptchaKind).
		Str("captcha_store", *config.CaptchaStore).
		Msgf("Launching %s", AppName)

	application, err := app.NewApplication(ctx, config)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		return 1
	}

	workers := []func(context.Context, *sync.WaitGroup){
		application.RunHTTPServer,
		application.RunCaptchaSweeper,
	}
	if *config.Environment == "dev" {
		workers = append(workers, runPprofServer)
	}

	var wg sync.WaitGroup
	for _, worker := range workers {
		wg.Add(1)
		go worker(ctx, &wg)
	}

	<-ctx.Done()
	logger.Info().Msg("Received shutdown signal")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	code := 0
	select {
	case <-done:
		logger.Info().Msg("All workers shut down gracefully")
	case <-time.After(shutdownTimeout):
		logger.Error().Msg("Timeout waiting for workers to shut down")
		code = 1
	}

	application.Shutdown(ctx)
	logger.Info().Msg("Application shutdown complete")
	return code
}

// runPprofServer serves the pprof endpoints registered on the default mux.
func runPprofServer(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("function", "runPprofServer").Logger()
	server := &http.Server{
		Addr:              "localhost:6060",
		Handler:           http.DefaultServeMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Msg("pprof server is running on http://localhost:6060/debug/pprof/")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Failed to start pprof server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shutdown pprof server gracefully")
	}
}
