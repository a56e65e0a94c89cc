package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/quickpoll/backend/src/app"
	"github.com/quickpoll/backend/src/repository"
	"github.com/quickpoll/backend/src/service"
)

// maintenance runs one captcha sweep and checks that every poll's option
// counters add up to its vote ledger. It exits non-zero on a mismatch.
func main() {
	skipSweep := flag.Bool("skip-sweep", false, "do not delete expired captcha records")
	skipAudit := flag.Bool("skip-audit", false, "do not compare counters with the vote ledger")
	flag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
		log.Println("Proceeding with environment variables from system...")
	}

	config := app.NewAppConfig()

	logger := app.InitLogger(*config.LogLevel, *config.Environment)

	ctx := logger.WithContext(context.Background())

	database, err := app.OpenDatabase(*config.DBDriver, *config.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	db, err := database.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get underlying database connection")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}()

	logger.Info().Str("driver", *config.DBDriver).Msg("Database connection established")

	if !*skipSweep {
		// redis keys expire on their own
		sweeper := service.NewCaptchaSweeper(repository.NewCaptchaRepository(database), *config.SweepInterval)
		deleted, err := sweeper.Sweep(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("Captcha sweep failed")
		}
		logger.Info().Int64("deleted", deleted).Msg("Captcha sweep complete")
	}

	if *skipAudit {
		return
	}

	pollRepo := repository.NewPollRepository(database)
	voteRepo := repository.NewVoteRepository(database)

	polls, err := pollRepo.ListPolls(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to list polls")
	}

	mismatches := 0
	for _, p := range polls {
		poll, err := pollRepo.FindPollWithOptions(ctx, p.ID)
		if err != nil {
			logger.Warn().Err(err).Uint("poll_id", p.ID).Msg("Skipping poll")
			continue
		}

		ledger, err := voteRepo.CountVotes(ctx, poll.ID)
		if err != nil {
			logger.Fatal().Err(err).Uint("poll_id", poll.ID).Msg("Failed to count votes")
		}

		if counters := poll.TotalVotes(); counters != ledger {
			mismatches++
			logger.Error().
				Uint("poll_id", poll.ID).
				Int64("counters", counters).
				Int64("ledger", ledger).
				Msg("Vote counters do not match the ledger")
		}
	}

	logger.Info().
		Int("polls", len(polls)).
		Int("mismatches", mismatches).
		Msg("Vote audit complete")

	if mismatches > 0 {
		os.Exit(1)
	}
}
