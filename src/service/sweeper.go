package service

import (
	"context"
	"time"

	"github.com/quickpoll/backend/src/repository"
	"github.com/rs/zerolog"
)

// CaptchaSweeper periodically deletes expired captcha records so abandoned
// challenges do not accumulate.
type CaptchaSweeper struct {
	store    repository.ChallengeStore
	interval time.Duration
	now      func() time.Time
}

func NewCaptchaSweeper(store repository.ChallengeStore, interval time.Duration) *CaptchaSweeper {
	return &CaptchaSweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

func (s *CaptchaSweeper) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "captcha-sweeper").Logger()
	return &l
}

// Start runs the sweep loop until ctx is cancelled.
func (s *CaptchaSweeper) Start(ctx context.Context) error {
	s.logger(ctx).Info().
		Dur("interval", s.interval).
		Msg("starting captcha sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger(ctx).Info().Msg("captcha sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger(ctx).Error().Err(err).Msg("sweep cycle failed")
			}
		}
	}
}

// Sweep performs a single cleanup pass.
func (s *CaptchaSweeper) Sweep(ctx context.Context) (int64, error) {
	deleted, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger(ctx).Debug().Int64("deleted", deleted).Msg("expired captcha records removed")
	}
	return deleted, nil
}
