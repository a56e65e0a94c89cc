package service

import (
	"context"

	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/repository"
	"github.com/rs/zerolog"
)

// EligibilityService decides whether an actor may vote on a poll. The policy
// is a lifetime ban: one accepted vote per actor per poll, ever.
type EligibilityService struct {
	voteRepo *repository.VoteRepository
}

func NewEligibilityService(voteRepo *repository.VoteRepository) *EligibilityService {
	return &EligibilityService{
		voteRepo: voteRepo,
	}
}

func (s *EligibilityService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("service", "eligibility").Logger()
	return &l
}

// IsEligible is a pure read. Callers must treat a non-nil error as
// "not eligible".
func (s *EligibilityService) IsEligible(ctx context.Context, pollID uint, actor domain.ActorIdentity) (bool, error) {
	last, err := s.LastVote(ctx, pollID, actor)
	if err != nil {
		return false, err
	}
	return last == nil, nil
}

// LastVote returns the actor's vote on pollID, or nil.
func (s *EligibilityService) LastVote(ctx context.Context, pollID uint, actor domain.ActorIdentity) (*domain.VoteRecord, error) {
	last, err := s.voteRepo.LastVote(ctx, pollID, actor)
	if err != nil {
		s.logger(ctx).Error().Err(err).
			Uint("poll_id", pollID).
			Str("ip", actor.IP).
			Msg("failed to read vote history")
		return nil, err
	}
	return last, nil
}

// LastVotes returns the actor's vote on every poll they voted on, keyed by
// poll ID.
func (s *EligibilityService) LastVotes(ctx context.Context, actor domain.ActorIdentity) (map[uint]*domain.VoteRecord, error) {
	last, err := s.voteRepo.LastVotes(ctx, actor)
	if err != nil {
		s.logger(ctx).Error().Err(err).
			Str("ip", actor.IP).
			Msg("failed to read vote history")
		return nil, err
	}
	return last, nil
}
