package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/repository"
	"github.com/rs/zerolog"
)

// Vote outcomes as reported to logs and tests.
const (
	OutcomeSuccess        = "success"
	OutcomeAlreadyVoted   = "already_voted"
	OutcomeInvalidCaptcha = "invalid_captcha"
	OutcomeInvalidOption  = "invalid_option"
	OutcomeInternalError  = "internal_error"
)

type VoteService struct {
	pollRepo    *repository.PollRepository
	voteRepo    *repository.VoteRepository
	eligibility *EligibilityService
	captcha     *CaptchaService
	now         func() time.Time
}

func NewVoteService(
	pollRepo *repository.PollRepository,
	voteRepo *repository.VoteRepository,
	eligibility *EligibilityService,
	captcha *CaptchaService,
) *VoteService {
	return &VoteService{
		pollRepo:    pollRepo,
		voteRepo:    voteRepo,
		eligibility: eligibility,
		captcha:     captcha,
		now:         time.Now,
	}
}

func (s *VoteService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("service", "vote").Logger()
	return &l
}

// ResultsURL is where an actor who already voted is sent.
func ResultsURL(pollID uint) string {
	return fmt.Sprintf("/results/%d", pollID)
}

func alreadyVotedError(pollID uint, cause error) error {
	return domain.NewError(domain.ErrorCodeAlreadyVoted, cause,
		domain.WithMsg("You have already voted on this poll"),
		domain.WithDetail("results_url", ResultsURL(pollID)))
}

// CastVote validates the option, checks eligibility, consumes the verified
// captcha token and records the vote. Each step short-circuits; the final
// write is one transaction so a failure leaves no partial effect.
func (s *VoteService) CastVote(ctx context.Context, pollID, optionID uint, actor domain.ActorIdentity, verifiedToken string) (*domain.VoteRecord, error) {
	logger := s.logger(ctx).With().
		Uint("poll_id", pollID).
		Uint("option_id", optionID).
		Str("ip", actor.IP).
		Logger()

	poll, err := s.pollRepo.FindPollWithOptions(ctx, pollID)
	if errors.Is(err, domain.ErrPollNotFound) {
		return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err, domain.WithMsg("Poll not found"))
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to load poll")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Vote failed, please try again"))
	}
	if !poll.HasOption(optionID) {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, domain.ErrInvalidOption, domain.WithMsg("Please choose one of the poll's options"))
	}

	eligible, err := s.eligibility.IsEligible(ctx, pollID, actor)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Vote failed, please try again"))
	}
	if !eligible {
		logger.Info().Msg("rejected duplicate vote")
		return nil, alreadyVotedError(pollID, domain.ErrAlreadyVoted)
	}

	outcome, err := s.captcha.ConsumeVerified(ctx, verifiedToken)
	if outcome != VerifySuccess {
		if err != nil {
			logger.Error().Err(err).Msg("captcha verification failed closed")
		}
		return nil, domain.NewError(domain.ErrorCodeCaptchaInvalid, domain.ErrInvalidCaptcha,
			domain.WithMsg("Please complete the captcha"),
			domain.WithDetail("reason", string(outcome)))
	}

	record, err := s.voteRepo.CastVote(ctx, pollID, optionID, actor, s.now())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyVoted):
		logger.Info().Msg("rejected duplicate vote at commit")
		return nil, alreadyVotedError(pollID, err)
	case errors.Is(err, domain.ErrInvalidOption):
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("Please choose one of the poll's options"))
	case errors.Is(err, domain.ErrPollNotFound):
		return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err, domain.WithMsg("Poll not found"))
	default:
		logger.Error().Err(err).Msg("vote transaction failed")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Vote failed, please try again"))
	}

	logger.Info().Msg("vote recorded")
	return record, nil
}

// OutcomeOf maps a CastVote error to its outcome name.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrAlreadyVoted):
		return OutcomeAlreadyVoted
	case errors.Is(err, domain.ErrInvalidCaptcha):
		return OutcomeInvalidCaptcha
	case errors.Is(err, domain.ErrInvalidOption), errors.Is(err, domain.ErrPollNotFound):
		return OutcomeInvalidOption
	default:
		return OutcomeInternalError
	}
}
