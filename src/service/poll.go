package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DisplayTimeFormat is how timestamps are shown in the display timezone.
const DisplayTimeFormat = "2006-01-02 15:04"

type PollService struct {
	pollRepo    *repository.PollRepository
	eligibility *EligibilityService
	location    *time.Location
	now         func() time.Time
}

func NewPollService(pollRepo *repository.PollRepository, eligibility *EligibilityService, location *time.Location) *PollService {
	if location == nil {
		location = time.UTC
	}
	return &PollService{
		pollRepo:    pollRepo,
		eligibility: eligibility,
		location:    location,
		now:         time.Now,
	}
}

func (s *PollService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("service", "poll").Logger()
	return &l
}

// PollSummary is one row of the poll listing.
type PollSummary struct {
	ID          uint    `json:"id"`
	Question    string  `json:"question"`
	CreatedAt   string  `json:"created_at"`
	HasVoted    bool    `json:"has_voted"`
	VoteTime    *string `json:"vote_time,omitempty"`
	VoteTimeAgo string  `json:"vote_time_ago,omitempty"`
}

type OptionResult struct {
	ID         uint            `json:"id"`
	OptionText string          `json:"option_text"`
	Votes      int64           `json:"votes"`
	Percentage decimal.Decimal `json:"percentage"`
}

type PollResults struct {
	ID         uint           `json:"id"`
	Question   string         `json:"question"`
	CreatedAt  string         `json:"created_at"`
	TotalVotes int64          `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}

// NormalizeOptions trims every option and drops the empty ones.
func NormalizeOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			out = append(out, opt)
		}
	}
	return out
}

// CreatePoll validates the input and stores the poll with zeroed counters.
func (s *PollService) CreatePoll(ctx context.Context, question string, options []string) (*domain.Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, errors.New("empty question"), domain.WithMsg("Question must not be empty"))
	}

	options = NormalizeOptions(options)
	if len(options) < domain.MinPollOptions {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, errors.New("not enough options"),
			domain.WithMsg("At least two non-empty options are required"),
			domain.WithDetail("options", options))
	}

	poll := &domain.Poll{
		Question:  question,
		CreatedAt: s.now().UTC(),
	}
	for _, opt := range options {
		poll.Options = append(poll.Options, domain.Option{OptionText: opt})
	}

	if err := s.pollRepo.CreatePoll(ctx, poll); err != nil {
		s.logger(ctx).Error().Err(err).Str("question", question).Msg("failed to create poll")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Failed to create poll, please try again later"))
	}

	s.logger(ctx).Info().
		Uint("poll_id", poll.ID).
		Int("option_count", len(poll.Options)).
		Msg("poll created")
	return poll, nil
}

// ListPolls returns every poll, newest first, with the actor's voting status.
func (s *PollService) ListPolls(ctx context.Context, actor domain.ActorIdentity) ([]PollSummary, error) {
	polls, err := s.pollRepo.ListPolls(ctx)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to list polls")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Failed to load polls"))
	}

	voted, err := s.eligibility.LastVotes(ctx, actor)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Failed to load polls"))
	}

	summaries := make([]PollSummary, 0, len(polls))
	for _, poll := range polls {
		last := voted[poll.ID]
		summary := PollSummary{
			ID:        poll.ID,
			Question:  poll.Question,
			CreatedAt: s.FormatTime(poll.CreatedAt),
			HasVoted:  last != nil,
		}
		if last != nil {
			voteTime := s.FormatTime(last.VotedAt)
			summary.VoteTime = &voteTime
			summary.VoteTimeAgo = humanize.RelTime(last.VotedAt, s.now(), "ago", "from now")
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetPoll loads a poll with its options.
func (s *PollService) GetPoll(ctx context.Context, pollID uint) (*domain.Poll, error) {
	poll, err := s.pollRepo.FindPollWithOptions(ctx, pollID)
	if errors.Is(err, domain.ErrPollNotFound) {
		return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err, domain.WithMsg("Poll not found"))
	}
	if err != nil {
		s.logger(ctx).Error().Err(err).Uint("poll_id", pollID).Msg("failed to load poll")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Failed to load poll"))
	}
	return poll, nil
}

// Results returns per-option counts with their share of the total.
func (s *PollService) Results(ctx context.Context, pollID uint) (*PollResults, error) {
	poll, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	total := poll.TotalVotes()
	results := &PollResults{
		ID:         poll.ID,
		Question:   poll.Question,
		CreatedAt:  s.FormatTime(poll.CreatedAt),
		TotalVotes: total,
		Options:    make([]OptionResult, 0, len(poll.Options)),
	}
	for _, opt := range poll.Options {
		results.Options = append(results.Options, OptionResult{
			ID:         opt.ID,
			OptionText: opt.OptionText,
			Votes:      opt.Votes,
			Percentage: percentage(opt.Votes, total),
		})
	}
	return results, nil
}

// SeedDemoPoll creates a sample poll when the store is empty.
func (s *PollService) SeedDemoPoll(ctx context.Context) error {
	count, err := s.pollRepo.CountPolls(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.CreatePoll(ctx, "What is your favorite programming language?", []string{"Python", "JavaScript", "Java", "C++"})
	return err
}

// FormatTime renders t in the display timezone.
func (s *PollService) FormatTime(t time.Time) string {
	return t.In(s.location).Format(DisplayTimeFormat)
}

func percentage(votes, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(votes).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(1)
}
