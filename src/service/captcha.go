package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/repository"
	"github.com/quickpoll/backend/src/utils"
	"github.com/rs/zerolog"
)

// VerifyOutcome is the result of presenting a token to the captcha service.
type VerifyOutcome string

const (
	VerifySuccess      VerifyOutcome = "success"
	VerifyInvalidToken VerifyOutcome = "invalid_token"
	VerifyExpired      VerifyOutcome = "expired"
	VerifyMismatch     VerifyOutcome = "mismatch"
)

const (
	textAnswerLength = 5
	// no 0/O, 1/I/L
	textAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	PositionMin = 50
	PositionMax = 230
)

type CaptchaConfig struct {
	Kind              domain.CaptchaKind
	ChallengeTTL      time.Duration
	VerifiedTTL       time.Duration
	PositionTolerance float64
}

// IssuedChallenge is what a client receives. The expected answer never
// leaves the server.
type IssuedChallenge struct {
	Token       string             `json:"token"`
	Kind        domain.CaptchaKind `json:"kind"`
	Image       string             `json:"image"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	SliderWidth int                `json:"slider_width,omitempty"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

type VerifyResult struct {
	Outcome       VerifyOutcome
	VerifiedToken string
	ExpiresAt     time.Time
}

// CaptchaService issues challenges and verifies answers. Every token is single
// use: the first verification deletes it whatever the outcome. A correct
// answer yields a separate short-lived verified token for the vote endpoint.
type CaptchaService struct {
	store  repository.ChallengeStore
	config CaptchaConfig
	now    func() time.Time
}

func NewCaptchaService(store repository.ChallengeStore, config CaptchaConfig) *CaptchaService {
	return &CaptchaService{
		store:  store,
		config: config,
		now:    time.Now,
	}
}

func (s *CaptchaService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("service", "captcha").Logger()
	return &l
}

// Issue creates a challenge of the configured kind.
func (s *CaptchaService) Issue(ctx context.Context) (*IssuedChallenge, error) {
	return s.IssueKind(ctx, s.config.Kind)
}

// IssueKind creates a challenge of the given kind. Storage errors are fatal
// to the request.
func (s *CaptchaService) IssueKind(ctx context.Context, kind domain.CaptchaKind) (*IssuedChallenge, error) {
	var (
		answer string
		img    []byte
		issued IssuedChallenge
		err    error
	)

	switch kind {
	case domain.CaptchaKindText:
		answer, err = utils.RandomString(textAlphabet, textAnswerLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate captcha text: %w", err)
		}
		img, err = renderTextChallenge(answer)
		issued.Width, issued.Height = TextImageWidth, TextImageHeight
	case domain.CaptchaKindPosition:
		var target int
		target, err = utils.RandomInt(PositionMin, PositionMax)
		if err != nil {
			return nil, fmt.Errorf("failed to generate captcha position: %w", err)
		}
		answer = strconv.Itoa(target)
		img, err = renderPositionChallenge(target)
		issued.Width, issued.Height, issued.SliderWidth = PositionImageWidth, PositionImageHeight, SliderWidth
	default:
		return nil, fmt.Errorf("unsupported captcha kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render captcha: %w", err)
	}

	now := s.now().UTC()
	challenge := &domain.CaptchaChallenge{
		Token:          uuid.NewString(),
		Kind:           kind,
		ExpectedAnswer: answer,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.config.ChallengeTTL),
	}
	if err := s.store.Save(ctx, challenge); err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to store captcha challenge")
		return nil, err
	}

	s.logger(ctx).Debug().
		Str("kind", string(kind)).
		Time("expires_at", challenge.ExpiresAt).
		Msg("captcha challenge issued")

	issued.Token = challenge.Token
	issued.Kind = kind
	issued.Image = pngDataURI(img)
	issued.ExpiresAt = challenge.ExpiresAt
	return &issued, nil
}

// Verify consumes the challenge token and checks the submitted answer. On
// success a verified token is issued. Storage errors fail closed with
// VerifyInvalidToken.
func (s *CaptchaService) Verify(ctx context.Context, token, answer string) (*VerifyResult, error) {
	challenge, outcome, err := s.consume(ctx, token, domain.CaptchaKindText, domain.CaptchaKindPosition)
	if outcome != VerifySuccess {
		return &VerifyResult{Outcome: outcome}, err
	}

	if !s.matches(challenge, answer) {
		s.logger(ctx).Debug().Str("kind", string(challenge.Kind)).Msg("captcha answer mismatch")
		return &VerifyResult{Outcome: VerifyMismatch}, nil
	}

	now := s.now().UTC()
	verified := &domain.CaptchaChallenge{
		Token:     uuid.NewString(),
		Kind:      domain.CaptchaKindVerified,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.VerifiedTTL),
	}
	if err := s.store.Save(ctx, verified); err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to store verified token")
		return &VerifyResult{Outcome: VerifyInvalidToken}, err
	}

	return &VerifyResult{
		Outcome:       VerifySuccess,
		VerifiedToken: verified.Token,
		ExpiresAt:     verified.ExpiresAt,
	}, nil
}

// ConsumeVerified checks and consumes a verified token presented with a vote.
func (s *CaptchaService) ConsumeVerified(ctx context.Context, token string) (VerifyOutcome, error) {
	_, outcome, err := s.consume(ctx, token, domain.CaptchaKindVerified)
	return outcome, err
}

func (s *CaptchaService) consume(ctx context.Context, token string, kinds ...domain.CaptchaKind) (*domain.CaptchaChallenge, VerifyOutcome, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, VerifyInvalidToken, nil
	}

	challenge, err := s.store.Consume(ctx, token, kinds...)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return nil, VerifyInvalidToken, nil
	}
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to consume captcha token")
		return nil, VerifyInvalidToken, err
	}

	if challenge.Expired(s.now()) {
		return nil, VerifyExpired, nil
	}
	return challenge, VerifySuccess, nil
}

func (s *CaptchaService) matches(challenge *domain.CaptchaChallenge, answer string) bool {
	answer = strings.TrimSpace(answer)

	switch challenge.Kind {
	case domain.CaptchaKindText:
		return answer != "" && strings.EqualFold(answer, challenge.ExpectedAnswer)
	case domain.CaptchaKindPosition:
		submitted, err := strconv.ParseFloat(answer, 64)
		if err != nil || math.IsNaN(submitted) || math.IsInf(submitted, 0) {
			return false
		}
		target, err := strconv.ParseFloat(challenge.ExpectedAnswer, 64)
		if err != nil {
			return false
		}
		return math.Abs(submitted-target) <= s.config.PositionTolerance
	}
	return false
}
