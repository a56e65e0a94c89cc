package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/repository"
	"github.com/quickpoll/backend/src/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServices struct {
	db          *gorm.DB
	store       *repository.CaptchaRepository
	captcha     *CaptchaService
	eligibility *EligibilityService
	polls       *PollService
	votes       *VoteService
}

var testCaptchaConfig = CaptchaConfig{
	Kind:              domain.CaptchaKindPosition,
	ChallengeTTL:      300 * time.Second,
	VerifiedTTL:       60 * time.Second,
	PositionTolerance: 10,
}

func setupServices(t *testing.T) *testServices {
	db := testutil.SetupTestDB(t)

	pollRepo := repository.NewPollRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	store := repository.NewCaptchaRepository(db)

	eligibility := NewEligibilityService(voteRepo)
	captcha := NewCaptchaService(store, testCaptchaConfig)

	return &testServices{
		db:          db,
		store:       store,
		captcha:     captcha,
		eligibility: eligibility,
		polls:       NewPollService(pollRepo, eligibility, time.UTC),
		votes:       NewVoteService(pollRepo, voteRepo, eligibility, captcha),
	}
}

// expectedAnswer reads the stored answer of an issued challenge.
func expectedAnswer(t *testing.T, db *gorm.DB, token string) string {
	var challenge domain.CaptchaChallenge
	require.NoError(t, db.Where("token = ?", token).First(&challenge).Error)
	return challenge.ExpectedAnswer
}

// solveCaptcha runs the issue and verify steps and returns a verified token.
func (s *testServices) solveCaptcha(t *testing.T) string {
	ctx := context.Background()

	issued, err := s.captcha.Issue(ctx)
	require.NoError(t, err)

	result, err := s.captcha.Verify(ctx, issued.Token, expectedAnswer(t, s.db, issued.Token))
	require.NoError(t, err)
	require.Equal(t, VerifySuccess, result.Outcome)
	return result.VerifiedToken
}

func (s *testServices) createPoll(t *testing.T, question string, options ...string) *domain.Poll {
	poll, err := s.polls.CreatePoll(context.Background(), question, options)
	require.NoError(t, err)
	return poll
}

var errStoreDown = errors.New("store unavailable")

// failingStore is a ChallengeStore whose every call fails.
type failingStore struct{}

func (failingStore) Save(context.Context, *domain.CaptchaChallenge) error { return errStoreDown }

func (failingStore) Consume(context.Context, string, ...domain.CaptchaKind) (*domain.CaptchaChallenge, error) {
	return nil, errStoreDown
}

func (failingStore) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, errStoreDown }
