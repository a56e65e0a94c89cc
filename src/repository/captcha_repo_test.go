package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChallenge(token string, kind domain.CaptchaKind, expiresAt time.Time) *domain.CaptchaChallenge {
	return &domain.CaptchaChallenge{
		Token:          token,
		Kind:           kind,
		ExpectedAnswer: "120",
		CreatedAt:      expiresAt.Add(-5 * time.Minute),
		ExpiresAt:      expiresAt,
	}
}

func TestCaptchaRepository_SaveAndConsume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewCaptchaRepository(db)
	ctx := context.Background()

	expiresAt := time.Now().UTC().Add(5 * time.Minute).Truncate(time.Second)
	require.NoError(t, repo.Save(ctx, newTestChallenge("tok-1", domain.CaptchaKindPosition, expiresAt)))

	challenge, err := repo.Consume(ctx, "tok-1", domain.CaptchaKindText, domain.CaptchaKindPosition)
	require.NoError(t, err)
	assert.Equal(t, domain.CaptchaKindPosition, challenge.Kind)
	assert.Equal(t, "120", challenge.ExpectedAnswer)
	assert.True(t, challenge.ExpiresAt.Equal(expiresAt))

	// single use
	_, err = repo.Consume(ctx, "tok-1")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestCaptchaRepository_Consume_WrongKindStillDeletes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewCaptchaRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestChallenge("tok-1", domain.CaptchaKindPosition, time.Now().UTC().Add(time.Minute))))

	_, err := repo.Consume(ctx, "tok-1", domain.CaptchaKindVerified)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)

	var count int64
	require.NoError(t, db.Model(&domain.CaptchaChallenge{}).Where("token = ?", "tok-1").Count(&count).Error)
	assert.Zero(t, count)
}

func TestCaptchaRepository_Consume_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewCaptchaRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestChallenge("tok-1", domain.CaptchaKindVerified, time.Now().UTC().Add(time.Minute))))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Consume(ctx, "tok-1", domain.CaptchaKindVerified); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestCaptchaRepository_DeleteExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewCaptchaRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, newTestChallenge("old-1", domain.CaptchaKindText, now.Add(-10*time.Minute))))
	require.NoError(t, repo.Save(ctx, newTestChallenge("old-2", domain.CaptchaKindVerified, now.Add(-time.Minute))))
	require.NoError(t, repo.Save(ctx, newTestChallenge("live", domain.CaptchaKindText, now.Add(time.Minute))))

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = repo.Consume(ctx, "live")
	assert.NoError(t, err)
	_, err = repo.Consume(ctx, "old-1")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}
