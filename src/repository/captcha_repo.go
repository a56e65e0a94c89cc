package repository

import (
	"context"
	"errors"
	"time"

	"github.com/quickpoll/backend/src/domain"
	"gorm.io/gorm"
)

// ChallengeStore persists captcha challenges and verified tokens. Consume must
// remove the record atomically so that a token can be consumed at most once.
type ChallengeStore interface {
	Save(ctx context.Context, challenge *domain.CaptchaChallenge) error
	// Consume deletes and returns the record for token. It returns
	// domain.ErrTokenNotFound when no record of one of the given kinds exists.
	Consume(ctx context.Context, token string, kinds ...domain.CaptchaKind) (*domain.CaptchaChallenge, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CaptchaRepository stores challenges in the captcha_challenges table.
type CaptchaRepository struct {
	db *gorm.DB
}

var _ ChallengeStore = (*CaptchaRepository)(nil)

func NewCaptchaRepository(db *gorm.DB) *CaptchaRepository {
	return &CaptchaRepository{db: db}
}

func (r *CaptchaRepository) Save(ctx context.Context, challenge *domain.CaptchaChallenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

// Consume reads and deletes the record in one transaction. The delete's
// affected row count decides which of two concurrent callers wins.
func (r *CaptchaRepository) Consume(ctx context.Context, token string, kinds ...domain.CaptchaKind) (*domain.CaptchaChallenge, error) {
	var challenge domain.CaptchaChallenge

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&challenge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTokenNotFound
			}
			return err
		}

		res := tx.Where("token = ?", token).Delete(&domain.CaptchaChallenge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return domain.ErrTokenNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// a token presented as the wrong kind is still consumed
	if !kindIn(challenge.Kind, kinds) {
		return nil, domain.ErrTokenNotFound
	}
	return &challenge, nil
}

// DeleteExpired removes every record that expired before now.
func (r *CaptchaRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&domain.CaptchaChallenge{})
	return res.RowsAffected, res.Error
}

func kindIn(kind domain.CaptchaKind, kinds []domain.CaptchaKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
