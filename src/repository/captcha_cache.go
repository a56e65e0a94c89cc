package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/quickpoll/backend/src/domain"
)

// CaptchaCacheRepository keeps challenges in Redis. Keys expire with the
// challenge, so DeleteExpired has nothing to do.
type CaptchaCacheRepository struct {
	redis  *redis.Client
	prefix string
}

var _ ChallengeStore = (*CaptchaCacheRepository)(nil)

// NewCaptchaCacheRepository creates a Redis backed challenge store. Keys are
// stored as prefix:token.
func NewCaptchaCacheRepository(redis *redis.Client, prefix string) *CaptchaCacheRepository {
	return &CaptchaCacheRepository{
		redis:  redis,
		prefix: prefix,
	}
}

func (r *CaptchaCacheRepository) key(token string) string {
	return fmt.Sprintf("%s:%s", r.prefix, token)
}

// Save stores the challenge with a TTL matching its expiry.
func (r *CaptchaCacheRepository) Save(ctx context.Context, challenge *domain.CaptchaChallenge) error {
	data, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal captcha challenge: %w", err)
	}

	ttl := time.Until(challenge.ExpiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}

	return r.redis.Set(ctx, r.key(challenge.Token), data, ttl).Err()
}

// Consume uses GETDEL so only one caller can ever observe the record.
func (r *CaptchaCacheRepository) Consume(ctx context.Context, token string, kinds ...domain.CaptchaKind) (*domain.CaptchaChallenge, error) {
	data, err := r.redis.GetDel(ctx, r.key(token)).Result()
	if err == redis.Nil {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	var challenge domain.CaptchaChallenge
	if err := json.Unmarshal([]byte(data), &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal captcha challenge: %w", err)
	}

	if !kindIn(challenge.Kind, kinds) {
		return nil, domain.ErrTokenNotFound
	}
	return &challenge, nil
}

func (r *CaptchaCacheRepository) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
