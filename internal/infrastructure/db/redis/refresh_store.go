package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

const refreshPrefix = "refresh:"

// RefreshTokenStore records live refresh tokens so each can be used once.
// Key format: refresh:<token_id> → subject, expiring with the token.
type RefreshTokenStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client, now: time.Now}
}

func (s *RefreshTokenStore) Save(ctx context.Context, claim domain.Claim) error {
	if claim.TokenID == "" || claim.Subject == "" {
		return errors.New("save refresh token: missing token id or subject")
	}
	ttl := claim.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domain.ErrRefreshTokenInvalid
	}
	if err := s.client.Set(ctx, refreshPrefix+claim.TokenID, claim.Subject, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Consume uses GETDEL so two concurrent refreshes cannot both succeed.
func (s *RefreshTokenStore) Consume(ctx context.Context, tokenID string) (string, error) {
	subject, err := s.client.GetDel(ctx, refreshPrefix+tokenID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrRefreshTokenInvalid
		}
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return subject, nil
}

func (s *RefreshTokenStore) Revoke(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, refreshPrefix+tokenID).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
