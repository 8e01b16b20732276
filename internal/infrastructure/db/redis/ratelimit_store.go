package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

const (
	rateLimitPrefix   = "ratelimit:"
	maxUpdateAttempts = 10
)

// ErrContention is returned when an optimistic update keeps losing the race
// for a hot key.
var ErrContention = errors.New("rate limit store: too much contention")

// RateLimitStore shares fixed windows across server instances.
// Key format: ratelimit:<policy>:<client>:<route>, stored as a hash with
// fields count and reset_at (unix ms), expiring at reset_at.
type RateLimitStore struct {
	client *redis.Client
}

func NewRateLimitStore(client *redis.Client) *RateLimitStore {
	return &RateLimitStore{client: client}
}

// Update runs fn inside a WATCH/MULTI transaction, retrying when another
// client modified the key in between (compare-and-swap).
func (s *RateLimitStore) Update(ctx context.Context, key string, fn func(entry *domain.RateLimitEntry)) (domain.RateLimitEntry, error) {
	k := rateLimitPrefix + key
	var result domain.RateLimitEntry

	txf := func(tx *redis.Tx) error {
		vals, err := tx.HGetAll(ctx, k).Result()
		if err != nil {
			return err
		}
		entry, err := decodeEntry(key, vals)
		if err != nil {
			return err
		}

		fn(&entry)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if entry.ResetAt.IsZero() {
				pipe.Del(ctx, k)
				return nil
			}
			pipe.HSet(ctx, k, "count", entry.Count, "reset_at", entry.ResetAt.UnixMilli())
			pipe.PExpireAt(ctx, k, entry.ResetAt)
			return nil
		})
		if err != nil {
			return err
		}
		result = entry
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, k)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return domain.RateLimitEntry{}, fmt.Errorf("rate limit update: %w", err)
	}
	return domain.RateLimitEntry{}, ErrContention
}

// Sweep is a no-op: every window carries its own key expiry.
func (s *RateLimitStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

func decodeEntry(key string, vals map[string]string) (domain.RateLimitEntry, error) {
	entry := domain.RateLimitEntry{Key: key}
	if len(vals) == 0 {
		return entry, nil
	}

	count, err := strconv.Atoi(vals["count"])
	if err != nil {
		return entry, fmt.Errorf("decode count: %w", err)
	}
	resetMs, err := strconv.ParseInt(vals["reset_at"], 10, 64)
	if err != nil {
		return entry, fmt.Errorf("decode reset_at: %w", err)
	}

	entry.Count = count
	entry.ResetAt = time.UnixMilli(resetMs)
	return entry, nil
}
