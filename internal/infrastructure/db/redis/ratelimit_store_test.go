package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func hit(window time.Duration, now time.Time) func(*domain.RateLimitEntry) {
	return func(e *domain.RateLimitEntry) {
		if e.ResetAt.IsZero() || e.Expired(now) {
			e.Count = 0
			e.ResetAt = now.Add(window)
		}
		e.Count++
	}
}

func TestRateLimitStore_UpdatePersistsWindow(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRateLimitStore(client)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	first, err := store.Update(ctx, "auth:1.2.3.4:/api/auth/login", hit(15*time.Minute, now))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count)
	assert.True(t, first.ResetAt.Equal(now.Add(15*time.Minute)))

	second, err := store.Update(ctx, "auth:1.2.3.4:/api/auth/login", hit(15*time.Minute, now))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Count)
	assert.True(t, second.ResetAt.Equal(first.ResetAt), "window must not move")

	assert.True(t, mr.Exists(rateLimitPrefix+"auth:1.2.3.4:/api/auth/login"))
	assert.Equal(t, "2", mr.HGet(rateLimitPrefix+"auth:1.2.3.4:/api/auth/login", "count"))
	assert.Greater(t, mr.TTL(rateLimitPrefix+"auth:1.2.3.4:/api/auth/login"), time.Duration(0))
}

func TestRateLimitStore_KeyExpiresWithWindow(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRateLimitStore(client)
	ctx := context.Background()

	_, err := store.Update(ctx, "general:ip:/api/messages/users", hit(time.Minute, time.Now()))
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(rateLimitPrefix+"general:ip:/api/messages/users"))
}

func TestRateLimitStore_ZeroResetDeletes(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRateLimitStore(client)
	ctx := context.Background()

	_, err := store.Update(ctx, "k", hit(time.Minute, time.Now()))
	require.NoError(t, err)

	entry, err := store.Update(ctx, "k", func(e *domain.RateLimitEntry) { *e = domain.RateLimitEntry{} })
	require.NoError(t, err)
	assert.Zero(t, entry.Count)
	assert.False(t, mr.Exists(rateLimitPrefix+"k"))
}

func TestRateLimitStore_ConcurrentUpdatesAreAtomic(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRateLimitStore(client)
	ctx := context.Background()
	now := time.Now()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				// Lost races surface as ErrContention; retry like a caller would.
				for {
					if _, err := store.Update(ctx, "hot", hit(time.Hour, now)); err == nil {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	final, err := store.Update(ctx, "hot", func(*domain.RateLimitEntry) {})
	require.NoError(t, err)
	assert.Equal(t, workers*5, final.Count)
}

func TestRateLimitStore_SweepIsNoop(t *testing.T) {
	_, client := newTestClient(t)
	n, err := NewRateLimitStore(client).Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
