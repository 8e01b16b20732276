// Package ratelimit holds the process-local rate limit store and the
// background sweeper that bounds its memory.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// MemoryStore keeps windows in a map guarded by a single mutex, so the
// read-modify-write in Update never undercounts under concurrency. Windows are
// not shared across server instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]domain.RateLimitEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]domain.RateLimitEntry)}
}

func (s *MemoryStore) Update(_ context.Context, key string, fn func(entry *domain.RateLimitEntry)) (domain.RateLimitEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entries[key]
	entry.Key = key
	fn(&entry)

	if entry.ResetAt.IsZero() {
		delete(s.entries, key)
	} else {
		s.entries[key] = entry
	}
	return entry, nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of tracked windows.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
