package ports

import (
	"context"
	"time"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// RateLimitStore holds fixed-window counters. Update runs fn against the
// current entry for key (a zero entry when none exists) and persists the
// result atomically with respect to other Update calls on the same key. fn
// may be invoked more than once and must not have side effects beyond the
// entry. An entry left with a zero ResetAt is removed.
type RateLimitStore interface {
	Update(ctx context.Context, key string, fn func(entry *domain.RateLimitEntry)) (domain.RateLimitEntry, error)
	// Sweep drops entries whose window has expired at now and reports how
	// many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
}
