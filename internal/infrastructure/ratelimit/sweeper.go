package ratelimit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatapp/realtime-chat/internal/core/ports"
	"github.com/chatapp/realtime-chat/internal/pkg/metrics"
)

const DefaultSweepInterval = 5 * time.Minute

// Sweeper periodically purges expired windows from a store.
type Sweeper struct {
	store    ports.RateLimitStore
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewSweeper creates a Sweeper. If interval <= 0, DefaultSweepInterval is used.
func NewSweeper(store ports.RateLimitStore, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{store: store, interval: interval, log: log, now: time.Now}
}

// Run blocks, sweeping every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep and returns the number of removed windows.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	removed, err := s.store.Sweep(ctx, s.now())
	if err != nil {
		s.log.Warn().Err(err).Msg("rate limit sweep failed")
		return 0
	}
	if removed > 0 {
		metrics.RateLimitSweptTotal.Add(float64(removed))
		s.log.Debug().Int("removed", removed).Msg("rate limit windows swept")
	}
	return removed
}
