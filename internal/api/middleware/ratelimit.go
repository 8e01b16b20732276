package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chatapp/realtime-chat/internal/core/domain"
	"github.com/chatapp/realtime-chat/internal/core/ports"
	"github.com/chatapp/realtime-chat/internal/pkg/metrics"
)

const resetTimeFormat = "2006-01-02T15:04:05.000Z"

// RateLimitPolicy describes one fixed-window limit.
type RateLimitPolicy struct {
	Name    string
	Window  time.Duration
	Max     int
	Message string
	// SkipSuccessfulRequests counts only responses with status >= 400.
	SkipSuccessfulRequests bool
}

var (
	AuthPolicy = RateLimitPolicy{
		Name:                   "auth",
		Window:                 15 * time.Minute,
		Max:                    5,
		Message:                "Too many authentication attempts, please try again later.",
		SkipSuccessfulRequests: true,
	}
	GeneralPolicy = RateLimitPolicy{
		Name:    "general",
		Window:  15 * time.Minute,
		Max:     100,
		Message: "Too many requests, please try again later.",
	}
	MessagePolicy = RateLimitPolicy{
		Name:    "message",
		Window:  time.Minute,
		Max:     30,
		Message: "Too many messages sent, please slow down.",
	}
	StrictPolicy = RateLimitPolicy{
		Name:                   "strict",
		Window:                 time.Hour,
		Max:                    30,
		Message:                "Too many requests to this endpoint, please try again later.",
		SkipSuccessfulRequests: true,
	}
)

type rateLimitResponse struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retryAfter"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
}

type RateLimiter struct {
	store ports.RateLimitStore
	log   zerolog.Logger
	now   func() time.Time
}

type RateLimiterOption func(*RateLimiter)

func WithRateLimitClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) { l.now = now }
}

func NewRateLimiter(store ports.RateLimitStore, log zerolog.Logger, opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{store: store, log: log, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Middleware enforces p per client IP and route. A failing store lets the
// request through.
func (l *RateLimiter) Middleware(p RateLimitPolicy) echo.MiddlewareFunc {
	message := p.Message
	if message == "" {
		message = domain.ErrRateLimited.Message
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			now := l.now().Truncate(time.Millisecond)
			key := p.Name + ":" + c.RealIP() + ":" + c.Path()

			var limited bool
			entry, err := l.store.Update(ctx, key, func(e *domain.RateLimitEntry) {
				limited = false
				if e.ResetAt.IsZero() || e.Expired(now) {
					e.Count = 0
					e.ResetAt = now.Add(p.Window)
				}
				if e.Count >= p.Max {
					limited = true
					return
				}
				// Every admitted request holds a slot while it runs; skip mode
				// hands it back once the response turns out successful.
				e.Count++
			})
			if err != nil {
				metrics.RateLimitStoreErrorsTotal.Inc()
				l.log.Error().Err(err).Str("policy", p.Name).Str("key", key).Msg("rate limit store failed, letting request through")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(p.Max))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, p.Max-entry.Count)))
			h.Set("X-RateLimit-Reset", entry.ResetAt.UTC().Format(resetTimeFormat))

			if limited {
				retryAfter := int(math.Ceil(entry.ResetAt.Sub(now).Seconds()))
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				metrics.RateLimitRejectionsTotal.WithLabelValues(p.Name).Inc()
				l.log.Warn().Str("policy", p.Name).Str("ip", c.RealIP()).Str("path", c.Path()).Msg("rate limit exceeded")
				return c.JSON(http.StatusTooManyRequests, rateLimitResponse{
					Message:    message,
					Code:       domain.ErrRateLimited.Code,
					RetryAfter: retryAfter,
					Limit:      p.Max,
					Remaining:  0,
				})
			}

			if !p.SkipSuccessfulRequests {
				return next(c)
			}

			// Render the error now so the final status is known.
			if err := next(c); err != nil {
				c.Error(err)
			}
			if c.Response().Status >= http.StatusBadRequest {
				return nil
			}

			window := entry.ResetAt
			if _, err := l.store.Update(ctx, key, func(e *domain.RateLimitEntry) {
				if e.ResetAt.Equal(window) && e.Count > 0 {
					e.Count--
				}
			}); err != nil {
				metrics.RateLimitStoreErrorsTotal.Inc()
				l.log.Error().Err(err).Str("policy", p.Name).Str("key", key).Msg("rate limit store failed to release slot")
			}
			return nil
		}
	}
}
