package domain

import "time"

// RateLimitEntry is the fixed-window counter for one policy/client/route key.
type RateLimitEntry struct {
	Key     string
	Count   int
	ResetAt time.Time
}

// Expired reports whether the window has elapsed at now. A zero entry is
// always expired.
func (e RateLimitEntry) Expired(now time.Time) bool {
	return now.After(e.ResetAt)
}
