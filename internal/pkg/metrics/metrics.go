// Package metrics defines and registers all custom Prometheus metrics for the
// chat API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto. HTTP request metrics are collected separately
// by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chat"

// ── Access control ───────────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected by the auth guard.
// Label:
//   - code: the error code returned to the client (e.g. "TOKEN_EXPIRED")
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the auth guard, by error code.",
	},
	[]string{"code"},
)

// RateLimitRejectionsTotal counts requests short-circuited with 429.
// Label:
//   - policy: rate limit policy name ("auth", "general", "message", "strict")
var RateLimitRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejections_total",
		Help:      "Total number of requests rejected by the rate limiter, by policy.",
	},
	[]string{"policy"},
)

// RateLimitStoreErrorsTotal counts store failures; the limiter fails open on these.
var RateLimitStoreErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_store_errors_total",
		Help:      "Total number of rate limit store failures (requests were let through).",
	},
)

// RateLimitSweptTotal counts expired windows removed by the background sweep.
var RateLimitSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_swept_total",
		Help:      "Total number of expired rate limit windows removed by the sweeper.",
	},
)

// ── Accounts ─────────────────────────────────────────────────────────────────

// SignupsTotal counts successfully created accounts.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Messaging ────────────────────────────────────────────────────────────────

// MessagesSentTotal counts stored messages.
// Label:
//   - kind: "text", "image", or "mixed"
var MessagesSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of messages sent, by content kind.",
	},
	[]string{"kind"},
)

// ImageUploadsTotal counts uploads to the image store.
// Labels:
//   - folder: "profiles" or "messages"
//   - result: "success" or "failure"
var ImageUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Total number of image uploads, by folder and result.",
	},
	[]string{"folder", "result"},
)

// ImageUploadDuration measures how long a single upload takes.
var ImageUploadDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_upload_duration_seconds",
		Help:      "Duration of image uploads to object storage.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
