// Package ratelimit caps how many calls each client may make within a
// rolling time window.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed bool
	// RetryAfter is how long until the oldest counted call leaves the window.
	// Zero when Allowed.
	RetryAfter time.Duration
}

// Limiter records an attempt for key and reports whether it fits the quota.
// Rejected attempts are not counted.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
