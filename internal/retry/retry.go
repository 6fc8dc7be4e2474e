// Package retry implements a small bounded retry helper for pure-read,
// idempotent operations. Its one call site is "helm repo update" in
// internal/exec; remote secret lookups retry through go-retryablehttp
// instead. It exists
// because spec.md explicitly allows bounded retries on reads without
// changing observable semantics, and the teacher's dependency tree already
// carries a backoff library (github.com/cenkalti/backoff) transitively with
// no first-class import site — this local helper avoids adding a second,
// redundant backoff dependency for a single call site.
package retry

import (
	"context"
	"time"
)

// Config bounds a retry loop.
type Config struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

// DefaultConfig makes up to three attempts (two retries) with a capped
// exponential backoff.
var DefaultConfig = Config{Attempts: 3, Base: 200 * time.Millisecond, Max: 2 * time.Second}

// Do runs fn until it succeeds or the attempt budget is exhausted. It does
// not distinguish retryable from non-retryable errors: callers doing
// semantic lookups (e.g. "secret not found") must return a sentinel the
// caller recognizes and stop retrying themselves by returning a nil error
// wrapping no retry, since Do always retries on any error.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.Attempts <= 0 {
		cfg = DefaultConfig
	}
	var lastErr error
	wait := cfg.Base
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
			if wait > cfg.Max {
				wait = cfg.Max
			}
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}
