// Package ingest implements the catalog refresh pipeline: it pages game
// metadata out of the provider, resolves numeric attribute references into
// human-readable labels, and rebuilds the local stores from scratch.
//
// This file holds the retry policy. It is a pure decision function so the
// pipeline's retry behavior can be tested without clocks or sleeping.
package ingest

import (
	"time"

	"github.com/tbourn/go-gamerec-backend/internal/igdb"
)

// Decision tells the pipeline what to do after a failed page fetch.
type Decision struct {
	Retry bool
	Delay time.Duration
}

// Policy decides whether and when a failed page fetch is retried.
//
// Rate-limit responses carry the provider's Retry-After hint, which takes
// precedence over the configured backoff. Non-retryable errors and attempts
// past MaxRetries abort the run.
type Policy struct {
	MaxRetries int           // failures tolerated per page before giving up
	Backoff    time.Duration // pause when the provider gives no hint
}

// Decide evaluates the attempt-th consecutive failure (1-based) for a page.
func (p Policy) Decide(attempt int, err error) Decision {
	if err == nil || !igdb.IsRetryable(err) {
		return Decision{}
	}
	if attempt > p.MaxRetries {
		return Decision{}
	}
	delay := p.Backoff
	if hint := igdb.RetryAfterHint(err); hint > 0 {
		delay = hint
	}
	return Decision{Retry: true, Delay: delay}
}
