// Package igdb implements the client for the external game metadata source:
// an authenticated, paginated, rate-limited HTTP API in the IGDB style
// (Apicalypse query bodies, Twitch OAuth client-credentials tokens).
//
// This file defines the typed errors the client surfaces so that callers
// (notably the ingestion pipeline's retry policy) can classify failures
// without string matching.
package igdb

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError reports that the provider rejected a request with a
// too-many-requests signal. RetryAfter carries the provider-supplied pause
// when present, zero otherwise (caller falls back to its configured backoff).
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "provider rate limit exceeded"
}

// TransientError wraps a network failure, timeout, or 5xx response that is
// expected to succeed on retry.
type TransientError struct {
	Status int // HTTP status when applicable, 0 for transport errors
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transient provider error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a failure the caller may retry:
// either a rate-limit signal or a transient transport/server error.
func IsRetryable(err error) bool {
	var rl *RateLimitError
	var tr *TransientError
	return errors.As(err, &rl) || errors.As(err, &tr)
}

// RetryAfterHint extracts the provider-supplied backoff from a rate-limit
// error, or zero when the error carries no hint.
func RetryAfterHint(err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	return 0
}
