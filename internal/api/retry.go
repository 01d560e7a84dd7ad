package api

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig governs how transient gateway failures are retried.
//
// The gateway throttles bursts with 429 and may advertise the earliest
// useful retry time in a Retry-After header. When present, that hint
// replaces the computed backoff, subject to the MaxBackoff cap.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// MinBackoff is the wait before the first retry. Every further
	// retry doubles the wait.
	MinBackoff time.Duration
	// MaxBackoff caps the doubled wait and any Retry-After hint.
	MaxBackoff time.Duration
	// Jitter is the randomization factor (0.0 to 1.0) applied to the
	// computed wait so that concurrent senders spread out.
	Jitter float64
}

// DefaultRetryConfig returns the retry policy used by new clients.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		MinBackoff: time.Second,
		MaxBackoff: 30 * time.Second,
		Jitter:     0.2,
	}
}

// Retryable reports whether another attempt is allowed after status
// was received on the given zero-based attempt. Only rate limiting,
// request timeouts and server-side failures qualify; every other
// gateway answer is deterministic and a retry cannot change it.
func (r *RetryConfig) Retryable(attempt, status int) bool {
	if attempt >= r.MaxRetries {
		return false
	}
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Backoff computes the wait before retry number attempt. A positive
// hint from the server overrides the doubling schedule and is not
// jittered; both paths are capped at MaxBackoff.
func (r *RetryConfig) Backoff(attempt int, hint time.Duration) time.Duration {
	wait := r.MinBackoff
	for i := 0; i < attempt && wait < r.MaxBackoff; i++ {
		wait *= 2
	}
	if hint > 0 {
		wait = hint
	}
	if wait > r.MaxBackoff {
		wait = r.MaxBackoff
	}
	if r.Jitter > 0 && hint <= 0 {
		spread := r.Jitter * float64(wait)
		wait += time.Duration(rand.Float64()*2*spread - spread)
	}
	return wait
}

// Sleep waits out the given backoff or returns early when ctx is done.
func (r *RetryConfig) Sleep(ctx context.Context, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryAfterHint extracts a Retry-After header, in either delay-seconds
// or HTTP-date form. Zero means no usable hint.
func retryAfterHint(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
