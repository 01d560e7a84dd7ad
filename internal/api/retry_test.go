package api

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.MinBackoff != time.Second {
		t.Errorf("MinBackoff = %v, want 1s", cfg.MinBackoff)
	}
	if cfg.MaxBackoff != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want 30s", cfg.MaxBackoff)
	}
}

func TestRetryConfig_Retryable(t *testing.T) {
	cfg := DefaultRetryConfig()

	tests := []struct {
		name     string
		attempt  int
		status   int
		expected bool
	}{
		{"first attempt, retryable", 0, 503, true},
		{"last allowed attempt", 2, 503, true},
		{"max attempts reached", 3, 503, false},
		{"bad request", 0, 400, false},
		{"unauthorized", 0, 401, false},
		{"payment required", 0, 402, false},
		{"not found", 0, 404, false},
		{"rate limited", 0, 429, true},
		{"timeout", 0, 408, true},
		{"internal error", 0, 500, true},
		{"bad gateway", 0, 502, true},
		{"gateway timeout", 0, 504, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Retryable(tt.attempt, tt.status); got != tt.expected {
				t.Errorf("Retryable(%d, %d) = %v, want %v", tt.attempt, tt.status, got, tt.expected)
			}
		})
	}
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := &RetryConfig{
		MinBackoff: time.Second,
		MaxBackoff: 10 * time.Second,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 10 * time.Second}, // capped
		{10, 10 * time.Second},
	}

	for _, tt := range tests {
		if got := cfg.Backoff(tt.attempt, 0); got != tt.want {
			t.Errorf("Backoff(%d, 0) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryConfig_BackoffHonorsHint(t *testing.T) {
	cfg := &RetryConfig{
		MinBackoff: time.Second,
		MaxBackoff: 10 * time.Second,
		Jitter:     0.2,
	}

	// The server hint overrides the schedule exactly, with no jitter.
	if got := cfg.Backoff(0, 5*time.Second); got != 5*time.Second {
		t.Errorf("Backoff(0, 5s) = %v, want 5s", got)
	}
	// An excessive hint is still capped.
	if got := cfg.Backoff(0, time.Hour); got != 10*time.Second {
		t.Errorf("Backoff(0, 1h) = %v, want 10s", got)
	}
}

func TestRetryConfig_BackoffJitterBounds(t *testing.T) {
	cfg := &RetryConfig{
		MinBackoff: time.Second,
		MaxBackoff: 30 * time.Second,
		Jitter:     0.2,
	}

	for i := 0; i < 100; i++ {
		d := cfg.Backoff(1, 0)
		if d < 1600*time.Millisecond || d > 2400*time.Millisecond {
			t.Fatalf("Backoff(1, 0) = %v, want within [1.6s, 2.4s]", d)
		}
	}
}

func TestRetryAfterHint(t *testing.T) {
	resp := func(v string) *http.Response {
		h := http.Header{}
		if v != "" {
			h.Set("Retry-After", v)
		}
		return &http.Response{Header: h}
	}

	if got := retryAfterHint(resp("")); got != 0 {
		t.Errorf("no header: hint = %v, want 0", got)
	}
	if got := retryAfterHint(resp("7")); got != 7*time.Second {
		t.Errorf("delay-seconds: hint = %v, want 7s", got)
	}
	if got := retryAfterHint(resp("-1")); got != 0 {
		t.Errorf("negative: hint = %v, want 0", got)
	}
	if got := retryAfterHint(resp("garbage")); got != 0 {
		t.Errorf("unparseable: hint = %v, want 0", got)
	}

	date := time.Now().Add(5 * time.Second).UTC().Format(http.TimeFormat)
	if got := retryAfterHint(resp(date)); got <= 0 || got > 5*time.Second {
		t.Errorf("http-date: hint = %v, want within (0, 5s]", got)
	}
	past := time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat)
	if got := retryAfterHint(resp(past)); got != 0 {
		t.Errorf("past date: hint = %v, want 0", got)
	}
}

func TestRetryConfig_SleepHonorsContext(t *testing.T) {
	cfg := &RetryConfig{
		MinBackoff: time.Minute,
		MaxBackoff: time.Minute,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := cfg.Sleep(ctx, cfg.Backoff(0, 0))
	if err != context.DeadlineExceeded {
		t.Errorf("Sleep() error = %v, want context.DeadlineExceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep() did not return promptly after cancellation")
	}
}
