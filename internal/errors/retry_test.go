package errors

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		BaseDelay:    time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		JitterFactor: 0,
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryRecoversFromTransient(t *testing.T) {
	calls := 0
	got, err := RetryWithResult(context.Background(), fastRetryConfig(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &StatusError{Status: 503}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("RetryWithResult() = %v", err)
	}
	if got != "ok" {
		t.Errorf("result = %q, want ok", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := &StatusError{Status: 401}
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Retry() = %v, want the permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries on permanent errors)", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		calls++
		return &StatusError{Status: 503}
	})
	if err == nil {
		t.Fatal("Retry() should fail after exhausting attempts")
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (1 initial + 3 retries)", calls)
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Errorf("final error should wrap the last attempt error, got %v", err)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, fastRetryConfig(), func(ctx context.Context) error {
		calls++
		cancel()
		return &StatusError{Status: 503}
	})
	if err == nil {
		t.Fatal("Retry() should fail when context is cancelled")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCalculateBackoffGrowthAndCap(t *testing.T) {
	config := RetryConfig{
		BaseDelay:    time.Second,
		MaxDelay:     5 * time.Second,
		JitterFactor: 0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second}, // capped
		{10, 5 * time.Second},
	}
	for _, tt := range tests {
		if got := calculateBackoff(tt.attempt, config); got != tt.want {
			t.Errorf("calculateBackoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestCalculateBackoffJitterStaysInRange(t *testing.T) {
	config := DefaultRetryConfig()
	for i := 0; i < 100; i++ {
		got := calculateBackoff(1, config)
		if got <= 0 || got > config.MaxDelay {
			t.Fatalf("calculateBackoff with jitter = %v, out of range", got)
		}
	}
}
