package errors

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/nimyab/word-aligner/internal/logging"
)

// RetryConfig controls the exponential backoff loop used for upstream
// embedding calls.
type RetryConfig struct {
	MaxAttempts  int           // retries after the first attempt (default: 3)
	BaseDelay    time.Duration // first backoff step (default: 1s)
	MaxDelay     time.Duration // backoff cap (default: 30s)
	JitterFactor float64       // +/- randomization of each delay (default: 0.25)
	Logger       logging.Logger
}

// DefaultRetryConfig returns the defaults used by the embedding
// clients.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		BaseDelay:    1 * time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.25,
	}
}

// Retry runs fn until it succeeds, returns a non-transient error, the
// attempts are exhausted, or ctx is done. Backoff between attempts is
// exponential with jitter.
func Retry(ctx context.Context, config RetryConfig, fn func(ctx context.Context) error) error {
	_, err := RetryWithResult(ctx, config, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// RetryWithResult is Retry for functions that produce a value.
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	logger := logging.OrNop(config.Logger)

	var zero T
	var lastErr error

	for attempt := 0; attempt <= config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry aborted: %w", ctx.Err())
		default:
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Info("succeeded after %d attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !IsTransient(err) {
			return zero, err
		}
		if attempt == config.MaxAttempts {
			break
		}

		delay := calculateBackoff(attempt, config)
		logger.Debug("attempt %d/%d failed: %v, retrying in %v", attempt+1, config.MaxAttempts+1, err, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, fmt.Errorf("retry aborted during backoff: %w", ctx.Err())
		}
	}

	return zero, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// calculateBackoff doubles the base delay per attempt, caps it at
// MaxDelay, and spreads concurrent retriers with jitter.
func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	delay := time.Duration(float64(config.BaseDelay) * math.Pow(2, float64(attempt)))
	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	if config.JitterFactor > 0 {
		jitter := float64(delay) * config.JitterFactor
		delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
		if delay < 0 {
			delay = config.BaseDelay
		}
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return delay
}
