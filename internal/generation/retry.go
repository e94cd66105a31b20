package generation

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"time"
)

// DefaultRetryableStatusCodes are the HTTP statuses retried by default.
var DefaultRetryableStatusCodes = []int{408, 429, 500, 502, 503, 504}

// RetryPolicy bounds how a gateway retries failed API calls.
type RetryPolicy struct {
	MaxAttempts          int
	InitialDelay         time.Duration
	MaxDelay             time.Duration
	BackoffFactor        float64
	RetryableStatusCodes []int
}

// DefaultRetryPolicy returns 3 attempts, 1s initial delay, a 10s cap and factor 2.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:          3,
		InitialDelay:         time.Second,
		MaxDelay:             10 * time.Second,
		BackoffFactor:        2,
		RetryableStatusCodes: slices.Clone(DefaultRetryableStatusCodes),
	}
}

// Delay returns the wait before the attempt following attempt (1-based):
// min(InitialDelay * BackoffFactor^(attempt-1), MaxDelay).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(attempt-1))
	if d >= float64(p.MaxDelay) || math.IsInf(d, 0) || math.IsNaN(d) {
		return p.MaxDelay
	}
	return time.Duration(d)
}

// Retryable reports whether status is in the retryable set.
func (p RetryPolicy) Retryable(status int) bool {
	return slices.Contains(p.RetryableStatusCodes, status)
}

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WithRetry runs call until it succeeds, returns an error that is not a
// retryable *APIError, or the policy runs out of attempts. It never makes
// more than MaxAttempts calls (at least one). The returned error is the raw
// error from the last call; callers normalize it.
func WithRetry[T any](
	ctx context.Context,
	policy RetryPolicy,
	sleep SleepFunc,
	logger *slog.Logger,
	call func(ctx context.Context, attempt int) (T, error),
) (T, error) {
	if sleep == nil {
		sleep = Sleep
	}
	if logger == nil {
		logger = slog.Default()
	}

	for attempt := 1; ; attempt++ {
		result, err := call(ctx, attempt)
		if err == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "chat completion succeeded after retry", "attempt", attempt)
			}
			return result, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !policy.Retryable(apiErr.StatusCode) {
			return result, err
		}
		if attempt >= policy.MaxAttempts {
			logger.WarnContext(ctx, "maximum retry attempts reached",
				"attempts", attempt,
				"status_code", apiErr.StatusCode)
			return result, err
		}

		delay := policy.Delay(attempt)
		logger.InfoContext(ctx, "retrying chat completion after delay",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"status_code", apiErr.StatusCode,
			"delay_ms", delay.Milliseconds())

		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			logger.WarnContext(ctx, "chat completion cancelled during retry delay",
				"attempt", attempt,
				"ctx_err", sleepErr)
			var zero T
			return zero, sleepErr
		}
	}
}
