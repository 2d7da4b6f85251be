package httputil

import (
	"context"
	"errors"
	"time"

	serr "github.com/matzehuels/storeshot/pkg/errors"
)

// MaxRetryAfter caps how long a server's Retry-After may delay a retry.
const MaxRetryAfter = 30 * time.Second

// RetryableError marks an error as transient so that [Retry] attempts the
// operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Retry executes fn up to attempts times, doubling delay after each failure.
// Only errors wrapped with [RetryableError] are retried. A rate-limit error
// carrying a Retry-After replaces the delay for that wait, up to
// [MaxRetryAfter]. Returns the last error, or ctx.Err() if the context is
// cancelled while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return retry(ctx, attempts, delay, MaxRetryAfter, fn)
}

func retry(ctx context.Context, attempts int, delay, maxAfter time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			wait := delay
			if ra := retryAfter(lastErr); ra > 0 {
				wait = ra
				if maxAfter > 0 {
					wait = min(ra, maxAfter)
				}
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff calls [Retry] with 3 attempts and a 1s initial delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

func retryAfter(err error) time.Duration {
	var rl *serr.RateLimitedError
	if errors.As(err, &rl) {
		return time.Duration(rl.RetryAfter) * time.Second
	}
	return 0
}
