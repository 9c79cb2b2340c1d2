package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a remote cache cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// RetryableError marks a transient failure, such as a dropped Redis
// connection.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return "retryable: " + e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// backoff retries transient failures with exponentially growing delays.
type backoff struct {
	attempts int
	first    time.Duration
}

// remoteRetry is used by the remote caches; tests shorten first.
var remoteRetry = backoff{attempts: 3, first: 100 * time.Millisecond}

// RetryWithBackoff runs fn until it succeeds, fails permanently, or three
// attempts have failed. The delay doubles after each retryable failure.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return remoteRetry.run(ctx, fn)
}

func (b backoff) run(ctx context.Context, fn func() error) error {
	delay := b.first
	err := fn()
	for n := 1; n < b.attempts && IsRetryable(err); n++ {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}
