package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MaxRetryAttempts bounds every RetryPolicy.
const MaxRetryAttempts = 3

// BackoffFunc returns the wait before the given retry (attempt starts at 1).
type BackoffFunc func(attempt int, initial time.Duration) time.Duration

// DoublingBackoff waits initial, 2*initial, 4*initial, ...
func DoublingBackoff(attempt int, initial time.Duration) time.Duration {
	return initial * time.Duration(1<<uint(attempt-1))
}

// RetryPolicy is shared by every caller that talks to an upstream source.
// Fetchers themselves never retry.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Backoff      BackoffFunc
	Retryable    func(error) bool
}

// NewRetryPolicy returns a doubling-backoff policy retrying transient fetch errors.
func NewRetryPolicy(maxAttempts int, initialDelay time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  maxAttempts,
		InitialDelay: initialDelay,
		Backoff:      DoublingBackoff,
		Retryable:    IsTransient,
	}
}

func (p RetryPolicy) attempts() int {
	switch {
	case p.MaxAttempts < 1:
		return 1
	case p.MaxAttempts > MaxRetryAttempts:
		return MaxRetryAttempts
	default:
		return p.MaxAttempts
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// run out, or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	backoff := p.Backoff
	if backoff == nil {
		backoff = DoublingBackoff
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	max := p.attempts()
	var lastErr error
	for attempt := 1; attempt <= max; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) || attempt == max {
			break
		}
		wait := backoff(attempt, p.InitialDelay)
		zap.L().Warn("fetch failed, retrying",
			zap.String("source", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", max),
			zap.Duration("backoff", wait),
			zap.Error(lastErr))
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, ctx.Err())
		case <-time.After(wait):
		}
	}
	return lastErr
}

// Retry is Do for functions that return a value.
func Retry[T any](ctx context.Context, p RetryPolicy, name string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, name, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
