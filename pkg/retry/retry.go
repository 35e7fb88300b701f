// Package retry runs an operation again after a backoff delay when it fails with
// an error the caller considers retryable.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Config configures retry behavior.
type Config struct {
	MaxRetries     int           // attempts after the first one
	InitialBackoff time.Duration // delay before the first retry
	Multiplier     float64       // 2 doubles the delay each retry, 1 keeps it fixed
	MaxBackoff     time.Duration
}

// DefaultConfig is the exponential policy used for generative vision calls: 1s, 2s.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     2,
		InitialBackoff: 1 * time.Second,
		Multiplier:     2,
		MaxBackoff:     8 * time.Second,
	}
}

// FixedConfig retries maxRetries times with the same delay between attempts.
func FixedConfig(maxRetries int, delay time.Duration) Config {
	return Config{
		MaxRetries:     maxRetries,
		InitialBackoff: delay,
		Multiplier:     1,
		MaxBackoff:     delay,
	}
}

// Notify is called before each wait with the 1-based number of the failed attempt.
type Notify func(attempt int, err error, wait time.Duration)

// Do calls fn until it succeeds, returns an error for which retryable is false, or
// runs out of retries. The last error is returned unwrapped.
func Do[T any](ctx context.Context, cfg Config, retryable func(error) bool, fn func(ctx context.Context) (T, error), notify Notify) (T, error) {
	attempt := 0
	operation := func() (T, error) {
		attempt++
		result, err := fn(ctx)
		if err != nil && !retryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(newBackOff(cfg)),
		backoff.WithMaxTries(uint(cfg.MaxRetries + 1)),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(func(err error, wait time.Duration) {
			notify(attempt, err, wait)
		}))
	}

	result, err := backoff.Retry(ctx, operation, opts...)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}
	return result, err
}

func newBackOff(cfg Config) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialBackoff
	b.RandomizationFactor = 0
	b.Multiplier = cfg.Multiplier
	if b.Multiplier < 1 {
		b.Multiplier = 1
	}
	b.MaxInterval = cfg.MaxBackoff
	if b.MaxInterval < b.InitialInterval {
		b.MaxInterval = b.InitialInterval
	}
	b.Reset()
	return b
}
