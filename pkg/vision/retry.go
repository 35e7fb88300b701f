package vision

import (
	"context"
	"time"

	"plantpal-be/pkg/remote"
	"plantpal-be/pkg/retry"
)

// RetryNotify is called before each retry of a wrapped identifier.
type RetryNotify func(provider string, attempt int, err error, wait time.Duration)

type retryingIdentifier struct {
	next   Identifier
	cfg    retry.Config
	notify RetryNotify
}

// WithRetry wraps next so that transient network failures are retried according
// to cfg. Every other failure is returned after the first attempt.
func WithRetry(next Identifier, cfg retry.Config, notify RetryNotify) Identifier {
	return &retryingIdentifier{next: next, cfg: cfg, notify: notify}
}

func (r *retryingIdentifier) Name() string {
	return r.next.Name()
}

func (r *retryingIdentifier) Identify(ctx context.Context, image Image) (*Candidate, error) {
	var notify retry.Notify
	if r.notify != nil {
		notify = func(attempt int, err error, wait time.Duration) {
			r.notify(r.next.Name(), attempt, err, wait)
		}
	}

	return retry.Do(ctx, r.cfg, remote.IsTransient, func(ctx context.Context) (*Candidate, error) {
		return r.next.Identify(ctx, image)
	}, notify)
}
