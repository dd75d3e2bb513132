package search

import (
	"context"
	"time"
)

// Retry defaults.
const (
	DefaultBaseDelay = 100 * time.Millisecond
	DefaultMaxDelay  = 2 * time.Second
	MaxAttemptsLimit = 5
)

// RetryPolicy bounds how often one upstream step is attempted.
// The zero value means a single attempt.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func (p RetryPolicy) attempts() int {
	switch {
	case p.MaxAttempts < 1:
		return 1
	case p.MaxAttempts > MaxAttemptsLimit:
		return MaxAttemptsLimit
	default:
		return p.MaxAttempts
	}
}

// backoff returns the wait before attempt n+1 (n starts at 1): base * 2^(n-1), capped.
func (p RetryPolicy) backoff(n int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	d := base << (n - 1)
	if d <= 0 || d > maxDelay {
		return maxDelay
	}
	return d
}

// do runs op until it succeeds, fails with a non-retryable error,
// exhausts the policy, or ctx is done.
func do[T any](ctx context.Context, p RetryPolicy, op func(context.Context) (T, error)) (T, error) {
	var (
		res T
		err error
	)
	attempts := p.attempts()
	for n := 1; ; n++ {
		res, err = op(ctx)
		if err == nil || n >= attempts || !retryable(err) || ctx.Err() != nil {
			return res, err
		}

		timer := time.NewTimer(p.backoff(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return res, err
		case <-timer.C:
		}
	}
}
