package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// withRetry runs op with a per-attempt timeout and exponential backoff between
// attempts. The retry budget is small and fixed: provider calls are I/O-bound
// and the caller falls back to neutral scoring once the budget is exhausted.
func withRetry[T any](ctx context.Context, cfg *Config, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := cfg.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	attempt := func() (T, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return op(attemptCtx)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(attempts-1)),
		ctx,
	)

	var result T
	err := backoff.Retry(func() error {
		var opErr error
		result, opErr = attempt()
		return opErr
	}, policy)
	return result, err
}
