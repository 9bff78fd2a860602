package board

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
)

// newRetryBackoff builds the exponential policy used for all network
// operations: RetryDelay initial interval, capped at MaxRetryDelay, up
// to MaxRetries retries after the first attempt.
func newRetryBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = RetryDelay
	bo.MaxInterval = MaxRetryDelay
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock
	return backoff.WithMaxRetries(bo, MaxRetries)
}

// withRetry runs op under the client's retry policy. ClientErrors
// marked non-retryable stop immediately via backoff.Permanent;
// everything else is retried until the attempt cap exhausts, at which
// point the last error is returned.
func (c *Client) withRetry(ctx context.Context, op func() error) error {
	policy := c.retryPolicy
	if policy == nil {
		policy = newRetryBackoff
	}
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		var ce *ClientError
		if errors.As(err, &ce) && !ce.Retryable {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(policy(), ctx))
}
