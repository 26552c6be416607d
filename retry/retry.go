// Package retry executes remote calls under a configurable backoff policy.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"mediascribe/errors"

	"github.com/sirupsen/logrus"
)

// Policy describes how a remote call is retried. It is configuration, not
// state; the same Policy value may drive any number of concurrent calls.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the backoff before the second attempt; subsequent
	// delays grow exponentially up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// Retryable classifies an error as transient. A nil predicate retries
	// nothing.
	Retryable func(error) bool
}

// DefaultPolicy mirrors the knobs the service ships with.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Do runs fn until it succeeds, fails fatally, or the policy's attempts are
// exhausted. Exhaustion surfaces an upstream error wrapping the last failure.
// Fatal errors propagate unchanged after the first occurrence.
func Do[T any](ctx context.Context, policy Policy, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	logger := logrus.WithField("operation", op)

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if policy.Retryable == nil || !policy.Retryable(err) {
			return zero, err
		}

		if attempt == policy.MaxAttempts {
			break
		}

		backoff := backoffFor(policy, attempt)
		logger.WithFields(logrus.Fields{
			"attempt":          attempt,
			"backoff_duration": backoff,
			"error":            err,
		}).Warn("Transient failure, waiting before next attempt")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	logger.WithError(lastErr).WithField("attempts", policy.MaxAttempts).Error("All attempts failed")
	return zero, errors.Upstream(op, lastErr, "upstream call failed after retries")
}

func backoffFor(policy Policy, attempt int) time.Duration {
	backoff := time.Duration(float64(policy.BaseDelay) * math.Pow(2, float64(attempt-1)))
	if policy.MaxDelay > 0 && backoff > policy.MaxDelay {
		backoff = policy.MaxDelay
	}

	// Jitter to avoid thundering herd against a recovering upstream.
	jitter := time.Duration(rand.Int63n(int64(backoff/2) + 1))
	total := backoff + jitter
	if policy.MaxDelay > 0 && total > policy.MaxDelay {
		total = policy.MaxDelay
	}
	return total
}
