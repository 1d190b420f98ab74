package engine

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryPolicy returns the wait schedule between attempts of one request.
// The exponential schedule doubles from initial up to max without jitter;
// aggressive mode waits a constant interval.
func retryPolicy(cfg Config, aggressive bool) backoff.BackOff {
	if aggressive {
		return backoff.NewConstantBackOff(cfg.AggressiveInterval)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.BackoffInitial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = cfg.BackoffMax
	// Attempts are bounded by the retry budget, not by elapsed time
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// nextDelay returns the next wait of the policy, treating backoff.Stop as no wait
func nextDelay(b backoff.BackOff) time.Duration {
	d := b.NextBackOff()
	if d == backoff.Stop {
		return 0
	}
	return d
}
