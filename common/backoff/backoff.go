// Package backoff contains helpers for dealing with backoffs.
package backoff

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// NewExponentialBackOff creates an instance of ExponentialBackOff using
// reasonable defaults, giving up after maxElapsed. A zero maxElapsed
// never gives up.
func NewExponentialBackOff(maxElapsed time.Duration) *backoff.ExponentialBackOff {
	boff := backoff.NewExponentialBackOff()
	boff.InitialInterval = 50 * time.Millisecond
	boff.MaxElapsedTime = maxElapsed
	boff.Reset()
	return boff
}
