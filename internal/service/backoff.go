package service

import (
	"time"

	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/sethvargo/go-retry"
)

const (
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = 30 * time.Second
	backoffJitterPercent  = 20
)

// newBackoff builds the retry schedule for one remote call: exponential from
// InitialBackoff, jittered, capped at MaxBackoff and limited to MaxRetries
// retries after the first attempt. onWait is called before every sleep.
func newBackoff(cfg config.SyncConfig, onWait func(attempt int, wait time.Duration)) retry.Backoff {
	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	maxWait := cfg.MaxBackoff
	if maxWait <= 0 {
		maxWait = defaultMaxBackoff
	}
	if maxWait < initial {
		maxWait = initial
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	b := retry.NewExponential(initial)
	b = retry.WithJitterPercent(backoffJitterPercent, b)
	b = retry.WithCappedDuration(maxWait, b)
	b = retry.WithMaxRetries(uint64(retries), b)

	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		wait, stop := b.Next()
		if stop {
			return 0, true
		}
		// jitter may undershoot the first step
		wait = max(wait, initial)
		attempt++
		if onWait != nil {
			onWait(attempt, wait)
		}
		return wait, false
	})
}
