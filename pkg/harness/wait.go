package harness

import (
	"context"
	"fmt"
	"time"
)

// DefaultPollInterval is how often Poll re-evaluates its condition.
const DefaultPollInterval = 200 * time.Millisecond

// Poll re-evaluates cond every interval until it returns true, returns an
// error, or the timeout elapses. It is the preferred synchronization
// primitive: unlike a fixed sleep it completes as soon as the observed
// condition holds, and it fails loudly instead of silently racing when the
// environment is slower than expected.
func Poll(ctx context.Context, timeout, interval time.Duration, cond func() (bool, error)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("harness: condition not met within %v", timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
