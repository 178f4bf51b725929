package provision

import (
	"context"
	"fmt"
	"time"
)

// Probe reports whether a named readiness condition currently holds.
// A false result with a nil error is a normal "not yet".
type Probe func(ctx context.Context) (bool, error)

// WaitFor polls a named condition until it holds, the context is cancelled,
// or the timeout elapses. It replaces "sleep and hope" synchronization after
// starting a background daemon with an explicit, bounded wait that fails
// loudly on timeout.
func WaitFor(ctx context.Context, name string, probe Probe, interval, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		ok, err := probe(ctx)
		if err != nil {
			return fmt.Errorf("waiting for %s: %w", name, err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", name, ctx.Err())
		case <-deadline.C:
			return fmt.Errorf("timed out after %s waiting for %s", timeout, name)
		case <-tick.C:
		}
	}
}
