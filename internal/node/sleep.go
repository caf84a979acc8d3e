package node

import (
	"context"
	"time"
)

// SleepFunc suspends the calling task for d. It returns ctx.Err() if ctx is
// done first. Tests substitute a controllable implementation.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the SleepFunc backed by a real timer.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
