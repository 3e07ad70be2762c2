// Package clock provides context-aware waiting and retry delays.
package clock

import (
	"context"
	"time"
)

// SleepWithContext waits for d or until ctx is done. A non-positive d only reports
// whether ctx is already done.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LinearBackoff returns base scaled by attempt, capped at limit. Attempts below one
// are treated as the first attempt; a zero limit disables the cap.
func LinearBackoff(base, limit time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base * time.Duration(attempt)
	if limit > 0 && d > limit {
		return limit
	}
	return d
}
