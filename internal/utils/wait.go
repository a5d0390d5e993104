package utils

import (
	"context"
	"time"
)

var after = time.After

// WaitFor pauses for d and returns ctx.Err() if ctx is done first.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-after(d):
		return nil
	}
}
