package utils

import (
	"context"
	"time"
)

// WithRetryBackoff runs f until it reports done, maxRetryTimes retries have
// been spent, or ctx is done. The wait before a retry starts at firstDuration
// and doubles each time. f receives the number of retries so far.
func WithRetryBackoff(ctx context.Context, maxRetryTimes uint, firstDuration time.Duration, f func(retried uint) (done bool)) {
	wait := firstDuration
	for retried := uint(0); ; retried++ {
		if f(retried) || retried == maxRetryTimes {
			return
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
		wait *= 2
	}
}
