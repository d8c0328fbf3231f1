package summarizer

import (
	"context"
	"sync"
	"time"
)

// rateLimiter enforces a minimum interval between calls. Summaries are
// large requests against shared quota, so back-to-back tasks are spaced
// out rather than burst.
type rateLimiter struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

// wait blocks until the interval since the previous call has elapsed.
func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	waitFor := r.interval - now.Sub(r.last)
	if waitFor < 0 {
		waitFor = 0
	}
	r.last = now.Add(waitFor)
	r.mu.Unlock()

	if waitFor == 0 {
		return nil
	}

	timer := time.NewTimer(waitFor)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
