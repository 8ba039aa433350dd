package collector

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces calls evenly: each Wait reserves the next free slot,
// one interval after the previous reservation. Alpha Vantage's free tier
// allows a handful of calls per minute.
type RateLimiter struct {
	interval time.Duration
	mu       sync.Mutex
	next     time.Time // earliest start of the next unreserved slot
}

// NewRateLimiter creates a RateLimiter that allows perMinute calls per minute.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{interval: time.Minute / time.Duration(perMinute)}
}

// Wait blocks until the caller's slot starts or ctx is done. A cancelled
// caller hands its slot back when nobody has reserved after it.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	now := time.Now()
	slot := rl.next
	if slot.Before(now) {
		slot = now
	}
	rl.next = slot.Add(rl.interval)
	rl.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		rl.mu.Lock()
		if rl.next.Equal(slot.Add(rl.interval)) {
			rl.next = slot
		}
		rl.mu.Unlock()
		return ctx.Err()
	}
}
