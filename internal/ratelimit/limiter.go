// Package ratelimit paces outbound generation requests with a sliding
// window. Unlike a token bucket, the window tracks the real issue time of
// every recent request, so a burst at the top of the minute delays the
// next request until the oldest one ages out.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// Window is the sliding interval over which requests are counted.
	Window = time.Minute

	// MinSpacing is the minimum gap between two granted slots, keeping
	// back-to-back requests from landing inside the provider's own
	// per-second limits.
	MinSpacing = time.Second

	// epsilon pads each computed wait so a grant never races the moment
	// the oldest request ages out of the window.
	epsilon = 50 * time.Millisecond
)

// GenerationLimiter grants slots for generation requests, allowing at most
// max requests per sliding window with MinSpacing between grants. A max of
// zero or less disables limiting entirely. Safe for concurrent use.
type GenerationLimiter struct {
	max int

	mu        sync.Mutex
	recorded  []time.Time
	lastGrant time.Time
	granted   bool

	// clock and sleep are swappable for tests.
	clock func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGenerationLimiter creates a limiter allowing max requests per Window.
func NewGenerationLimiter(max int) *GenerationLimiter {
	return &GenerationLimiter{
		max:   max,
		clock: time.Now,
		sleep: sleepContext,
	}
}

// WaitForSlot blocks until a request slot is available or ctx is done. On a
// nil return the caller holds a slot and should issue the request, then call
// RecordRequest once it has been sent.
func (l *GenerationLimiter) WaitForSlot(ctx context.Context) error {
	if l.max <= 0 {
		return ctx.Err()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		wait, granted := l.tryAcquire(l.clock())
		if granted {
			return nil
		}
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// RecordRequest marks the moment a request was actually issued. Callers
// record after sending so a failed send before the wire does not consume
// window capacity.
func (l *GenerationLimiter) RecordRequest() {
	if l.max <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	l.prune(now)
	l.recorded = append(l.recorded, now)
}

// Pending returns how many requests currently count against the window.
func (l *GenerationLimiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.clock())
	return len(l.recorded)
}

// tryAcquire computes how long the caller must wait before a slot opens
// and, when one is open now, records the grant under the same lock hold.
// Check and grant must not be separate critical sections: two overlapping
// waiters could otherwise both observe an open slot and resolve without
// the minimum spacing between them.
func (l *GenerationLimiter) tryAcquire(now time.Time) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(now)

	var wait time.Duration
	if len(l.recorded) >= l.max {
		oldest := l.recorded[0]
		wait = Window - now.Sub(oldest) + epsilon
	}
	if l.granted {
		if spacing := MinSpacing - now.Sub(l.lastGrant); spacing > wait {
			wait = spacing
		}
	}
	if wait > 0 {
		return wait, false
	}
	l.lastGrant = now
	l.granted = true
	return 0, true
}

// prune drops recorded requests older than the window. Callers hold l.mu.
func (l *GenerationLimiter) prune(now time.Time) {
	cutoff := now.Add(-Window)
	i := 0
	for i < len(l.recorded) && !l.recorded[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.recorded = append(l.recorded[:0], l.recorded[i:]...)
	}
}

// sleepContext sleeps for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
