package ratelimit

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

// fakeClock advances only when the limiter sleeps, so tests run instantly.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(max int) (*GenerationLimiter, *fakeClock, *[]time.Duration) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	var slept []time.Duration
	l := NewGenerationLimiter(max)
	l.clock = clock.Now
	l.sleep = func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		slept = append(slept, d)
		clock.Advance(d)
		return nil
	}
	return l, clock, &slept
}

func TestWaitForSlotImmediateWhenUnderLimit(t *testing.T) {
	l, _, slept := newTestLimiter(2)
	if err := l.WaitForSlot(context.Background()); err != nil {
		t.Fatalf("WaitForSlot: %v", err)
	}
	l.RecordRequest()
	if len(*slept) != 0 {
		t.Fatalf("expected no sleeping under the limit, slept %v", *slept)
	}
}

func TestWaitForSlotBlocksUntilOldestAgesOut(t *testing.T) {
	l, clock, _ := newTestLimiter(2)
	ctx := context.Background()

	// Two requests, two seconds apart, fill the window.
	if err := l.WaitForSlot(ctx); err != nil {
		t.Fatalf("WaitForSlot 1: %v", err)
	}
	l.RecordRequest()
	clock.Advance(2 * time.Second)
	if err := l.WaitForSlot(ctx); err != nil {
		t.Fatalf("WaitForSlot 2: %v", err)
	}
	l.RecordRequest()

	before := clock.Now()
	if err := l.WaitForSlot(ctx); err != nil {
		t.Fatalf("WaitForSlot 3: %v", err)
	}
	waited := clock.Now().Sub(before)

	// The third slot opens when the first request is a full window old:
	// 58s from here, plus the scheduling pad.
	if waited < 58*time.Second {
		t.Fatalf("expected ~58s wait, got %v", waited)
	}
	if waited > 58*time.Second+time.Second {
		t.Fatalf("wait overshot: %v", waited)
	}
}

func TestWaitForSlotEnforcesSpacing(t *testing.T) {
	l, clock, _ := newTestLimiter(10)
	ctx := context.Background()

	if err := l.WaitForSlot(ctx); err != nil {
		t.Fatalf("WaitForSlot 1: %v", err)
	}
	l.RecordRequest()

	before := clock.Now()
	if err := l.WaitForSlot(ctx); err != nil {
		t.Fatalf("WaitForSlot 2: %v", err)
	}
	if waited := clock.Now().Sub(before); waited < MinSpacing {
		t.Fatalf("expected at least %v between grants, got %v", MinSpacing, waited)
	}
}

func TestWaitForSlotDisabled(t *testing.T) {
	l, _, slept := newTestLimiter(0)
	for i := 0; i < 5; i++ {
		if err := l.WaitForSlot(context.Background()); err != nil {
			t.Fatalf("WaitForSlot: %v", err)
		}
		l.RecordRequest()
	}
	if len(*slept) != 0 {
		t.Fatalf("disabled limiter slept %v", *slept)
	}
	if got := l.Pending(); got != 0 {
		t.Fatalf("disabled limiter recorded %d requests", got)
	}
}

func TestWaitForSlotCancellation(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewGenerationLimiter(1)
	l.clock = clock.Now

	ctx, cancel := context.WithCancel(context.Background())
	l.RecordRequest() // window full; the next wait would be ~60s

	done := make(chan error, 1)
	go func() {
		done <- l.WaitForSlot(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForSlot did not return after cancellation")
	}
}

func TestSameInstantGrantsExcludeEachOther(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewGenerationLimiter(10)
	l.clock = clock.Now

	// Two callers observing the limiter at the same instant must not both
	// be granted: the first grant is visible to the second check.
	if _, granted := l.tryAcquire(clock.Now()); !granted {
		t.Fatal("expected first caller to be granted")
	}
	wait, granted := l.tryAcquire(clock.Now())
	if granted {
		t.Fatal("expected second caller at the same instant to wait")
	}
	if wait < MinSpacing {
		t.Fatalf("expected at least %v wait, got %v", MinSpacing, wait)
	}
}

func TestOverlappingWaitersKeepSpacing(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps for real spacing intervals")
	}
	l := NewGenerationLimiter(100)
	ctx := context.Background()

	const waiters = 3
	grants := make(chan time.Time, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.WaitForSlot(ctx); err != nil {
				t.Errorf("WaitForSlot: %v", err)
				return
			}
			grants <- time.Now()
		}()
	}
	wg.Wait()
	close(grants)

	var times []time.Time
	for g := range grants {
		times = append(times, g)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	for i := 1; i < len(times); i++ {
		if gap := times[i].Sub(times[i-1]); gap < MinSpacing-50*time.Millisecond {
			t.Fatalf("grants %d and %d only %v apart", i-1, i, gap)
		}
	}
}

func TestPendingPrunesOldRequests(t *testing.T) {
	l, clock, _ := newTestLimiter(3)
	l.RecordRequest()
	l.RecordRequest()
	if got := l.Pending(); got != 2 {
		t.Fatalf("expected 2 pending, got %d", got)
	}
	clock.Advance(Window + time.Second)
	if got := l.Pending(); got != 0 {
		t.Fatalf("expected pruned window, got %d", got)
	}
}
