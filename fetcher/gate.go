package fetcher

import (
	"context"
	"sync"
	"time"
)

// gate spaces request starts at least interval apart. One gate guards every
// request the process makes; last holds the start time of the most recently
// admitted request, or the reserved start of one still waiting its turn.
type gate struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error

	mu   sync.Mutex
	last time.Time
}

func newGate(interval time.Duration) *gate {
	return &gate{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// wait claims the next start slot and blocks until it opens. The slot is
// reserved under the lock before sleeping, so concurrent callers line up at
// interval-spaced starts instead of all waking on the same deadline. A
// cancelled wait still keeps its slot; the caller counts as a request.
func (g *gate) wait(ctx context.Context) error {
	g.mu.Lock()
	now := g.now()
	slot := now
	if !g.last.IsZero() {
		if next := g.last.Add(g.interval); now.Before(next) {
			slot = next
		}
	}
	g.last = slot
	g.mu.Unlock()

	if d := slot.Sub(now); d > 0 {
		return g.sleep(ctx, d)
	}
	return nil
}

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
