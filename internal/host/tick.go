package host

import (
	"context"
	"sync"
	"time"
)

// MinuteTicker fires on wall-clock boundaries of the subscribed unit.
type MinuteTicker struct {
	Loop *Loop
	Now  func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMinuteTicker(loop *Loop) *MinuteTicker {
	return &MinuteTicker{Loop: loop, Now: time.Now}
}

// Subscribe replaces any previous subscription. units selects the finest
// field that triggers a tick; coarser changes are reported in the mask.
func (m *MinuteTicker) Subscribe(units TimeUnits, fn func(time.Time, TimeUnits)) {
	m.Unsubscribe()
	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	period := time.Minute
	if units.Has(SecondUnit) {
		period = time.Second
	}
	now := m.Now
	if now == nil {
		now = time.Now
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		prev := now()
		for {
			wait := untilBoundary(now(), period)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			t := now()
			changed := ChangedUnits(prev, t)
			prev = t
			m.Loop.PostContext(ctx, func() {
				if ctx.Err() == nil {
					fn(t, changed)
				}
			})
		}
	}()
}

func (m *MinuteTicker) Unsubscribe() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
		m.wg.Wait()
	}
}

// untilBoundary returns the delay until the next multiple of period, plus a
// small margin so the tick lands inside the new unit.
func untilBoundary(now time.Time, period time.Duration) time.Duration {
	next := now.Truncate(period).Add(period)
	return next.Sub(now) + 5*time.Millisecond
}
