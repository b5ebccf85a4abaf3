package host

import (
	"sync"
	"time"
)

// SimTicker ticks only when told to. Tick posts to the subscriber through the
// loop, or calls it directly when no loop is set.
type SimTicker struct {
	Loop *Loop

	mu    sync.Mutex
	fn    func(time.Time, TimeUnits)
	units TimeUnits
	last  time.Time
}

func (s *SimTicker) Subscribe(units TimeUnits, fn func(time.Time, TimeUnits)) {
	s.mu.Lock()
	s.fn = fn
	s.units = units
	s.mu.Unlock()
}

func (s *SimTicker) Unsubscribe() {
	s.mu.Lock()
	s.fn = nil
	s.mu.Unlock()
}

func (s *SimTicker) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

// Tick delivers t with the units that changed since the previous Tick.
func (s *SimTicker) Tick(t time.Time) {
	s.mu.Lock()
	fn := s.fn
	changed := ChangedUnits(s.last, t)
	s.last = t
	s.mu.Unlock()
	if fn == nil {
		return
	}
	deliver(s.Loop, func() { fn(t, changed) })
}

// SimBattery holds a battery state set by hand.
type SimBattery struct {
	Loop *Loop

	mu    sync.Mutex
	state BatteryChargeState
	fn    func(BatteryChargeState)
}

func NewSimBattery(loop *Loop, initial BatteryChargeState) *SimBattery {
	return &SimBattery{Loop: loop, state: initial}
}

func (s *SimBattery) Peek() BatteryChargeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SimBattery) Subscribe(fn func(BatteryChargeState)) {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
}

func (s *SimBattery) Unsubscribe() {
	s.mu.Lock()
	s.fn = nil
	s.mu.Unlock()
}

func (s *SimBattery) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

// Set stores state, clamped to [0,100], and notifies the subscriber.
func (s *SimBattery) Set(state BatteryChargeState) {
	if state.Percent < 0 {
		state.Percent = 0
	}
	if state.Percent > 100 {
		state.Percent = 100
	}
	s.mu.Lock()
	s.state = state
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		deliver(s.Loop, func() { fn(state) })
	}
}

// SimConnection holds a connectivity flag set by hand.
type SimConnection struct {
	Loop *Loop

	mu        sync.Mutex
	connected bool
	fn        func(bool)
}

func NewSimConnection(loop *Loop, connected bool) *SimConnection {
	return &SimConnection{Loop: loop, connected: connected}
}

func (s *SimConnection) Peek() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *SimConnection) Subscribe(fn func(bool)) {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
}

func (s *SimConnection) Unsubscribe() {
	s.mu.Lock()
	s.fn = nil
	s.mu.Unlock()
}

func (s *SimConnection) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

func (s *SimConnection) Set(connected bool) {
	s.mu.Lock()
	s.connected = connected
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		deliver(s.Loop, func() { fn(connected) })
	}
}

func deliver(loop *Loop, fn func()) {
	if loop == nil {
		fn()
		return
	}
	loop.Post(fn)
}
