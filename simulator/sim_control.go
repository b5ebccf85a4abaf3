package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rook-computer/circuit/internal/host"
)

// SimInitial is the state /sim/reset returns to.
type SimInitial struct {
	Battery   host.BatteryChargeState
	Bluetooth bool
}

// SimControl drives the simulated services. Time is the wall clock unless
// pinned with SetTime.
type SimControl struct {
	Ticker     *host.SimTicker
	Battery    *host.SimBattery
	Connection *host.SimConnection

	initial SimInitial

	mu     sync.Mutex
	pinned time.Time
}

func NewSimControl(loop *host.Loop, initial SimInitial) *SimControl {
	return &SimControl{
		Ticker:     &host.SimTicker{Loop: loop},
		Battery:    host.NewSimBattery(loop, initial.Battery),
		Connection: host.NewSimConnection(loop, initial.Bluetooth),
		initial:    initial,
	}
}

func (c *SimControl) Services() host.Services {
	return host.Services{Tick: c.Ticker, Battery: c.Battery, Connection: c.Connection}
}

// Now is the face's clock.
func (c *SimControl) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pinned.IsZero() {
		return c.pinned
	}
	return time.Now()
}

// SetTime pins the clock to t and ticks. A zero t unpins it.
func (c *SimControl) SetTime(t time.Time) {
	c.mu.Lock()
	c.pinned = t
	c.mu.Unlock()
	c.Tick()
}

func (c *SimControl) Tick() { c.Ticker.Tick(c.Now()) }

func (c *SimControl) ToggleBluetooth() { c.Connection.Set(!c.Connection.Peek()) }

func (c *SimControl) ToggleCharging() {
	state := c.Battery.Peek()
	state.IsCharging = !state.IsCharging
	c.Battery.Set(state)
}

// AdjustCharge moves the charge by delta; SimBattery clamps it.
func (c *SimControl) AdjustCharge(delta int) {
	state := c.Battery.Peek()
	state.Percent += delta
	c.Battery.Set(state)
}

func (c *SimControl) Reset() {
	c.Battery.Set(c.initial.Battery)
	c.Connection.Set(c.initial.Bluetooth)
	c.SetTime(time.Time{})
}

// RunClock ticks on every wall-clock minute while the clock is not pinned.
func (c *SimControl) RunClock(ctx context.Context) {
	for {
		now := time.Now()
		next := now.Truncate(time.Minute).Add(time.Minute)
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		c.mu.Lock()
		pinned := !c.pinned.IsZero()
		c.mu.Unlock()
		if !pinned {
			c.Tick()
		}
	}
}

type simStatus struct {
	OK        bool                    `json:"ok"`
	Battery   host.BatteryChargeState `json:"battery"`
	Bluetooth bool                    `json:"bluetooth"`
	Time      string                  `json:"time"`
}

func (c *SimControl) status() simStatus {
	return simStatus{
		OK:        true,
		Battery:   c.Battery.Peek(),
		Bluetooth: c.Connection.Peek(),
		Time:      c.Now().Format(time.RFC3339),
	}
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		control.Reset()
		writeSimJSON(w, http.StatusOK, control.status())
	})

	mux.HandleFunc("/sim/battery", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var patch struct {
			Percent  *int  `json:"percent"`
			Charging *bool `json:"charging"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		state := control.Battery.Peek()
		if patch.Percent != nil {
			state.Percent = *patch.Percent
		}
		if patch.Charging != nil {
			state.IsCharging = *patch.Charging
		}
		control.Battery.Set(state)
		writeSimJSON(w, http.StatusOK, control.status())
	})

	mux.HandleFunc("/sim/bluetooth", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var body struct {
			Connected *bool `json:"connected"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Connected == nil {
			writeSimError(w, http.StatusBadRequest, "connected is required")
			return
		}
		control.Connection.Set(*body.Connected)
		writeSimJSON(w, http.StatusOK, control.status())
	})

	mux.HandleFunc("/sim/time", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var body struct {
			Time string `json:"time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		// An empty time returns to the wall clock.
		var t time.Time
		if body.Time != "" {
			parsed, err := time.Parse(time.RFC3339, body.Time)
			if err != nil {
				writeSimError(w, http.StatusBadRequest, "time must be RFC3339")
				return
			}
			t = parsed
		}
		control.SetTime(t)
		writeSimJSON(w, http.StatusOK, control.status())
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"ok": false, "error": message})
}
