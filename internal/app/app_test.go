package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/circuit/internal/face"
	"github.com/rook-computer/circuit/internal/host"
)

type recordingOutput struct {
	mu      sync.Mutex
	started bool
	stopped bool
	frames  int
}

func (o *recordingOutput) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = true
	return nil
}

func (o *recordingOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopped = true
	return nil
}

func (o *recordingOutput) Flush(frame *image.RGBA) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frames++
	return nil
}

func (o *recordingOutput) Frames() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frames
}

type recordingConsole struct{ events []string }

func (c *recordingConsole) Acquire() { c.events = append(c.events, "acquire") }
func (c *recordingConsole) Release() { c.events = append(c.events, "release") }

func newTestApp(out *recordingOutput) (*App, *host.SimBattery, *host.SimConnection) {
	wf := face.New(face.Options{Now: func() time.Time {
		return time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)
	}})
	a := New(wf, host.Services{}, out)
	battery := host.NewSimBattery(a.Loop, host.BatteryChargeState{Percent: 70})
	connection := host.NewSimConnection(a.Loop, true)
	a.Services = host.Services{
		Tick:       &host.SimTicker{Loop: a.Loop},
		Battery:    battery,
		Connection: connection,
	}
	return a, battery, connection
}

func TestStartRunsFaceUntilExit(t *testing.T) {
	out := &recordingOutput{}
	a, battery, connection := newTestApp(out)
	console := &recordingConsole{}
	a.Console = console

	done := make(chan error, 1)
	go func() { done <- a.Start(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var state face.DisplayState
	for {
		err := a.Loop.Call(ctx, func() { state = a.Face.Snapshot() })
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			t.Fatalf("loop never answered: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if state.Time != "0930" || state.Battery.Percent != 70 || !state.BluetoothConnected {
		t.Errorf("state = %+v", state)
	}

	before := out.Frames()
	connection.Set(false)
	if err := a.Loop.Call(ctx, func() {}); err != nil {
		t.Fatal(err)
	}
	if out.Frames() <= before {
		t.Error("connectivity change did not flush a frame")
	}

	wantErr := errors.New("bye")
	a.Exit(wantErr)
	a.Exit(nil)
	select {
	case err := <-done:
		if err != wantErr {
			t.Errorf("Start = %v, want %v", err, wantErr)
		}
	case <-ctx.Done():
		t.Fatal("Start did not return after Exit")
	}

	if battery.Subscribed() || connection.Subscribed() {
		t.Error("services still subscribed after exit")
	}
	if !out.started || !out.stopped {
		t.Errorf("output started=%v stopped=%v", out.started, out.stopped)
	}
	if strings.Join(console.events, ",") != "acquire,release" {
		t.Errorf("console events = %v", console.events)
	}
}

func TestStartStopsOnContext(t *testing.T) {
	out := &recordingOutput{}
	a, _, _ := newTestApp(out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Start(ctx); err != nil {
		t.Errorf("Start = %v", err)
	}
	if out.Frames() == 0 {
		t.Error("initial frame not flushed")
	}
}

func TestFileLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("face", "initialized %dx%d", 144, 168)
	l.Errorf("bluez", "signal: %v", errors.New("gone"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasSuffix(lines[0], " [INFO] face: initialized 144x168") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " [ERROR] bluez: signal: gone") {
		t.Errorf("line 1 = %q", lines[1])
	}
}
