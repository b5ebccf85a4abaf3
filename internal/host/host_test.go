package host

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func TestChangedUnits(t *testing.T) {
	base := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	tests := []struct {
		name string
		next time.Time
		want TimeUnits
	}{
		{"minute", base.Add(-time.Minute), MinuteUnit},
		{"hour", base.Add(-61 * time.Minute), MinuteUnit | HourUnit},
		{"new year", base.Add(time.Minute), MinuteUnit | HourUnit | DayUnit | MonthUnit | YearUnit},
		{"same", base, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ChangedUnits(base, tc.next); got != tc.want {
				t.Errorf("ChangedUnits = %06b, want %06b", got, tc.want)
			}
		})
	}
	if got := ChangedUnits(time.Time{}, base); !got.Has(MinuteUnit) || !got.Has(YearUnit) {
		t.Errorf("zero prev should report all units, got %06b", got)
	}
}

func TestUntilBoundary(t *testing.T) {
	now := time.Date(2024, 1, 5, 14, 4, 59, int(900*time.Millisecond), time.UTC)
	got := untilBoundary(now, time.Minute)
	want := 100*time.Millisecond + 5*time.Millisecond
	if got != want {
		t.Errorf("untilBoundary = %v, want %v", got, want)
	}
}

func TestParseBatteryState(t *testing.T) {
	tests := []struct {
		capacity, status string
		want             BatteryChargeState
		wantErr          bool
	}{
		{"87\n", "Discharging\n", BatteryChargeState{Percent: 87}, false},
		{"12", "Charging", BatteryChargeState{Percent: 12, IsCharging: true}, false},
		{"101", "Full", BatteryChargeState{Percent: 100}, false},
		{"-3", "Unknown", BatteryChargeState{Percent: 0}, false},
		{"abc", "Charging", BatteryChargeState{}, true},
	}
	for _, tc := range tests {
		got, err := ParseBatteryState(tc.capacity, tc.status)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseBatteryState(%q,%q) err=%v", tc.capacity, tc.status, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseBatteryState(%q,%q) = %+v, want %+v", tc.capacity, tc.status, got, tc.want)
		}
	}
}

func TestSysfsBattery_Peek(t *testing.T) {
	dir := t.TempDir()
	write := func(name, value string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(value), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("capacity", "64\n")
	write("status", "Charging\n")

	b := NewSysfsBattery(nil, dir, time.Second)
	if got := b.Peek(); got != (BatteryChargeState{Percent: 64, IsCharging: true}) {
		t.Errorf("Peek = %+v", got)
	}

	// A broken read keeps the last good state.
	os.Remove(filepath.Join(dir, "capacity"))
	if got := b.Peek(); got.Percent != 64 {
		t.Errorf("Peek after read error = %+v, want last state", got)
	}
}

type countingPainter struct {
	mu      sync.Mutex
	pending bool
	paints  int
	canvas  *image.RGBA
}

func (p *countingPainter) markDirty() {
	p.mu.Lock()
	p.pending = true
	p.mu.Unlock()
}

func (p *countingPainter) Paint() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.pending {
		return false
	}
	p.pending = false
	p.paints++
	return true
}

func (p *countingPainter) Canvas() *image.RGBA { return p.canvas }

type recordingOutput struct {
	mu     sync.Mutex
	frames int
}

func (o *recordingOutput) Flush(frame *image.RGBA) error {
	o.mu.Lock()
	o.frames++
	o.mu.Unlock()
	return nil
}

func TestLoop_PaintsAfterEachEvent(t *testing.T) {
	painter := &countingPainter{canvas: image.NewRGBA(image.Rect(0, 0, 1, 1))}
	out := &recordingOutput{}
	loop := NewLoop(painter, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	for i := 0; i < 3; i++ {
		if err := loop.Call(ctx, painter.markDirty); err != nil {
			t.Fatalf("Call err=%v", err)
		}
	}
	// One more round trip so the last paint is observed.
	var paints int
	if err := loop.Call(ctx, func() { paints = painter.paints }); err != nil {
		t.Fatalf("Call err=%v", err)
	}
	if paints != 3 {
		t.Errorf("paints = %d, want 3", paints)
	}
	out.mu.Lock()
	frames := out.frames
	out.mu.Unlock()
	if frames != 3 {
		t.Errorf("frames = %d, want 3", frames)
	}
}

func TestLoop_CallAfterStop(t *testing.T) {
	loop := NewLoop(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	if err := loop.Call(context.Background(), func() {}); err != ErrLoopStopped {
		t.Errorf("Call after stop err=%v, want ErrLoopStopped", err)
	}
	// Post after stop must not block.
	loop.Post(func() {})
}

func TestSimBattery_ClampsAndNotifies(t *testing.T) {
	b := NewSimBattery(nil, BatteryChargeState{Percent: 50})
	var got []BatteryChargeState
	b.Subscribe(func(s BatteryChargeState) { got = append(got, s) })

	b.Set(BatteryChargeState{Percent: 140, IsCharging: true})
	b.Unsubscribe()
	b.Set(BatteryChargeState{Percent: 10})

	if len(got) != 1 || got[0] != (BatteryChargeState{Percent: 100, IsCharging: true}) {
		t.Errorf("notifications = %+v", got)
	}
	if peek := b.Peek(); peek.Percent != 10 {
		t.Errorf("Peek = %+v", peek)
	}
}

func TestSimTicker_ReportsChangedUnits(t *testing.T) {
	var s SimTicker
	var units []TimeUnits
	s.Subscribe(MinuteUnit, func(_ time.Time, u TimeUnits) { units = append(units, u) })

	t0 := time.Date(2024, 1, 5, 14, 4, 0, 0, time.UTC)
	s.Tick(t0)
	s.Tick(t0.Add(time.Minute))
	if len(units) != 2 {
		t.Fatalf("ticks = %d", len(units))
	}
	if units[1] != MinuteUnit {
		t.Errorf("second tick units = %06b, want minute only", units[1])
	}
}

func TestAnyConnected(t *testing.T) {
	objs := managedObjects{
		"/org/bluez/hci0": {"org.bluez.Adapter1": {"Powered": dbus.MakeVariant(true)}},
		"/org/bluez/hci0/dev_AA": {bluezDeviceInterface: {"Connected": dbus.MakeVariant(false)}},
	}
	if AnyConnected(objs) {
		t.Error("no device connected yet")
	}
	objs["/org/bluez/hci0/dev_BB"] = map[string]map[string]dbus.Variant{
		bluezDeviceInterface: {"Connected": dbus.MakeVariant(true)},
	}
	if !AnyConnected(objs) {
		t.Error("dev_BB is connected")
	}
}

func TestBluezConnection_ApplySignals(t *testing.T) {
	b := &BluezConnection{connected: map[dbus.ObjectPath]bool{}}

	flip, state := b.apply(&dbus.Signal{
		Path: "/org/bluez/hci0/dev_AA",
		Name: propertiesInterface + ".PropertiesChanged",
		Body: []interface{}{bluezDeviceInterface, map[string]dbus.Variant{"Connected": dbus.MakeVariant(true)}, []string{}},
	})
	if !flip || !state {
		t.Errorf("connect: flip=%v state=%v", flip, state)
	}

	flip, _ = b.apply(&dbus.Signal{
		Path: "/org/bluez/hci0/dev_AA",
		Name: propertiesInterface + ".PropertiesChanged",
		Body: []interface{}{bluezDeviceInterface, map[string]dbus.Variant{"RSSI": dbus.MakeVariant(int16(-40))}, []string{}},
	})
	if flip {
		t.Error("unrelated property flipped state")
	}

	flip, state = b.apply(&dbus.Signal{
		Path: "/",
		Name: objectManager + ".InterfacesRemoved",
		Body: []interface{}{dbus.ObjectPath("/org/bluez/hci0/dev_AA"), []string{bluezDeviceInterface}},
	})
	if !flip || state {
		t.Errorf("remove: flip=%v state=%v", flip, state)
	}
}
