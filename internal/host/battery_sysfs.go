package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBatteryDir          = "/sys/class/power_supply/BAT0"
	DefaultBatteryPollInterval = 5 * time.Second
)

// SysfsBattery reads a Linux power_supply device and reports changes.
type SysfsBattery struct {
	Dir      string
	Interval time.Duration
	Loop     *Loop
	Logger   Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	last   BatteryChargeState
}

func NewSysfsBattery(loop *Loop, dir string, interval time.Duration) *SysfsBattery {
	if dir == "" {
		dir = DefaultBatteryDir
	}
	if interval <= 0 {
		interval = DefaultBatteryPollInterval
	}
	return &SysfsBattery{Dir: dir, Interval: interval, Loop: loop, Logger: noopLogger{}}
}

// ReadBatteryDir reads capacity and status from a power_supply directory.
func ReadBatteryDir(dir string) (BatteryChargeState, error) {
	rawCapacity, err := os.ReadFile(filepath.Join(dir, "capacity"))
	if err != nil {
		return BatteryChargeState{}, fmt.Errorf("read capacity: %w", err)
	}
	rawStatus, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		return BatteryChargeState{}, fmt.Errorf("read status: %w", err)
	}
	return ParseBatteryState(string(rawCapacity), string(rawStatus))
}

// ParseBatteryState turns sysfs capacity/status text into a charge state.
// The percentage is clamped to [0,100].
func ParseBatteryState(capacity, status string) (BatteryChargeState, error) {
	percent, err := strconv.Atoi(strings.TrimSpace(capacity))
	if err != nil {
		return BatteryChargeState{}, fmt.Errorf("capacity %q: %w", strings.TrimSpace(capacity), err)
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	charging := strings.EqualFold(strings.TrimSpace(status), "Charging")
	return BatteryChargeState{Percent: percent, IsCharging: charging}, nil
}

// Peek reads the device now. On a read error the last known state is
// returned and the error logged.
func (b *SysfsBattery) Peek() BatteryChargeState {
	state, err := ReadBatteryDir(b.Dir)
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.logger().Errorf("battery", "peek %s: %v", b.Dir, err)
		return b.last
	}
	b.last = state
	return state
}

func (b *SysfsBattery) Subscribe(fn func(BatteryChargeState)) {
	b.Unsubscribe()
	ctx, cancel := context.WithCancel(context.Background())
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			state, err := ReadBatteryDir(b.Dir)
			if err != nil {
				b.logger().Errorf("battery", "poll %s: %v", b.Dir, err)
				continue
			}
			b.mu.Lock()
			changed := state != b.last
			b.last = state
			b.mu.Unlock()
			if !changed {
				continue
			}
			b.Loop.PostContext(ctx, func() {
				if ctx.Err() == nil {
					fn(state)
				}
			})
		}
	}()
}

func (b *SysfsBattery) Unsubscribe() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
		b.wg.Wait()
	}
}

func (b *SysfsBattery) logger() Logger {
	if b.Logger == nil {
		return noopLogger{}
	}
	return b.Logger
}
