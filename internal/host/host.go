// Package host provides the services a watchface runs on: a serialized event
// loop, the minute tick, battery state and Bluetooth connectivity.
package host

import (
	"time"

	"github.com/rook-computer/circuit/internal/gauge"
)

// TimeUnits is a bitmask of calendar fields that changed between two ticks.
type TimeUnits uint8

const (
	SecondUnit TimeUnits = 1 << iota
	MinuteUnit
	HourUnit
	DayUnit
	MonthUnit
	YearUnit
)

func (u TimeUnits) Has(unit TimeUnits) bool { return u&unit != 0 }

// ChangedUnits reports which fields differ between prev and now. A zero prev
// reports every unit.
func ChangedUnits(prev, now time.Time) TimeUnits {
	if prev.IsZero() {
		return SecondUnit | MinuteUnit | HourUnit | DayUnit | MonthUnit | YearUnit
	}
	var units TimeUnits
	if prev.Second() != now.Second() {
		units |= SecondUnit
	}
	if prev.Minute() != now.Minute() {
		units |= MinuteUnit
	}
	if prev.Hour() != now.Hour() {
		units |= HourUnit
	}
	if prev.YearDay() != now.YearDay() || prev.Year() != now.Year() {
		units |= DayUnit
	}
	if prev.Month() != now.Month() || prev.Year() != now.Year() {
		units |= MonthUnit
	}
	if prev.Year() != now.Year() {
		units |= YearUnit
	}
	return units
}

// BatteryChargeState is the battery snapshot delivered to the face.
type BatteryChargeState = gauge.ChargeState

// Handler receives host events. Every call happens on the loop goroutine.
type Handler interface {
	OnMinuteTick(t time.Time, changed TimeUnits)
	OnBatteryChange(state BatteryChargeState)
	OnConnectivityChange(connected bool)
}

type TickService interface {
	Subscribe(units TimeUnits, fn func(time.Time, TimeUnits))
	Unsubscribe()
}

type BatteryService interface {
	Peek() BatteryChargeState
	Subscribe(fn func(BatteryChargeState))
	Unsubscribe()
}

type ConnectionService interface {
	Peek() bool
	Subscribe(fn func(bool))
	Unsubscribe()
}

// Services bundles the three event sources a face subscribes to.
type Services struct {
	Tick       TickService
	Battery    BatteryService
	Connection ConnectionService
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}
