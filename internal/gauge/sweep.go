package gauge

import (
	"fmt"
	"strings"
)

const (
	sweepEnd  = 355
	sweepStep = 6
)

// FillMode picks which side of the charge boundary the wedges cover.
type FillMode int

const (
	// FillDepleted covers [start, 355): the lit arc is the spent charge.
	FillDepleted FillMode = iota
	// FillRemaining covers [0, start): the lit arc is the charge left.
	FillRemaining
)

func (m FillMode) String() string {
	if m == FillRemaining {
		return "remaining"
	}
	return "depleted"
}

func ParseFillMode(raw string) (FillMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "depleted":
		return FillDepleted, nil
	case "remaining":
		return FillRemaining, nil
	default:
		return FillDepleted, fmt.Errorf("unknown gauge fill mode %q", raw)
	}
}

// SweepStart maps a charge percentage onto the 0-360 angle at which the
// sweep begins.
func SweepStart(percent int) int {
	return (36 * percent) / 10
}

// SweepAngles lists the wedge angles, in degrees, drawn for percent.
func SweepAngles(percent int, mode FillMode) []int {
	start := SweepStart(percent)
	lo, hi := start, sweepEnd
	if mode == FillRemaining {
		lo, hi = 0, start
		if hi > sweepEnd {
			hi = sweepEnd
		}
	}
	var angles []int
	for angle := lo; angle < hi; angle += sweepStep {
		angles = append(angles, angle)
	}
	return angles
}

// TrigAngle converts whole degrees to trig units, keeping the integer
// quantization of the unit-per-degree factor.
func TrigAngle(degrees int) int32 {
	return int32((TrigMaxAngle / 360) * degrees)
}
