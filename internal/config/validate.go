package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/rook-computer/circuit/internal/gauge"
)

var ErrInvalid = errors.New("invalid config")

// Validate checks a normalized config. It does not mutate it.
func Validate(cfg *Config) error {
	if cfg.Display.Width <= 0 || cfg.Display.Height <= 0 {
		return fmt.Errorf("%w: display size %dx%d", ErrInvalid, cfg.Display.Width, cfg.Display.Height)
	}
	if _, err := ParseHexColor(cfg.Theme.Foreground); err != nil {
		return fmt.Errorf("%w: theme.foreground: %v", ErrInvalid, err)
	}
	if _, err := ParseHexColor(cfg.Theme.Background); err != nil {
		return fmt.Errorf("%w: theme.background: %v", ErrInvalid, err)
	}
	if strings.EqualFold(cfg.Theme.Foreground, cfg.Theme.Background) {
		return fmt.Errorf("%w: theme foreground and background are both %s", ErrInvalid, cfg.Theme.Foreground)
	}
	if _, err := gauge.ParseFillMode(cfg.Gauge.Fill); err != nil {
		return fmt.Errorf("%w: gauge.fill: %v", ErrInvalid, err)
	}
	if cfg.Battery.PollIntervalMs < 0 {
		return fmt.Errorf("%w: battery.poll_interval_ms must not be negative", ErrInvalid)
	}
	return nil
}

// ParseHexColor accepts #rgb and #rrggbb.
func ParseHexColor(raw string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb", raw)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", raw, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
