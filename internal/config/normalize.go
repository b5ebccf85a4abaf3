package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rook-computer/circuit/internal/host"
)

const (
	EnvListenAddr = "CIRCUIT_LISTEN"
	EnvDevMode    = "CIRCUIT_DEV"
	EnvBatteryDir = "CIRCUIT_BATTERY_DIR"
)

const (
	DefaultWidth          = 144
	DefaultHeight         = 168
	DefaultFramebuffer    = "/dev/fb0"
	DefaultForeground     = "#ffffff"
	DefaultBackground     = "#000000"
	DefaultFill           = "depleted"
	DefaultBatteryDir     = host.DefaultBatteryDir
	DefaultPollIntervalMs = int(host.DefaultBatteryPollInterval / time.Millisecond)
)

// Normalize fills unset fields with defaults. It runs before Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Display.Width == 0 {
		cfg.Display.Width = DefaultWidth
	}
	if cfg.Display.Height == 0 {
		cfg.Display.Height = DefaultHeight
	}
	if cfg.Display.Framebuffer == "" {
		cfg.Display.Framebuffer = DefaultFramebuffer
	}
	if cfg.Theme.Foreground == "" {
		cfg.Theme.Foreground = DefaultForeground
	}
	if cfg.Theme.Background == "" {
		cfg.Theme.Background = DefaultBackground
	}
	if cfg.Gauge.Fill == "" {
		cfg.Gauge.Fill = DefaultFill
	}
	if cfg.Battery.SysfsDir == "" {
		cfg.Battery.SysfsDir = DefaultBatteryDir
	}
	if cfg.Battery.PollIntervalMs == 0 {
		cfg.Battery.PollIntervalMs = DefaultPollIntervalMs
	}
}

// ApplyEnv overrides file values with CIRCUIT_* variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.Web.Listen = v
	}
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		cfg.Web.Dev = parsed
	}
	if v := os.Getenv(EnvBatteryDir); v != "" {
		cfg.Battery.SysfsDir = v
	}
	return nil
}
