// Package config reads the optional YAML file and environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Theme     ThemeConfig     `yaml:"theme"`
	Gauge     GaugeConfig     `yaml:"gauge"`
	Resources ResourcesConfig `yaml:"resources"`
	Battery   BatteryConfig   `yaml:"battery"`
	Bluetooth BluetoothConfig `yaml:"bluetooth"`
	Web       WebConfig       `yaml:"web"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Framebuffer string `yaml:"framebuffer"`
}

// ---- THEME ----

type ThemeConfig struct {
	Foreground string `yaml:"foreground"` // #rrggbb
	Background string `yaml:"background"`
}

// ---- GAUGE ----

type GaugeConfig struct {
	Fill string `yaml:"fill"` // depleted | remaining
}

// ---- RESOURCES ----

type ResourcesConfig struct {
	Background string `yaml:"background"` // PNG or SVG path
}

// ---- BATTERY ----

type BatteryConfig struct {
	SysfsDir       string `yaml:"sysfs_dir"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
}

// ---- BLUETOOTH ----

type BluetoothConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// ---- WEB ----

type WebConfig struct {
	Listen string `yaml:"listen"` // empty disables the API on the device
	Dev    bool   `yaml:"dev"`
}

// Load reads a YAML config. An empty path yields an empty Config that
// Normalize fills with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// BluetoothEnabled defaults to true when the key is absent.
func (c *Config) BluetoothEnabled() bool {
	return c.Bluetooth.Enabled == nil || *c.Bluetooth.Enabled
}
