package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func normalized(t *testing.T, yamlText string) *Config {
	t.Helper()
	cfg, err := Parse([]byte(yamlText))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	Normalize(cfg)
	return cfg
}

func TestLoad_NoFileGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Display.Width != 144 || cfg.Display.Height != 168 {
		t.Errorf("display = %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Gauge.Fill != "depleted" {
		t.Errorf("fill = %q", cfg.Gauge.Fill)
	}
	if !cfg.BluetoothEnabled() {
		t.Error("bluetooth disabled by default")
	}
	if cfg.Web.Listen != "" {
		t.Errorf("listen = %q, want empty", cfg.Web.Listen)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circuit.yaml")
	data := []byte(`
theme:
  foreground: "#0f0"
gauge:
  fill: remaining
bluetooth:
  enabled: false
battery:
  sysfs_dir: /tmp/bat
  poll_interval_ms: 500
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Gauge.Fill != "remaining" || cfg.BluetoothEnabled() {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Battery.SysfsDir != "/tmp/bat" || cfg.Battery.PollIntervalMs != 500 {
		t.Errorf("battery = %+v", cfg.Battery)
	}
	if cfg.Theme.Background != DefaultBackground {
		t.Errorf("background = %q", cfg.Theme.Background)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_UnknownKey(t *testing.T) {
	if _, err := Parse([]byte("gauge:\n  direction: up\n")); err == nil {
		t.Fatal("unknown key accepted")
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]string{
		"fill mode":     "gauge:\n  fill: sideways\n",
		"foreground":    "theme:\n  foreground: white\n",
		"same colors":   "theme:\n  foreground: \"#000000\"\n",
		"negative poll": "battery:\n  poll_interval_ms: -1\n",
		"display":       "display:\n  width: -3\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			err := Validate(normalized(t, text))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, ":9090")
	t.Setenv(EnvDevMode, "true")
	t.Setenv(EnvBatteryDir, "/tmp/bat1")

	cfg := normalized(t, "")
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Web.Listen != ":9090" || !cfg.Web.Dev || cfg.Battery.SysfsDir != "/tmp/bat1" {
		t.Errorf("cfg = %+v %+v", cfg.Web, cfg.Battery)
	}
}

func TestApplyEnv_BadBool(t *testing.T) {
	t.Setenv(EnvDevMode, "maybe")
	if err := ApplyEnv(&Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"#ffffff", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
		{"#000", color.RGBA{0, 0, 0, 0xFF}},
		{"12ab34", color.RGBA{0x12, 0xAB, 0x34, 0xFF}},
	}
	for _, c := range cases {
		got, err := ParseHexColor(c.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "#12", "#gggggg", "#1234567"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) accepted", bad)
		}
	}
}
