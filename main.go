package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rook-computer/circuit/internal/app"
	"github.com/rook-computer/circuit/internal/assets"
	"github.com/rook-computer/circuit/internal/config"
	"github.com/rook-computer/circuit/internal/face"
	"github.com/rook-computer/circuit/internal/gauge"
	"github.com/rook-computer/circuit/internal/host"
	"github.com/rook-computer/circuit/internal/render"
	"github.com/rook-computer/circuit/internal/system"
	"github.com/rook-computer/circuit/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	debug := flag.Bool("debug", false, "enable debug logging to ./circuit-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via CIRCUIT_STDIO_LOG")
	listen := flag.String("listen", "", "serve the read-only API on this address; overrides web.listen and "+config.EnvListenAddr)
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("CIRCUIT_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./circuit-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	if *listen != "" {
		cfg.Web.Listen = *listen
	}

	wf, err := newFace(cfg, logger)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	fb := render.NewFBRenderer(cfg.Display.Framebuffer)
	fb.Logger = logger

	a := app.New(wf, host.Services{}, fb)
	a.Logger = logger
	a.Console = system.Console{Logger: logger}

	battery := host.NewSysfsBattery(a.Loop, cfg.Battery.SysfsDir, time.Duration(cfg.Battery.PollIntervalMs)*time.Millisecond)
	battery.Logger = logger
	a.Services = host.Services{
		Tick:       host.NewMinuteTicker(a.Loop),
		Battery:    battery,
		Connection: connectionService(cfg, a.Loop, logger),
	}

	if cfg.Web.Listen != "" {
		server := web.NewHTTPServer(
			web.ServerConfigFrom(cfg.Web),
			web.NewDefaultMux(web.LoopSource{Loop: a.Loop, Face: wf}),
		)
		server.Logger = logger
		a.Web = server
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	system.WatchKeys(ctx, logger, func(code uint16) {
		if code == system.KeyF4 {
			logger.Infof("input", "F4 pressed: exiting")
			a.Exit(nil)
		}
	})

	if err := a.Start(ctx); err != nil {
		logger.Errorf("main", "exit: %v", err)
		fmt.Println("circuit error:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFace(cfg *config.Config, logger app.Logger) (*face.Watchface, error) {
	fg, err := config.ParseHexColor(cfg.Theme.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := config.ParseHexColor(cfg.Theme.Background)
	if err != nil {
		return nil, err
	}
	fill, err := gauge.ParseFillMode(cfg.Gauge.Fill)
	if err != nil {
		return nil, err
	}
	return face.New(face.Options{
		Width:      cfg.Display.Width,
		Height:     cfg.Display.Height,
		Foreground: fg,
		Background: bg,
		GaugeFill:  fill,
		Resources: face.AssetResources{Loader: assets.Loader{
			BackgroundPath: cfg.Resources.Background,
			Logger:         logger,
		}},
		Logger: logger,
	}), nil
}

// connectionService watches BlueZ on the system bus. Without a bus the face
// shows the disconnected indicator for the whole session.
func connectionService(cfg *config.Config, loop *host.Loop, logger app.Logger) host.ConnectionService {
	if !cfg.BluetoothEnabled() {
		logger.Infof("bluez", "bluetooth disabled in config")
		return host.NewSimConnection(loop, false)
	}
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		logger.Errorf("bluez", "system bus: %v", err)
		return host.NewSimConnection(loop, false)
	}
	bluez := host.NewBluezConnection(conn, loop)
	bluez.Logger = logger
	return bluez
}
