package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rook-computer/circuit/internal/app"
	"github.com/rook-computer/circuit/internal/assets"
	"github.com/rook-computer/circuit/internal/config"
	"github.com/rook-computer/circuit/internal/face"
	"github.com/rook-computer/circuit/internal/gauge"
	"github.com/rook-computer/circuit/internal/host"
	"github.com/rook-computer/circuit/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode (CORS); also configurable via "+web.EnvDevMode)
	configPath := flag.String("config", "", "YAML config file (optional); theme, gauge and resources apply")
	window := flag.Bool("window", false, "show the face in a desktop window")
	scale := flag.Int("scale", 3, "window scale factor")
	batteryPct := flag.Int("battery", 80, "initial charge percent")
	charging := flag.Bool("charging", false, "start charging")
	bluetooth := flag.Bool("bluetooth", true, "start connected")
	debug := flag.Bool("debug", false, "log to stderr")
	flag.Parse()

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		logger = app.NewFileLogger(os.Stderr)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	fg, _ := config.ParseHexColor(cfg.Theme.Foreground)
	bg, _ := config.ParseHexColor(cfg.Theme.Background)
	fill, _ := gauge.ParseFillMode(cfg.Gauge.Fill)

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frames := &frameBuffer{}
	var control *SimControl
	wf := face.New(face.Options{
		Width:      cfg.Display.Width,
		Height:     cfg.Display.Height,
		Foreground: fg,
		Background: bg,
		GaugeFill:  fill,
		Resources: face.AssetResources{Loader: assets.Loader{
			BackgroundPath: cfg.Resources.Background,
			Logger:         logger,
		}},
		Now:    func() time.Time { return control.Now() },
		Logger: logger,
	})

	a := app.New(wf, host.Services{}, frames)
	a.Logger = logger
	control = NewSimControl(a.Loop, SimInitial{
		Battery:   host.BatteryChargeState{Percent: *batteryPct, IsCharging: *charging},
		Bluetooth: *bluetooth,
	})
	a.Services = control.Services()

	mux := web.NewDefaultMux(web.LoopSource{Loop: a.Loop, Face: wf})
	registerSimEndpoints(mux, control)
	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode}, mux)
	server.Logger = logger
	a.Web = server

	go control.RunClock(processCtx)

	appCtx, cancel := context.WithCancel(processCtx)
	done := make(chan error, 1)
	go func() {
		done <- a.Start(appCtx)
		cancel()
	}()

	fmt.Println("circuit simulator listening on", displayAddr(*listenAddr))
	fmt.Println("API: http://" + displayAddr(*listenAddr) + "/api/v1/state")

	if *window {
		if err := runWindow(appCtx, frames, control, cfg.Display.Width, cfg.Display.Height, *scale); err != nil {
			fmt.Println("window error:", err)
		}
		cancel()
	}

	if err := <-done; err != nil {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}

func displayAddr(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
