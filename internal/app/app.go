package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rook-computer/circuit/internal/face"
	"github.com/rook-computer/circuit/internal/host"
	"github.com/rook-computer/circuit/internal/render"
)

// Server is an optional side service started with the face.
type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

// Console prepares the VT for drawing and restores it on exit.
type Console interface {
	Acquire()
	Release()
}

type App struct {
	Face     *face.Watchface
	Loop     *host.Loop
	Services host.Services
	Output   render.Output
	Web      Server
	Console  Console
	Logger   Logger

	exitOnce atomic.Bool
	exitCh   chan error
}

// New wires the face to a fresh event loop that flushes into output.
func New(wf *face.Watchface, services host.Services, output render.Output) *App {
	if output == nil {
		output = render.NoopOutput{}
	}
	return &App{
		Face:     wf,
		Loop:     host.NewLoop(wf, output),
		Services: services,
		Output:   output,
		Logger:   NoopLogger{},
		exitCh:   make(chan error, 1),
	}
}

// Exit requests the app to stop running. It is safe from any goroutine.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs the face until ctx is done or Exit is called. The face is
// initialized and torn down on the calling goroutine while the loop is not
// running.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	app.Loop.Logger = app.Logger

	if err := app.Output.Start(ctx); err != nil {
		app.Logger.Errorf("app", "output start error: %v", err)
		return err
	}
	defer func() {
		if err := app.Output.Stop(); err != nil {
			app.Logger.Errorf("app", "output stop error: %v", err)
		}
	}()

	if app.Console != nil {
		app.Console.Acquire()
		defer app.Console.Release()
	}

	var initErr error
	app.Loop.Dispatch(func() { initErr = app.Face.Init(app.Services) })
	if initErr != nil {
		app.Logger.Errorf("app", "face init error: %v", initErr)
		return fmt.Errorf("face init: %w", initErr)
	}
	defer app.Face.Deinit()

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			app.Logger.Errorf("app", "web start error: %v", err)
		} else {
			defer func() { _ = app.Web.Stop() }()
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopErr := make(chan error, 1)
	go func() { loopErr <- app.Loop.Run(loopCtx) }()

	var err error
	select {
	case <-ctx.Done():
	case err = <-app.exitCh:
	}
	cancel()
	// Deinit must not race the loop goroutine.
	if runErr := <-loopErr; runErr != nil && !errors.Is(runErr, context.Canceled) {
		app.Logger.Errorf("app", "event loop error: %v", runErr)
	}
	app.Logger.Infof("app", "stopping")
	return err
}

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

type FileLogger struct{ w io.Writer }

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{w: w} }
func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	writeLog(l.w, "INFO", component, format, args...)
}
func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	writeLog(l.w, "ERROR", component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}
