package host

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
)

var ErrLoopStopped = errors.New("event loop stopped")

// Painter runs one paint pass. It reports whether a frame was produced.
type Painter interface {
	Paint() bool
	Canvas() *image.RGBA
}

// Flusher receives each painted frame.
type Flusher interface {
	Flush(frame *image.RGBA) error
}

// Loop serializes host events. Services post from their own goroutines; the
// loop runs each event to completion, then runs a paint pass, before the next
// event is taken.
type Loop struct {
	Painter Painter
	Output  Flusher
	Logger  Logger

	events  chan func()
	done    chan struct{}
	running atomic.Bool
	stopped atomic.Bool
}

func NewLoop(painter Painter, output Flusher) *Loop {
	return &Loop{
		Painter: painter,
		Output:  output,
		Logger:  noopLogger{},
		events:  make(chan func(), 64),
		done:    make(chan struct{}),
	}
}

// Post queues fn. It never blocks once the loop has stopped; the event is
// dropped instead.
func (l *Loop) Post(fn func()) {
	l.PostContext(context.Background(), fn)
}

// PostContext is Post that also gives up when ctx is done. Services use their
// subscription context so Unsubscribe never waits on a full queue.
func (l *Loop) PostContext(ctx context.Context, fn func()) {
	if fn == nil || l.stopped.Load() {
		return
	}
	select {
	case l.events <- fn:
	case <-l.done:
	case <-ctx.Done():
	}
}

// Call runs fn on the loop and waits for it. Before Run starts, or from the
// loop goroutine itself, use Dispatch instead.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	if l.stopped.Load() {
		return ErrLoopStopped
	}
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.events <- wrapped:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch runs fn and the paint pass that follows it on the calling
// goroutine. It is how the loop runs every event, and how startup code runs
// work before Run takes over.
func (l *Loop) Dispatch(fn func()) {
	fn()
	l.paint()
}

func (l *Loop) paint() {
	if l.Painter == nil || !l.Painter.Paint() {
		return
	}
	if l.Output == nil {
		return
	}
	if err := l.Output.Flush(l.Painter.Canvas()); err != nil {
		l.Logger.Errorf("host", "flush failed: %v", err)
	}
}

// Run processes events until ctx is done. Queued events are dropped on exit.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("event loop already running")
	}
	defer func() {
		l.stopped.Store(true)
		close(l.done)
	}()

	// Anything painted during startup is flushed before the first event.
	l.paint()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			l.Dispatch(fn)
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }
