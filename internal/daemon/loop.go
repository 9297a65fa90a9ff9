// Package daemon runs the single thread that owns the scene: every scene
// mutation, effect start and frame tick happens inside Loop.Run.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"
)

// ErrStopped is returned when posting to a loop that has exited.
var ErrStopped = errors.New("event loop stopped")

// FrameFunc advances animations by the time since the previous frame.
type FrameFunc func(dt time.Duration)

// LoopConfig holds configuration for the loop.
type LoopConfig struct {
	Interval time.Duration
	Frame    FrameFunc
	Logger   *slog.Logger
	// QueueSize bounds tasks waiting to run. Defaults to 256.
	QueueSize int
}

// Loop serializes posted tasks and frame ticks onto one goroutine.
type Loop struct {
	interval time.Duration
	frame    FrameFunc
	logger   *slog.Logger
	tasks    chan func()
	done     chan struct{}
	now      func() time.Time
}

// NewLoop creates a loop; it does nothing until Run.
func NewLoop(cfg LoopConfig) *Loop {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		interval: interval,
		frame:    cfg.Frame,
		logger:   logger,
		tasks:    make(chan func(), size),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Interval returns the frame period.
func (l *Loop) Interval() time.Duration { return l.interval }

// Post queues fn to run on the loop. It blocks while the queue is full and
// returns ErrStopped once the loop has exited.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Call runs fn on the loop and waits for it to return.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Run processes tasks and frame ticks until ctx is cancelled. Blocks.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer close(l.done)

	l.logger.Info("event loop started", "interval", l.interval)
	last := l.now()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("event loop stopped")
			return
		case fn := <-l.tasks:
			l.run("task", fn)
		case <-ticker.C:
			now := l.now()
			dt := now.Sub(last)
			last = now
			if l.frame != nil {
				l.run("frame", func() { l.frame(dt) })
			}
		}
	}
}

// run executes one unit of work. A panic is logged and swallowed so the loop
// keeps going.
func (l *Loop) run(kind string, fn func()) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("loop panic recovered",
				"kind", kind,
				"error", err,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
