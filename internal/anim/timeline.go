// Package anim drives time-based interpolation. Nothing here reads the wall
// clock: timelines only move when a Scheduler (or a test) advances them.
package anim

import "time"

// Timeline is a bounded-duration clock for one animation.
//
// A timeline is idle until started, running while elapsed < duration, and
// then either completed (natural end) or stopped. Both are terminal.
type Timeline struct {
	duration time.Duration
	elapsed  time.Duration

	started   bool
	finished  bool
	stopped   bool
	scheduled bool

	onFrame     []func(progress float64)
	onCompleted []func()
}

// NewTimeline returns an idle timeline. Negative durations are treated as zero.
func NewTimeline(duration time.Duration) *Timeline {
	if duration < 0 {
		duration = 0
	}
	return &Timeline{duration: duration}
}

// OnFrame registers a callback invoked with linear progress on every advance.
func (t *Timeline) OnFrame(fn func(progress float64)) {
	t.onFrame = append(t.onFrame, fn)
}

// OnCompleted registers a callback invoked once when the timeline reaches its end.
func (t *Timeline) OnCompleted(fn func()) {
	t.onCompleted = append(t.onCompleted, fn)
}

// Start marks the timeline running and paints progress 0.
func (t *Timeline) Start() {
	if t.started || t.stopped {
		return
	}
	t.started = true
	t.emitFrame(0)
}

// Advance moves the timeline forward by dt. Completion callbacks fire during
// the advance that reaches the duration, after the final frame at progress 1.
func (t *Timeline) Advance(dt time.Duration) {
	if !t.Running() {
		return
	}
	if dt > 0 {
		t.elapsed += dt
	}
	if t.elapsed >= t.duration {
		t.elapsed = t.duration
		t.finished = true
		t.emitFrame(1)
		callbacks := t.onCompleted
		t.onCompleted = nil
		for _, fn := range callbacks {
			fn()
		}
		return
	}
	t.emitFrame(t.Progress())
}

// Stop halts the timeline without running completion callbacks.
func (t *Timeline) Stop() {
	if t.finished {
		return
	}
	t.stopped = true
	t.onCompleted = nil
}

// Running reports whether the timeline is started and not yet terminal.
func (t *Timeline) Running() bool {
	return t.started && !t.finished && !t.stopped
}

// Finished reports natural completion.
func (t *Timeline) Finished() bool { return t.finished }

// Stopped reports whether Stop ended the timeline early.
func (t *Timeline) Stopped() bool { return t.stopped }

// Duration returns the configured duration.
func (t *Timeline) Duration() time.Duration { return t.duration }

// Elapsed returns time advanced so far, capped at the duration.
func (t *Timeline) Elapsed() time.Duration { return t.elapsed }

// Progress returns the linear time fraction in [0,1].
func (t *Timeline) Progress() float64 {
	if t.duration <= 0 {
		if t.finished {
			return 1
		}
		return 0
	}
	return clamp01(float64(t.elapsed) / float64(t.duration))
}

func (t *Timeline) emitFrame(p float64) {
	for _, fn := range t.onFrame {
		fn(p)
	}
}
