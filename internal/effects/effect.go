package effects

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/deskfx/internal/anim"
	"github.com/1broseidon/deskfx/internal/scene"
)

// Category names the lifecycle event an effect animates.
type Category int

const (
	CategoryMinimize Category = iota
	CategoryMap
	CategoryDestroy
	CategorySwitch
)

// String returns the category name used in logs and metrics labels.
func (c Category) String() string {
	switch c {
	case CategoryMinimize:
		return "minimize"
	case CategoryMap:
		return "map"
	case CategoryDestroy:
		return "destroy"
	case CategorySwitch:
		return "switch-workspace"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Durations holds the fixed timeline length of each category.
type Durations struct {
	Minimize time.Duration
	Map      time.Duration
	Destroy  time.Duration
	Switch   time.Duration
}

// DefaultDurations returns the stock timings.
func DefaultDurations() Durations {
	return Durations{
		Minimize: 250 * time.Millisecond,
		Map:      250 * time.Millisecond,
		Destroy:  100 * time.Millisecond,
		Switch:   500 * time.Millisecond,
	}
}

// For returns the duration configured for c.
func (d Durations) For(c Category) time.Duration {
	switch c {
	case CategoryMinimize:
		return d.Minimize
	case CategoryMap:
		return d.Map
	case CategoryDestroy:
		return d.Destroy
	case CategorySwitch:
		return d.Switch
	default:
		return 0
	}
}

// State is the lifecycle of one effect instance.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Effect is one timed animation with a one-shot completion action.
//
// The completion action runs exactly once, either when the timeline reaches
// its end or when the effect is cancelled. After that the closure is dropped
// so nothing can call it twice.
type Effect struct {
	id       string
	category Category
	target   *scene.Actor
	timeline *anim.Timeline
	state    State
	complete func(forced bool)
}

func newEffect(c Category, target *scene.Actor, d time.Duration, complete func(forced bool)) *Effect {
	e := &Effect{
		id:       uuid.NewString(),
		category: c,
		target:   target,
		timeline: anim.NewTimeline(d),
		complete: complete,
	}
	e.timeline.OnCompleted(func() { e.finish(false) })
	return e
}

// ID returns the instance identifier used in logs and status output.
func (e *Effect) ID() string { return e.id }

// Category returns the lifecycle category.
func (e *Effect) Category() Category { return e.category }

// Target returns the animated actor. Switch effects target their desktop group.
func (e *Effect) Target() *scene.Actor { return e.target }

// State returns the current lifecycle state.
func (e *Effect) State() State { return e.state }

// Progress returns linear timeline progress in [0,1].
func (e *Effect) Progress() float64 { return e.timeline.Progress() }

// Timeline exposes the underlying timeline.
func (e *Effect) Timeline() *anim.Timeline { return e.timeline }

// Running reports whether the effect has started and not yet resolved.
func (e *Effect) Running() bool { return e.state == StateRunning }

// Cancel forces the effect to resolve now, running the same completion path
// as a natural finish. Cancelling a resolved effect is a no-op.
func (e *Effect) Cancel() {
	if e.state != StateRunning {
		return
	}
	e.timeline.Stop()
	e.finish(true)
}

func (e *Effect) start(s *anim.Scheduler) {
	if e.state != StateIdle {
		return
	}
	e.state = StateRunning
	s.Add(e.timeline)
}

func (e *Effect) finish(forced bool) {
	if e.state != StateRunning {
		return
	}
	if forced {
		e.state = StateCancelled
	} else {
		e.state = StateCompleted
	}
	fn := e.complete
	e.complete = nil
	if fn != nil {
		fn(forced)
	}
}
