// Package effects is the per-actor animation engine: it attaches transient
// effect state to actors, drives timelines to completion through the
// scheduler and reports every resolved effect back to the host exactly once.
package effects

import (
	"log/slog"
	"time"

	"github.com/1broseidon/deskfx/internal/anim"
	"github.com/1broseidon/deskfx/internal/scene"
)

// Options configures an Engine.
type Options struct {
	Host      Host
	Icons     IconLocator
	Observer  Observer
	Durations Durations
	Logger    *slog.Logger
	// WindowGroup is where switch-workspace builds its desktop groups.
	WindowGroup *scene.Actor
}

// Info describes a live effect for status output.
type Info struct {
	ID       string        `json:"id"`
	Category string        `json:"category"`
	Actor    scene.ActorID `json:"actor"`
	Name     string        `json:"name"`
	Progress float64       `json:"progress"`
	Duration time.Duration `json:"duration"`
}

// Engine owns the registry, the frame scheduler and the four controllers.
type Engine struct {
	stage     *scene.Stage
	registry  *Registry
	scheduler *anim.Scheduler
	host      Host
	observer  Observer
	durations Durations
	logger    *slog.Logger

	live []*Effect

	Minimize *MinimizeController
	Map      *MapController
	Destroy  *DestroyController
	Switch   *SwitchController
}

// NewEngine wires the controllers around a shared registry and scheduler.
func NewEngine(stage *scene.Stage, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	durations := opts.Durations
	if durations == (Durations{}) {
		durations = DefaultDurations()
	}

	e := &Engine{
		stage:     stage,
		registry:  NewRegistry(logger),
		scheduler: anim.NewScheduler(),
		host:      opts.Host,
		observer:  observer,
		durations: durations,
		logger:    logger,
	}
	e.Minimize = &MinimizeController{engine: e, icons: opts.Icons}
	e.Map = &MapController{engine: e}
	e.Destroy = &DestroyController{engine: e}
	e.Switch = &SwitchController{engine: e, windowGroup: opts.WindowGroup}
	return e
}

// Registry returns the actor side table.
func (e *Engine) Registry() *Registry { return e.registry }

// Scheduler returns the frame scheduler.
func (e *Engine) Scheduler() *anim.Scheduler { return e.scheduler }

// Advance is the per-frame tick.
func (e *Engine) Advance(dt time.Duration) {
	e.scheduler.Advance(dt)
}

// BeginMinimize starts a minimize effect on a.
func (e *Engine) BeginMinimize(a *scene.Actor) bool { return e.Minimize.Begin(a) }

// BeginMap starts a map effect on a.
func (e *Engine) BeginMap(a *scene.Actor) bool { return e.Map.Begin(a) }

// BeginDestroy starts a destroy effect on a.
func (e *Engine) BeginDestroy(a *scene.Actor) bool { return e.Destroy.Begin(a) }

// BeginSwitch starts a workspace switch.
func (e *Engine) BeginSwitch(req SwitchRequest) bool { return e.Switch.Begin(req) }

// KillWindowEffects force-completes every live effect on a.
func (e *Engine) KillWindowEffects(a *scene.Actor) {
	if a == nil {
		return
	}
	st, ok := e.registry.Get(a)
	if !ok {
		return
	}
	for _, eff := range st.live() {
		eff.Cancel()
	}
}

// KillSwitchWorkspace force-completes an in-progress workspace switch.
func (e *Engine) KillSwitchWorkspace() {
	e.Switch.Kill()
}

// Snapshot lists live effects in start order.
func (e *Engine) Snapshot() []Info {
	out := make([]Info, 0, len(e.live))
	for _, eff := range e.live {
		info := Info{
			ID:       eff.ID(),
			Category: eff.Category().String(),
			Progress: eff.Progress(),
			Duration: eff.Timeline().Duration(),
		}
		if t := eff.Target(); t != nil {
			info.Actor = t.ID()
			info.Name = t.Name()
		}
		out = append(out, info)
	}
	return out
}

// ActiveCount returns the number of live effects.
func (e *Engine) ActiveCount() int { return len(e.live) }

// CountByCategory returns live effect counts keyed by category name.
func (e *Engine) CountByCategory() map[string]int {
	counts := make(map[string]int)
	for _, eff := range e.live {
		counts[eff.Category().String()]++
	}
	return counts
}

// run creates, tracks and starts an effect. done runs once on resolution,
// before the observer is told.
func (e *Engine) run(c Category, target *scene.Actor, tweens []anim.Tween, done func(forced bool)) *Effect {
	var eff *Effect
	eff = newEffect(c, target, e.durations.For(c), func(forced bool) {
		e.untrack(eff)
		done(forced)
		e.observer.EffectFinished(c, forced)
		e.logger.Debug("effect finished",
			"effect", eff.ID(), "category", c.String(), "forced", forced)
	})
	for _, tw := range tweens {
		tw.Bind(eff.timeline)
	}
	e.live = append(e.live, eff)
	eff.start(e.scheduler)
	e.observer.EffectStarted(c)

	attrs := []any{"effect", eff.ID(), "category", c.String(), "duration", e.durations.For(c)}
	if target != nil {
		attrs = append(attrs, "actor", target.ID())
	}
	e.logger.Debug("effect started", attrs...)
	return eff
}

func (e *Engine) untrack(eff *Effect) {
	for i, cur := range e.live {
		if cur == eff {
			e.live = append(e.live[:i], e.live[i+1:]...)
			return
		}
	}
}

// replace force-completes the effect currently occupying (a, c), if any.
// The completion may drop a's registry entry, so callers fetch state afresh.
func (e *Engine) replace(a *scene.Actor, c Category) {
	st, ok := e.registry.Get(a)
	if !ok {
		return
	}
	if prev := st.Active(c); prev != nil {
		e.logger.Debug("replacing running effect",
			"effect", prev.ID(), "category", c.String(), "actor", a.ID())
		prev.Cancel()
	}
}

// track stores eff in a's category slot.
func (e *Engine) track(a *scene.Actor, c Category, eff *Effect) {
	st := e.registry.GetOrCreate(a)
	if p := st.slot(c); p != nil {
		*p = eff
	}
}

func usable(a *scene.Actor) bool {
	return a != nil && !a.Destroyed() && !a.Destroying()
}
