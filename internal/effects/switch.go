package effects

import (
	"github.com/1broseidon/deskfx/internal/anim"
	"github.com/1broseidon/deskfx/internal/scene"
)

// Direction is where the incoming workspace lies relative to the outgoing one.
type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "unknown"
	}
}

// offset returns the unit vector toward the incoming workspace.
func (d Direction) offset() (float64, float64) {
	switch d {
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	case DirectionUp:
		return 0, -1
	default:
		return 0, 1
	}
}

// SwitchRequest describes one workspace switch.
type SwitchRequest struct {
	Outgoing  []*scene.Actor
	Incoming  []*scene.Actor
	Direction Direction
	Width     int
	Height    int
}

// switchRun is the shared state of one in-progress switch. Both timelines
// report into it; the host hears about the switch once both have resolved.
type switchRun struct {
	desktop1  *scene.Actor
	desktop2  *scene.Actor
	outgoing  *Effect
	incoming  *Effect
	windows   []*scene.Actor
	listeners map[*scene.Actor]scene.ListenerID
	pending   int
	finished  bool
}

// SwitchController slides the outgoing desktop away and the incoming one in.
// A request arriving while a switch runs cancels the running switch (which
// signals its completion) and then starts the new one.
type SwitchController struct {
	engine      *Engine
	windowGroup *scene.Actor
	current     *switchRun
}

// SetWindowGroup changes where desktop groups are built.
func (c *SwitchController) SetWindowGroup(g *scene.Actor) {
	c.windowGroup = g
}

// InProgress reports whether a switch is running.
func (c *SwitchController) InProgress() bool {
	return c.current != nil
}

// Kill force-completes the running switch, if any.
func (c *SwitchController) Kill() {
	run := c.current
	if run == nil {
		return
	}
	run.outgoing.Cancel()
	run.incoming.Cancel()
}

// Begin starts a switch. It returns false when there is no window group to
// build the desktops in.
func (c *SwitchController) Begin(req SwitchRequest) bool {
	e := c.engine
	if !usable(c.windowGroup) {
		return false
	}
	c.Kill()
	if !usable(c.windowGroup) {
		return false
	}

	run := &switchRun{
		desktop1:  e.stage.NewActor("desktop1"),
		desktop2:  e.stage.NewActor("desktop2"),
		listeners: make(map[*scene.Actor]scene.ListenerID),
		pending:   2,
	}
	for _, d := range []*scene.Actor{run.desktop1, run.desktop2} {
		d.SetSize(req.Width, req.Height)
		d.Show()
		_ = c.windowGroup.AddChild(d)
	}
	c.adopt(run, run.desktop1, req.Outgoing)
	c.adopt(run, run.desktop2, req.Incoming)

	ux, uy := req.Direction.offset()
	w, h := float64(req.Width), float64(req.Height)
	away := anim.Identity
	away.TranslateX, away.TranslateY = -ux*w, -uy*h
	enter := anim.Identity
	enter.TranslateX, enter.TranslateY = ux*w, uy*h

	c.current = run
	run.outgoing = e.run(CategorySwitch, run.desktop1,
		[]anim.Tween{{Target: run.desktop1, From: anim.Identity, To: away, Easing: anim.EaseInOutQuad}},
		func(bool) { c.partDone(run) })
	run.incoming = e.run(CategorySwitch, run.desktop2,
		[]anim.Tween{{Target: run.desktop2, From: enter, To: anim.Identity, Easing: anim.EaseInOutQuad}},
		func(bool) { c.partDone(run) })

	// The host owns the window group; if it goes away mid-switch, resolve now.
	for _, d := range []*scene.Actor{run.desktop1, run.desktop2} {
		run.listeners[d] = d.OnDestroy(func(*scene.Actor) {
			if c.current == run {
				c.Kill()
			}
		})
	}

	e.logger.Debug("workspace switch started",
		"direction", req.Direction.String(),
		"outgoing", len(req.Outgoing), "incoming", len(req.Incoming))
	return true
}

// adopt reparents windows into a desktop group, recording where they came from.
func (c *SwitchController) adopt(run *switchRun, desktop *scene.Actor, windows []*scene.Actor) {
	for _, w := range windows {
		if !usable(w) || w == desktop {
			continue
		}
		st := c.engine.registry.GetOrCreate(w)
		st.saveParent()
		if err := w.Reparent(desktop, desktop.NumChildren()); err != nil {
			st.clearParent()
			c.engine.registry.prune(st)
			continue
		}
		run.windows = append(run.windows, w)
	}
}

func (c *SwitchController) partDone(run *switchRun) {
	run.pending--
	if run.pending > 0 || run.finished {
		return
	}
	run.finished = true
	if c.current == run {
		c.current = nil
	}

	c.restore(run)
	for d, id := range run.listeners {
		d.Disconnect(id)
	}
	run.desktop1.Destroy()
	run.desktop2.Destroy()

	if c.engine.host != nil {
		c.engine.host.SwitchWorkspaceCompleted()
	}
}

// restore puts every surviving window back under its original parent, in
// reverse adoption order so recorded indices line up again. A window whose
// original parent is gone is detached rather than destroyed with the desktop
// group, since the host owns it.
func (c *SwitchController) restore(run *switchRun) {
	reg := c.engine.registry
	for i := len(run.windows) - 1; i >= 0; i-- {
		w := run.windows[i]
		if w.Destroyed() {
			continue
		}
		st, ok := reg.Get(w)
		if !ok {
			w.Detach()
			continue
		}
		parent, index, saved := st.OriginalParent()
		st.clearParent()
		reg.prune(st)
		if !saved || parent.Destroyed() || parent.Destroying() {
			w.Detach()
			continue
		}
		if err := w.Reparent(parent, index); err != nil {
			w.Detach()
		}
	}
}
