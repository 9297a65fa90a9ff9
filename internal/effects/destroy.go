package effects

import (
	"github.com/1broseidon/deskfx/internal/anim"
	"github.com/1broseidon/deskfx/internal/scene"
)

// DestroyController fades a closing window out and detaches it.
//
// If the host destroys the actor before the timeline ends, the registry's
// destroy listener cancels the effect and DestroyCompleted fires from inside
// that destroy call.
type DestroyController struct {
	engine *Engine
}

// Begin starts the destroy effect. Map and minimize effects still running on
// a are force-completed first so the window is animated from its final state.
func (c *DestroyController) Begin(a *scene.Actor) bool {
	e := c.engine
	if !usable(a) {
		return false
	}
	e.replace(a, CategoryMap)
	e.replace(a, CategoryMinimize)
	e.replace(a, CategoryDestroy)
	if !usable(a) {
		return false
	}
	e.registry.GetOrCreate(a)

	from := anim.PropsOf(a)
	to := from
	to.ScaleX, to.ScaleY, to.Opacity = 0, 0, 0
	a.SetPivot(0.5, 0.5)

	tw := anim.Tween{Target: a, From: from, To: to, Easing: anim.EaseOutQuad}
	var eff *Effect
	eff = e.run(CategoryDestroy, a, []anim.Tween{tw}, func(forced bool) {
		e.registry.clearIf(a, CategoryDestroy, eff)
		if !a.Destroyed() {
			a.Detach()
		}
		if e.host != nil {
			e.host.DestroyCompleted(a)
		}
	})
	e.track(a, CategoryDestroy, eff)
	return true
}
