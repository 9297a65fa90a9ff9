package effects

import (
	"github.com/1broseidon/deskfx/internal/anim"
	"github.com/1broseidon/deskfx/internal/scene"
)

// MapController grows a newly visible window from nothing to full size.
type MapController struct {
	engine *Engine
}

// Begin shows a at zero scale and opacity and animates it to identity.
func (c *MapController) Begin(a *scene.Actor) bool {
	e := c.engine
	if !usable(a) {
		return false
	}
	e.replace(a, CategoryMap)
	if !usable(a) {
		return false
	}
	e.registry.GetOrCreate(a)

	tx, ty := a.Translation()
	final := anim.Identity
	final.TranslateX, final.TranslateY = tx, ty
	start := final
	start.ScaleX, start.ScaleY, start.Opacity = 0, 0, 0

	a.SetPivot(0.5, 0.5)
	start.Apply(a)
	a.Show()

	tw := anim.Tween{Target: a, From: start, To: final, Easing: anim.EaseOutQuad}
	var eff *Effect
	eff = e.run(CategoryMap, a, []anim.Tween{tw}, func(forced bool) {
		e.registry.clearIf(a, CategoryMap, eff)
		if !a.Destroyed() {
			final.Apply(a)
		}
		if e.host != nil {
			e.host.MapCompleted(a)
		}
	})
	e.track(a, CategoryMap, eff)
	return true
}
