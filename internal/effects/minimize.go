package effects

import (
	"github.com/1broseidon/deskfx/internal/anim"
	"github.com/1broseidon/deskfx/internal/scene"
)

// MinimizeController shrinks a window toward its icon (or its own centre)
// and hides it when done.
type MinimizeController struct {
	engine *Engine
	icons  IconLocator
}

// Begin starts a minimize effect on a. A minimize already running on a is
// force-completed first. It returns false when a cannot be animated, in
// which case the host minimizes without animation.
func (c *MinimizeController) Begin(a *scene.Actor) bool {
	e := c.engine
	if !usable(a) {
		return false
	}
	e.replace(a, CategoryMinimize)
	if !usable(a) {
		return false
	}
	e.registry.GetOrCreate(a)

	orig := anim.PropsOf(a)
	a.SetPivot(0.5, 0.5)
	target := anim.Props{
		TranslateX: orig.TranslateX,
		TranslateY: orig.TranslateY,
		Opacity:    0,
	}
	if c.icons != nil {
		if icon, ok := c.icons.IconGeometry(a); ok {
			target = c.towardIcon(a, orig, icon)
		}
	}

	tw := anim.Tween{Target: a, From: orig, To: target, Easing: anim.EaseInSine}
	var eff *Effect
	eff = e.run(CategoryMinimize, a, []anim.Tween{tw}, func(forced bool) {
		e.registry.clearIf(a, CategoryMinimize, eff)
		if !a.Destroyed() {
			a.Hide()
			orig.Apply(a)
		}
		if e.host != nil {
			e.host.MinimizeCompleted(a)
		}
	})
	e.track(a, CategoryMinimize, eff)
	return true
}

// towardIcon returns end props that place the scaled actor over the icon.
func (c *MinimizeController) towardIcon(a *scene.Actor, orig anim.Props, icon scene.Rect) anim.Props {
	g := a.Geometry()
	cx, cy := g.Center()
	ix, iy := icon.Center()

	scaleX, scaleY := 0.0, 0.0
	if g.Width > 0 {
		scaleX = float64(icon.Width) / float64(g.Width)
	}
	if g.Height > 0 {
		scaleY = float64(icon.Height) / float64(g.Height)
	}
	return anim.Props{
		TranslateX: orig.TranslateX + ix - cx,
		TranslateY: orig.TranslateY + iy - cy,
		ScaleX:     scaleX,
		ScaleY:     scaleY,
		Opacity:    0,
	}
}
