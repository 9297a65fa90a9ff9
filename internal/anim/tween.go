package anim

import (
	"math"

	"github.com/1broseidon/deskfx/internal/scene"
)

// Props is the animatable subset of actor state.
type Props struct {
	TranslateX float64
	TranslateY float64
	ScaleX     float64
	ScaleY     float64
	Opacity    float64 // 0..255
}

// Identity is an untransformed, fully opaque actor.
var Identity = Props{ScaleX: 1, ScaleY: 1, Opacity: 255}

// PropsOf captures an actor's current animatable state.
func PropsOf(a *scene.Actor) Props {
	tx, ty := a.Translation()
	sx, sy := a.Scale()
	return Props{TranslateX: tx, TranslateY: ty, ScaleX: sx, ScaleY: sy, Opacity: float64(a.Opacity())}
}

// Apply writes p onto the actor.
func (p Props) Apply(a *scene.Actor) {
	a.SetTranslation(p.TranslateX, p.TranslateY)
	a.SetScale(p.ScaleX, p.ScaleY)
	a.SetOpacity(uint8(math.Round(math.Max(0, math.Min(255, p.Opacity)))))
}

// Lerp interpolates between p and q at f in [0,1].
func (p Props) Lerp(q Props, f float64) Props {
	mix := func(a, b float64) float64 { return a + (b-a)*f }
	return Props{
		TranslateX: mix(p.TranslateX, q.TranslateX),
		TranslateY: mix(p.TranslateY, q.TranslateY),
		ScaleX:     mix(p.ScaleX, q.ScaleX),
		ScaleY:     mix(p.ScaleY, q.ScaleY),
		Opacity:    mix(p.Opacity, q.Opacity),
	}
}

// Tween interpolates one actor from From to To.
type Tween struct {
	Target *scene.Actor
	From   Props
	To     Props
	Easing EasingFunc
}

// Apply paints the tween at linear progress. Destroyed targets are skipped.
func (tw Tween) Apply(progress float64) {
	if tw.Target == nil || tw.Target.Destroyed() {
		return
	}
	ease := tw.Easing
	if ease == nil {
		ease = Linear
	}
	tw.From.Lerp(tw.To, ease(clamp01(progress))).Apply(tw.Target)
}

// Bind attaches the tween to a timeline's frames.
func (tw Tween) Bind(tl *Timeline) {
	tl.OnFrame(tw.Apply)
}
