package effects

import "github.com/1broseidon/deskfx/internal/scene"

// Host receives completion signals. Each Begin call that reports handled
// produces exactly one matching signal, whether the effect ran to the end or
// was cancelled.
type Host interface {
	MinimizeCompleted(a *scene.Actor)
	MapCompleted(a *scene.Actor)
	DestroyCompleted(a *scene.Actor)
	SwitchWorkspaceCompleted()
}

// IconLocator is implemented by hosts that know where a window's taskbar
// icon is, in stage coordinates. Minimize shrinks toward it when present.
type IconLocator interface {
	IconGeometry(a *scene.Actor) (scene.Rect, bool)
}

// Observer is notified when effects start and resolve. Metrics implement it.
type Observer interface {
	EffectStarted(c Category)
	EffectFinished(c Category, forced bool)
}

type nopObserver struct{}

func (nopObserver) EffectStarted(Category)        {}
func (nopObserver) EffectFinished(Category, bool) {}
