package scene

import "fmt"

// ActorID identifies an actor for the lifetime of its stage. IDs are never reused.
type ActorID uint64

// Rect describes a rectangular region in stage coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the centre point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return float64(r.X) + float64(r.Width)/2, float64(r.Y) + float64(r.Height)/2
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// ListenerID identifies a destroy listener registered with OnDestroy.
type ListenerID uint64

type destroyListener struct {
	id ListenerID
	fn func(*Actor)
}

// Actor is a drawable node in the stage tree.
//
// Actors are not safe for concurrent use; all mutation happens on the thread
// that owns the stage.
type Actor struct {
	stage    *Stage
	id       ActorID
	name     string
	parent   *Actor
	children []*Actor

	x, y          int
	width, height int

	scaleX, scaleY float64
	pivotX, pivotY float64
	translateX     float64
	translateY     float64
	opacity        uint8
	visible        bool

	content any

	listeners    []destroyListener
	nextListener ListenerID
	destroying   bool
	destroyed    bool
}

// ID returns the actor's stable identifier.
func (a *Actor) ID() ActorID { return a.id }

// Name returns the debug name given at creation.
func (a *Actor) Name() string { return a.name }

// Stage returns the stage that created the actor.
func (a *Actor) Stage() *Stage { return a.stage }

// Parent returns the current parent, or nil for detached actors and the root.
func (a *Actor) Parent() *Actor { return a.parent }

// Children returns a copy of the child list in paint order (bottom first).
func (a *Actor) Children() []*Actor {
	out := make([]*Actor, len(a.children))
	copy(out, a.children)
	return out
}

// NumChildren returns the number of direct children.
func (a *Actor) NumChildren() int { return len(a.children) }

// Index returns the actor's position among its parent's children, or -1.
func (a *Actor) Index() int {
	if a.parent == nil {
		return -1
	}
	for i, c := range a.parent.children {
		if c == a {
			return i
		}
	}
	return -1
}

// SetPosition moves the actor relative to its parent.
func (a *Actor) SetPosition(x, y int) {
	a.x, a.y = x, y
}

// Position returns the actor's position relative to its parent.
func (a *Actor) Position() (int, int) { return a.x, a.y }

// SetSize resizes the actor. Negative sizes are clamped to zero.
func (a *Actor) SetSize(width, height int) {
	a.width = max(width, 0)
	a.height = max(height, 0)
}

// Size returns the unscaled actor size.
func (a *Actor) Size() (int, int) { return a.width, a.height }

// Geometry returns position and size as a Rect.
func (a *Actor) Geometry() Rect {
	return Rect{X: a.x, Y: a.y, Width: a.width, Height: a.height}
}

// SetGeometry sets position and size in one call.
func (a *Actor) SetGeometry(r Rect) {
	a.SetPosition(r.X, r.Y)
	a.SetSize(r.Width, r.Height)
}

// SetScale sets the scale factors applied around the pivot point.
func (a *Actor) SetScale(x, y float64) {
	a.scaleX, a.scaleY = x, y
}

// Scale returns the current scale factors.
func (a *Actor) Scale() (float64, float64) { return a.scaleX, a.scaleY }

// SetPivot sets the normalized pivot point used for scaling (0.5,0.5 is the centre).
func (a *Actor) SetPivot(x, y float64) {
	a.pivotX, a.pivotY = x, y
}

// Pivot returns the normalized pivot point.
func (a *Actor) Pivot() (float64, float64) { return a.pivotX, a.pivotY }

// SetTranslation sets a paint-time offset that does not affect layout.
func (a *Actor) SetTranslation(x, y float64) {
	a.translateX, a.translateY = x, y
}

// Translation returns the paint-time offset.
func (a *Actor) Translation() (float64, float64) { return a.translateX, a.translateY }

// SetOpacity sets paint opacity, 0 transparent to 255 opaque.
func (a *Actor) SetOpacity(o uint8) { a.opacity = o }

// Opacity returns paint opacity.
func (a *Actor) Opacity() uint8 { return a.opacity }

// Show marks the actor visible.
func (a *Actor) Show() { a.visible = true }

// Hide marks the actor invisible. Hiding a hidden actor is a no-op.
func (a *Actor) Hide() { a.visible = false }

// Visible reports whether the actor is shown.
func (a *Actor) Visible() bool { return a.visible }

// SetContent attaches paint content (for example a background description).
func (a *Actor) SetContent(c any) { a.content = c }

// Content returns the attached paint content, if any.
func (a *Actor) Content() any { return a.content }

// ResetTransform restores identity scale, zero translation and full opacity.
func (a *Actor) ResetTransform() {
	a.scaleX, a.scaleY = 1, 1
	a.translateX, a.translateY = 0, 0
	a.opacity = 255
}

// Destroyed reports whether Destroy has completed for this actor.
func (a *Actor) Destroyed() bool { return a.destroyed }

// Destroying reports whether the actor is inside its Destroy call, i.e. destroy
// listeners are running and the actor is still valid but about to go away.
func (a *Actor) Destroying() bool { return a.destroying }

// OnDestroy registers fn to run once, synchronously, when the actor is
// destroyed. Listeners run before the actor is detached and marked destroyed.
func (a *Actor) OnDestroy(fn func(*Actor)) ListenerID {
	a.nextListener++
	id := a.nextListener
	a.listeners = append(a.listeners, destroyListener{id: id, fn: fn})
	return id
}

// Disconnect removes a destroy listener. Unknown IDs are ignored.
func (a *Actor) Disconnect(id ListenerID) {
	for i, l := range a.listeners {
		if l.id == id {
			a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
			return
		}
	}
}
