package scene

import "errors"

var (
	ErrDestroyed   = errors.New("actor is destroyed")
	ErrHasParent   = errors.New("actor already has a parent")
	ErrNotChild    = errors.New("actor is not a child of this parent")
	ErrCycle       = errors.New("actor cannot be added below itself")
	ErrWrongStage  = errors.New("actor belongs to a different stage")
	errNilParent   = errors.New("parent is nil")
	errNilChildArg = errors.New("child is nil")
)

// AddChild appends child on top of the existing children.
func (a *Actor) AddChild(child *Actor) error {
	return a.InsertChild(child, len(a.children))
}

// InsertChild inserts child at index, clamped to [0, NumChildren].
func (a *Actor) InsertChild(child *Actor, index int) error {
	if err := a.checkAdoptable(child); err != nil {
		return err
	}
	index = min(max(index, 0), len(a.children))
	a.children = append(a.children, nil)
	copy(a.children[index+1:], a.children[index:])
	a.children[index] = child
	child.parent = a
	return nil
}

// InsertChildBelow inserts child directly below sibling. A nil sibling places
// child at the bottom of the stack.
func (a *Actor) InsertChildBelow(child, sibling *Actor) error {
	if sibling == nil {
		return a.InsertChild(child, 0)
	}
	if sibling.parent != a {
		return ErrNotChild
	}
	return a.InsertChild(child, sibling.Index())
}

// InsertChildAbove inserts child directly above sibling. A nil sibling places
// child on top.
func (a *Actor) InsertChildAbove(child, sibling *Actor) error {
	if sibling == nil {
		return a.AddChild(child)
	}
	if sibling.parent != a {
		return ErrNotChild
	}
	return a.InsertChild(child, sibling.Index()+1)
}

// RemoveChild detaches child without destroying it.
func (a *Actor) RemoveChild(child *Actor) error {
	if child == nil {
		return errNilChildArg
	}
	if child.parent != a {
		return ErrNotChild
	}
	idx := child.Index()
	a.children = append(a.children[:idx], a.children[idx+1:]...)
	child.parent = nil
	return nil
}

// Detach removes the actor from its parent, if any.
func (a *Actor) Detach() {
	if a.parent != nil {
		_ = a.parent.RemoveChild(a)
	}
}

// Reparent moves the actor under newParent at index, keeping its properties.
func (a *Actor) Reparent(newParent *Actor, index int) error {
	if newParent == nil {
		return errNilParent
	}
	if a.destroyed || newParent.destroyed {
		return ErrDestroyed
	}
	for p := newParent; p != nil; p = p.parent {
		if p == a {
			return ErrCycle
		}
	}
	a.Detach()
	return newParent.InsertChild(a, index)
}

// DestroyAllChildren destroys every child, topmost first.
func (a *Actor) DestroyAllChildren() {
	for len(a.children) > 0 {
		a.children[len(a.children)-1].Destroy()
	}
}

// Destroy tears the actor and its subtree down. Destroy listeners for each
// actor run before that actor is detached; children are destroyed first.
// Destroying an already destroyed actor does nothing.
func (a *Actor) Destroy() {
	if a.destroyed || a.destroying {
		return
	}
	a.destroying = true

	a.DestroyAllChildren()

	listeners := a.listeners
	a.listeners = nil
	for _, l := range listeners {
		l.fn(a)
	}

	a.Detach()
	a.destroying = false
	a.destroyed = true
	a.content = nil
	if a.stage != nil {
		a.stage.forget(a)
	}
}

func (a *Actor) checkAdoptable(child *Actor) error {
	if child == nil {
		return errNilChildArg
	}
	if a.destroyed || child.destroyed {
		return ErrDestroyed
	}
	if child.parent != nil {
		return ErrHasParent
	}
	if child.stage != a.stage {
		return ErrWrongStage
	}
	for p := a; p != nil; p = p.parent {
		if p == child {
			return ErrCycle
		}
	}
	return nil
}
