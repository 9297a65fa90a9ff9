package scene

import "testing"

func names(actors []*Actor) []string {
	out := make([]string, len(actors))
	for i, a := range actors {
		out[i] = a.Name()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInsertChildBelowAndAbove(t *testing.T) {
	s := NewStage(100, 100)
	root := s.Root()
	windows := s.NewActor("windows")
	if err := root.AddChild(windows); err != nil {
		t.Fatalf("add: %v", err)
	}
	bg := s.NewActor("background")
	if err := root.InsertChildBelow(bg, windows); err != nil {
		t.Fatalf("insert below: %v", err)
	}
	top := s.NewActor("overlay")
	if err := root.InsertChildAbove(top, windows); err != nil {
		t.Fatalf("insert above: %v", err)
	}

	got := names(root.Children())
	want := []string{"background", "windows", "overlay"}
	if !equalStrings(got, want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	if bg.Index() != 0 || top.Index() != 2 {
		t.Fatalf("unexpected indices bg=%d top=%d", bg.Index(), top.Index())
	}
}

func TestAddChildRejectsSecondParentAndCycles(t *testing.T) {
	s := NewStage(10, 10)
	a := s.NewActor("a")
	b := s.NewActor("b")
	if err := a.AddChild(b); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Root().AddChild(b); err != ErrHasParent {
		t.Fatalf("expected ErrHasParent, got %v", err)
	}
	if err := b.Reparent(b, 0); err != ErrCycle {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	if err := a.Reparent(b, 0); err != ErrCycle {
		t.Fatalf("expected ErrCycle reparenting under descendant, got %v", err)
	}
}

func TestDestroyRunsListenersBeforeDetachChildrenFirst(t *testing.T) {
	s := NewStage(10, 10)
	parent := s.NewActor("parent")
	child := s.NewActor("child")
	if err := s.Root().AddChild(parent); err != nil {
		t.Fatal(err)
	}
	if err := parent.AddChild(child); err != nil {
		t.Fatal(err)
	}

	var order []string
	child.OnDestroy(func(a *Actor) {
		if a.Parent() != parent {
			t.Fatalf("child detached before listener ran")
		}
		if a.Destroyed() {
			t.Fatalf("child marked destroyed before listener ran")
		}
		order = append(order, "child")
	})
	parent.OnDestroy(func(a *Actor) {
		order = append(order, "parent")
	})

	parent.Destroy()
	parent.Destroy()

	if !equalStrings(order, []string{"child", "parent"}) {
		t.Fatalf("listener order = %v", order)
	}
	if !parent.Destroyed() || !child.Destroyed() {
		t.Fatalf("expected both destroyed")
	}
	if s.Root().NumChildren() != 0 {
		t.Fatalf("expected parent detached from root")
	}
	if _, ok := s.Lookup(child.ID()); ok {
		t.Fatalf("destroyed child still registered")
	}
}

func TestDisconnectedListenerDoesNotFire(t *testing.T) {
	s := NewStage(10, 10)
	a := s.NewActor("a")
	fired := false
	id := a.OnDestroy(func(*Actor) { fired = true })
	a.Disconnect(id)
	a.Destroy()
	if fired {
		t.Fatalf("disconnected listener fired")
	}
}

func TestDestroyAllChildren(t *testing.T) {
	s := NewStage(10, 10)
	group := s.NewActor("group")
	for i := 0; i < 3; i++ {
		if err := group.AddChild(s.NewActor("bg")); err != nil {
			t.Fatal(err)
		}
	}
	before := s.Len()
	group.DestroyAllChildren()
	if group.NumChildren() != 0 {
		t.Fatalf("expected no children, got %d", group.NumChildren())
	}
	if s.Len() != before-3 {
		t.Fatalf("expected 3 actors forgotten, stage len %d -> %d", before, s.Len())
	}
}

func TestReparentKeepsProperties(t *testing.T) {
	s := NewStage(10, 10)
	from := s.NewActor("from")
	to := s.NewActor("to")
	w := s.NewActor("w")
	_ = from.AddChild(w)
	w.SetGeometry(Rect{X: 5, Y: 6, Width: 7, Height: 8})
	w.SetOpacity(100)

	if err := w.Reparent(to, 0); err != nil {
		t.Fatalf("reparent: %v", err)
	}
	if w.Parent() != to || from.NumChildren() != 0 {
		t.Fatalf("reparent did not move actor")
	}
	if w.Geometry() != (Rect{X: 5, Y: 6, Width: 7, Height: 8}) || w.Opacity() != 100 {
		t.Fatalf("reparent changed properties: %+v opacity=%d", w.Geometry(), w.Opacity())
	}
}
