// Package scene is a small retained-mode actor tree: the drawable nodes that
// effects animate and the background manager populates.
//
// The tree is single-threaded. Callers serialize access, normally by running
// everything on the daemon loop.
package scene

// Stage owns actor identity and the root of the tree.
type Stage struct {
	root   *Actor
	nextID ActorID
	actors map[ActorID]*Actor
	width  int
	height int
}

// NewStage creates a stage whose root covers width x height.
func NewStage(width, height int) *Stage {
	s := &Stage{actors: make(map[ActorID]*Actor)}
	s.root = s.NewActor("stage")
	s.SetSize(width, height)
	s.root.Show()
	return s
}

// Root returns the top-level actor.
func (s *Stage) Root() *Actor { return s.root }

// NewActor creates a detached, hidden actor with identity transform.
func (s *Stage) NewActor(name string) *Actor {
	s.nextID++
	a := &Actor{
		stage:   s,
		id:      s.nextID,
		name:    name,
		scaleX:  1,
		scaleY:  1,
		opacity: 255,
	}
	s.actors[a.id] = a
	return a
}

// Lookup returns a live actor by ID.
func (s *Stage) Lookup(id ActorID) (*Actor, bool) {
	a, ok := s.actors[id]
	return a, ok
}

// Len returns the number of live actors, including the root.
func (s *Stage) Len() int { return len(s.actors) }

// SetSize resizes the stage and its root actor.
func (s *Stage) SetSize(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	s.root.SetSize(s.width, s.height)
}

// Size returns the stage dimensions.
func (s *Stage) Size() (int, int) { return s.width, s.height }

func (s *Stage) forget(a *Actor) {
	delete(s.actors, a.id)
}
