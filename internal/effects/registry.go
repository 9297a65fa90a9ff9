package effects

import (
	"log/slog"
	"slices"

	"github.com/1broseidon/deskfx/internal/scene"
)

// ActorState is the side data kept for one actor while it has live effects or
// is temporarily reparented.
type ActorState struct {
	actor    *scene.Actor
	listener scene.ListenerID

	origParent *scene.Actor
	origIndex  int

	minimize *Effect
	destroy  *Effect
	mapping  *Effect
}

// Actor returns the actor this state belongs to.
func (s *ActorState) Actor() *scene.Actor { return s.actor }

// Active returns the live effect for c, or nil.
func (s *ActorState) Active(c Category) *Effect {
	var e *Effect
	switch c {
	case CategoryMinimize:
		e = s.minimize
	case CategoryMap:
		e = s.mapping
	case CategoryDestroy:
		e = s.destroy
	}
	if e != nil && e.Running() {
		return e
	}
	return nil
}

// OriginalParent returns the parent saved before a reparenting animation.
func (s *ActorState) OriginalParent() (*scene.Actor, int, bool) {
	if s.origParent == nil {
		return nil, 0, false
	}
	return s.origParent, s.origIndex, true
}

func (s *ActorState) saveParent() {
	if s.origParent != nil {
		return
	}
	s.origParent = s.actor.Parent()
	s.origIndex = s.actor.Index()
}

func (s *ActorState) clearParent() {
	s.origParent = nil
	s.origIndex = 0
}

func (s *ActorState) slot(c Category) **Effect {
	switch c {
	case CategoryMinimize:
		return &s.minimize
	case CategoryMap:
		return &s.mapping
	case CategoryDestroy:
		return &s.destroy
	default:
		return nil
	}
}

func (s *ActorState) live() []*Effect {
	var out []*Effect
	for _, e := range []*Effect{s.minimize, s.mapping, s.destroy} {
		if e != nil && e.Running() {
			out = append(out, e)
		}
	}
	return out
}

func (s *ActorState) empty() bool {
	return s.minimize == nil && s.mapping == nil && s.destroy == nil && s.origParent == nil
}

// Registry maps actors to their effect state. Entries are keyed by actor
// identity and dropped from the actor's destroy notification, after any live
// effects have been cancelled.
type Registry struct {
	entries map[scene.ActorID]*ActorState
	logger  *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: make(map[scene.ActorID]*ActorState),
		logger:  logger,
	}
}

// GetOrCreate returns the actor's state, creating it and hooking the actor's
// destroy notification on first use.
func (r *Registry) GetOrCreate(a *scene.Actor) *ActorState {
	if st, ok := r.entries[a.ID()]; ok {
		return st
	}
	st := &ActorState{actor: a}
	st.listener = a.OnDestroy(r.Destroy)
	r.entries[a.ID()] = st
	return st
}

// Get returns the actor's state if it has one.
func (r *Registry) Get(a *scene.Actor) (*ActorState, bool) {
	st, ok := r.entries[a.ID()]
	return st, ok
}

// ClearCategory empties the category slot without cancelling anything and
// drops the entry once it holds nothing.
func (r *Registry) ClearCategory(a *scene.Actor, c Category) {
	st, ok := r.entries[a.ID()]
	if !ok {
		return
	}
	if p := st.slot(c); p != nil {
		*p = nil
	}
	r.prune(st)
}

// clearIf empties the slot only if it still holds e, so a superseded effect
// never clears its replacement.
func (r *Registry) clearIf(a *scene.Actor, c Category, e *Effect) {
	st, ok := r.entries[a.ID()]
	if !ok {
		return
	}
	if p := st.slot(c); p != nil && *p == e {
		*p = nil
	}
	r.prune(st)
}

// Destroy cancels the actor's live effects synchronously, then drops all side
// data. It is installed as the actor's destroy listener, so the cancellation
// completes while the actor is still valid.
func (r *Registry) Destroy(a *scene.Actor) {
	st, ok := r.entries[a.ID()]
	if !ok {
		return
	}
	for _, e := range st.live() {
		r.logger.Debug("cancelling effect for destroyed actor",
			"effect", e.ID(), "category", e.Category().String(), "actor", a.ID())
		e.Cancel()
	}
	st.minimize, st.mapping, st.destroy = nil, nil, nil
	st.clearParent()
	r.drop(st)
}

// Active returns the IDs of actors with at least one running effect, in
// ascending order.
func (r *Registry) Active() []scene.ActorID {
	var ids []scene.ActorID
	for id, st := range r.entries {
		if len(st.live()) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of tracked actors.
func (r *Registry) Len() int { return len(r.entries) }

func (r *Registry) prune(st *ActorState) {
	if st.empty() {
		r.drop(st)
	}
}

func (r *Registry) drop(st *ActorState) {
	if cur, ok := r.entries[st.actor.ID()]; !ok || cur != st {
		return
	}
	delete(r.entries, st.actor.ID())
	st.actor.Disconnect(st.listener)
}
