package effects

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/deskfx/internal/scene"
)

type signal struct {
	kind  string
	actor scene.ActorID
}

// recordingHost captures completion signals in order.
type recordingHost struct {
	signals            []signal
	onDestroyCompleted func(a *scene.Actor)
}

func (h *recordingHost) MinimizeCompleted(a *scene.Actor) {
	h.signals = append(h.signals, signal{"minimize", a.ID()})
}

func (h *recordingHost) MapCompleted(a *scene.Actor) {
	h.signals = append(h.signals, signal{"map", a.ID()})
}

func (h *recordingHost) DestroyCompleted(a *scene.Actor) {
	h.signals = append(h.signals, signal{"destroy", a.ID()})
	if h.onDestroyCompleted != nil {
		h.onDestroyCompleted(a)
	}
}

func (h *recordingHost) SwitchWorkspaceCompleted() {
	h.signals = append(h.signals, signal{"switch", 0})
}

func (h *recordingHost) count(kind string, id scene.ActorID) int {
	n := 0
	for _, s := range h.signals {
		if s.kind == kind && s.actor == id {
			n++
		}
	}
	return n
}

type countingObserver struct {
	started map[Category]int
	natural map[Category]int
	forced  map[Category]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		started: make(map[Category]int),
		natural: make(map[Category]int),
		forced:  make(map[Category]int),
	}
}

func (o *countingObserver) EffectStarted(c Category) { o.started[c]++ }

func (o *countingObserver) EffectFinished(c Category, forced bool) {
	if forced {
		o.forced[c]++
	} else {
		o.natural[c]++
	}
}

type fixture struct {
	stage    *scene.Stage
	windows  *scene.Actor
	host     *recordingHost
	observer *countingObserver
	engine   *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stage := scene.NewStage(1920, 1080)
	windows := stage.NewActor("window-group")
	windows.Show()
	if err := stage.Root().AddChild(windows); err != nil {
		t.Fatalf("add window group: %v", err)
	}
	host := &recordingHost{}
	obs := newCountingObserver()
	engine := NewEngine(stage, Options{
		Host:        host,
		Observer:    obs,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		WindowGroup: windows,
	})
	return &fixture{stage: stage, windows: windows, host: host, observer: obs, engine: engine}
}

func (f *fixture) window(t *testing.T, name string) *scene.Actor {
	t.Helper()
	w := f.stage.NewActor(name)
	w.SetGeometry(scene.Rect{X: 100, Y: 100, Width: 400, Height: 300})
	w.Show()
	if err := f.windows.AddChild(w); err != nil {
		t.Fatalf("add window: %v", err)
	}
	return w
}

func (f *fixture) advance(total, step time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		f.engine.Advance(step)
	}
}

func TestMinimizeCompletesAndHides(t *testing.T) {
	f := newFixture(t)
	w := f.window(t, "a")

	if !f.engine.Minimize.Begin(w) {
		t.Fatalf("minimize not handled")
	}
	f.advance(200*time.Millisecond, 10*time.Millisecond)
	if f.host.count("minimize", w.ID()) != 0 {
		t.Fatalf("minimize completed before 250ms")
	}
	if !w.Visible() {
		t.Fatalf("window hidden before completion")
	}
	f.advance(50*time.Millisecond, 10*time.Millisecond)

	if got := f.host.count("minimize", w.ID()); got != 1 {
		t.Fatalf("minimize signals = %d, want 1", got)
	}
	if w.Visible() {
		t.Fatalf("expected window hidden after minimize")
	}
	sx, sy := w.Scale()
	if sx != 1 || sy != 1 || w.Opacity() != 255 {
		t.Fatalf("transform not restored: scale=%v,%v opacity=%d", sx, sy, w.Opacity())
	}
	if f.engine.Registry().Len() != 0 {
		t.Fatalf("registry entry leaked: %d", f.engine.Registry().Len())
	}
	if f.engine.ActiveCount() != 0 {
		t.Fatalf("active effects leaked: %d", f.engine.ActiveCount())
	}
}

func TestRepeatedMinimizeForceCompletesPrevious(t *testing.T) {
	f := newFixture(t)
	a := f.window(t, "a")

	if !f.engine.Minimize.Begin(a) {
		t.Fatalf("first minimize not handled")
	}
	f.advance(100*time.Millisecond, 10*time.Millisecond)
	first := f.engine.Snapshot()[0].ID

	if !f.engine.Minimize.Begin(a) {
		t.Fatalf("second minimize not handled")
	}
	if got := f.host.count("minimize", a.ID()); got != 1 {
		t.Fatalf("after replacement: minimize signals = %d, want exactly 1", got)
	}
	if f.observer.forced[CategoryMinimize] != 1 {
		t.Fatalf("expected the first effect to be force-completed")
	}
	snap := f.engine.Snapshot()
	if len(snap) != 1 || snap[0].ID == first {
		t.Fatalf("expected exactly one live minimize, the new one: %+v", snap)
	}

	// The superseded timeline never reports a second time.
	f.advance(300*time.Millisecond, 10*time.Millisecond)
	if got := f.host.count("minimize", a.ID()); got != 2 {
		t.Fatalf("minimize signals = %d, want one per handled begin (2)", got)
	}
}

func TestMinimizeTowardIcon(t *testing.T) {
	f := newFixture(t)
	f.engine.Minimize.icons = iconAt{scene.Rect{X: 0, Y: 1040, Width: 40, Height: 30}}
	w := f.window(t, "a")

	f.engine.Minimize.Begin(w)
	f.engine.Advance(249 * time.Millisecond)

	tx, ty := w.Translation()
	if tx >= 0 || ty <= 0 {
		t.Fatalf("expected translation toward bottom-left icon, got %v,%v", tx, ty)
	}
	sx, _ := w.Scale()
	if sx >= 0.5 {
		t.Fatalf("expected shrinking scale near the end, got %v", sx)
	}
}

type iconAt struct{ r scene.Rect }

func (i iconAt) IconGeometry(*scene.Actor) (scene.Rect, bool) { return i.r, true }

func TestMapAnimatesFromZeroToIdentity(t *testing.T) {
	f := newFixture(t)
	w := f.window(t, "a")
	w.Hide()

	if !f.engine.Map.Begin(w) {
		t.Fatalf("map not handled")
	}
	if !w.Visible() || w.Opacity() != 0 {
		t.Fatalf("expected visible at zero opacity, visible=%v opacity=%d", w.Visible(), w.Opacity())
	}
	sx, _ := w.Scale()
	if sx != 0 {
		t.Fatalf("expected zero start scale, got %v", sx)
	}

	f.advance(250*time.Millisecond, 25*time.Millisecond)
	if got := f.host.count("map", w.ID()); got != 1 {
		t.Fatalf("map signals = %d", got)
	}
	sx, sy := w.Scale()
	if sx != 1 || sy != 1 || w.Opacity() != 255 {
		t.Fatalf("expected identity, scale=%v,%v opacity=%d", sx, sy, w.Opacity())
	}
}

func TestDestroyDetachesOnNaturalCompletion(t *testing.T) {
	f := newFixture(t)
	w := f.window(t, "a")

	if !f.engine.Destroy.Begin(w) {
		t.Fatalf("destroy not handled")
	}
	f.advance(100*time.Millisecond, 10*time.Millisecond)

	if got := f.host.count("destroy", w.ID()); got != 1 {
		t.Fatalf("destroy signals = %d", got)
	}
	if w.Parent() != nil {
		t.Fatalf("expected destroyed window detached from its parent")
	}
	if f.observer.natural[CategoryDestroy] != 1 {
		t.Fatalf("expected natural completion")
	}
}

func TestDestroySignalsSynchronouslyWhenActorDestroyedEarly(t *testing.T) {
	f := newFixture(t)
	w := f.window(t, "a")
	id := w.ID()

	f.engine.Destroy.Begin(w)
	f.advance(50*time.Millisecond, 10*time.Millisecond)
	if f.host.count("destroy", id) != 0 {
		t.Fatalf("destroy completed before the node was destroyed")
	}

	w.Destroy()
	if got := f.host.count("destroy", id); got != 1 {
		t.Fatalf("expected destroy signal during the destroy hook, got %d", got)
	}
	if f.observer.forced[CategoryDestroy] != 1 {
		t.Fatalf("expected forced completion")
	}

	f.advance(200*time.Millisecond, 10*time.Millisecond)
	if got := f.host.count("destroy", id); got != 1 {
		t.Fatalf("destroy signalled again after the node was gone: %d", got)
	}
	if f.engine.Registry().Len() != 0 {
		t.Fatalf("registry entry survived actor destruction")
	}
}

func TestHostDestroyingActorFromCompletionIsSafe(t *testing.T) {
	f := newFixture(t)
	f.host.onDestroyCompleted = func(a *scene.Actor) { a.Destroy() }
	w := f.window(t, "a")

	f.engine.Destroy.Begin(w)
	f.advance(100*time.Millisecond, 10*time.Millisecond)

	if !w.Destroyed() {
		t.Fatalf("expected host to destroy the actor")
	}
	if got := f.host.count("destroy", w.ID()); got != 1 {
		t.Fatalf("destroy signals = %d", got)
	}
}

func TestDestroyKillsRunningMapFirst(t *testing.T) {
	f := newFixture(t)
	w := f.window(t, "a")

	f.engine.Map.Begin(w)
	f.advance(50*time.Millisecond, 10*time.Millisecond)
	f.engine.Destroy.Begin(w)

	if got := f.host.count("map", w.ID()); got != 1 {
		t.Fatalf("map signals = %d, want 1", got)
	}
	st, ok := f.engine.Registry().Get(w)
	if !ok || st.Active(CategoryMap) != nil || st.Active(CategoryDestroy) == nil {
		t.Fatalf("expected only a destroy effect live")
	}
}

func TestEveryHandledBeginSignalsOnceAcrossDestruction(t *testing.T) {
	f := newFixture(t)
	w := f.window(t, "a")

	handled := 0
	if f.engine.Map.Begin(w) {
		handled++
	}
	if f.engine.Minimize.Begin(w) {
		handled++
	}
	f.advance(30*time.Millisecond, 10*time.Millisecond)
	w.Destroy()

	if len(f.host.signals) != handled {
		t.Fatalf("signals = %d, handled begins = %d", len(f.host.signals), handled)
	}
	if f.engine.Minimize.Begin(w) || f.engine.Map.Begin(w) || f.engine.Destroy.Begin(w) {
		t.Fatalf("begin on a destroyed actor must not be handled")
	}
}

func TestAtMostOneRunningEffectPerCategory(t *testing.T) {
	f := newFixture(t)
	w := f.window(t, "a")

	for i := 0; i < 5; i++ {
		f.engine.Map.Begin(w)
		f.engine.Advance(5 * time.Millisecond)
		running := 0
		for _, info := range f.engine.Snapshot() {
			if info.Category == CategoryMap.String() && info.Actor == w.ID() {
				running++
			}
		}
		if running != 1 {
			t.Fatalf("iteration %d: %d map effects running", i, running)
		}
	}
}

func TestKillWindowEffects(t *testing.T) {
	f := newFixture(t)
	w := f.window(t, "a")

	f.engine.Map.Begin(w)
	f.engine.Minimize.Begin(w)
	if ids := f.engine.Registry().Active(); len(ids) != 1 || ids[0] != w.ID() {
		t.Fatalf("active actors = %v", ids)
	}
	f.engine.KillWindowEffects(w)

	if len(f.host.signals) != 2 {
		t.Fatalf("signals = %v", f.host.signals)
	}
	if f.engine.ActiveCount() != 0 || f.engine.Registry().Len() != 0 {
		t.Fatalf("expected no live state after kill")
	}
}
