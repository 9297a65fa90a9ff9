package xhost

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/deskfx/internal/effects"
	"github.com/1broseidon/deskfx/internal/platform"
	"github.com/1broseidon/deskfx/internal/scene"
)

type fakeSource struct {
	windows  []platform.Window
	desktop  int
	columns  int
	monitors platform.Monitors
	icons    map[platform.WindowID]scene.Rect
	notify   func(platform.PropertyChange)
	listened []platform.WindowID
}

func (s *fakeSource) Windows() ([]platform.Window, error) { return s.windows, nil }

func (s *fakeSource) Window(id platform.WindowID) (platform.Window, error) {
	for _, w := range s.windows {
		if w.ID == id {
			return w, nil
		}
	}
	return platform.Window{}, errors.New("no such window")
}

func (s *fakeSource) IconGeometry(id platform.WindowID) (scene.Rect, bool) {
	r, ok := s.icons[id]
	return r, ok
}

func (s *fakeSource) Displays() (platform.Monitors, error) { return s.monitors, nil }
func (s *fakeSource) CurrentDesktop() (int, error)         { return s.desktop, nil }

func (s *fakeSource) DesktopLayout() (int, int, error) { return 4, s.columns, nil }

func (s *fakeSource) WatchProperties(fn func(platform.PropertyChange)) error {
	s.notify = fn
	return nil
}

func (s *fakeSource) ListenWindow(id platform.WindowID) error {
	s.listened = append(s.listened, id)
	return nil
}

func (s *fakeSource) WatchMonitors(func()) error { return nil }

func (s *fakeSource) set(id platform.WindowID, fn func(*platform.Window)) {
	for i := range s.windows {
		if s.windows[i].ID == id {
			fn(&s.windows[i])
		}
	}
}

// inline runs posted work immediately.
type inline struct{}

func (inline) Post(fn func()) error {
	fn()
	return nil
}

type recordingHooks struct {
	handled  bool
	killed   []*scene.Actor
	mapped   []*scene.Actor
	minimize []*scene.Actor
	destroy  []*scene.Actor
	switches []effects.SwitchRequest
}

func (r *recordingHooks) OnMap(a *scene.Actor) bool {
	r.mapped = append(r.mapped, a)
	return r.handled
}

func (r *recordingHooks) OnMinimize(a *scene.Actor) bool {
	r.minimize = append(r.minimize, a)
	return r.handled
}

func (r *recordingHooks) OnDestroy(a *scene.Actor) bool {
	r.destroy = append(r.destroy, a)
	return r.handled
}

func (r *recordingHooks) OnSwitchWorkspace(req effects.SwitchRequest) bool {
	r.switches = append(r.switches, req)
	return r.handled
}

func (r *recordingHooks) KillWindowEffects(a *scene.Actor) {
	r.killed = append(r.killed, a)
}

// engineHooks drives a real effects engine from host events.
type engineHooks struct{ *effects.Engine }

func (e engineHooks) OnMinimize(a *scene.Actor) bool { return e.BeginMinimize(a) }
func (e engineHooks) OnMap(a *scene.Actor) bool      { return e.BeginMap(a) }
func (e engineHooks) OnDestroy(a *scene.Actor) bool  { return e.BeginDestroy(a) }

func (e engineHooks) OnSwitchWorkspace(req effects.SwitchRequest) bool {
	return e.BeginSwitch(req)
}

type fixture struct {
	source *fakeSource
	hooks  *recordingHooks
	host   *Host
	group  *scene.Actor
}

func newFixture(t *testing.T, windows ...platform.Window) *fixture {
	t.Helper()
	stage := scene.NewStage(1920, 1080)
	group := stage.NewActor("window-group")
	group.Show()
	if err := stage.Root().AddChild(group); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	src := &fakeSource{windows: windows, columns: 2}
	hooks := &recordingHooks{}
	h := New(Config{
		Source:      src,
		Loop:        inline{},
		Stage:       stage,
		WindowGroup: group,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	h.Bind(hooks)
	if err := h.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return &fixture{source: src, hooks: hooks, host: h, group: group}
}

func (f *fixture) root(atom string) {
	f.source.notify(platform.PropertyChange{Root: true, Atom: atom})
}

func (f *fixture) client(id platform.WindowID, atom string) {
	f.source.notify(platform.PropertyChange{Window: id, Atom: atom})
}

func (f *fixture) actor(t *testing.T, id platform.WindowID) *scene.Actor {
	t.Helper()
	a, ok := f.host.Actor(id)
	if !ok {
		t.Fatalf("window %d not mirrored", id)
	}
	return a
}

func win(id platform.WindowID, desktop int) platform.Window {
	return platform.Window{
		ID:      id,
		AppID:   "term",
		Bounds:  scene.Rect{X: 10, Y: 20, Width: 300, Height: 200},
		Desktop: desktop,
	}
}

func TestStartMirrorsExistingWindowsWithoutEffects(t *testing.T) {
	f := newFixture(t, win(1, 0), win(2, 1), win(3, stickyDesktop))

	if f.host.Len() != 3 || f.group.NumChildren() != 3 {
		t.Fatalf("mirrored %d windows, group has %d children", f.host.Len(), f.group.NumChildren())
	}
	if len(f.hooks.mapped) != 0 {
		t.Fatalf("existing windows should not animate, got %d maps", len(f.hooks.mapped))
	}
	if !f.actor(t, 1).Visible() || f.actor(t, 2).Visible() || !f.actor(t, 3).Visible() {
		t.Fatalf("visibility should follow the current desktop")
	}
	if got := f.actor(t, 1).Geometry(); got != (scene.Rect{X: 10, Y: 20, Width: 300, Height: 200}) {
		t.Fatalf("geometry = %v", got)
	}
	if len(f.source.listened) != 3 {
		t.Fatalf("listened on %d windows, want 3", len(f.source.listened))
	}
}

func TestClientListChangesDriveMapAndDestroy(t *testing.T) {
	f := newFixture(t, win(1, 0))
	f.hooks.handled = true
	old := f.actor(t, 1)

	f.source.windows = []platform.Window{win(2, 0)}
	f.root(atomClientListStacking)

	if len(f.hooks.mapped) != 1 || f.hooks.mapped[0] != f.actor(t, 2) {
		t.Fatalf("mapped = %v", f.hooks.mapped)
	}
	if len(f.hooks.destroy) != 1 || f.hooks.destroy[0] != old {
		t.Fatalf("destroyed = %v", f.hooks.destroy)
	}
	if old.Destroyed() {
		t.Fatalf("actor destroyed before DestroyCompleted")
	}
	if _, ok := f.host.Actor(1); ok {
		t.Fatalf("removed window still tracked")
	}

	f.host.DestroyCompleted(old)
	if !old.Destroyed() {
		t.Fatalf("DestroyCompleted should destroy the actor")
	}
}

func TestUnhandledDestroyRemovesActorImmediately(t *testing.T) {
	f := newFixture(t, win(1, 0))
	a := f.actor(t, 1)

	f.source.windows = nil
	f.root(atomClientList)

	if !a.Destroyed() {
		t.Fatalf("unhandled destroy should destroy the actor")
	}
	if f.host.Len() != 0 {
		t.Fatalf("Len = %d, want 0", f.host.Len())
	}
}

func TestWindowOnOtherDesktopIsNotAnimated(t *testing.T) {
	f := newFixture(t)
	f.source.windows = []platform.Window{win(7, 3)}
	f.root(atomClientList)

	if len(f.hooks.mapped) != 0 {
		t.Fatalf("mapped %d windows on another desktop", len(f.hooks.mapped))
	}
	if f.actor(t, 7).Visible() {
		t.Fatalf("window on another desktop should be hidden")
	}
}

func TestMinimizeAndRestore(t *testing.T) {
	f := newFixture(t, win(1, 0))
	a := f.actor(t, 1)

	f.source.set(1, func(w *platform.Window) { w.Hidden = true })
	f.client(1, atomWMState)
	if len(f.hooks.minimize) != 1 {
		t.Fatalf("minimize hooks = %d, want 1", len(f.hooks.minimize))
	}
	if a.Visible() {
		t.Fatalf("unhandled minimize should hide immediately")
	}

	f.client(1, atomWMState)
	if len(f.hooks.minimize) != 1 {
		t.Fatalf("repeated state change re-triggered minimize")
	}

	a.SetScale(0.1, 0.1)
	f.source.set(1, func(w *platform.Window) { w.Hidden = false })
	f.client(1, atomWMState)
	if !a.Visible() {
		t.Fatalf("restored window should be visible")
	}
	if sx, _ := a.Scale(); sx != 1 {
		t.Fatalf("restored window scale = %v, want 1", sx)
	}
	if len(f.hooks.killed) != 1 || f.hooks.killed[0] != a {
		t.Fatalf("restore should kill the window's effects, killed = %v", f.hooks.killed)
	}
}

func TestRestoreDuringMinimizeKeepsWindowVisible(t *testing.T) {
	f := newFixture(t, win(1, 0))
	engine := effects.NewEngine(f.host.stage, effects.Options{
		Host:        f.host,
		Icons:       f.host,
		WindowGroup: f.group,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	f.host.Bind(engineHooks{engine})
	a := f.actor(t, 1)

	f.source.set(1, func(w *platform.Window) { w.Hidden = true })
	f.client(1, atomWMState)
	if len(engine.Snapshot()) != 1 {
		t.Fatalf("minimize should be running, live = %d", len(engine.Snapshot()))
	}
	engine.Advance(100 * time.Millisecond)

	f.source.set(1, func(w *platform.Window) { w.Hidden = false })
	f.client(1, atomWMState)
	if n := len(engine.Snapshot()); n != 0 {
		t.Fatalf("restore left %d effects running", n)
	}

	engine.Advance(200 * time.Millisecond)
	if !a.Visible() {
		t.Fatalf("restored window hidden after the minimize timeline would have ended")
	}
	if sx, _ := a.Scale(); sx != 1 {
		t.Fatalf("restored window scale = %v, want 1", sx)
	}
	if op := a.Opacity(); op != 255 {
		t.Fatalf("restored window opacity = %d, want 255", op)
	}
}

func TestDesktopChangeBuildsSwitchRequest(t *testing.T) {
	f := newFixture(t, win(1, 0), win(2, 1), win(3, 1), win(4, stickyDesktop))
	f.hooks.handled = true

	f.source.desktop = 1
	f.root(atomCurrentDesktop)

	if len(f.hooks.switches) != 1 {
		t.Fatalf("switches = %d, want 1", len(f.hooks.switches))
	}
	req := f.hooks.switches[0]
	if req.Direction != effects.DirectionRight {
		t.Fatalf("direction = %v, want right", req.Direction)
	}
	if len(req.Outgoing) != 1 || req.Outgoing[0] != f.actor(t, 1) {
		t.Fatalf("outgoing = %v", req.Outgoing)
	}
	if len(req.Incoming) != 2 || req.Incoming[0] != f.actor(t, 2) || req.Incoming[1] != f.actor(t, 3) {
		t.Fatalf("incoming = %v", req.Incoming)
	}
	if req.Width != 1920 || req.Height != 1080 {
		t.Fatalf("size = %dx%d", req.Width, req.Height)
	}
	if !f.actor(t, 1).Visible() || !f.actor(t, 2).Visible() {
		t.Fatalf("both desktops should be visible while switching")
	}

	f.host.SwitchWorkspaceCompleted()
	if f.actor(t, 1).Visible() || !f.actor(t, 2).Visible() || !f.actor(t, 4).Visible() {
		t.Fatalf("after the switch only desktop 1 and sticky windows should show")
	}
}

func TestUnhandledSwitchAppliesVisibilityAtOnce(t *testing.T) {
	f := newFixture(t, win(1, 0), win(2, 1))

	f.source.desktop = 1
	f.root(atomCurrentDesktop)

	if f.actor(t, 1).Visible() || !f.actor(t, 2).Visible() {
		t.Fatalf("visibility not applied after unhandled switch")
	}
	f.root(atomCurrentDesktop)
	if len(f.hooks.switches) != 1 {
		t.Fatalf("unchanged desktop produced another switch")
	}
}

func TestDirectionBetween(t *testing.T) {
	cases := []struct {
		name                           string
		fromRow, fromCol, toRow, toCol int
		want                           effects.Direction
	}{
		{"right", 0, 0, 0, 1, effects.DirectionRight},
		{"left", 0, 1, 0, 0, effects.DirectionLeft},
		{"down", 0, 1, 1, 0, effects.DirectionDown},
		{"up", 1, 0, 0, 1, effects.DirectionUp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := directionBetween(tc.fromRow, tc.fromCol, tc.toRow, tc.toCol); got != tc.want {
				t.Fatalf("direction = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIconGeometryLooksUpWindow(t *testing.T) {
	f := newFixture(t, win(1, 0))
	f.source.icons = map[platform.WindowID]scene.Rect{1: {X: 5, Y: 1060, Width: 20, Height: 20}}

	r, ok := f.host.IconGeometry(f.actor(t, 1))
	if !ok || r.Y != 1060 {
		t.Fatalf("IconGeometry = %v, %v", r, ok)
	}
	stray := scene.NewStage(1, 1).NewActor("stray")
	if _, ok := f.host.IconGeometry(stray); ok {
		t.Fatalf("unknown actor should have no icon")
	}
}

func TestLiveDisplayResizesStage(t *testing.T) {
	f := newFixture(t)
	f.source.monitors = platform.Monitors{
		{ID: 0, Bounds: scene.Rect{Width: 1920, Height: 1080}},
		{ID: 1, Bounds: scene.Rect{X: 1920, Width: 2560, Height: 1440}},
	}
	d := f.host.Display()

	if n := d.MonitorCount(); n != 2 {
		t.Fatalf("MonitorCount = %d", n)
	}
	if got := d.MonitorGeometry(1).X; got != 1920 {
		t.Fatalf("monitor 1 X = %d", got)
	}
	if w, h := f.host.stage.Size(); w != 4480 || h != 1440 {
		t.Fatalf("stage size = %dx%d", w, h)
	}
}

func TestDisplayIsSharedBetweenCallers(t *testing.T) {
	f := newFixture(t)
	f.source.monitors = platform.Monitors{{ID: 0, Name: "DP-1", Bounds: scene.Rect{Width: 1920, Height: 1080}}}

	backgrounds := f.host.Display()
	if n := backgrounds.MonitorCount(); n != 1 {
		t.Fatalf("MonitorCount = %d", n)
	}
	status := f.host.Display()
	if status != backgrounds {
		t.Fatalf("Display returned a new view")
	}
	if mons := status.Monitors(); len(mons) != 1 || mons[0].Name != "DP-1" {
		t.Fatalf("status view monitors = %+v", mons)
	}
}
