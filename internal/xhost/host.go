// Package xhost mirrors an X11 session into the scene. It keeps one actor per
// managed window under the window group, turns EWMH property changes into
// plugin lifecycle hooks and answers the effects engine's completion signals.
//
// X events arrive on the X event goroutine; every reaction is posted to the
// daemon loop, which owns the scene.
package xhost

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/1broseidon/deskfx/internal/effects"
	"github.com/1broseidon/deskfx/internal/platform"
	"github.com/1broseidon/deskfx/internal/scene"
)

const (
	atomClientList         = "_NET_CLIENT_LIST"
	atomClientListStacking = "_NET_CLIENT_LIST_STACKING"
	atomCurrentDesktop     = "_NET_CURRENT_DESKTOP"
	atomWMState            = "_NET_WM_STATE"
	atomWMDesktop          = "_NET_WM_DESKTOP"
)

// stickyDesktop is the desktop of windows shown on every desktop.
const stickyDesktop = -1

// Source is the window system the host mirrors.
type Source interface {
	Windows() ([]platform.Window, error)
	Window(id platform.WindowID) (platform.Window, error)
	IconGeometry(id platform.WindowID) (scene.Rect, bool)
	Displays() (platform.Monitors, error)
	CurrentDesktop() (int, error)
	DesktopLayout() (count, columns int, err error)
	WatchProperties(fn func(platform.PropertyChange)) error
	ListenWindow(id platform.WindowID) error
	WatchMonitors(fn func()) error
}

// Poster runs a function on the goroutine that owns the scene.
type Poster interface {
	Post(fn func()) error
}

// Hooks are the plugin entry points the host drives.
type Hooks interface {
	OnMinimize(a *scene.Actor) bool
	OnMap(a *scene.Actor) bool
	OnDestroy(a *scene.Actor) bool
	OnSwitchWorkspace(req effects.SwitchRequest) bool
	KillWindowEffects(a *scene.Actor)
}

// Config configures a Host.
type Config struct {
	Source      Source
	Loop        Poster
	Stage       *scene.Stage
	WindowGroup *scene.Actor
	Logger      *slog.Logger
}

type window struct {
	id      platform.WindowID
	actor   *scene.Actor
	desktop int
	hidden  bool
}

// Host is the X11 side of the plugin.
type Host struct {
	source Source
	loop   Poster
	stage  *scene.Stage
	group  *scene.Actor
	logger *slog.Logger
	hooks  Hooks

	windows map[platform.WindowID]*window
	byActor map[scene.ActorID]*window
	desktop int
	display *LiveDisplay
}

var (
	_ effects.Host        = (*Host)(nil)
	_ effects.IconLocator = (*Host)(nil)
)

// New creates a host. Bind must be called before Start.
func New(cfg Config) *Host {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		source:  cfg.Source,
		loop:    cfg.Loop,
		stage:   cfg.Stage,
		group:   cfg.WindowGroup,
		logger:  logger,
		windows: make(map[platform.WindowID]*window),
		byActor: make(map[scene.ActorID]*window),
	}
}

// Bind sets the hooks driven by X events.
func (h *Host) Bind(hooks Hooks) { h.hooks = hooks }

// Start mirrors the current windows without animating them and subscribes
// to property changes. It must run on the loop.
func (h *Host) Start() error {
	if desk, err := h.source.CurrentDesktop(); err == nil {
		h.desktop = desk
	} else {
		h.logger.Warn("failed to read current desktop", "error", err)
	}

	wins, err := h.source.Windows()
	if err != nil {
		return err
	}
	for _, w := range wins {
		h.track(w)
	}
	h.syncVisibility()

	return h.source.WatchProperties(func(pc platform.PropertyChange) {
		h.post(func() { h.handleProperty(pc) })
	})
}

// WatchMonitors forwards monitor changes to fn on the loop.
func (h *Host) WatchMonitors(fn func()) error {
	return h.source.WatchMonitors(func() {
		h.post(fn)
	})
}

// Display returns the host's monitor view. It re-queries the X server each
// time the background manager counts monitors; every caller shares the same
// view so status readers see the list the backgrounds were built from.
func (h *Host) Display() *LiveDisplay {
	if h.display == nil {
		h.display = &LiveDisplay{source: h.source, stage: h.stage, logger: h.logger}
	}
	return h.display
}

// Actor returns the actor mirroring a window.
func (h *Host) Actor(id platform.WindowID) (*scene.Actor, bool) {
	w, ok := h.windows[id]
	if !ok {
		return nil, false
	}
	return w.actor, true
}

// Len returns the number of mirrored windows.
func (h *Host) Len() int { return len(h.windows) }

func (h *Host) post(fn func()) {
	if err := h.loop.Post(fn); err != nil {
		h.logger.Debug("dropping X event", "error", err)
	}
}

func (h *Host) handleProperty(pc platform.PropertyChange) {
	if pc.Root {
		switch pc.Atom {
		case atomClientList, atomClientListStacking:
			h.syncClients()
		case atomCurrentDesktop:
			h.switchDesktop()
		}
		return
	}
	switch pc.Atom {
	case atomWMState, atomWMDesktop:
		h.refreshWindow(pc.Window)
	}
}

// track creates the actor for a window and returns it.
func (h *Host) track(pw platform.Window) *window {
	a := h.stage.NewActor(windowName(pw))
	a.SetGeometry(pw.Bounds)
	a.SetPivot(0.5, 0.5)
	if err := h.group.AddChild(a); err != nil {
		h.logger.Warn("failed to add window actor", "window", uint32(pw.ID), "error", err)
	}
	w := &window{id: pw.ID, actor: a, desktop: pw.Desktop, hidden: pw.Hidden}
	h.windows[pw.ID] = w
	h.byActor[a.ID()] = w
	a.OnDestroy(func(*scene.Actor) { h.forget(w) })

	if err := h.source.ListenWindow(pw.ID); err != nil {
		h.logger.Debug("failed to listen on window", "window", uint32(pw.ID), "error", err)
	}
	return w
}

func (h *Host) forget(w *window) {
	if h.windows[w.id] == w {
		delete(h.windows, w.id)
	}
	delete(h.byActor, w.actor.ID())
}

// syncClients diffs the client list against the mirrored windows.
func (h *Host) syncClients() {
	wins, err := h.source.Windows()
	if err != nil {
		h.logger.Warn("failed to read client list", "error", err)
		return
	}

	seen := make(map[platform.WindowID]bool, len(wins))
	for _, pw := range wins {
		seen[pw.ID] = true
		if w, ok := h.windows[pw.ID]; ok {
			w.actor.SetGeometry(pw.Bounds)
			continue
		}
		w := h.track(pw)
		if !h.onCurrentDesktop(w) || w.hidden {
			continue
		}
		w.actor.Show()
		if h.hooks == nil || !h.hooks.OnMap(w.actor) {
			h.logger.Debug("window mapped without effect", "window", uint32(pw.ID))
		}
	}

	var gone []*window
	for id, w := range h.windows {
		if !seen[id] {
			gone = append(gone, w)
		}
	}
	slices.SortFunc(gone, func(a, b *window) int { return cmp.Compare(a.id, b.id) })
	for _, w := range gone {
		// The X window is gone; a new window may reuse its ID.
		delete(h.windows, w.id)
		if h.hooks == nil || !h.hooks.OnDestroy(w.actor) {
			w.actor.Destroy()
		}
	}
}

// refreshWindow re-reads state and desktop for one window.
func (h *Host) refreshWindow(id platform.WindowID) {
	w, ok := h.windows[id]
	if !ok {
		return
	}
	pw, err := h.source.Window(id)
	if err != nil {
		h.logger.Debug("failed to read window", "window", uint32(id), "error", err)
		return
	}

	wasHidden := w.hidden
	w.hidden = pw.Hidden
	w.desktop = pw.Desktop
	w.actor.SetGeometry(pw.Bounds)

	switch {
	case pw.Hidden && !wasHidden:
		if h.hooks == nil || !h.hooks.OnMinimize(w.actor) {
			w.actor.Hide()
		}
	case !pw.Hidden && wasHidden:
		// A minimize still running would hide the actor when it resolves.
		if h.hooks != nil {
			h.hooks.KillWindowEffects(w.actor)
		}
		w.actor.ResetTransform()
		h.applyVisibility(w)
	default:
		h.applyVisibility(w)
	}
}

func (h *Host) onCurrentDesktop(w *window) bool {
	return w.desktop == h.desktop || w.desktop == stickyDesktop
}

func (h *Host) applyVisibility(w *window) {
	if !w.hidden && h.onCurrentDesktop(w) {
		w.actor.Show()
	} else {
		w.actor.Hide()
	}
}

func (h *Host) syncVisibility() {
	for _, w := range h.windows {
		h.applyVisibility(w)
	}
}

func windowName(pw platform.Window) string {
	if pw.AppID != "" {
		return pw.AppID
	}
	return "window"
}
