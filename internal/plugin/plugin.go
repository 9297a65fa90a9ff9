// Package plugin is the start-up wiring around the effects engine and the
// background manager. It owns no animation logic of its own.
package plugin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/1broseidon/deskfx/internal/background"
	"github.com/1broseidon/deskfx/internal/effects"
	"github.com/1broseidon/deskfx/internal/locale"
	"github.com/1broseidon/deskfx/internal/scene"
)

// Info is the plugin metadata block.
type Info struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	License     string `json:"license"`
	Description string `json:"description"`
}

// DefaultInfo returns the stock metadata.
func DefaultInfo() Info {
	return Info{
		Name:        "Default Effects",
		Version:     "0.1",
		Author:      "Intel Corp.",
		License:     "GPL",
		Description: "This is an example of a plugin implementation.",
	}
}

// Mode is the windowing backend the compositor runs under.
type Mode string

const (
	ModeX11     Mode = "x11"
	ModeWayland Mode = "wayland"
)

// KeymapSource produces the system keyboard layout.
type KeymapSource interface {
	Keymap(ctx context.Context) (locale.Keymap, error)
}

// KeymapSink receives a keyboard layout.
type KeymapSink interface {
	SetKeymap(layout, variant, options string) error
}

// MonitorWatcher delivers monitor-topology-changed notifications.
type MonitorWatcher interface {
	WatchMonitors(fn func()) error
}

// Options configures a Facade.
type Options struct {
	Info        Info
	Mode        Mode
	Stage       *scene.Stage
	WindowGroup *scene.Actor

	Host      effects.Host
	Icons     effects.IconLocator
	Observer  effects.Observer
	Durations effects.Durations

	Display  background.Display
	Watcher  MonitorWatcher
	Seed     uint64
	Vignette background.Vignette
	// OnRebuild is passed through to the background manager.
	OnRebuild func(count int)

	Keymaps       KeymapSource
	KeymapSink    KeymapSink
	KeymapTimeout time.Duration

	Logger *slog.Logger
}

// ErrAlreadyStarted is returned by a second Start call.
var ErrAlreadyStarted = errors.New("plugin already started")

// Facade is the single plugin instance.
type Facade struct {
	info    Info
	mode    Mode
	stage   *scene.Stage
	windows *scene.Actor
	engine  *effects.Engine
	display background.Display
	watcher MonitorWatcher
	logger  *slog.Logger

	bgOpts      background.Options
	backgrounds *background.Manager

	keymaps       KeymapSource
	keymapSink    KeymapSink
	keymapTimeout time.Duration
	keymap        *locale.Keymap

	started bool
}

// New builds the facade and its effects engine. Lifecycle hooks work before
// Start; backgrounds appear only after it.
func New(opts Options) *Facade {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	info := opts.Info
	if info == (Info{}) {
		info = DefaultInfo()
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeX11
	}
	stage := opts.Stage
	if stage == nil {
		stage = scene.NewStage(0, 0)
	}
	timeout := opts.KeymapTimeout
	if timeout <= 0 {
		timeout = locale.DefaultTimeout
	}

	f := &Facade{
		info:    info,
		mode:    mode,
		stage:   stage,
		windows: opts.WindowGroup,
		display: opts.Display,
		watcher: opts.Watcher,
		logger:  logger,
		bgOpts: background.Options{
			Seed:      opts.Seed,
			Vignette:  opts.Vignette,
			Logger:    logger.With("component", "background"),
			OnRebuild: opts.OnRebuild,
		},
		keymaps:       opts.Keymaps,
		keymapSink:    opts.KeymapSink,
		keymapTimeout: timeout,
	}
	f.engine = effects.NewEngine(stage, effects.Options{
		Host:        opts.Host,
		Icons:       opts.Icons,
		Observer:    opts.Observer,
		Durations:   opts.Durations,
		Logger:      logger.With("component", "effects"),
		WindowGroup: opts.WindowGroup,
	})
	return f
}

// Info returns the plugin metadata.
func (f *Facade) Info() Info { return f.info }

// Engine returns the effects engine.
func (f *Facade) Engine() *effects.Engine { return f.engine }

// Stage returns the scene the plugin animates.
func (f *Facade) Stage() *scene.Stage { return f.stage }

// Start creates the background group at the bottom of the window group,
// builds the initial backgrounds, subscribes to monitor changes and, under
// Wayland, pushes the system keymap to the backend. Keymap and subscription failures
// are logged, never returned.
func (f *Facade) Start(ctx context.Context) error {
	if f.started {
		return ErrAlreadyStarted
	}
	f.started = true

	group := f.stage.NewActor("background-group")
	group.Show()
	if err := f.insertBackgroundGroup(group); err != nil {
		group.Destroy()
		f.started = false
		return err
	}
	f.backgrounds = background.NewManager(group, f.bgOpts)

	if f.watcher != nil {
		if err := f.watcher.WatchMonitors(f.MonitorsChanged); err != nil {
			f.logger.Warn("monitor change notifications unavailable", "error", err)
		}
	}
	f.backgrounds.Rebuild(f.display)

	if f.mode == ModeWayland {
		f.initKeymap(ctx)
	}

	f.logger.Info("plugin started",
		"name", f.info.Name, "version", f.info.Version, "mode", string(f.mode))
	return nil
}

// insertBackgroundGroup makes group the bottom child of the window group so
// backgrounds paint under every window.
func (f *Facade) insertBackgroundGroup(group *scene.Actor) error {
	if f.windows != nil {
		return f.windows.InsertChildBelow(group, nil)
	}
	return f.stage.Root().InsertChildBelow(group, nil)
}

func (f *Facade) initKeymap(ctx context.Context) {
	if f.keymaps == nil || f.keymapSink == nil {
		f.logger.Debug("keymap init skipped", "reason", "no keymap source or sink")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, f.keymapTimeout)
	defer cancel()

	km, err := f.keymaps.Keymap(ctx)
	if err != nil {
		f.logger.Warn("failed to read system keymap, keeping backend default", "error", err)
		return
	}
	if err := f.keymapSink.SetKeymap(km.Layout, km.Variant, km.Options); err != nil {
		f.logger.Warn("failed to apply system keymap", "layout", km.Layout, "error", err)
		return
	}
	f.keymap = &km
	f.logger.Info("keymap applied", "layout", km.Layout, "variant", km.Variant, "options", km.Options)
}

// MonitorsChanged rebuilds the backgrounds from the current monitor layout.
func (f *Facade) MonitorsChanged() {
	if f.backgrounds == nil {
		return
	}
	f.backgrounds.Rebuild(f.display)
}

// OnMinimize starts a minimize effect. False means the host minimizes
// without animation.
func (f *Facade) OnMinimize(a *scene.Actor) bool { return f.engine.BeginMinimize(a) }

// OnMap starts a map effect.
func (f *Facade) OnMap(a *scene.Actor) bool { return f.engine.BeginMap(a) }

// OnDestroy starts a destroy effect.
func (f *Facade) OnDestroy(a *scene.Actor) bool { return f.engine.BeginDestroy(a) }

// OnSwitchWorkspace starts a workspace switch.
func (f *Facade) OnSwitchWorkspace(req effects.SwitchRequest) bool {
	return f.engine.BeginSwitch(req)
}

// KillWindowEffects force-completes every effect on a.
func (f *Facade) KillWindowEffects(a *scene.Actor) { f.engine.KillWindowEffects(a) }

// KillSwitchWorkspace force-completes a running workspace switch.
func (f *Facade) KillSwitchWorkspace() { f.engine.KillSwitchWorkspace() }

// Advance is the frame clock tick.
func (f *Facade) Advance(dt time.Duration) { f.engine.Advance(dt) }

// KillAllEffects force-completes the running switch and every window effect.
func (f *Facade) KillAllEffects() {
	f.engine.KillSwitchWorkspace()
	for _, id := range f.engine.Registry().Active() {
		if a, ok := f.stage.Lookup(id); ok {
			f.engine.KillWindowEffects(a)
		}
	}
}

// Stop force-completes everything in flight and removes the backgrounds.
func (f *Facade) Stop() {
	f.KillAllEffects()
	if f.backgrounds != nil {
		f.backgrounds.Root().Destroy()
		f.backgrounds = nil
	}
	f.started = false
}

// Status is a point-in-time view of the plugin for status surfaces.
type Status struct {
	Info             Info                    `json:"info"`
	Mode             Mode                    `json:"mode"`
	Started          bool                    `json:"started"`
	Backgrounds      []background.Background `json:"backgrounds"`
	Effects          []effects.Info          `json:"effects"`
	EffectCounts     map[string]int          `json:"effect_counts"`
	TrackedActors    int                     `json:"tracked_actors"`
	SwitchInProgress bool                    `json:"switch_in_progress"`
	Keymap           *locale.Keymap          `json:"keymap,omitempty"`
}

// Status returns the current status.
func (f *Facade) Status() Status {
	st := Status{
		Info:             f.info,
		Mode:             f.mode,
		Started:          f.started,
		Effects:          f.engine.Snapshot(),
		EffectCounts:     f.engine.CountByCategory(),
		TrackedActors:    f.engine.Registry().Len(),
		SwitchInProgress: f.engine.Switch.InProgress(),
		Keymap:           f.keymap,
	}
	if f.backgrounds != nil {
		st.Backgrounds = f.backgrounds.Backgrounds()
	}
	return st
}
