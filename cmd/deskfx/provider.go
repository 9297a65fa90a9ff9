package main

import (
	"context"
	"errors"

	"github.com/1broseidon/deskfx/internal/background"
	"github.com/1broseidon/deskfx/internal/effects"
	"github.com/1broseidon/deskfx/internal/ipc"
	"github.com/1broseidon/deskfx/internal/platform"
	"github.com/1broseidon/deskfx/internal/plugin"
	"github.com/1broseidon/deskfx/internal/scene"
)

// caller runs fn on the goroutine that owns the scene.
type caller interface {
	Call(ctx context.Context, fn func()) error
}

type statusSource interface {
	Status() plugin.Status
}

// loopProvider answers IPC queries by hopping onto the scene loop.
type loopProvider struct {
	loop     caller
	plugin   statusSource
	monitors func() platform.Monitors
	stage    *scene.Stage
	render   func(path string, root *scene.Actor, width, height int) error
}

var _ ipc.StatusProvider = (*loopProvider)(nil)

func (p *loopProvider) Status(ctx context.Context) (ipc.StatusData, error) {
	var st plugin.Status
	if err := p.loop.Call(ctx, func() { st = p.plugin.Status() }); err != nil {
		return ipc.StatusData{}, err
	}
	return statusData(st), nil
}

func (p *loopProvider) Monitors(ctx context.Context) (ipc.MonitorsData, error) {
	var (
		mons platform.Monitors
		bgs  []background.Background
	)
	if err := p.loop.Call(ctx, func() {
		mons = p.monitors()
		bgs = p.plugin.Status().Backgrounds
	}); err != nil {
		return ipc.MonitorsData{}, err
	}
	return monitorsData(mons, bgs), nil
}

func (p *loopProvider) Effects(ctx context.Context) (ipc.EffectsData, error) {
	var infos []effects.Info
	if err := p.loop.Call(ctx, func() { infos = p.plugin.Status().Effects }); err != nil {
		return ipc.EffectsData{}, err
	}
	return effectsData(infos), nil
}

// Snapshot renders the stage on the loop so the tree cannot change mid-draw.
func (p *loopProvider) Snapshot(ctx context.Context, req ipc.SnapshotPayload) (ipc.SnapshotData, error) {
	var (
		w, h int
		err  error
	)
	if callErr := p.loop.Call(ctx, func() {
		w, h = p.stage.Size()
		if w == 0 || h == 0 {
			err = errors.New("stage has no size yet")
			return
		}
		err = p.render(req.Path, p.stage.Root(), w, h)
	}); callErr != nil {
		return ipc.SnapshotData{}, callErr
	}
	if err != nil {
		return ipc.SnapshotData{}, err
	}
	return ipc.SnapshotData{Path: req.Path, Width: w, Height: h}, nil
}

func statusData(st plugin.Status) ipc.StatusData {
	out := ipc.StatusData{
		Name:             st.Info.Name,
		Version:          st.Info.Version,
		Mode:             string(st.Mode),
		Started:          st.Started,
		Backgrounds:      len(st.Backgrounds),
		ActiveEffects:    len(st.Effects),
		EffectCounts:     st.EffectCounts,
		TrackedActors:    st.TrackedActors,
		SwitchInProgress: st.SwitchInProgress,
	}
	if st.Keymap != nil {
		out.KeymapLayout = st.Keymap.Layout
		out.KeymapVariant = st.Keymap.Variant
		out.KeymapOptions = st.Keymap.Options
	}
	return out
}

func monitorsData(mons platform.Monitors, bgs []background.Background) ipc.MonitorsData {
	colors := make(map[int]string, len(bgs))
	for _, bg := range bgs {
		colors[bg.Monitor] = bg.Color
	}
	out := ipc.MonitorsData{Monitors: make([]ipc.MonitorInfo, 0, len(mons))}
	for i, d := range mons {
		out.Monitors = append(out.Monitors, ipc.MonitorInfo{
			ID:              d.ID,
			Name:            d.Name,
			X:               d.Bounds.X,
			Y:               d.Bounds.Y,
			Width:           d.Bounds.Width,
			Height:          d.Bounds.Height,
			BackgroundColor: colors[i],
		})
	}
	return out
}

func effectsData(infos []effects.Info) ipc.EffectsData {
	out := ipc.EffectsData{Effects: make([]ipc.EffectInfo, 0, len(infos))}
	for _, in := range infos {
		out.Effects = append(out.Effects, ipc.EffectInfo{
			ID:         in.ID,
			Category:   in.Category,
			Actor:      uint64(in.Actor),
			ActorName:  in.Name,
			Progress:   in.Progress,
			DurationMS: in.Duration.Milliseconds(),
		})
	}
	return out
}
