package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/deskfx/internal/background"
	"github.com/1broseidon/deskfx/internal/effects"
	"github.com/1broseidon/deskfx/internal/ipc"
	"github.com/1broseidon/deskfx/internal/locale"
	"github.com/1broseidon/deskfx/internal/platform"
	"github.com/1broseidon/deskfx/internal/plugin"
	"github.com/1broseidon/deskfx/internal/render"
	"github.com/1broseidon/deskfx/internal/scene"
)

// directCaller runs fn inline, standing in for the daemon loop.
type directCaller struct{ err error }

func (c directCaller) Call(_ context.Context, fn func()) error {
	if c.err != nil {
		return c.err
	}
	fn()
	return nil
}

func startedProvider(t *testing.T) *loopProvider {
	t.Helper()
	mons := platform.Monitors{
		{ID: 0, Name: "DP-1", Bounds: scene.Rect{Width: 64, Height: 48}},
		{ID: 1, Name: "HDMI-1", Bounds: scene.Rect{X: 64, Width: 32, Height: 48}},
	}
	stage := scene.NewStage(96, 48)
	windows := stage.NewActor("window-group")
	windows.Show()
	if err := stage.Root().AddChild(windows); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	f := plugin.New(plugin.Options{
		Stage:       stage,
		WindowGroup: windows,
		Display:     mons,
		Seed:        background.DefaultSeed,
		Vignette:    background.DefaultVignette(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return &loopProvider{
		loop:     directCaller{},
		plugin:   f,
		monitors: func() platform.Monitors { return mons },
		stage:    stage,
		render:   render.SavePNG,
	}
}

func TestProviderStatus(t *testing.T) {
	p := startedProvider(t)

	st, err := p.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Started || st.Mode != "x11" || st.Backgrounds != 2 || st.ActiveEffects != 0 {
		t.Fatalf("status = %+v", st)
	}
	if st.Name != plugin.DefaultInfo().Name {
		t.Fatalf("name = %q", st.Name)
	}
}

func TestProviderMonitorsCarryBackgroundColors(t *testing.T) {
	p := startedProvider(t)

	data, err := p.Monitors(context.Background())
	if err != nil {
		t.Fatalf("Monitors: %v", err)
	}
	if len(data.Monitors) != 2 {
		t.Fatalf("monitors = %+v", data.Monitors)
	}
	second := data.Monitors[1]
	if second.Name != "HDMI-1" || second.X != 64 || second.Width != 32 {
		t.Fatalf("second monitor = %+v", second)
	}
	for _, m := range data.Monitors {
		if !strings.HasPrefix(m.BackgroundColor, "#") {
			t.Fatalf("monitor %d has no background color: %+v", m.ID, m)
		}
	}
}

func TestProviderSnapshotWritesPNG(t *testing.T) {
	p := startedProvider(t)
	path := filepath.Join(t.TempDir(), "scene.png")

	data, err := p.Snapshot(context.Background(), ipc.SnapshotPayload{Path: path})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if data.Width != 96 || data.Height != 48 {
		t.Fatalf("snapshot = %+v", data)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file: %v", err)
	}
}

func TestProviderSnapshotNeedsSizedStage(t *testing.T) {
	rendered := false
	p := &loopProvider{
		loop:  directCaller{},
		stage: scene.NewStage(0, 0),
		render: func(string, *scene.Actor, int, int) error {
			rendered = true
			return nil
		},
	}
	if _, err := p.Snapshot(context.Background(), ipc.SnapshotPayload{Path: "x.png"}); err == nil {
		t.Fatalf("expected error for zero-size stage")
	}
	if rendered {
		t.Fatalf("render called for zero-size stage")
	}
}

func TestProviderReportsLoopErrors(t *testing.T) {
	p := &loopProvider{loop: directCaller{err: errors.New("event loop stopped")}}
	if _, err := p.Status(context.Background()); err == nil {
		t.Fatalf("expected loop error")
	}
	if _, err := p.Effects(context.Background()); err == nil {
		t.Fatalf("expected loop error")
	}
}

func TestStatusDataMapsKeymapAndCounts(t *testing.T) {
	st := plugin.Status{
		Info:             plugin.DefaultInfo(),
		Mode:             plugin.ModeWayland,
		Started:          true,
		Effects:          []effects.Info{{ID: "a", Category: "map"}, {ID: "b", Category: "map"}},
		EffectCounts:     map[string]int{"map": 2},
		SwitchInProgress: true,
		Keymap:           &locale.Keymap{Layout: "de", Variant: "nodeadkeys"},
	}
	got := statusData(st)
	if got.Mode != "wayland" || got.ActiveEffects != 2 || got.EffectCounts["map"] != 2 || !got.SwitchInProgress {
		t.Fatalf("statusData = %+v", got)
	}
	if got.KeymapLayout != "de" || got.KeymapVariant != "nodeadkeys" {
		t.Fatalf("keymap = %q/%q", got.KeymapLayout, got.KeymapVariant)
	}
}

func TestEffectsDataNeverNil(t *testing.T) {
	if got := effectsData(nil); got.Effects == nil {
		t.Fatalf("effects should be an empty slice")
	}
	got := effectsData([]effects.Info{{
		ID: "e1", Category: "destroy", Actor: 9, Name: "xterm", Progress: 0.25, Duration: 200 * time.Millisecond,
	}})
	e := got.Effects[0]
	if e.Actor != 9 || e.ActorName != "xterm" || e.DurationMS != 200 || e.Progress != 0.25 {
		t.Fatalf("effect = %+v", e)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warning", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("expected JSON warn record, got %s", out)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigValidateAndExplain(t *testing.T) {
	path := writeConfig(t, "durations:\n  minimize_ms: 400\n")

	out, err := runCLI(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "config: ok") {
		t.Fatalf("validate output = %q", out)
	}

	out, err = runCLI(t, "--config", path, "config", "explain", "durations.minimize_ms")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(out, "value:\n400") || !strings.Contains(out, "source: file:") || !strings.Contains(out, "config.yaml:2:") {
		t.Fatalf("explain output = %q", out)
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := writeConfig(t, "backend: mir\n")
	if _, err := runCLI(t, "--config", path, "config", "validate"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestConfigPrintDefaults(t *testing.T) {
	out, err := runCLI(t, "config", "print", "--defaults")
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out, "backend: x11") || !strings.Contains(out, "seed: 123456") {
		t.Fatalf("print output = %q", out)
	}
}
