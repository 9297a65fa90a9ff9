package render

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/1broseidon/deskfx/internal/background"
	"github.com/1broseidon/deskfx/internal/scene"
)

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func newBackground(stage *scene.Stage, r scene.Rect, c colorful.Color, v background.Vignette) *scene.Actor {
	a := stage.NewActor("background")
	a.SetGeometry(r)
	a.SetContent(&background.Content{Color: c, Vignette: v})
	a.Show()
	_ = stage.Root().AddChild(a)
	return a
}

// monitors is a fixed monitor layout.
type monitors []scene.Rect

func (m monitors) MonitorCount() int                { return len(m) }
func (m monitors) MonitorGeometry(i int) scene.Rect { return m[i] }

func TestRenderPaintsRebuiltBackgrounds(t *testing.T) {
	stage := scene.NewStage(120, 60)
	group := stage.NewActor("background-group")
	group.Show()
	if err := stage.Root().AddChild(group); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	mgr := background.NewManager(group, background.Options{
		Seed:     background.DefaultSeed,
		Vignette: background.DefaultVignette(),
	})
	bgs := mgr.Rebuild(monitors{{Width: 60, Height: 60}, {X: 60, Width: 60, Height: 60}})
	if len(bgs) != 2 {
		t.Fatalf("backgrounds = %d, want 2", len(bgs))
	}

	img := Render(stage.Root(), 120, 60)
	for _, bg := range bgs {
		want, err := colorful.Hex(bg.Color)
		if err != nil {
			t.Fatalf("bad color %q: %v", bg.Color, err)
		}
		wr, wg, wb := want.RGB255()
		cx, cy := bg.Geometry.X+bg.Geometry.Width/2, bg.Geometry.Height/2
		r, g, b := rgbAt(img, cx, cy)
		if !near(r, wr) || !near(g, wg) || !near(b, wb) {
			t.Fatalf("monitor %d centre = (%d,%d,%d), want %s", bg.Monitor, r, g, b, bg.Color)
		}
		centre := int(r) + int(g) + int(b)
		cr, cg, cb := rgbAt(img, bg.Geometry.X+1, 1)
		if corner := int(cr) + int(cg) + int(cb); centre > 30 && corner >= centre {
			t.Fatalf("monitor %d corner %d not darker than centre %d", bg.Monitor, corner, centre)
		}
	}
}

func near(got, want uint8) bool {
	d := int(got) - int(want)
	return d >= -1 && d <= 1
}

func TestRenderFillsBackgroundColor(t *testing.T) {
	stage := scene.NewStage(100, 50)
	newBackground(stage, scene.Rect{Width: 100, Height: 50}, colorful.Color{R: 1}, background.Vignette{})

	img := Render(stage.Root(), 100, 50)
	if r, g, b := rgbAt(img, 50, 25); r != 255 || g != 0 || b != 0 {
		t.Fatalf("centre pixel = (%d,%d,%d), want red", r, g, b)
	}
}

func TestVignetteDarkensCorners(t *testing.T) {
	stage := scene.NewStage(200, 200)
	newBackground(stage, scene.Rect{Width: 200, Height: 200}, colorful.Color{R: 1, G: 1, B: 1}, background.Vignette{
		Enabled:    true,
		Brightness: 0.5,
		Strength:   0.8,
	})

	img := Render(stage.Root(), 200, 200)
	centre, _, _ := rgbAt(img, 100, 100)
	corner, _, _ := rgbAt(img, 1, 1)
	if centre != 255 {
		t.Fatalf("centre = %d, want untouched 255", centre)
	}
	if corner >= centre {
		t.Fatalf("corner %d should be darker than centre %d", corner, centre)
	}
}

func TestHiddenAndTransparentActorsAreSkipped(t *testing.T) {
	stage := scene.NewStage(20, 20)
	hidden := newBackground(stage, scene.Rect{Width: 20, Height: 20}, colorful.Color{G: 1}, background.Vignette{})
	hidden.Hide()
	faded := newBackground(stage, scene.Rect{Width: 20, Height: 20}, colorful.Color{B: 1}, background.Vignette{})
	faded.SetOpacity(0)

	img := Render(stage.Root(), 20, 20)
	if r, g, b := rgbAt(img, 10, 10); r != 0 || g != 0 || b != 0 {
		t.Fatalf("pixel = (%d,%d,%d), want black", r, g, b)
	}
}

func TestScaleAroundPivot(t *testing.T) {
	stage := scene.NewStage(100, 100)
	win := stage.NewActor("window")
	win.SetGeometry(scene.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	win.SetContent(color.RGBA{G: 255, A: 255})
	win.SetPivot(0.5, 0.5)
	win.SetScale(0.5, 0.5)
	win.Show()
	_ = stage.Root().AddChild(win)

	img := Render(stage.Root(), 100, 100)
	if _, g, _ := rgbAt(img, 50, 50); g != 255 {
		t.Fatalf("centre green = %d, want 255", g)
	}
	if _, g, _ := rgbAt(img, 5, 5); g != 0 {
		t.Fatalf("corner green = %d, want 0 after scaling toward the centre", g)
	}
}

func TestSavePNG(t *testing.T) {
	stage := scene.NewStage(10, 10)
	path := filepath.Join(t.TempDir(), "scene.png")
	if err := SavePNG(path, stage.Root(), 10, 10); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("empty PNG")
	}
}
