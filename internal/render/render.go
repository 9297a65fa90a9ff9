// Package render rasterizes a scene tree in software for snapshots.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/1broseidon/deskfx/internal/background"
	"github.com/1broseidon/deskfx/internal/scene"
)

var (
	clearColor  = color.Black
	windowFill  = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}
	windowFrame = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
)

// Render paints the visible descendants of root onto a width x height image.
// The root itself is the stage and has no content of its own.
func Render(root *scene.Actor, width, height int) image.Image {
	dc := gg.NewContext(max(width, 1), max(height, 1))
	dc.SetColor(clearColor)
	dc.Clear()
	if root != nil && root.Visible() {
		opacity := float64(root.Opacity()) / 255
		for _, child := range root.Children() {
			drawActor(dc, child, opacity)
		}
	}
	return dc.Image()
}

// SavePNG renders the tree and writes it to path.
func SavePNG(path string, root *scene.Actor, width, height int) error {
	img := Render(root, width, height)
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

func drawActor(dc *gg.Context, a *scene.Actor, parentOpacity float64) {
	if !a.Visible() || a.Destroyed() {
		return
	}
	opacity := parentOpacity * float64(a.Opacity()) / 255
	if opacity <= 0 {
		return
	}

	x, y := a.Position()
	tx, ty := a.Translation()
	w, h := a.Size()
	sx, sy := a.Scale()
	px, py := a.Pivot()

	dc.Push()
	defer dc.Pop()
	dc.Translate(float64(x)+tx, float64(y)+ty)
	dc.ScaleAbout(sx, sy, px*float64(w), py*float64(h))

	if w > 0 && h > 0 && (a.Content() != nil || a.NumChildren() == 0) {
		drawContent(dc, a.Content(), float64(w), float64(h), opacity)
	}
	for _, child := range a.Children() {
		drawActor(dc, child, opacity)
	}
}

func drawContent(dc *gg.Context, content any, w, h, opacity float64) {
	switch c := content.(type) {
	case *background.Content:
		if c != nil {
			drawBackground(dc, *c, w, h, opacity)
		}
	case background.Content:
		drawBackground(dc, c, w, h, opacity)
	case color.Color:
		r, g, b, alpha := c.RGBA()
		dc.DrawRectangle(0, 0, w, h)
		dc.SetRGBA(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff, float64(alpha)/0xffff*opacity)
		dc.Fill()
	case nil:
		// Mirrored windows carry no pixels; draw a framed placeholder.
		dc.DrawRectangle(0, 0, w, h)
		dc.SetRGBA(rgba(windowFill, opacity))
		dc.FillPreserve()
		dc.SetLineWidth(1)
		dc.SetRGBA(rgba(windowFrame, opacity))
		dc.Stroke()
	}
}

func drawBackground(dc *gg.Context, c background.Content, w, h, opacity float64) {
	dc.DrawRectangle(0, 0, w, h)
	dc.SetRGBA(c.Color.R, c.Color.G, c.Color.B, opacity)
	dc.Fill()
	if c.Vignette.Enabled {
		drawVignette(dc, c.Vignette, w, h, opacity)
	}
}

// drawVignette darkens toward the corners. Brightness is the fraction of the
// radius left untouched; strength is the darkening at the corners.
func drawVignette(dc *gg.Context, v background.Vignette, w, h, opacity float64) {
	// Gradients are evaluated in device space.
	cx, cy := dc.TransformPoint(w/2, h/2)
	ex, ey := dc.TransformPoint(w, h)
	radius := math.Hypot(ex-cx, ey-cy)
	if radius <= 0 {
		return
	}

	edge := uint8(math.Round(clamp01(v.Strength) * opacity * 255))
	grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, radius)
	grad.AddColorStop(0, color.NRGBA{})
	grad.AddColorStop(clamp01(v.Brightness), color.NRGBA{})
	grad.AddColorStop(1, color.NRGBA{A: edge})

	dc.DrawRectangle(0, 0, w, h)
	dc.SetFillStyle(grad)
	dc.Fill()
}

func rgba(c color.RGBA, opacity float64) (float64, float64, float64, float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255 * opacity
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
