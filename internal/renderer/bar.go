package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/anomredux/slt-usage/internal/widget"
)

// Bar is the built-in horizontal gauge used by the home and default views.
type Bar struct {
	Width, Height float64 // points
	Track, Fill   color.Color
	Scale         float64 // image pixels per point, default 2
}

func (b Bar) Name() string { return "bar" }

// DrawGauge appends the bar to the widget root and returns the root.
// Usage above 100% fills the whole bar.
func (b Bar) DrawGauge(w *widget.Widget, percent float64) (*widget.Stack, error) {
	img := b.image(percent)
	w.AddImage(img).Size = widget.Size{W: b.Width, H: b.Height}
	return &w.Stack, nil
}

func (b Bar) image(percent float64) *image.RGBA {
	scale := b.Scale
	if scale <= 0 {
		scale = 2
	}
	pw := int(math.Round(b.Width * scale))
	ph := int(math.Round(b.Height * scale))
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(img, img.Bounds(), image.NewUniform(b.Track), image.Point{}, draw.Src)

	frac := math.Min(math.Max(percent, 0), 100) / 100
	filled := int(math.Round(float64(pw) * frac))
	draw.Draw(img, image.Rect(0, 0, filled, ph), image.NewUniform(b.Fill), image.Point{}, draw.Src)
	return img
}
