package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/widget"
)

const KindProgressCircle = "progress-circle"

// Limits on downloaded definitions. The ring is rasterized at Resolution
// pixels square, so both bound memory use.
const (
	MaxDiameter   = 512
	MaxResolution = 1024
)

// Circle draws a ring gauge: a full track with a gradient arc on top,
// returned as a centered stack whose background is the ring.
type Circle struct {
	name  string
	def   Definition
	track color.RGBA
}

func newCircle(name string, def Definition) (Handle, error) {
	if math.IsNaN(def.Diameter) || math.IsNaN(def.Thickness) || math.IsNaN(def.StartAngle) {
		return nil, fmt.Errorf("ring geometry is not a number")
	}
	if def.Diameter <= 0 {
		def.Diameter = 58
	}
	if def.Diameter > MaxDiameter {
		return nil, fmt.Errorf("ring diameter %.1f exceeds %d", def.Diameter, MaxDiameter)
	}
	if def.Thickness <= 0 {
		def.Thickness = def.Diameter * 0.09
	}
	if def.Thickness >= def.Diameter/2 {
		return nil, fmt.Errorf("ring thickness %.1f too large for diameter %.1f", def.Thickness, def.Diameter)
	}
	if def.TrackColor == "" {
		def.TrackColor = string(theme.ColorDarkGray)
	}
	if len(def.Fill) == 0 {
		def.Fill = theme.ProgressGradient
	}
	if def.Resolution <= 0 {
		def.Resolution = 200
	}
	if def.Resolution > MaxResolution {
		return nil, fmt.Errorf("ring resolution %d exceeds %d", def.Resolution, MaxResolution)
	}
	return &Circle{name: name, def: def, track: theme.RGBA(def.TrackColor)}, nil
}

func (c *Circle) Name() string { return c.name }

func (c *Circle) DrawGauge(w *widget.Widget, percent float64) (*widget.Stack, error) {
	s := w.AddStack()
	s.Size = widget.Size{W: c.def.Diameter, H: c.def.Diameter}
	s.Center = true
	s.BackgroundImage = c.ring(percent)
	return s, nil
}

// ring rasterizes the gauge with 2x2 supersampling for smooth edges.
func (c *Circle) ring(percent float64) *image.RGBA {
	size := c.def.Resolution
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	scale := float64(size) / c.def.Diameter
	outerR := float64(size) / 2
	innerR := outerR - c.def.Thickness*scale
	center := float64(size) / 2

	fill := math.Min(math.Max(percent, 0), 100) / 100 * 2 * math.Pi
	start := c.def.StartAngle * math.Pi / 180

	offsets := [4][2]float64{{0.25, 0.25}, {0.75, 0.25}, {0.25, 0.75}, {0.75, 0.75}}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			var r, g, b, hits float64
			for _, o := range offsets {
				dx := float64(x) + o[0] - center
				dy := float64(y) + o[1] - center
				dist := math.Hypot(dx, dy)
				if dist < innerR || dist > outerR {
					continue
				}
				// Angle from the start position, clockwise.
				angle := math.Atan2(dx, -dy) - start
				angle = math.Mod(angle+4*math.Pi, 2*math.Pi)

				col := c.track
				if angle < fill {
					col = theme.RGBA(theme.MultiStopGradient(angle/(2*math.Pi), c.def.Fill))
				}
				r += float64(col.R)
				g += float64(col.G)
				b += float64(col.B)
				hits++
			}
			if hits == 0 {
				continue
			}
			a := hits / 4
			// Premultiplied alpha.
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(r / hits * a),
				G: uint8(g / hits * a),
				B: uint8(b / hits * a),
				A: uint8(0xff * a),
			})
		}
	}
	return img
}
