package widget

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// painter rasterizes a laid-out widget. scale is pixels per point.
type painter struct {
	dst   *image.RGBA
	scale float64
	text  bool // draw Text elements; the terminal draws text as characters
}

// Raster renders w into an RGBA image at scale pixels per point.
func Raster(w *Widget, scale float64) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	canvas, root := w.layout()
	p := newPainter(canvas, scale, w.background(), true)
	p.paint(root)
	return p.dst
}

func newPainter(canvas Size, scale float64, bg color.Color, text bool) *painter {
	bounds := image.Rect(0, 0, int(math.Ceil(canvas.W*scale)), int(math.Ceil(canvas.H*scale)))
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(bg), image.Point{}, draw.Src)
	return &painter{dst: dst, scale: scale, text: text}
}

func (p *painter) px(r rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X*p.scale)),
		int(math.Round(r.Y*p.scale)),
		int(math.Round((r.X+r.W)*p.scale)),
		int(math.Round((r.Y+r.H)*p.scale)),
	)
}

func (p *painter) paint(b box) {
	switch e := b.elem.(type) {
	case *Stack:
		if e.Background != nil {
			draw.Draw(p.dst, p.px(b.rect), image.NewUniform(e.Background), image.Point{}, draw.Over)
		}
		if e.BackgroundImage != nil {
			p.image(e.BackgroundImage, b.rect, 1)
		}
		for _, c := range b.children {
			p.paint(c)
		}
	case *Image:
		if e.Img != nil {
			p.image(e.Img, b.rect, e.Opacity)
		}
	case *Text:
		if p.text {
			p.drawText(e, b.rect)
		}
	}
}

func (p *painter) image(src image.Image, r rect, opacity float64) {
	dr := p.px(r)
	if dr.Empty() {
		return
	}
	var opts *draw.Options
	if opacity > 0 && opacity < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(opacity * 0xff)})}
	}
	draw.CatmullRom.Scale(p.dst, dr, src, src.Bounds(), draw.Over, opts)
}

// drawText renders the string with the 7x13 face and scales it to the box.
func (p *painter) drawText(t *Text, r rect) {
	runes := []rune(t.Content)
	if len(runes) == 0 {
		return
	}
	face := basicfont.Face7x13
	glyphs := image.NewRGBA(image.Rect(0, 0, len(runes)*face.Advance+1, face.Height))

	c := t.Color
	if c == nil {
		c = color.White
	}
	d := &font.Drawer{Dst: glyphs, Src: image.NewUniform(c), Face: face}
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(t.Content)
	if t.Font.Bold {
		d.Dot = fixed.P(1, face.Ascent)
		d.DrawString(t.Content)
	}

	draw.ApproxBiLinear.Scale(p.dst, p.px(r), glyphs, glyphs.Bounds(), draw.Over, nil)
}
