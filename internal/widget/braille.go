package widget

import (
	"image"
	"image/color"
)

// brailleDots maps [row][col] of a 2x4 cell to its braille dot bit.
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// inkThreshold is the squared RGB distance from the background above which
// a pixel counts as a raised dot.
const inkThreshold = 48 * 48 * 3

// brailleGrid turns an image at 2x4 pixels per cell into braille glyphs.
// Every pixel that differs from bg raises a dot; the cell takes the average
// color of its raised dots.
func brailleGrid(img *image.RGBA, cols, rows int, bg color.RGBA) *grid {
	g := newGrid(cols, rows)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			code := rune(0x2800)
			var r, gr, b, n int
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					p := pixel(img, cx*2+dx, cy*4+dy)
					if p.A == 0 || distance(p, bg) < inkThreshold {
						continue
					}
					code |= brailleDots[dy][dx]
					r += int(p.R)
					gr += int(p.G)
					b += int(p.B)
					n++
				}
			}
			if n == 0 {
				g.cells[cy][cx] = cell{ch: ' ', fg: bg, bg: bg}
				continue
			}
			fg := color.RGBA{R: uint8(r / n), G: uint8(gr / n), B: uint8(b / n), A: 0xff}
			g.cells[cy][cx] = cell{ch: code, fg: fg, bg: bg}
		}
	}
	return g
}

func distance(a, b color.RGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
