package widget

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// One terminal cell covers cellW x cellH points (roughly the 1:2 aspect
// of a monospace cell).
const (
	cellW = 5.0
	cellH = 10.0
)

// ImageMode selects how images are drawn into cells.
type ImageMode string

const (
	ImageHalfBlock ImageMode = "halfblock"
	ImageBraille   ImageMode = "braille"
)

type cell struct {
	ch     rune
	fg, bg color.RGBA
	bold   bool
}

// grid is a terminal frame being composed.
type grid struct {
	cols, rows int
	cells      [][]cell
}

// Lines renders w as styled terminal lines.
func Lines(w *Widget, mode ImageMode) []string {
	canvas, root := w.layout()
	cols := int(math.Ceil(canvas.W / cellW))
	rows := int(math.Ceil(canvas.H / cellH))

	var g *grid
	bg := rgba(w.background())
	if mode == ImageBraille {
		p := newPainter(canvas, 2/cellW, bg, false)
		p.paint(root)
		g = brailleGrid(p.dst, cols, rows, bg)
	} else {
		p := newPainter(canvas, 1/cellW, bg, false)
		p.paint(root)
		g = halfBlockGrid(p.dst, cols, rows)
	}
	g.placeText(root)
	return g.render()
}

// Render is Lines joined with newlines.
func Render(w *Widget, mode ImageMode) string {
	return strings.Join(Lines(w, mode), "\n")
}

func newGrid(cols, rows int) *grid {
	cells := make([][]cell, rows)
	for y := range cells {
		cells[y] = make([]cell, cols)
	}
	return &grid{cols: cols, rows: rows, cells: cells}
}

// halfBlockGrid maps two vertical pixels to one cell using the upper half
// block glyph: foreground is the top pixel, background the bottom one.
func halfBlockGrid(img *image.RGBA, cols, rows int) *grid {
	g := newGrid(cols, rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := pixel(img, x, y*2)
			bottom := pixel(img, x, y*2+1)
			if top == bottom {
				g.cells[y][x] = cell{ch: ' ', fg: top, bg: bottom}
				continue
			}
			g.cells[y][x] = cell{ch: '▀', fg: top, bg: bottom}
		}
	}
	return g
}

func pixel(img *image.RGBA, x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return color.RGBA{}
	}
	return img.RGBAAt(x, y)
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// placeText writes every Text element into the grid at its cell position.
// The cell keeps the backdrop color behind it.
func (g *grid) placeText(b box) {
	for _, c := range b.children {
		g.placeText(c)
	}
	t, ok := b.elem.(*Text)
	if !ok {
		return
	}
	row := int((b.rect.Y + b.rect.H/2) / cellH)
	col := int(math.Round(b.rect.X / cellW))
	if row < 0 || row >= g.rows {
		return
	}
	fg := rgba(color.White)
	if t.Color != nil {
		fg = rgba(t.Color)
	}
	for i, r := range []rune(t.Content) {
		x := col + i
		if x < 0 || x >= g.cols {
			continue
		}
		c := &g.cells[row][x]
		bg := c.bg
		if c.ch == '▀' {
			bg = c.fg
		}
		*c = cell{ch: r, fg: fg, bg: bg, bold: t.Font.Bold}
	}
}

// render emits each row, merging runs of identically styled cells.
func (g *grid) render() []string {
	lines := make([]string, 0, g.rows)
	for _, row := range g.cells {
		var sb strings.Builder
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && sameStyle(row[start], row[i]) {
				continue
			}
			sb.WriteString(styleOf(row[start]).Render(runString(row[start:i])))
			start = i
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func sameStyle(a, b cell) bool {
	if a.bg != b.bg || a.bold != b.bold {
		return false
	}
	// Spaces only show their background.
	if a.ch == ' ' && b.ch == ' ' {
		return true
	}
	return a.fg == b.fg
}

func styleOf(c cell) lipgloss.Style {
	s := lipgloss.NewStyle().
		Background(lipgloss.Color(hex(c.bg))).
		Foreground(lipgloss.Color(hex(c.fg)))
	if c.bold {
		s = s.Bold(true)
	}
	return s
}

func runString(cells []cell) string {
	rs := make([]rune, len(cells))
	for i, c := range cells {
		rs[i] = c.ch
	}
	return string(rs)
}

func hex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0f]
	}
	return string(b)
}
