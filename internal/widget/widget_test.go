package widget

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRe.ReplaceAllString(s, "") }

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func titleWidget() *Widget {
	w := New(FamilyMedium)
	w.Padding = 16
	title := w.AddStack()
	title.Layout = Horizontal
	title.AddImage(solid(4, 4, color.RGBA{R: 0xff, A: 0xff})).Size = Size{50, 50}
	title.AddSpacer(0)
	title.AddText("WiFi").Font = Font{Size: 18}
	return w
}

func TestLayout_FlexibleSpacerPushesToEdge(t *testing.T) {
	canvas, root := titleWidget().layout()
	assert.Equal(t, Size{364, 170}, canvas)

	require.Len(t, root.children, 1)
	title := root.children[0]
	assert.InDelta(t, 332.0, title.rect.W, 1e-9)
	assert.InDelta(t, 60.0, title.rect.Y, 1e-9, "content is vertically centered")

	require.Len(t, title.children, 3)
	text := title.children[2]
	textW := 4 * 18 * textAspect
	assert.InDelta(t, 16+332-textW, text.rect.X, 1e-9)
	assert.InDelta(t, 60+(50-18)/2.0, text.rect.Y, 1e-9)
}

func TestLayout_VerticalStackAndSpacers(t *testing.T) {
	w := New(FamilySmall)
	w.AddText("a")
	w.AddSpacer(12)
	w.AddText("b")

	_, root := w.layout()
	require.Len(t, root.children, 3)
	a, b := root.children[0].rect, root.children[2].rect
	assert.InDelta(t, a.Y+defaultFontSize+12, b.Y, 1e-9)
	assert.Equal(t, a.X, b.X)
}

func TestLayout_CenteredStack(t *testing.T) {
	w := New(FamilyAccessoryCircular)
	s := w.AddStack()
	s.Size = Size{60, 60}
	s.Center = true
	s.AddImage(solid(2, 2, color.White)).Size = Size{26, 26}

	_, root := w.layout()
	inner := root.children[0].children[0].rect
	outer := root.children[0].rect
	assert.InDelta(t, outer.X+17, inner.X, 1e-9)
	assert.InDelta(t, outer.Y+17, inner.Y, 1e-9)
}

func TestLayout_CanvasGrowsToFitContent(t *testing.T) {
	w := New(FamilySmall)
	w.Padding = 16
	w.AddImage(solid(1, 1, color.White)).Size = Size{200, 10}

	canvas, _ := w.layout()
	assert.InDelta(t, 232.0, canvas.W, 1e-9)
	assert.InDelta(t, 170.0, canvas.H, 1e-9)
}

func TestLines_ContainsText(t *testing.T) {
	w := New(FamilyMedium)
	w.Padding = 16
	w.AddText("Limit: 24 GB")
	w.AddText("Used: 9.6 GB").Font.Bold = true

	for _, mode := range []ImageMode{ImageHalfBlock, ImageBraille} {
		lines := Lines(w, mode)
		assert.Len(t, lines, 17, mode)
		plain := stripANSI(strings.Join(lines, "\n"))
		assert.Contains(t, plain, "Limit: 24 GB", mode)
		assert.Contains(t, plain, "Used: 9.6 GB", mode)
	}
}

func TestHalfBlockGrid(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	img.SetRGBA(0, 0, red)
	img.SetRGBA(0, 1, blue)
	img.SetRGBA(1, 0, red)
	img.SetRGBA(1, 1, red)

	g := halfBlockGrid(img, 2, 1)
	assert.Equal(t, cell{ch: '▀', fg: red, bg: blue}, g.cells[0][0])
	assert.Equal(t, ' ', g.cells[0][1].ch)
	assert.Equal(t, red, g.cells[0][1].bg)
}

func TestBrailleGrid(t *testing.T) {
	bg := color.RGBA{A: 0xff}
	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	img.SetRGBA(0, 0, white)
	img.SetRGBA(1, 3, white)

	g := brailleGrid(img, 1, 1, bg)
	assert.Equal(t, rune(0x2800|0x01|0x80), g.cells[0][0].ch)
	assert.Equal(t, white, g.cells[0][0].fg)
}

func TestRaster_SizeAndBackground(t *testing.T) {
	w := New(FamilySmall)
	w.Background = color.White
	img := Raster(w, 2)
	assert.Equal(t, image.Rect(0, 0, 340, 340), img.Bounds())
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(5, 5))
}

func TestRaster_DrawsImage(t *testing.T) {
	w := New(FamilyAccessoryCircular)
	w.Center = true
	w.AddImage(solid(1, 1, color.RGBA{R: 0xff, A: 0xff})).Size = Size{76, 76}

	img := Raster(w, 1)
	got := img.RGBAAt(38, 38)
	assert.Equal(t, uint8(0xff), got.R)
	assert.Zero(t, got.B)
}

func TestPNGHost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "widget.png")
	require.NoError(t, PNGHost{Path: path, Scale: 1}.Present(context.Background(), titleWidget()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 364, 170), img.Bounds())
}

func TestTerminalHost_Frame(t *testing.T) {
	var sb strings.Builder
	w := New(FamilySmall)
	w.AddText("hello")
	require.NoError(t, TerminalHost{Out: &sb, Title: "slt"}.Present(context.Background(), w))

	out := stripANSI(sb.String())
	assert.True(t, strings.HasPrefix(out, "╭─ slt "))
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "╯")
}

type failingHost struct{ err error }

func (f failingHost) Present(context.Context, *Widget) error { return f.err }

func TestHosts_PresentsAllAndJoinsErrors(t *testing.T) {
	var sb strings.Builder
	boom := errors.New("boom")
	hs := Hosts{failingHost{boom}, TerminalHost{Out: &sb}}

	err := hs.Present(context.Background(), New(FamilySmall))
	assert.ErrorIs(t, err, boom)
	assert.NotEmpty(t, sb.String())
}
