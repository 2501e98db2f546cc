package renderer

import (
	"image/color"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/widget"
)

const circleDef = `kind: progress-circle
diameter: 60
thickness: 6
track_color: "#555555"
fill: ["#0a5bd6"]
resolution: 120
`

func TestParse(t *testing.T) {
	def, err := Parse([]byte(circleDef))
	require.NoError(t, err)
	assert.Equal(t, KindProgressCircle, def.Kind)
	assert.Equal(t, 60.0, def.Diameter)
	assert.Equal(t, []string{"#0a5bd6"}, def.Fill)
}

func TestParse_Errors(t *testing.T) {
	for name, src := range map[string]string{
		"no kind":       "diameter: 10\n",
		"unknown field": "kind: progress-circle\ncolour: red\n",
		"not yaml":      "kind: [",
	} {
		_, err := Parse([]byte(src))
		assert.Error(t, err, name)
	}
}

func TestCompile_UnknownKind(t *testing.T) {
	_, err := Compile("x", []byte("kind: sparkline\n"))
	assert.ErrorContains(t, err, "sparkline")
}

func TestCompile_ShippedDefinition(t *testing.T) {
	data, err := os.ReadFile("../../renderers/progress-circle.yaml")
	require.NoError(t, err)
	h, err := Compile("ProgressCircle", data)
	require.NoError(t, err)
	assert.Equal(t, "ProgressCircle", h.Name())
}

func TestCircle_DrawGauge(t *testing.T) {
	h, err := Compile("ProgressCircle", []byte(circleDef))
	require.NoError(t, err)

	w := widget.New(widget.FamilyAccessoryCircular)
	anchor, err := h.DrawGauge(w, 50)
	require.NoError(t, err)
	require.Len(t, w.Children, 1)
	assert.Same(t, anchor, w.Children[0])
	assert.True(t, anchor.Center)
	assert.Equal(t, widget.Size{W: 60, H: 60}, anchor.Size)
	require.NotNil(t, anchor.BackgroundImage)
	assert.Equal(t, 120, anchor.BackgroundImage.Bounds().Dx())
}

func TestCircle_RingFill(t *testing.T) {
	h, err := Compile("ProgressCircle", []byte(circleDef))
	require.NoError(t, err)
	c := h.(*Circle)

	img := c.ring(50)
	blue := theme.RGBA("#0a5bd6")
	track := theme.RGBA("#555555")

	// Ring band is 12px wide at this resolution; sample its middle.
	right := img.RGBAAt(113, 60) // 3 o'clock, inside the filled half
	left := img.RGBAAt(6, 60)    // 9 o'clock, past the fill
	center := img.RGBAAt(60, 60)

	assert.Equal(t, blue, right)
	assert.Equal(t, track, left)
	assert.Equal(t, color.RGBA{}, center)
}

func TestCircle_OverQuotaFillsRing(t *testing.T) {
	h, err := Compile("ProgressCircle", []byte(circleDef))
	require.NoError(t, err)
	img := h.(*Circle).ring(180)
	assert.Equal(t, theme.RGBA("#0a5bd6"), img.RGBAAt(6, 60))
}

func TestCircle_RejectsThickRing(t *testing.T) {
	_, err := Compile("x", []byte("kind: progress-circle\ndiameter: 10\nthickness: 6\n"))
	assert.Error(t, err)
}

func TestCircle_RejectsOversizedGeometry(t *testing.T) {
	for _, def := range []string{
		"kind: progress-circle\nresolution: 1025\n",
		"kind: progress-circle\ndiameter: 513\n",
		"kind: progress-circle\nthickness: .nan\n",
	} {
		_, err := Compile("x", []byte(def))
		assert.Error(t, err, def)
	}

	_, err := Compile("x", []byte("kind: progress-circle\nresolution: 1024\n"))
	assert.NoError(t, err)
}

func TestBar_DrawGauge(t *testing.T) {
	fill := color.RGBA{B: 0xff, A: 0xff}
	track := color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
	b := Bar{Width: 200, Height: 10, Track: track, Fill: fill, Scale: 1}

	w := widget.New(widget.FamilyMedium)
	anchor, err := b.DrawGauge(w, 40)
	require.NoError(t, err)
	assert.Same(t, &w.Stack, anchor)
	require.Len(t, w.Children, 1)

	img := b.image(40)
	assert.Equal(t, fill, img.RGBAAt(79, 5))
	assert.Equal(t, track, img.RGBAAt(80, 5))

	over := b.image(150)
	assert.Equal(t, fill, over.RGBAAt(199, 5))

	under := b.image(-5)
	assert.Equal(t, track, under.RGBAAt(0, 5))
}
