package views

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/renderer"
	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/widget"
)

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func sample() Data {
	return Data{
		Usage:   domain.UsageSummary{Limit: 24, Used: 9.6, VolumeUnit: "GB"},
		Logo:    image.NewRGBA(image.Rect(0, 0, 8, 8)),
		Palette: theme.Dark,
		Now:     now,
	}
}

func texts(s *widget.Stack) []string {
	var out []string
	for _, c := range s.Children {
		switch e := c.(type) {
		case *widget.Text:
			out = append(out, e.Content)
		case *widget.Stack:
			out = append(out, texts(e)...)
		}
	}
	return out
}

func TestParseVariant(t *testing.T) {
	for _, s := range []string{"home", "lock", "default"} {
		v, err := ParseVariant(s)
		require.NoError(t, err)
		assert.Equal(t, Variant(s), v)
	}
	_, err := ParseVariant("tablet")
	assert.Error(t, err)
}

func TestHome(t *testing.T) {
	w, err := Home(sample())
	require.NoError(t, err)

	assert.Equal(t, widget.FamilyMedium, w.Family)
	assert.Equal(t, 16.0, w.Padding)
	assert.Equal(t, theme.RGBA("#000000"), w.Background)
	assert.Equal(t, now.Add(30*time.Minute), w.RefreshAfter)
	assert.Equal(t, []string{"WiFi", "Limit: 24 GB", "Used: 9.6 GB"}, texts(&w.Stack))

	title := w.Children[0].(*widget.Stack)
	assert.Equal(t, widget.Horizontal, title.Layout)
	logo := title.Children[0].(*widget.Image)
	assert.Equal(t, widget.Size{W: 50, H: 50}, logo.Size)

	bar := w.Children[len(w.Children)-1].(*widget.Image)
	assert.Equal(t, widget.Size{W: 200, H: 10}, bar.Size)
	img := bar.Img.(*image.RGBA)
	// 40% of a 400px (2x) bar.
	assert.Equal(t, theme.RGBA(string(theme.ColorSLTBlue)), img.RGBAAt(159, 10))
	assert.Equal(t, theme.RGBA(string(theme.ColorDarkGray)), img.RGBAAt(160, 10))
}

func TestHome_LightAppearance(t *testing.T) {
	d := sample()
	d.Palette = theme.Light
	w, err := Home(d)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, w.Background)
}

func TestDefault(t *testing.T) {
	d := sample()
	d.Refresh = 15 * time.Minute
	w, err := Default(d)
	require.NoError(t, err)

	assert.Equal(t, theme.RGBA("#ffffff"), w.Background)
	assert.Equal(t, now.Add(15*time.Minute), w.RefreshAfter)
	assert.Equal(t, []string{"Usage", "Limit: 24 GB", "Used: 9.6 GB"}, texts(&w.Stack))

	title := w.Children[0].(*widget.Stack)
	label := title.Children[2].(*widget.Text)
	assert.True(t, label.Font.Bold)
	assert.Equal(t, 16.0, label.Font.Size)
}

func TestViews_WithoutLogo(t *testing.T) {
	d := sample()
	d.Logo = nil
	w, err := Home(d)
	require.NoError(t, err)
	title := w.Children[0].(*widget.Stack)
	assert.IsType(t, &widget.Spacer{}, title.Children[0])
}

func TestLock(t *testing.T) {
	h, err := renderer.Compile("ProgressCircle", []byte("kind: progress-circle\ndiameter: 58\n"))
	require.NoError(t, err)

	w, err := Lock(sample(), h)
	require.NoError(t, err)
	assert.Equal(t, widget.FamilyAccessoryCircular, w.Family)
	require.Len(t, w.Children, 1)

	gauge := w.Children[0].(*widget.Stack)
	require.NotNil(t, gauge.BackgroundImage)
	require.Len(t, gauge.Children, 1)
	logo := gauge.Children[0].(*widget.Image)
	assert.Equal(t, widget.Size{W: 26, H: 26}, logo.Size)
	assert.Equal(t, 1.0, logo.Opacity)
}

type failingHandle struct{}

func (failingHandle) Name() string { return "broken" }
func (failingHandle) DrawGauge(*widget.Widget, float64) (*widget.Stack, error) {
	return nil, assert.AnError
}

func TestLock_DrawError(t *testing.T) {
	_, err := Lock(sample(), failingHandle{})
	assert.ErrorIs(t, err, assert.AnError)
}
