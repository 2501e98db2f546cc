package theme

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Base palette
var (
	ColorSLTBlue   = lipgloss.Color("#0a5bd6") // operator blue, used for "Used" and fills
	ColorSkyBlue   = lipgloss.Color("#86bada")
	ColorLavender  = lipgloss.Color("#9f99d1")
	ColorPeach     = lipgloss.Color("#f6bcb0")
	ColorGold      = lipgloss.Color("#ffe3b3")
	ColorBlack     = lipgloss.Color("#000000")
	ColorWhite     = lipgloss.Color("#ffffff")
	ColorGray      = lipgloss.Color("#7f7f7f")
	ColorLightGray = lipgloss.Color("#aaaaaa")
	ColorDarkGray  = lipgloss.Color("#555555")
)

// Terminal chrome (TUI and card frame)
var (
	ColorBorder     = lipgloss.Color("#3a3b52")
	ColorMutedText  = lipgloss.Color("#6b6d8a")
	ColorBodyText   = lipgloss.Color("#c8cad8")
	ColorBrightText = lipgloss.Color("#ecedf5")
	ColorErrorText  = lipgloss.Color("#f07070")
)

// ProgressGradient are the default fill stops of the circular gauge.
var ProgressGradient = []string{
	"#86bada",
	"#0a5bd6",
	"#9f99d1",
	"#f6bcb0",
}

// Palette is the set of widget colors for one appearance.
type Palette struct {
	Background lipgloss.Color
	Text       lipgloss.Color
	Accent     lipgloss.Color
	Track      lipgloss.Color
}

// Dark and Light mirror the system appearances the widget adapts to.
var (
	Dark = Palette{
		Background: ColorBlack,
		Text:       ColorGray,
		Accent:     ColorSLTBlue,
		Track:      ColorDarkGray,
	}
	Light = Palette{
		Background: ColorWhite,
		Text:       ColorBlack,
		Accent:     ColorSLTBlue,
		Track:      ColorLightGray,
	}
)

// ForAppearance resolves "dark", "light" or "auto" (terminal background).
func ForAppearance(appearance string) Palette {
	switch appearance {
	case "dark":
		return Dark
	case "light":
		return Light
	}
	if lipgloss.HasDarkBackground() {
		return Dark
	}
	return Light
}

// IsDark reports whether p is the dark palette.
func (p Palette) IsDark() bool { return p.Background == Dark.Background }

// LerpColor interpolates between two hex colors.
func LerpColor(from, to string, t float64) string {
	r1, g1, b1 := HexToRGB(from)
	r2, g2, b2 := HexToRGB(to)

	r := uint8(float64(r1) + t*(float64(r2)-float64(r1)))
	g := uint8(float64(g1) + t*(float64(g2)-float64(g1)))
	b := uint8(float64(b1) + t*(float64(b2)-float64(b1)))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func HexToRGB(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}

// RGBA converts a hex color to an opaque color.RGBA.
func RGBA(hex string) color.RGBA {
	r, g, b := HexToRGB(hex)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.Color) string {
	r, g, b, _ := color.RGBAModel.Convert(c).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// GradientText applies a gradient color across a string.
func GradientText(text, fromHex, toHex string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(text) * 20)
	style := lipgloss.NewStyle()
	for i, r := range runes {
		t := float64(i) / float64(max(len(runes)-1, 1))
		sb.WriteString(style.Foreground(lipgloss.Color(LerpColor(fromHex, toHex, t))).Render(string(r)))
	}
	return sb.String()
}

// MultiStopGradient interpolates through multiple color stops.
func MultiStopGradient(t float64, stops []string) string {
	if len(stops) == 0 {
		return string(ColorSLTBlue)
	}
	if len(stops) < 2 || t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}

	segments := len(stops) - 1
	segment := int(t * float64(segments))
	if segment >= segments {
		segment = segments - 1
	}
	localT := t*float64(segments) - float64(segment)

	return LerpColor(stops[segment], stops[segment+1], localT)
}

// Common styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorBrightText).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMutedText)

	BodyStyle = lipgloss.NewStyle().
			Foreground(ColorBodyText)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorErrorText).
			Bold(true)
)
