// Package views composes the three widget variants from a usage summary.
package views

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/i18n"
	"github.com/anomredux/slt-usage/internal/renderer"
	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/widget"
)

// Variant selects the widget layout.
type Variant string

const (
	VariantHome    Variant = "home"
	VariantLock    Variant = "lock"
	VariantDefault Variant = "default"
)

// DefaultRefresh is how long the host should wait before the next run.
const DefaultRefresh = 30 * time.Minute

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantHome, VariantLock, VariantDefault:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q (want home, lock or default)", s)
}

// Data is everything a view needs to draw.
type Data struct {
	Usage   domain.UsageSummary
	Logo    image.Image // may be nil
	Palette theme.Palette
	Now     time.Time
	Refresh time.Duration
}

func (d Data) refreshAfter() time.Time {
	r := d.Refresh
	if r <= 0 {
		r = DefaultRefresh
	}
	return d.Now.Add(r)
}

func rgb(c lipgloss.Color) color.RGBA {
	return theme.RGBA(string(c))
}

func addLogo(s *widget.Stack, logo image.Image, size float64) {
	if logo == nil {
		return
	}
	s.AddImage(logo).Size = widget.Size{W: size, H: size}
}

// Home is the home-screen layout: logo and "WiFi" on one row, the limit and
// used lines, then a bar gauge. Colors follow the palette's appearance.
func Home(d Data) (*widget.Widget, error) {
	p := d.Palette
	w := widget.New(widget.FamilyMedium)
	w.Background = rgb(p.Background)
	w.Padding = 16

	title := w.AddStack()
	title.Layout = widget.Horizontal
	addLogo(title, d.Logo, 50)
	title.AddSpacer(0)
	t := title.AddText(i18n.T("title_home"))
	t.Color = rgb(p.Text)
	t.Font = widget.Font{Name: "Helvetica Neue", Size: 18}

	w.AddSpacer(12)
	font := widget.Font{Name: "Arial", Size: 14}
	usageLines(w, d.Usage, font, rgb(p.Text), rgb(p.Accent))
	w.AddSpacer(12)

	bar := renderer.Bar{Width: 200, Height: 10, Track: rgb(p.Track), Fill: rgb(p.Accent)}
	if _, err := bar.DrawGauge(w, d.Usage.Percent()); err != nil {
		return nil, err
	}
	w.RefreshAfter = d.refreshAfter()
	return w, nil
}

// Default is the light layout with a bold "Usage" title.
func Default(d Data) (*widget.Widget, error) {
	p := theme.Light
	w := widget.New(widget.FamilyMedium)
	w.Background = rgb(p.Background)
	w.Padding = 16

	title := w.AddStack()
	title.Layout = widget.Horizontal
	addLogo(title, d.Logo, 50)
	title.AddSpacer(8)
	t := title.AddText(i18n.T("title_default"))
	t.Color = rgb(p.Text)
	t.Font = widget.Font{Size: 16, Bold: true}

	w.AddSpacer(8)
	usageLines(w, d.Usage, widget.Font{Size: 16, Bold: true}, rgb(p.Text), rgb(p.Accent))
	w.AddSpacer(8)

	bar := renderer.Bar{Width: 200, Height: 10, Track: rgb(p.Track), Fill: rgb(p.Accent)}
	if _, err := bar.DrawGauge(w, d.Usage.Percent()); err != nil {
		return nil, err
	}
	w.RefreshAfter = d.refreshAfter()
	return w, nil
}

// Lock is the lock-screen accessory: the circular gauge from h with the
// logo centered on it.
func Lock(d Data, h renderer.Handle) (*widget.Widget, error) {
	w := widget.New(widget.FamilyAccessoryCircular)
	w.Center = true

	anchor, err := h.DrawGauge(w, d.Usage.Percent())
	if err != nil {
		return nil, fmt.Errorf("draw %s gauge: %w", h.Name(), err)
	}
	if d.Logo != nil {
		logo := anchor.AddImage(d.Logo)
		logo.Size = widget.Size{W: 26, H: 26}
		logo.Opacity = 1
	}
	w.RefreshAfter = d.refreshAfter()
	return w, nil
}

func usageLines(w *widget.Widget, u domain.UsageSummary, font widget.Font, text, used color.Color) {
	limit := w.AddText(i18n.Tf("limit", u.FormatAmount(u.Limit)))
	limit.Color = text
	limit.Font = font

	usedText := w.AddText(i18n.Tf("used", u.FormatAmount(u.Used)))
	usedText.Color = used
	usedText.Font = font
}
