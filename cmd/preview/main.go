// Command preview draws every widget variant from canned usage without
// touching the network or the keychain.
package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/anomredux/slt-usage/internal/artifact"
	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/logging"
	"github.com/anomredux/slt-usage/internal/renderer"
	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/views"
	"github.com/anomredux/slt-usage/internal/widget"
	"github.com/anomredux/slt-usage/renderers"
)

const rendererName = "ProgressCircle"

func main() {
	var (
		used       float64
		limit      float64
		unit       string
		appearance string
		mode       string
		pngDir     string
	)
	cmd := &cobra.Command{
		Use:          "preview",
		Short:        "Render the home, lock and default widgets from sample data",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			usage := domain.UsageSummary{Limit: limit, Used: used, VolumeUnit: unit}
			return preview(cmd.Context(), usage, theme.ForAppearance(appearance), widget.ImageMode(mode), pngDir)
		},
	}
	cmd.Flags().Float64Var(&used, "used", 9.6, "used quota")
	cmd.Flags().Float64Var(&limit, "limit", 24, "quota limit")
	cmd.Flags().StringVar(&unit, "unit", "GB", "volume unit")
	cmd.Flags().StringVar(&appearance, "appearance", "auto", "auto, dark or light")
	cmd.Flags().StringVar(&mode, "mode", string(widget.ImageHalfBlock), "halfblock or braille")
	cmd.Flags().StringVar(&pngDir, "png-dir", "", "also write <variant>.png files here")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func preview(ctx context.Context, usage domain.UsageSummary, palette theme.Palette, mode widget.ImageMode, pngDir string) error {
	if usage.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %v", usage.Limit)
	}

	// Seed a throwaway slot with the shipped definition so the lock view
	// goes through the same loader as a real run.
	slotDir, err := os.MkdirTemp("", "slt-preview-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(slotDir)
	slots := artifact.NewFileStore(slotDir)
	if err := slots.Write(ctx, rendererName, renderers.ProgressCircle, artifact.Meta{
		URL:          "embedded",
		DownloadedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}
	gauge, err := renderer.NewLoader(slots, nil, logging.Discard()).Load(ctx, rendererName, "", false)
	if err != nil {
		return err
	}

	data := views.Data{
		Usage:   usage,
		Logo:    sampleLogo(),
		Palette: palette,
		Now:     time.Now(),
	}
	lock := func(d views.Data) (*widget.Widget, error) { return views.Lock(d, gauge) }

	for _, v := range []struct {
		name string
		draw func(views.Data) (*widget.Widget, error)
	}{
		{"home", views.Home},
		{"lock", lock},
		{"default", views.Default},
	} {
		w, err := v.draw(data)
		if err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
		hosts := widget.Hosts{widget.TerminalHost{Out: os.Stdout, Mode: mode, Title: v.name}}
		if pngDir != "" {
			hosts = append(hosts, widget.PNGHost{Path: filepath.Join(pngDir, v.name+".png")})
		}
		if err := hosts.Present(ctx, w); err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
		fmt.Println()
	}
	return nil
}

// sampleLogo stands in for the operator logo: a blue disc with a white ring.
func sampleLogo() image.Image {
	const size = 64
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	blue := theme.RGBA(string(theme.ColorSLTBlue))
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			d := dx*dx + dy*dy
			switch {
			case d <= 20*20:
				img.SetRGBA(x, y, blue)
			case d <= 30*30:
				img.SetRGBA(x, y, white)
			}
		}
	}
	return img
}
