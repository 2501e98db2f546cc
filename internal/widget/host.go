package widget

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Host presents a finished widget.
type Host interface {
	Present(ctx context.Context, w *Widget) error
}

// TerminalHost prints the widget, optionally framed.
type TerminalHost struct {
	Out   io.Writer
	Mode  ImageMode
	Title string // frame title; empty prints the widget unframed
}

func (h TerminalHost) Present(_ context.Context, w *Widget) error {
	lines := Lines(w, h.Mode)
	out := strings.Join(lines, "\n")
	if h.Title != "" {
		out = Frame(h.Title, lines)
	}
	_, err := fmt.Fprintln(h.Out, out)
	return err
}

// PNGHost writes the widget as a PNG file, replacing any previous image
// atomically so viewers never see a half-written file.
type PNGHost struct {
	Path  string
	Scale float64 // pixels per point, default 2
}

func (h PNGHost) Present(_ context.Context, w *Widget) error {
	scale := h.Scale
	if scale <= 0 {
		scale = 2
	}
	img := Raster(w, scale)

	dir := filepath.Dir(h.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create png dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".widget-*.png")
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), h.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// Hosts presents to every host in order and reports all failures.
type Hosts []Host

func (hs Hosts) Present(ctx context.Context, w *Widget) error {
	var errs []error
	for _, h := range hs {
		if err := h.Present(ctx, w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
