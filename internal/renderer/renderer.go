// Package renderer provides the gauge renderers. The circular gauge is
// described by a downloaded definition that is cached by name; the bar gauge
// is built in.
package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/anomredux/slt-usage/internal/widget"
)

// Handle draws a usage gauge onto a widget. The returned stack is the anchor
// callers attach further elements to (the lock-screen logo, for example).
// percent is used/limit*100 and is not clamped.
type Handle interface {
	Name() string
	DrawGauge(w *widget.Widget, percent float64) (*widget.Stack, error)
}

// Definition is the content of a renderer artifact.
type Definition struct {
	Kind       string   `yaml:"kind"`
	Version    string   `yaml:"version,omitempty"`
	Diameter   float64  `yaml:"diameter"`
	Thickness  float64  `yaml:"thickness"`
	TrackColor string   `yaml:"track_color"`
	Fill       []string `yaml:"fill"`
	StartAngle float64  `yaml:"start_angle"` // degrees clockwise from 12 o'clock
	Resolution int      `yaml:"resolution"`  // ring image size in pixels
}

type builder func(name string, def Definition) (Handle, error)

var kinds = map[string]builder{
	KindProgressCircle: newCircle,
}

// Kinds lists the definition kinds this build can render.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Parse decodes a definition. Unknown fields are rejected so a typo in a
// published artifact fails loudly instead of drawing defaults.
func Parse(data []byte) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("parse renderer definition: %w", err)
	}
	if def.Kind == "" {
		return Definition{}, errors.New("renderer definition has no kind")
	}
	return def, nil
}

// Compile turns artifact bytes into a Handle.
func Compile(name string, data []byte) (Handle, error) {
	def, err := Parse(data)
	if err != nil {
		return nil, err
	}
	build, ok := kinds[def.Kind]
	if !ok {
		return nil, fmt.Errorf("unsupported renderer kind %q (supported: %v)", def.Kind, Kinds())
	}
	return build(name, def)
}
