// Package widget is the host drawing surface: a widget is a tree of stacks
// holding text, images and spacers, laid out in points and presented by a
// Host (terminal, PNG file, TUI).
package widget

import (
	"image"
	"image/color"
	"time"
)

// Family is the widget size class.
type Family string

const (
	FamilySmall             Family = "small"
	FamilyMedium            Family = "medium"
	FamilyAccessoryCircular Family = "accessoryCircular"
)

// Size in points.
type Size struct {
	W, H float64
}

// Size returns the canvas size of the family in points.
func (f Family) Size() Size {
	switch f {
	case FamilySmall:
		return Size{170, 170}
	case FamilyAccessoryCircular:
		return Size{76, 76}
	}
	return Size{364, 170}
}

// Layout is the stacking axis of a Stack.
type Layout int

const (
	Vertical Layout = iota
	Horizontal
)

const defaultFontSize = 14

// Font selects the text face. Only Size and Bold affect rendering.
type Font struct {
	Name string
	Size float64
	Bold bool
}

func (f Font) size() float64 {
	if f.Size <= 0 {
		return defaultFontSize
	}
	return f.Size
}

// Element is anything a Stack can hold: *Text, *Image, *Spacer or *Stack.
type Element interface {
	element()
}

type Text struct {
	Content string
	Color   color.Color
	Font    Font
}

type Image struct {
	Img     image.Image
	Size    Size    // zero means the image's own bounds
	Opacity float64 // 0 is treated as fully opaque
}

// Spacer adds fixed space along the parent's axis. A zero Length is
// flexible and takes an equal share of the free space.
type Spacer struct {
	Length float64
}

type Stack struct {
	Layout          Layout
	Size            Size // zero dimensions are sized to content
	Center          bool // center children on both axes
	Background      color.Color
	BackgroundImage image.Image
	Children        []Element
}

func (*Text) element()   {}
func (*Image) element()  {}
func (*Spacer) element() {}
func (*Stack) element()  {}

func (s *Stack) AddText(content string) *Text {
	t := &Text{Content: content}
	s.Children = append(s.Children, t)
	return t
}

func (s *Stack) AddImage(img image.Image) *Image {
	i := &Image{Img: img}
	s.Children = append(s.Children, i)
	return i
}

func (s *Stack) AddSpacer(length float64) *Spacer {
	sp := &Spacer{Length: length}
	s.Children = append(s.Children, sp)
	return sp
}

// AddStack appends a vertical child stack.
func (s *Stack) AddStack() *Stack {
	c := &Stack{}
	s.Children = append(s.Children, c)
	return c
}

// Widget is the root surface handed to a Host.
type Widget struct {
	Stack
	Family       Family
	Padding      float64
	RefreshAfter time.Time
}

// New returns an empty widget of the given family with a vertical root.
func New(family Family) *Widget {
	return &Widget{Family: family}
}

// background returns the widget background, black when unset.
func (w *Widget) background() color.Color {
	if w.Background == nil {
		return color.Black
	}
	return w.Background
}
