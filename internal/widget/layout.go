package widget

// textAspect is the glyph width/height ratio of the raster face.
const textAspect = 7.0 / 13.0

type rect struct {
	X, Y, W, H float64
}

// box is an element placed on the canvas, in points.
type box struct {
	elem     Element
	rect     rect
	children []box
}

func textWidth(t *Text) float64 {
	return float64(len([]rune(t.Content))) * t.Font.size() * textAspect
}

func (i *Image) size() Size {
	if i.Size.W > 0 && i.Size.H > 0 {
		return i.Size
	}
	if i.Img == nil {
		return Size{}
	}
	b := i.Img.Bounds()
	return Size{float64(b.Dx()), float64(b.Dy())}
}

// measure returns the natural size of e inside a parent stacking on axis.
func measure(e Element, axis Layout) (float64, float64) {
	switch e := e.(type) {
	case *Text:
		return textWidth(e), e.Font.size()
	case *Image:
		s := e.size()
		return s.W, s.H
	case *Spacer:
		if axis == Horizontal {
			return e.Length, 0
		}
		return 0, e.Length
	case *Stack:
		return e.natural()
	}
	return 0, 0
}

func (s *Stack) natural() (float64, float64) {
	var w, h float64
	for _, c := range s.Children {
		cw, ch := measure(c, s.Layout)
		if s.Layout == Horizontal {
			w += cw
			h = max(h, ch)
		} else {
			w = max(w, cw)
			h += ch
		}
	}
	if s.Size.W > 0 {
		w = s.Size.W
	}
	if s.Size.H > 0 {
		h = s.Size.H
	}
	return w, h
}

func isFlexible(e Element) bool {
	sp, ok := e.(*Spacer)
	return ok && sp.Length == 0
}

// stretches reports whether a horizontal stack should take the full width
// of its vertical parent so its flexible spacers have room.
func stretches(e Element) bool {
	s, ok := e.(*Stack)
	if !ok || s.Layout != Horizontal || s.Size.W > 0 {
		return false
	}
	for _, c := range s.Children {
		if isFlexible(c) {
			return true
		}
	}
	return false
}

func place(e Element, r rect) box {
	if s, ok := e.(*Stack); ok {
		return placeStack(s, r)
	}
	return box{elem: e, rect: r}
}

func placeStack(s *Stack, r rect) box {
	b := box{elem: s, rect: r}
	horizontal := s.Layout == Horizontal

	var fixed float64
	flex := 0
	for _, c := range s.Children {
		if isFlexible(c) {
			flex++
			continue
		}
		cw, ch := measure(c, s.Layout)
		if horizontal {
			fixed += cw
		} else {
			fixed += ch
		}
	}

	mainLen := r.H
	if horizontal {
		mainLen = r.W
	}
	var flexLen, pos float64
	switch {
	case flex > 0 && mainLen > fixed:
		flexLen = (mainLen - fixed) / float64(flex)
	case flex == 0 && s.Center && mainLen > fixed:
		pos = (mainLen - fixed) / 2
	}

	for _, c := range s.Children {
		cw, ch := measure(c, s.Layout)
		if isFlexible(c) {
			if horizontal {
				cw = flexLen
			} else {
				ch = flexLen
			}
		}

		var cr rect
		if horizontal {
			cr = rect{X: r.X + pos, Y: r.Y + (r.H-ch)/2, W: cw, H: ch}
			pos += cw
		} else {
			x := r.X
			if stretches(c) {
				cw = r.W
			} else if s.Center {
				x += (r.W - cw) / 2
			}
			cr = rect{X: x, Y: r.Y + pos, W: cw, H: ch}
			pos += ch
		}
		b.children = append(b.children, place(c, cr))
	}
	return b
}

// layout places the widget's content on its canvas. The canvas is the
// family size, grown when the content does not fit. Content is vertically
// centered.
func (w *Widget) layout() (Size, box) {
	canvas := w.Family.Size()
	nw, nh := w.Stack.natural()
	canvas.W = max(canvas.W, nw+2*w.Padding)
	canvas.H = max(canvas.H, nh+2*w.Padding)

	availW := canvas.W - 2*w.Padding
	availH := canvas.H - 2*w.Padding
	y := w.Padding + (availH-nh)/2

	root := placeStack(&w.Stack, rect{X: w.Padding, Y: y, W: availW, H: nh})
	return canvas, root
}
