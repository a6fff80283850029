// Package render is the boundary between views and the widget toolkit.
//
// Views are written in an immediate-mode style: every frame they describe the
// widgets they want through a Canvas, and the Canvas reports which controls
// were activated since the previous frame.
package render

import "image"

// Canvas is the drawing surface handed to views once per frame.
type Canvas interface {
	// Bar lays out body horizontally, as a menu or tool bar.
	Bar(id string, body func(Canvas))
	// Window draws a closable window. It returns false once the user closed it.
	Window(id, title string, open bool, body func(Canvas)) bool
	// Button draws a button and reports whether it was activated since the last frame.
	Button(id, label string, enabled bool) bool
	Separator(id string)
	Label(id, text string)
	Image(id string, tex *Texture, size Size)
}

type Size struct {
	Width  float32
	Height float32
}

// Texture is a render-ready RGBA pixel buffer.
type Texture struct {
	Pixels *image.NRGBA
	Width  int
	Height int
	// Source is the ID of the image this texture was derived from.
	Source string
}

// FitSize scales w x h so the longer side equals maxSide.
func FitSize(w, h int, maxSide float32) Size {
	if w <= 0 || h <= 0 || maxSide <= 0 {
		return Size{}
	}
	longest := w
	if h > longest {
		longest = h
	}
	scale := maxSide / float32(longest)
	return Size{Width: float32(w) * scale, Height: float32(h) * scale}
}
