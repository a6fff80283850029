package views

import "preview-editor/internal/render"

type SurfaceKind int

const (
	TopPanelSurface SurfaceKind = iota
	ImageFrameSurface
	CentralPanelSurface
)

// Surface is one entry of the fixed set of views a screen is built from.
type Surface struct {
	Kind SurfaceKind

	top     *TopPanel
	frame   *ImageFrame
	central *CentralPanel
}

func TopPanelOf(p *TopPanel) Surface { return Surface{Kind: TopPanelSurface, top: p} }

func ImageFrameOf(f *ImageFrame) Surface { return Surface{Kind: ImageFrameSurface, frame: f} }

func CentralPanelOf(p *CentralPanel) Surface { return Surface{Kind: CentralPanelSurface, central: p} }

func (s Surface) Show(c render.Canvas) {
	switch s.Kind {
	case TopPanelSurface:
		s.top.Show(c)
	case ImageFrameSurface:
		s.frame.Show(c)
	case CentralPanelSurface:
		s.central.Show(c)
	}
}

// CentralPanel hosts the image frames below the tool bar.
type CentralPanel struct {
	children []Surface
}

func NewCentralPanel(children ...Surface) *CentralPanel {
	return &CentralPanel{children: children}
}

func (p *CentralPanel) Show(c render.Canvas) {
	for _, child := range p.children {
		child.Show(c)
	}
}

// Screen is the root of the view tree, shown once per frame.
type Screen struct {
	surfaces []Surface
}

func NewScreen(surfaces ...Surface) *Screen {
	return &Screen{surfaces: surfaces}
}

func (s *Screen) Show(c render.Canvas) {
	for _, surface := range s.surfaces {
		surface.Show(c)
	}
}
