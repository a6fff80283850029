// Package gui implements render.Canvas on fyne.
//
// Fyne keeps a retained widget tree while views describe their widgets anew
// every frame. Canvas bridges the two: widgets are created the first time an
// id is drawn, updated in place on later frames and hidden when a frame no
// longer draws them. Taps are latched and reported by the next Button call.
// All methods must run on the fyne UI goroutine.
package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"preview-editor/internal/render"
)

type item struct {
	obj  fyne.CanvasObject
	seen uint64

	// button
	tapped bool

	// image
	texture *render.Texture
	size    render.Size

	// bar and window content
	box *fyne.Container

	// window
	window         *container.InnerWindow
	title          string
	closeRequested bool
}

type Canvas struct {
	top   *fyne.Container
	desk  *container.MultipleWindows
	root  *scope
	frame uint64
	items map[string]*item
	order []string
}

// NewCanvas builds the widget root and installs it as the window content.
func NewCanvas(window fyne.Window) *Canvas {
	c := &Canvas{
		top:   container.NewVBox(),
		desk:  container.NewMultipleWindows(),
		items: make(map[string]*item),
	}
	c.root = &scope{canvas: c, box: c.top}

	background := canvas.NewRectangle(color.NRGBA{R: 245, G: 245, B: 245, A: 255})
	window.SetContent(container.NewBorder(c.top, nil, nil, nil, container.NewStack(background, c.desk)))

	return c
}

// BeginFrame starts a new frame; ids drawn from now on count as visible.
func (c *Canvas) BeginFrame() {
	c.frame++
}

// EndFrame hides everything the frame did not draw and shows the rest.
func (c *Canvas) EndFrame() {
	for _, key := range c.order {
		it := c.items[key]
		visible := it.seen == c.frame
		if visible && !it.obj.Visible() {
			it.obj.Show()
		} else if !visible && it.obj.Visible() {
			it.obj.Hide()
		}
	}
}

// Frame returns the number of frames begun so far.
func (c *Canvas) Frame() uint64 { return c.frame }

func (c *Canvas) Bar(id string, body func(render.Canvas)) { c.root.Bar(id, body) }

func (c *Canvas) Window(id, title string, open bool, body func(render.Canvas)) bool {
	return c.root.Window(id, title, open, body)
}

func (c *Canvas) Button(id, label string, enabled bool) bool {
	return c.root.Button(id, label, enabled)
}

func (c *Canvas) Separator(id string) { c.root.Separator(id) }

func (c *Canvas) Label(id, text string) { c.root.Label(id, text) }

func (c *Canvas) Image(id string, tex *render.Texture, size render.Size) {
	c.root.Image(id, tex, size)
}

func (c *Canvas) lookup(key string) (*item, bool) {
	it, ok := c.items[key]
	if ok {
		it.seen = c.frame
	}
	return it, ok
}

func (c *Canvas) insert(key string, it *item) *item {
	it.seen = c.frame
	c.items[key] = it
	c.order = append(c.order, key)
	return it
}

// scope is a region of the canvas. Ids are namespaced by the enclosing bars and windows.
type scope struct {
	canvas *Canvas
	prefix string
	box    *fyne.Container
}

func (s *scope) child(key string, box *fyne.Container) *scope {
	return &scope{canvas: s.canvas, prefix: key + "/", box: box}
}

func (s *scope) Bar(id string, body func(render.Canvas)) {
	key := s.prefix + id
	it, ok := s.canvas.lookup(key)
	if !ok {
		box := container.NewHBox()
		it = s.canvas.insert(key, &item{obj: box, box: box})
		s.box.Add(box)
	}
	body(s.child(key, it.box))
}

func (s *scope) Window(id, title string, open bool, body func(render.Canvas)) bool {
	key := s.prefix + id
	it, ok := s.canvas.lookup(key)
	if !ok {
		content := container.NewVBox()
		win := container.NewInnerWindow(title, content)
		it = s.canvas.insert(key, &item{obj: win, box: content, window: win, title: title})
		win.CloseIntercept = func() {
			it.closeRequested = true
		}
		s.canvas.desk.Add(win)
	}
	if it.title != title {
		it.title = title
		it.window.SetTitle(title)
	}

	body(s.child(key, it.box))

	if it.closeRequested {
		it.closeRequested = false
		return false
	}
	return open
}

func (s *scope) Button(id, label string, enabled bool) bool {
	key := s.prefix + id
	it, ok := s.canvas.lookup(key)
	var button *widget.Button
	if !ok {
		button = widget.NewButton(label, nil)
		it = s.canvas.insert(key, &item{obj: button})
		button.OnTapped = func() {
			it.tapped = true
		}
		s.box.Add(button)
	} else {
		button = it.obj.(*widget.Button)
		if button.Text != label {
			button.SetText(label)
		}
	}

	if enabled && button.Disabled() {
		button.Enable()
	} else if !enabled && !button.Disabled() {
		button.Disable()
	}

	tapped := it.tapped
	it.tapped = false
	return tapped && enabled
}

func (s *scope) Separator(id string) {
	key := s.prefix + id
	if _, ok := s.canvas.lookup(key); ok {
		return
	}
	sep := widget.NewSeparator()
	s.canvas.insert(key, &item{obj: sep})
	s.box.Add(sep)
}

func (s *scope) Label(id, text string) {
	key := s.prefix + id
	it, ok := s.canvas.lookup(key)
	if !ok {
		s.canvas.insert(key, &item{obj: widget.NewLabel(text)})
		s.box.Add(s.canvas.items[key].obj)
		return
	}
	if label := it.obj.(*widget.Label); label.Text != text {
		label.SetText(text)
	}
}

func (s *scope) Image(id string, tex *render.Texture, size render.Size) {
	if tex == nil {
		return
	}

	key := s.prefix + id
	it, ok := s.canvas.lookup(key)
	if !ok {
		img := canvas.NewImageFromImage(tex.Pixels)
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScaleSmooth
		img.SetMinSize(fyne.NewSize(size.Width, size.Height))
		s.canvas.insert(key, &item{obj: img, texture: tex, size: size})
		s.box.Add(img)
		return
	}

	img := it.obj.(*canvas.Image)
	if it.size != size {
		it.size = size
		img.SetMinSize(fyne.NewSize(size.Width, size.Height))
	}
	if it.texture != tex {
		it.texture = tex
		img.Image = tex.Pixels
		img.Refresh()
	}
}

// Lookup returns the widget drawn under the full id, e.g. "top-panel/open".
func (c *Canvas) Lookup(key string) (fyne.CanvasObject, bool) {
	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return it.obj, true
}
