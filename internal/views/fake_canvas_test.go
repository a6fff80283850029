package views

import "preview-editor/internal/render"

type buttonState struct {
	label   string
	enabled bool
}

// fakeCanvas records what views draw during a frame and replays scripted
// button activations.
type fakeCanvas struct {
	prefix string
	rec    *recording
}

type recording struct {
	buttons map[string]buttonState
	labels  map[string]string
	images  map[string]*render.Texture
	sizes   map[string]render.Size
	windows map[string]string
	bars    []string

	clicks map[string]bool
	close  map[string]bool
}

func newFakeCanvas() *fakeCanvas {
	c := &fakeCanvas{rec: &recording{clicks: map[string]bool{}, close: map[string]bool{}}}
	c.beginFrame()
	return c
}

func (c *fakeCanvas) beginFrame() {
	c.rec.buttons = map[string]buttonState{}
	c.rec.labels = map[string]string{}
	c.rec.images = map[string]*render.Texture{}
	c.rec.sizes = map[string]render.Size{}
	c.rec.windows = map[string]string{}
	c.rec.bars = nil
}

func (c *fakeCanvas) click(id string) { c.rec.clicks[id] = true }

func (c *fakeCanvas) child(id string) *fakeCanvas {
	return &fakeCanvas{prefix: c.prefix + id + "/", rec: c.rec}
}

func (c *fakeCanvas) Bar(id string, body func(render.Canvas)) {
	c.rec.bars = append(c.rec.bars, c.prefix+id)
	body(c.child(id))
}

func (c *fakeCanvas) Window(id, title string, open bool, body func(render.Canvas)) bool {
	c.rec.windows[c.prefix+id] = title
	body(c.child(id))
	if c.rec.close[c.prefix+id] {
		delete(c.rec.close, c.prefix+id)
		return false
	}
	return open
}

func (c *fakeCanvas) Button(id, label string, enabled bool) bool {
	key := c.prefix + id
	c.rec.buttons[key] = buttonState{label: label, enabled: enabled}
	if enabled && c.rec.clicks[key] {
		delete(c.rec.clicks, key)
		return true
	}
	return false
}

func (c *fakeCanvas) Separator(string) {}

func (c *fakeCanvas) Label(id, text string) {
	c.rec.labels[c.prefix+id] = text
}

func (c *fakeCanvas) Image(id string, tex *render.Texture, size render.Size) {
	c.rec.images[c.prefix+id] = tex
	c.rec.sizes[c.prefix+id] = size
}
