package views

import (
	"context"
	"strings"

	"preview-editor/internal/codec"
	"preview-editor/internal/observable"
	"preview-editor/internal/render"
	"preview-editor/internal/sources"
	"preview-editor/internal/viewmodels"
)

// DefaultFrameSide is the longest displayed side of an image, in canvas units.
const DefaultFrameSide = 300

// ImageFrame shows one image slot in its own window.
type ImageFrame struct {
	id string

	acceptInput bool
	texture     *render.Texture
	open        bool
	title       string
	maxSide     float32

	picker  sources.Picker
	pending <-chan sources.Handle

	// textureBuilds counts texture re-derivations.
	textureBuilds int

	viewModel *viewmodels.ImageFrame
	vmRx      *observable.Receiver[viewmodels.FrameNotification]
}

func NewImageFrame(viewModel *viewmodels.ImageFrame, picker sources.Picker, maxSide float32) *ImageFrame {
	if maxSide <= 0 {
		maxSide = DefaultFrameSide
	}

	f := &ImageFrame{
		id:          "frame-" + strings.ToLower(strings.ReplaceAll(viewModel.Title(), " ", "-")),
		acceptInput: viewModel.AcceptInput(),
		open:        viewModel.Open(),
		title:       viewModel.Title(),
		maxSide:     maxSide,
		picker:      picker,
		viewModel:   viewModel,
		vmRx:        viewModel.Subscribe(),
	}
	f.setTexture()

	return f
}

func (f *ImageFrame) Show(c render.Canvas) {
	f.viewModel.ProcessMessages()
	f.pending = pollPicker(f.pending, f.viewModel.OpenFile)

	f.vmRx.Drain(func(n viewmodels.FrameNotification) {
		switch n {
		case viewmodels.FrameAcceptInput:
			f.acceptInput = f.viewModel.AcceptInput()
		case viewmodels.FrameImage:
			f.setTexture()
		case viewmodels.FrameOpen:
			f.open = f.viewModel.Open()
		case viewmodels.FrameTitle:
			f.title = f.viewModel.Title()
		}
	})

	if !f.open {
		return
	}

	open := c.Window(f.id, f.title, f.open, f.ui)
	f.viewModel.SetOpen(open)
}

func (f *ImageFrame) ui(c render.Canvas) {
	if f.texture != nil {
		c.Image("image", f.texture, render.FitSize(f.texture.Width, f.texture.Height, f.maxSide))
		return
	}

	c.Label("empty", "nothing to show")
	if f.acceptInput && c.Button("open", "Open Image", f.pending == nil && f.picker != nil) {
		f.pending = f.picker.Pick(context.Background())
	}
}

func (f *ImageFrame) setTexture() {
	f.texture = codec.NewTexture(f.viewModel.Image())
	f.textureBuilds++
}

// ID is the canvas id of the frame's window.
func (f *ImageFrame) ID() string { return f.id }
