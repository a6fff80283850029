package viewmodels

import (
	"preview-editor/internal/models"
	"preview-editor/internal/observable"
	"preview-editor/internal/sources"
)

type FrameNotification int

const (
	FrameAcceptInput FrameNotification = iota
	FrameImage
	FrameOpen
	FrameTitle
)

func (n FrameNotification) String() string {
	switch n {
	case FrameAcceptInput:
		return "accept_input"
	case FrameImage:
		return "image"
	case FrameOpen:
		return "open"
	case FrameTitle:
		return "title"
	default:
		return "unknown"
	}
}

// ImageFrame backs one image window, bound to a single cell.
type ImageFrame struct {
	notifications *observable.Broadcaster[FrameNotification]

	// properties
	acceptInput bool
	image       *models.ImageData
	open        bool
	title       string

	// dependencies
	editor Editor
	sub    *observable.Subscription[models.ImageData]
}

// NewImageFrame binds a frame to cell. acceptInput enables the load
// affordance shown while the cell is empty.
func NewImageFrame(title string, acceptInput bool, editor Editor, cell *observable.Cell[models.ImageData], capacity int) *ImageFrame {
	return &ImageFrame{
		notifications: observable.NewBroadcaster[FrameNotification](capacity),
		acceptInput:   acceptInput,
		image:         cell.Get(),
		open:          true,
		title:         title,
		editor:        editor,
		sub:           cell.Subscribe(),
	}
}

func (f *ImageFrame) ProcessMessages() {
	if img, changed := f.sub.Poll(); changed {
		f.SetImage(img)
	}
}

func (f *ImageFrame) Subscribe() *observable.Receiver[FrameNotification] {
	return f.notifications.Subscribe()
}

func (f *ImageFrame) OpenFile(h sources.Handle) { f.editor.LoadNewImage(h) }

func (f *ImageFrame) AcceptInput() bool { return f.acceptInput }

func (f *ImageFrame) Image() *models.ImageData { return f.image }

func (f *ImageFrame) Open() bool { return f.open }

func (f *ImageFrame) Title() string { return f.title }

func (f *ImageFrame) SetAcceptInput(v bool) {
	if f.acceptInput == v {
		return
	}
	f.acceptInput = v
	f.notifications.Publish(FrameAcceptInput)
}

func (f *ImageFrame) SetImage(img *models.ImageData) {
	if f.image == img {
		return
	}
	f.image = img
	f.notifications.Publish(FrameImage)
}

func (f *ImageFrame) SetOpen(v bool) {
	if f.open == v {
		return
	}
	f.open = v
	f.notifications.Publish(FrameOpen)
}

func (f *ImageFrame) SetTitle(title string) {
	if f.title == title {
		return
	}
	f.title = title
	f.notifications.Publish(FrameTitle)
}
