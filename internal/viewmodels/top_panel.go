package viewmodels

import (
	"preview-editor/internal/models"
	"preview-editor/internal/observable"
	"preview-editor/internal/operations"
	"preview-editor/internal/sources"
)

type TopPanelNotification int

const (
	TopHasCurrent TopPanelNotification = iota
	TopHasPreview
)

func (n TopPanelNotification) String() string {
	switch n {
	case TopHasCurrent:
		return "has_current"
	case TopHasPreview:
		return "has_preview"
	default:
		return "unknown"
	}
}

// TopPanel backs the tool bar: which actions are available and what they do.
type TopPanel struct {
	notifications *observable.Broadcaster[TopPanelNotification]

	// properties
	hasCurrent bool
	hasPreview bool

	// dependencies
	editor     Editor
	transforms *operations.Registry
	currentSub *observable.Subscription[models.ImageData]
	previewSub *observable.Subscription[models.ImageData]
}

func NewTopPanel(editor Editor, transforms *operations.Registry, capacity int) *TopPanel {
	if transforms == nil {
		transforms = operations.DefaultRegistry()
	}

	return &TopPanel{
		notifications: observable.NewBroadcaster[TopPanelNotification](capacity),
		hasCurrent:    editor.Current().Get() != nil,
		hasPreview:    editor.Preview().Get() != nil,
		editor:        editor,
		transforms:    transforms,
		currentSub:    editor.Current().Subscribe(),
		previewSub:    editor.Preview().Subscribe(),
	}
}

// ProcessMessages folds pending model changes into the cached properties.
// Call it once per frame before reading any getter.
func (p *TopPanel) ProcessMessages() {
	if current, changed := p.currentSub.Poll(); changed {
		p.setHasCurrent(current != nil)
	}
	if preview, changed := p.previewSub.Poll(); changed {
		p.setHasPreview(preview != nil)
	}
}

func (p *TopPanel) Subscribe() *observable.Receiver[TopPanelNotification] {
	return p.notifications.Subscribe()
}

func (p *TopPanel) HasCurrent() bool { return p.hasCurrent }

func (p *TopPanel) HasPreview() bool { return p.hasPreview }

func (p *TopPanel) Transforms() []operations.Named {
	return p.transforms.All()
}

// ApplyTransform previews the named transform. It reports false for unknown names.
func (p *TopPanel) ApplyTransform(name string) bool {
	t, ok := p.transforms.Lookup(name)
	if !ok {
		return false
	}
	p.editor.ApplyTransform(t.Name, t.Apply)
	return true
}

func (p *TopPanel) AcceptOperation() { p.editor.AcceptOperation() }

func (p *TopPanel) DiscardOperation() { p.editor.DiscardOperation() }

func (p *TopPanel) ResetImages() { p.editor.Reset(nil) }

func (p *TopPanel) OpenFile(h sources.Handle) { p.editor.LoadNewImage(h) }

func (p *TopPanel) setHasCurrent(v bool) {
	if p.hasCurrent == v {
		return
	}
	p.hasCurrent = v
	p.notifications.Publish(TopHasCurrent)
}

func (p *TopPanel) setHasPreview(v bool) {
	if p.hasPreview == v {
		return
	}
	p.hasPreview = v
	p.notifications.Publish(TopHasPreview)
}
