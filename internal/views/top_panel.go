// Package views renders view-models onto a render.Canvas once per frame.
package views

import (
	"context"

	"preview-editor/internal/observable"
	"preview-editor/internal/render"
	"preview-editor/internal/sources"
	"preview-editor/internal/viewmodels"
)

// TopPanel is the tool bar with the load, transform and review actions.
type TopPanel struct {
	hasCurrent bool
	hasPreview bool

	picker  sources.Picker
	pending <-chan sources.Handle

	viewModel *viewmodels.TopPanel
	vmRx      *observable.Receiver[viewmodels.TopPanelNotification]
}

func NewTopPanel(viewModel *viewmodels.TopPanel, picker sources.Picker) *TopPanel {
	return &TopPanel{
		hasCurrent: viewModel.HasCurrent(),
		hasPreview: viewModel.HasPreview(),
		picker:     picker,
		viewModel:  viewModel,
		vmRx:       viewModel.Subscribe(),
	}
}

func (p *TopPanel) Show(c render.Canvas) {
	p.viewModel.ProcessMessages()
	p.pending = pollPicker(p.pending, p.viewModel.OpenFile)

	p.vmRx.Drain(func(n viewmodels.TopPanelNotification) {
		switch n {
		case viewmodels.TopHasCurrent:
			p.hasCurrent = p.viewModel.HasCurrent()
		case viewmodels.TopHasPreview:
			p.hasPreview = p.viewModel.HasPreview()
		}
	})

	c.Bar("top-panel", p.ui)
}

func (p *TopPanel) ui(c render.Canvas) {
	if c.Button("open", "open", p.pending == nil && p.picker != nil) {
		p.pending = p.picker.Pick(context.Background())
	}

	c.Separator("transforms")
	for _, t := range p.viewModel.Transforms() {
		if c.Button("transform-"+t.Name, t.Label, p.hasCurrent) {
			p.viewModel.ApplyTransform(t.Name)
		}
	}

	c.Separator("review")
	if c.Button("accept", "accept", p.hasPreview) {
		p.viewModel.AcceptOperation()
	}
	if c.Button("discard", "discard", p.hasPreview) {
		p.viewModel.DiscardOperation()
	}

	c.Separator("reset-group")
	if c.Button("reset", "reset", p.hasCurrent || p.hasPreview) {
		p.viewModel.ResetImages()
	}
}

// pollPicker hands a finished pick to open and reports what is still pending.
func pollPicker(pending <-chan sources.Handle, open func(sources.Handle)) <-chan sources.Handle {
	if pending == nil {
		return nil
	}
	select {
	case h := <-pending:
		open(h)
		return nil
	default:
		return pending
	}
}
