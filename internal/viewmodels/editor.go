// Package viewmodels caches the UI-facing state each view renders from and
// forwards user intents to the image service.
//
// View-models are owned by the render loop: ProcessMessages, the getters and
// the setters must all be called from that goroutine.
package viewmodels

import (
	"preview-editor/internal/models"
	"preview-editor/internal/observable"
	"preview-editor/internal/operations"
	"preview-editor/internal/sources"
)

// Editor is the part of the image service the view-models drive.
type Editor interface {
	Current() *observable.Cell[models.ImageData]
	Preview() *observable.Cell[models.ImageData]
	LoadNewImage(h sources.Handle)
	ApplyTransform(name string, fn operations.Transform)
	AcceptOperation()
	DiscardOperation()
	Reset(img *models.ImageData)
}
