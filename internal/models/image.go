package models

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// ImageData is a decoded image plus the metadata the editor shows with it.
// Once published into a cell it is never modified; transforms produce new values.
type ImageData struct {
	ID       string
	Image    image.Image
	Width    int
	Height   int
	Format   string
	Source   string
	LoadTime time.Time
	// Operation names the transform that produced this image, empty for loaded images.
	Operation string
}

// NewImageData wraps img with a fresh ID and its bounds.
func NewImageData(img image.Image, format, source string) *ImageData {
	bounds := img.Bounds()
	return &ImageData{
		ID:       uuid.NewString(),
		Image:    img,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Format:   format,
		Source:   source,
		LoadTime: time.Now(),
	}
}

// Derive builds the result of applying operation to d.
func (d *ImageData) Derive(img image.Image, operation string) *ImageData {
	derived := NewImageData(img, d.Format, d.Source)
	derived.Operation = operation
	return derived
}

// IsGray reports whether the pixel buffer is single-channel 8-bit.
func (d *ImageData) IsGray() bool {
	if d == nil {
		return false
	}
	_, ok := d.Image.(*image.Gray)
	return ok
}
