// Package codec turns encoded bytes into ImageData and ImageData into textures.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"preview-editor/internal/models"
	"preview-editor/internal/render"
)

// ErrDecode is returned when bytes are not an image in a registered format.
var ErrDecode = errors.New("decode image")

var supportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// SupportedExtensions lists the file extensions the picker should offer.
func SupportedExtensions() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}

// Decode decodes data. source is the name of the byte source and only used
// for metadata and as a format hint.
func Decode(data []byte, source string) (*models.ImageData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return models.NewImageData(img, determineFormat(filepath.Ext(source), format), source), nil
}

func determineFormat(extension, detected string) string {
	if detected != "" {
		return detected
	}
	switch strings.ToLower(extension) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tif", ".tiff":
		return "tiff"
	case "":
		return "unknown"
	default:
		return strings.TrimPrefix(strings.ToLower(extension), ".")
	}
}

// NewTexture encodes img for display. It returns nil for an empty slot.
func NewTexture(img *models.ImageData) *render.Texture {
	if img == nil || img.Image == nil {
		return nil
	}

	bounds := img.Image.Bounds()
	pixels, ok := img.Image.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		pixels = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(pixels, pixels.Bounds(), img.Image, bounds.Min, draw.Src)
	}

	return &render.Texture{
		Pixels: pixels,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Source: img.ID,
	}
}
