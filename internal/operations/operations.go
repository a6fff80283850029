// Package operations contains the pure pixel transforms the editor previews.
package operations

import (
	"image"
	"image/color"
	"math"
)

// Transform maps an image to a new image. It must not modify its input and
// may decline by returning false, e.g. when the input has the wrong color format.
type Transform func(img image.Image) (image.Image, bool)

// Luma weights used by Grayscale.
const (
	redWeight   = 0.3
	greenWeight = 0.59
	blueWeight  = 0.11
)

// Grayscale converts any image to 8-bit luma.
func Grayscale(img image.Image) (image.Image, bool) {
	if img == nil {
		return nil, false
	}

	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := (y - bounds.Min.Y) * out.Stride
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			v := redWeight*float32(c.R) + greenWeight*float32(c.G) + blueWeight*float32(c.B)
			out.Pix[row+x-bounds.Min.X] = uint8(math.Min(255, math.Round(float64(v))))
		}
	}

	return out, true
}

// Invert flips every luma value. Only 8-bit grayscale input is accepted.
func Invert(img image.Image) (image.Image, bool) {
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, false
	}

	out := &image.Gray{
		Pix:    make([]uint8, len(gray.Pix)),
		Stride: gray.Stride,
		Rect:   gray.Rect,
	}
	for i, v := range gray.Pix {
		out.Pix[i] = 255 - v
	}

	return out, true
}
