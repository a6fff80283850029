// Package opencv provides gocv-backed transforms for grayscale images.
package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// GrayToMat copies a grayscale image into a single-channel Mat. The caller closes it.
func GrayToMat(img *image.Gray) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return gocv.NewMat(), fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}

	data := make([]byte, 0, width*height)
	for y := 0; y < height; y++ {
		start := y * img.Stride
		data = append(data, img.Pix[start:start+width]...)
	}

	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC1, data)
	if err != nil {
		return mat, fmt.Errorf("mat creation failed: %w", err)
	}
	return mat, nil
}

// MatToGray converts a single-channel Mat back into a grayscale image.
func MatToGray(mat gocv.Mat) (*image.Gray, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("mat is empty")
	}
	if mat.Channels() != 1 {
		return nil, fmt.Errorf("unsupported channel count: %d", mat.Channels())
	}

	out := image.NewGray(image.Rect(0, 0, mat.Cols(), mat.Rows()))
	data := mat.ToBytes()
	for y := 0; y < mat.Rows(); y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+mat.Cols()], data[y*mat.Cols():(y+1)*mat.Cols()])
	}
	return out, nil
}
