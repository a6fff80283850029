package opencv

import (
	"image"

	"gocv.io/x/gocv"

	"preview-editor/internal/operations"
)

// OtsuThreshold binarises a grayscale image with an automatically chosen threshold.
func OtsuThreshold(img image.Image) (image.Image, bool) {
	return applyGray(img, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Threshold(src, dst, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	})
}

// Equalize spreads the luma histogram of a grayscale image.
func Equalize(img image.Image) (image.Image, bool) {
	return applyGray(img, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.EqualizeHist(src, dst)
	})
}

// Denoise removes salt-and-pepper noise from a grayscale image with a 3x3 median.
func Denoise(img image.Image) (image.Image, bool) {
	return applyGray(img, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.MedianBlur(src, dst, 3)
	})
}

// Register adds the OpenCV transforms to r.
func Register(r *operations.Registry) error {
	if err := r.Register(operations.Named{Name: "otsu", Label: "otsu threshold", Apply: OtsuThreshold}); err != nil {
		return err
	}
	if err := r.Register(operations.Named{Name: "equalize", Label: "equalize", Apply: Equalize}); err != nil {
		return err
	}
	return r.Register(operations.Named{Name: "denoise", Label: "denoise", Apply: Denoise})
}

func applyGray(img image.Image, op func(src gocv.Mat, dst *gocv.Mat)) (image.Image, bool) {
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, false
	}

	src, err := GrayToMat(gray)
	if err != nil {
		return nil, false
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	op(src, &dst)

	out, err := MatToGray(dst)
	if err != nil {
		return nil, false
	}
	return out, true
}
