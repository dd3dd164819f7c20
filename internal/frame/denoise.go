// Package frame holds the per-frame image operations that run before sampling:
// impulse-noise removal and conversion between gocv Mats and Go images.
//
// Frames are BGR gocv.Mats (CV_8UC3), the order the capture device delivers.
package frame

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// DefaultKernel is the median window used when none is configured.
const DefaultKernel = 5

var (
	// ErrInvalidKernel is returned for a non-positive or even median window.
	ErrInvalidKernel = errors.New("median kernel must be odd and positive")
	// ErrEmptyFrame is returned when there is nothing to filter.
	ErrEmptyFrame = errors.New("empty frame")
)

// Denoise applies a ksize×ksize median filter to src and returns a new Mat of
// the same size and type. src is not modified. The caller owns the result and
// must Close it.
func Denoise(src gocv.Mat, ksize int) (gocv.Mat, error) {
	if ksize <= 0 || ksize%2 == 0 {
		return gocv.NewMat(), fmt.Errorf("%w: got %d", ErrInvalidKernel, ksize)
	}
	if src.Empty() {
		return gocv.NewMat(), ErrEmptyFrame
	}

	dst := gocv.NewMat()
	gocv.MedianBlur(src, &dst, ksize)
	return dst, nil
}
