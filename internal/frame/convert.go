package frame

import (
	"image"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// ToImage converts a BGR Mat to an *image.RGBA (parallelized by row stripes).
func ToImage(mat gocv.Mat) *image.RGBA {
	h := mat.Rows()
	w := mat.Cols()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := img.Stride

	forStripes(h, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			rowOffset := y * stride
			for x := 0; x < w; x++ {
				off := rowOffset + x*4
				img.Pix[off+0] = mat.GetUCharAt(y, x*3+2)
				img.Pix[off+1] = mat.GetUCharAt(y, x*3+1)
				img.Pix[off+2] = mat.GetUCharAt(y, x*3+0)
				img.Pix[off+3] = 255
			}
		}
	})

	return img
}

// FromImage converts any Go image to a BGR Mat. The caller must Close it.
func FromImage(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	forStripes(h, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 0; x < w; x++ {
				r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
				mat.SetUCharAt(y, x*3+0, uint8(b>>8))
				mat.SetUCharAt(y, x*3+1, uint8(g>>8))
				mat.SetUCharAt(y, x*3+2, uint8(r>>8))
			}
		}
	})

	return mat
}

// forStripes splits [0, rows) into one horizontal stripe per CPU and runs fn
// on each concurrently.
func forStripes(rows int, fn func(yStart, yEnd int)) {
	numWorkers := runtime.NumCPU()
	rowsPerWorker := (rows + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		if startY >= rows {
			break
		}
		endY := min(startY+rowsPerWorker, rows)

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			fn(yStart, yEnd)
		}(startY, endY)
	}
	wg.Wait()
}
