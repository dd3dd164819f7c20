// Package sample averages a neighborhood of frame pixels into one color.
//
// Frames arrive in device (BGR) order. Every value this package returns is in
// RGB order; this is the only place the channel order is flipped.
package sample

import (
	"image"

	"colorpick/pkg/colorutil"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// DefaultRadius is the half-width of the sample window in pixels.
const DefaultRadius = 10

// Result describes one sampled window.
type Result struct {
	Color  colorutil.RGB   // Truncated per-channel mean
	Spread [3]float64      // Population std dev of R, G, B over the window
	Window image.Rectangle // Clamped window actually read
	Pixels int             // Number of pixels averaged
}

// Window returns [x-radius, x+radius) × [y-radius, y+radius) clamped to a
// cols×rows frame. A window that leaves the frame shrinks rather than wraps.
func Window(cols, rows int, pt image.Point, radius int) image.Rectangle {
	win := image.Rect(pt.X-radius, pt.Y-radius, pt.X+radius, pt.Y+radius)
	return win.Intersect(image.Rect(0, 0, cols, rows))
}

// Color returns the mean RGB color of the window around pt.
// pt must lie inside the frame; the caller is responsible for checking.
func Color(frame gocv.Mat, pt image.Point, radius int) colorutil.RGB {
	return Sample(frame, pt, radius).Color
}

// Sample computes the mean color and channel spread of the window around pt.
// Means are truncated toward zero, not rounded. An empty window yields a zero
// Result.
func Sample(frame gocv.Mat, pt image.Point, radius int) Result {
	win := Window(frame.Cols(), frame.Rows(), pt, radius)
	n := win.Dx() * win.Dy()
	if n == 0 {
		return Result{Window: win}
	}

	rs := make([]float64, 0, n)
	gs := make([]float64, 0, n)
	bs := make([]float64, 0, n)
	var rSum, gSum, bSum uint64

	for y := win.Min.Y; y < win.Max.Y; y++ {
		for x := win.Min.X; x < win.Max.X; x++ {
			b := frame.GetUCharAt(y, x*3+0)
			g := frame.GetUCharAt(y, x*3+1)
			r := frame.GetUCharAt(y, x*3+2)
			rSum += uint64(r)
			gSum += uint64(g)
			bSum += uint64(b)
			rs = append(rs, float64(r))
			gs = append(gs, float64(g))
			bs = append(bs, float64(b))
		}
	}

	count := uint64(n)
	res := Result{
		Color: colorutil.RGB{
			R: uint8(rSum / count),
			G: uint8(gSum / count),
			B: uint8(bSum / count),
		},
		Window: win,
		Pixels: n,
	}
	_, res.Spread[0] = stat.PopMeanStdDev(rs, nil)
	_, res.Spread[1] = stat.PopMeanStdDev(gs, nil)
	_, res.Spread[2] = stat.PopMeanStdDev(bs, nil)
	return res
}
