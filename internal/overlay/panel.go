// Package overlay draws the color info panel and the click marker.
package overlay

import (
	"image"
	"image/color"

	"colorpick/internal/classify"
	"colorpick/pkg/colorutil"

	"gocv.io/x/gocv"
)

// Panel dimensions in pixels.
const (
	PanelWidth  = 400
	PanelHeight = 220
)

// Fixed layout. Text positions do not depend on content, so long names can
// run past the right edge of the text box.
var (
	swatchRect  = image.Rect(10, 10, 160, 190)
	textBoxRect = image.Rect(180, 10, 390, 210)
	textX       = 190
	lineY       = [...]int{40, 80, 120, 160, 200}
)

const (
	fontFace      = gocv.FontHersheySimplex
	fontScale     = 0.6
	fontThickness = 2
	borderWidth   = 2
)

// Render builds a new PanelHeight×PanelWidth BGR panel for c. Every call
// allocates a fresh Mat; the caller must Close it.
func Render(c classify.Color) gocv.Mat {
	panel := gocv.NewMatWithSize(PanelHeight, PanelWidth, gocv.MatTypeCV8UC3)
	panel.SetTo(gocv.NewScalar(0, 0, 0, 0))

	// gocv takes RGBA and writes BGR, so the sample goes in as-is.
	gocv.Rectangle(&panel, swatchRect, c.Sample.RGBA(), -1)
	gocv.Rectangle(&panel, swatchRect, colorutil.Gray, borderWidth)
	gocv.Rectangle(&panel, textBoxRect, colorutil.Gray, borderWidth)

	lines := Lines(c)
	for i, text := range lines {
		gocv.PutText(&panel, text, image.Pt(textX, lineY[i]), fontFace, fontScale, colorutil.White, fontThickness)
	}
	return panel
}

// Lines returns the panel text, top to bottom.
func Lines(c classify.Color) [5]string {
	return [5]string{
		"Color Name:",
		c.Name,
		"Color HEX:",
		c.Hex,
		"RGB: " + c.Sample.String(),
	}
}

// DrawMarker draws a cross of the given size centered on pt. Parts of the
// cross outside the frame are clipped by OpenCV.
func DrawMarker(img *gocv.Mat, pt image.Point, size int, c color.RGBA) {
	half := size / 2
	gocv.Line(img, image.Pt(pt.X-half, pt.Y), image.Pt(pt.X+half, pt.Y), c, borderWidth)
	gocv.Line(img, image.Pt(pt.X, pt.Y-half), image.Pt(pt.X, pt.Y+half), c, borderWidth)
}
