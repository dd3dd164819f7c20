// Package canvas provides the live video widget: it shows the latest frame
// and reports primary-button presses in frame pixel coordinates.
package canvas

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// FrameCanvas displays frames stretched to the widget size.
type FrameCanvas struct {
	widget.BaseWidget

	mu     sync.Mutex
	frame  *image.RGBA
	raster *fynecanvas.Raster

	onPointerDown func(x, y int)
}

var _ desktop.Mouseable = (*FrameCanvas)(nil)

// NewFrameCanvas creates an empty canvas.
func NewFrameCanvas() *FrameCanvas {
	fc := &FrameCanvas{}
	fc.raster = fynecanvas.NewRaster(fc.draw)
	fc.raster.ScaleMode = fynecanvas.ImageScalePixels
	fc.raster.SetMinSize(fyne.NewSize(320, 240))
	fc.ExtendBaseWidget(fc)
	return fc
}

// OnPointerDown sets the handler for primary-button presses. It is called on
// the fyne event goroutine.
func (fc *FrameCanvas) OnPointerDown(callback func(x, y int)) {
	fc.mu.Lock()
	fc.onPointerDown = callback
	fc.mu.Unlock()
}

// SetFrame replaces the displayed frame. The canvas keeps img; callers must
// not modify it afterwards.
func (fc *FrameCanvas) SetFrame(img *image.RGBA) {
	fc.mu.Lock()
	resized := fc.frame == nil || fc.frame.Bounds() != img.Bounds()
	fc.frame = img
	fc.mu.Unlock()

	if resized {
		b := img.Bounds()
		fc.raster.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	}
	fc.raster.Refresh()
}

func (fc *FrameCanvas) draw(w, h int) image.Image {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.frame == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return fc.frame
}

// MouseDown implements desktop.Mouseable.
func (fc *FrameCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}

	fc.mu.Lock()
	cb := fc.onPointerDown
	var bounds image.Rectangle
	if fc.frame != nil {
		bounds = fc.frame.Bounds()
	}
	fc.mu.Unlock()

	if cb == nil || bounds.Empty() {
		return
	}
	pt := ToFramePixel(ev.Position, fc.Size(), bounds.Dx(), bounds.Dy())
	cb(pt.X, pt.Y)
}

// MouseUp implements desktop.Mouseable.
func (fc *FrameCanvas) MouseUp(*desktop.MouseEvent) {}

// ToFramePixel maps a widget position to frame pixel coordinates for a
// frame of frameW×frameH stretched over size. Positions on or past the far
// edge map outside the frame and are left for the caller to reject.
func ToFramePixel(pos fyne.Position, size fyne.Size, frameW, frameH int) image.Point {
	if size.Width <= 0 || size.Height <= 0 {
		return image.Pt(-1, -1)
	}
	x := float64(pos.X) * float64(frameW) / float64(size.Width)
	y := float64(pos.Y) * float64(frameH) / float64(size.Height)
	return image.Pt(floor(x), floor(y))
}

func floor(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

// CreateRenderer implements fyne.Widget.
func (fc *FrameCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &frameCanvasRenderer{canvas: fc}
}

type frameCanvasRenderer struct {
	canvas *FrameCanvas
}

func (r *frameCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *frameCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *frameCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *frameCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *frameCanvasRenderer) Destroy() {}
