// Package mainwindow provides the two application windows: the live video
// feed and the color info panel. Together they implement app.Display.
package mainwindow

import (
	"fmt"
	"image"
	"log"
	"sync"

	"colorpick/internal/app"
	"colorpick/internal/frame"
	"colorpick/internal/overlay"
	"colorpick/ui/canvas"
	"colorpick/ui/prefs"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"gocv.io/x/gocv"
)

const (
	feedTitle = "Video Feed"
	infoTitle = "Color Info"

	prefKeyFeed = "feed"
	keyBuffer   = 16
)

var _ app.Display = (*MainWindow)(nil)

// MainWindow is the video feed window plus the lazily shown info window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	prefs *prefs.Prefs

	feed      *canvas.FrameCanvas
	statusBar *widget.Label

	info      fyne.Window
	panel     *fynecanvas.Image
	infoMu    sync.Mutex
	infoShown bool

	keys      chan rune
	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
}

// New creates the windows. Call Show to display the feed.
func New(fyneApp fyne.App, p *prefs.Prefs) *MainWindow {
	fyneApp.Settings().SetTheme(&Theme{})

	mw := &MainWindow{
		Window: fyneApp.NewWindow(feedTitle),
		app:    fyneApp,
		prefs:  p,
		keys:   make(chan rune, keyBuffer),
		done:   make(chan struct{}),
	}

	mw.setupUI()
	mw.setupEventHandlers()
	return mw
}

func (mw *MainWindow) setupUI() {
	mw.feed = canvas.NewFrameCanvas()
	mw.statusBar = widget.NewLabel("Click the video to sample a color")

	mw.SetContent(container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.feed,                           // center
	))

	w, h := mw.prefs.WindowSize(prefKeyFeed, 660, 540)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))

	mw.info = mw.app.NewWindow(infoTitle)
	mw.panel = fynecanvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, overlay.PanelWidth, overlay.PanelHeight)))
	mw.panel.FillMode = fynecanvas.ImageFillOriginal
	mw.panel.ScaleMode = fynecanvas.ImageScalePixels
	mw.info.SetContent(mw.panel)
	mw.info.SetFixedSize(true)
	// Closing the panel only hides it; the next sample brings it back.
	mw.info.SetCloseIntercept(func() {
		mw.infoMu.Lock()
		mw.infoShown = false
		mw.infoMu.Unlock()
		mw.info.Hide()
	})
}

func (mw *MainWindow) setupEventHandlers() {
	mw.Canvas().SetOnTypedRune(func(r rune) {
		select {
		case mw.keys <- r:
		default:
		}
	})
	mw.SetCloseIntercept(mw.requestClose)
}

// OnPointerDown routes primary-button presses on the feed to callback, in
// frame pixel coordinates.
func (mw *MainWindow) OnPointerDown(callback func(x, y int)) {
	mw.feed.OnPointerDown(callback)
}

// Watch mirrors loop events in the status bar.
func (mw *MainWindow) Watch(loop *app.Loop) {
	loop.On(app.EventSampled, func(data interface{}) {
		p := data.(*app.Pick)
		mw.statusBar.SetText(fmt.Sprintf("(%d, %d)  %s  %s  RGB %s",
			p.Point.X, p.Point.Y, p.Color.Name, p.Color.Hex, p.Color.Sample))
	})
	loop.On(app.EventClickRejected, func(data interface{}) {
		pt := data.(image.Point)
		mw.statusBar.SetText(fmt.Sprintf("(%d, %d) is outside the frame", pt.X, pt.Y))
	})
	loop.On(app.EventSettingsChanged, func(data interface{}) {
		s := data.(app.Settings)
		mw.statusBar.SetText(fmt.Sprintf("Settings reloaded: radius %d, median %d", s.Radius, s.Kernel))
	})
}

// Done is closed when the user closes the feed window.
func (mw *MainWindow) Done() <-chan struct{} {
	return mw.done
}

func (mw *MainWindow) requestClose() {
	mw.doneOnce.Do(func() { close(mw.done) })
}

// ShowFrame implements app.Display.
func (mw *MainWindow) ShowFrame(m gocv.Mat) {
	mw.feed.SetFrame(frame.ToImage(m))
}

// ShowPanel implements app.Display. The info window appears with the first
// panel and keeps showing the latest one until the next sample replaces it.
func (mw *MainWindow) ShowPanel(m gocv.Mat) {
	mw.panel.Image = frame.ToImage(m)
	mw.panel.Refresh()

	mw.infoMu.Lock()
	show := !mw.infoShown
	mw.infoShown = true
	mw.infoMu.Unlock()
	if show {
		mw.info.Show()
	}
}

// PollKey implements app.Display.
func (mw *MainWindow) PollKey() (rune, bool) {
	select {
	case r := <-mw.keys:
		return r, true
	default:
		return 0, false
	}
}

// Close implements app.Display: it saves the feed window size, closes both
// windows and stops the fyne event loop. Only the first call has effect.
func (mw *MainWindow) Close() {
	mw.closeOnce.Do(func() {
		size := mw.Canvas().Size()
		if size.Width > 0 && size.Height > 0 {
			mw.prefs.SetWindowSize(prefKeyFeed, float64(size.Width), float64(size.Height))
			if err := mw.prefs.Save(); err != nil {
				log.Printf("Preferences: save failed: %v", err)
			}
		}
		mw.requestClose()
		mw.info.Close()
		mw.Window.Close()
		mw.app.Quit()
	})
}
