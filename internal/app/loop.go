package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"

	"colorpick/internal/capture"
	"colorpick/internal/classify"
	"colorpick/internal/colorname"
	"colorpick/internal/config"
	"colorpick/internal/frame"
	"colorpick/internal/overlay"
	"colorpick/internal/report"
	"colorpick/internal/sample"
	"colorpick/pkg/colorutil"

	"gocv.io/x/gocv"
)

// ErrOutOfBounds marks a click outside the current frame. The loop logs it
// and carries on.
var ErrOutOfBounds = errors.New("click outside frame")

// Display shows frames and panels and reports key presses. Implementations
// must not keep the Mats they are given past the call.
type Display interface {
	ShowFrame(frame gocv.Mat)
	ShowPanel(panel gocv.Mat)
	// PollKey returns the next pending key press without blocking.
	PollKey() (rune, bool)
	Close()
}

// Settings are the sampling parameters that may change while running.
type Settings struct {
	Kernel     int
	Radius     int
	MarkerSize int
	Classifier *classify.Classifier
}

// NewSettings builds Settings from a validated config.
func NewSettings(cfg *config.Config) (Settings, error) {
	namer, err := colorname.New(cfg.Naming)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Kernel:     cfg.DenoiseKernel,
		Radius:     cfg.SampleRadius,
		MarkerSize: cfg.MarkerSize,
		Classifier: classify.New(namer),
	}, nil
}

// DefaultSettings returns Settings built from config.DefaultConfig.
func DefaultSettings() Settings {
	s, _ := NewSettings(config.DefaultConfig())
	return s
}

// Pick is one processed click.
type Pick struct {
	Point image.Point
	Color classify.Color
	Stats sample.Result
}

// Loop drives capture, sampling and display. It owns the source and the
// display and releases both exactly once, whichever way Run returns.
type Loop struct {
	listeners

	src     capture.Source
	display Display
	printer *report.Printer
	quitKey rune

	state     State
	settings  atomic.Pointer[Settings]
	closeOnce sync.Once
}

// NewLoop wires a loop. printer may be nil.
func NewLoop(src capture.Source, display Display, printer *report.Printer, settings Settings, quitKey rune) *Loop {
	l := &Loop{
		src:     src,
		display: display,
		printer: printer,
		quitKey: quitKey,
	}
	l.settings.Store(&settings)
	return l
}

// Click is the pointer-down handler. It may be called from any goroutine.
func (l *Loop) Click(x, y int) {
	l.state.Request(image.Pt(x, y))
}

// Phase reports the click state.
func (l *Loop) Phase() Phase {
	return l.state.Phase()
}

// ApplySettings replaces the sampling settings from the next frame on.
func (l *Loop) ApplySettings(s Settings) {
	l.settings.Store(&s)
	l.Emit(EventSettingsChanged, s)
}

// Run reads frames until the quit key, ctx cancellation or a read failure.
// It returns nil on a normal quit and an error wrapping
// capture.ErrStreamEnded when the source stops delivering frames.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()

	raw := gocv.NewMat()
	defer raw.Close()

	for {
		if ctx.Err() != nil {
			log.Printf("Loop: stopped")
			return nil
		}

		if err := l.src.Read(&raw); err != nil {
			log.Printf("Loop: %s: %v", l.src.Name(), err)
			return err
		}

		if _, err := l.Step(raw); err != nil {
			if !errors.Is(err, ErrOutOfBounds) {
				return err
			}
			log.Printf("Loop: %v", err)
		}

		if key, ok := l.display.PollKey(); ok && key == l.quitKey {
			log.Printf("Loop: quit key %q pressed", key)
			return nil
		}
	}
}

// Step processes one captured frame. raw is the display frame: the click
// marker is drawn onto it. When a click is pending it is sampled from the
// denoised copy and the info panel is shown; the returned Pick is nil
// otherwise. A pending click outside the frame is dropped with an error
// wrapping ErrOutOfBounds.
func (l *Loop) Step(raw gocv.Mat) (*Pick, error) {
	s := l.settings.Load()

	denoised, err := frame.Denoise(raw, s.Kernel)
	if err != nil {
		denoised.Close()
		return nil, fmt.Errorf("denoise: %w", err)
	}
	defer denoised.Close()

	if pt, ok := l.state.Marker(); ok {
		overlay.DrawMarker(&raw, pt, s.MarkerSize, colorutil.Green)
	}
	l.display.ShowFrame(raw)

	pt, ok := l.state.Consume()
	if !ok {
		return nil, nil
	}

	if !pt.In(image.Rect(0, 0, denoised.Cols(), denoised.Rows())) {
		l.Emit(EventClickRejected, pt)
		return nil, fmt.Errorf("%w: (%d, %d) not in %dx%d", ErrOutOfBounds, pt.X, pt.Y, denoised.Cols(), denoised.Rows())
	}

	stats := sample.Sample(denoised, pt, s.Radius)
	pick := &Pick{
		Point: pt,
		Color: s.Classifier.Classify(stats.Color),
		Stats: stats,
	}

	if l.printer != nil {
		if err := l.printer.Sample(pt, pick.Color, stats); err != nil {
			log.Printf("Loop: report: %v", err)
		}
	}

	panel := overlay.Render(pick.Color)
	l.display.ShowPanel(panel)
	panel.Close()

	l.Emit(EventSampled, pick)
	return pick, nil
}

// Close releases the source and the display. Only the first call has effect.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		if err := l.src.Close(); err != nil {
			log.Printf("Loop: closing %s: %v", l.src.Name(), err)
		}
		l.display.Close()
	})
}
