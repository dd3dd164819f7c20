package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"

	"colorpick/internal/capture"
	"colorpick/internal/frame"
	"colorpick/internal/overlay"
	"colorpick/pkg/colorutil"

	"gocv.io/x/gocv"
)

func solidBGR(rows, cols int, c color.RGBA) gocv.Mat {
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0))
	return m
}

type fakeSource struct {
	frame  gocv.Mat
	frames int // Frames left; negative means unlimited
	reads  int
	closed int
}

func (f *fakeSource) Read(dst *gocv.Mat) error {
	if f.closed > 0 {
		return fmt.Errorf("%w: closed", capture.ErrStreamEnded)
	}
	if f.frames == 0 {
		return fmt.Errorf("%w: no more frames", capture.ErrStreamEnded)
	}
	if f.frames > 0 {
		f.frames--
	}
	f.reads++
	f.frame.CopyTo(dst)
	return nil
}

func (f *fakeSource) Close() error { f.closed++; return nil }
func (f *fakeSource) Name() string { return "fake" }

type fakeDisplay struct {
	mu        sync.Mutex
	frames    []*image.RGBA
	panels    []*image.RGBA
	polls     int
	quitAfter int // Poll number that reports the quit key; 0 never
	closed    int
	onShow    func(n int)
}

func (d *fakeDisplay) ShowFrame(m gocv.Mat) {
	d.mu.Lock()
	d.frames = append(d.frames, frame.ToImage(m))
	n := len(d.frames)
	d.mu.Unlock()
	if d.onShow != nil {
		d.onShow(n)
	}
}

func (d *fakeDisplay) ShowPanel(m gocv.Mat) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.panels = append(d.panels, frame.ToImage(m))
}

func (d *fakeDisplay) PollKey() (rune, bool) {
	d.polls++
	if d.quitAfter > 0 && d.polls >= d.quitAfter {
		return 'x', true
	}
	return 'a', true
}

func (d *fakeDisplay) Close() { d.closed++ }

func newTestLoop(src capture.Source, d *fakeDisplay) *Loop {
	return NewLoop(src, d, nil, DefaultSettings(), 'x')
}

func TestStepSolidRed(t *testing.T) {
	d := &fakeDisplay{}
	l := newTestLoop(&fakeSource{}, d)

	raw := solidBGR(21, 21, color.RGBA{R: 255, A: 255})
	defer raw.Close()

	l.Click(10, 10)
	pick, err := l.Step(raw)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if pick == nil {
		t.Fatal("no pick for a pending click")
	}
	if pick.Color.Sample != (colorutil.RGB{R: 255}) || pick.Color.Hex != "#ff0000" || pick.Color.Name != "red" {
		t.Errorf("pick = %+v", pick.Color)
	}
	if pick.Stats.Pixels != 400 {
		t.Errorf("window pixels = %d, want 400", pick.Stats.Pixels)
	}
	if len(d.panels) != 1 || len(d.frames) != 1 {
		t.Fatalf("panels=%d frames=%d, want 1 and 1", len(d.panels), len(d.frames))
	}
	if b := d.panels[0].Bounds(); b.Dx() != overlay.PanelWidth || b.Dy() != overlay.PanelHeight {
		t.Errorf("panel bounds = %v", b)
	}
	if l.Phase() != Idle {
		t.Errorf("phase = %v after sampling", l.Phase())
	}

	// No new click: frame shown, no new panel.
	pick, err = l.Step(raw)
	if err != nil || pick != nil {
		t.Errorf("second Step = %v, %v", pick, err)
	}
	if len(d.panels) != 1 || len(d.frames) != 2 {
		t.Errorf("panels=%d frames=%d after idle step", len(d.panels), len(d.frames))
	}
}

func TestStepOutOfBounds(t *testing.T) {
	d := &fakeDisplay{}
	l := newTestLoop(&fakeSource{}, d)

	var rejected []image.Point
	l.On(EventClickRejected, func(data interface{}) {
		rejected = append(rejected, data.(image.Point))
	})

	raw := solidBGR(10, 21, color.RGBA{G: 255, A: 255})
	defer raw.Close()

	for _, pt := range []image.Point{{21, 5}, {-1, 0}, {3, 10}} {
		l.Click(pt.X, pt.Y)
		pick, err := l.Step(raw)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("click %v: err = %v, want ErrOutOfBounds", pt, err)
		}
		if pick != nil {
			t.Errorf("click %v produced a pick", pt)
		}
		if l.Phase() != Idle {
			t.Errorf("click %v: phase = %v", pt, l.Phase())
		}
	}
	if len(d.panels) != 0 {
		t.Errorf("%d panels for rejected clicks", len(d.panels))
	}
	if len(rejected) != 3 {
		t.Errorf("rejected events = %v", rejected)
	}
}

func TestStepMarkerOnDisplayFrameOnly(t *testing.T) {
	d := &fakeDisplay{}
	l := newTestLoop(&fakeSource{}, d)

	blue := color.RGBA{B: 255, A: 255}
	l.Click(20, 20)

	raw := solidBGR(40, 40, blue)
	pick, err := l.Step(raw)
	raw.Close()
	if err != nil {
		t.Fatal(err)
	}
	if pick.Color.Sample != (colorutil.RGB{B: 255}) {
		t.Errorf("marker leaked into the sample: %v", pick.Color.Sample)
	}
	if got := d.frames[0].RGBAAt(20, 20); got != colorutil.Green {
		t.Errorf("display pixel under marker = %v, want green", got)
	}

	// Marker stays on later frames without a new sample.
	raw = solidBGR(40, 40, blue)
	defer raw.Close()
	if pick, _ := l.Step(raw); pick != nil {
		t.Error("unexpected pick without a click")
	}
	if got := d.frames[1].RGBAAt(20, 20); got != colorutil.Green {
		t.Errorf("marker missing on later frame: %v", got)
	}
	if got := d.frames[1].RGBAAt(2, 2); got != blue {
		t.Errorf("pixel away from marker = %v", got)
	}
}

func TestClickDuringProcessingIsKept(t *testing.T) {
	d := &fakeDisplay{}
	l := newTestLoop(&fakeSource{}, d)

	raw := solidBGR(30, 30, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	defer raw.Close()

	var picks []image.Point
	l.On(EventSampled, func(data interface{}) {
		p := data.(*Pick)
		picks = append(picks, p.Point)
		if len(picks) == 1 {
			// Arrives after the first click was taken, before the iteration ends.
			l.Click(3, 4)
		}
	})

	l.Click(15, 15)
	if _, err := l.Step(raw); err != nil {
		t.Fatal(err)
	}
	if l.Phase() != SampleRequested {
		t.Fatalf("phase = %v, second click lost", l.Phase())
	}
	if _, err := l.Step(raw); err != nil {
		t.Fatal(err)
	}
	if len(picks) != 2 || picks[1] != image.Pt(3, 4) {
		t.Errorf("picks = %v", picks)
	}
	if len(d.panels) != 2 {
		t.Errorf("panels = %d, want one per processed click", len(d.panels))
	}
}

func TestApplySettings(t *testing.T) {
	l := newTestLoop(&fakeSource{}, &fakeDisplay{})

	var changed int
	l.On(EventSettingsChanged, func(interface{}) { changed++ })

	s := DefaultSettings()
	s.Kernel = 4
	l.ApplySettings(s)
	if changed != 1 {
		t.Errorf("settings events = %d", changed)
	}

	raw := solidBGR(8, 8, color.RGBA{A: 255})
	defer raw.Close()
	if _, err := l.Step(raw); !errors.Is(err, frame.ErrInvalidKernel) {
		t.Errorf("Step with even kernel: err = %v", err)
	}
}

func TestRunStreamEnded(t *testing.T) {
	src := &fakeSource{frame: solidBGR(12, 12, color.RGBA{R: 9, A: 255}), frames: 3}
	defer src.frame.Close()
	d := &fakeDisplay{}
	l := newTestLoop(src, d)

	err := l.Run(context.Background())
	if !errors.Is(err, capture.ErrStreamEnded) {
		t.Fatalf("Run = %v, want ErrStreamEnded", err)
	}
	if len(d.frames) != 3 {
		t.Errorf("frames shown = %d, want 3", len(d.frames))
	}
	if src.closed != 1 || d.closed != 1 {
		t.Errorf("closed source=%d display=%d, want 1 each", src.closed, d.closed)
	}
}

func TestRunQuitKey(t *testing.T) {
	src := &fakeSource{frame: solidBGR(12, 12, color.RGBA{R: 9, A: 255}), frames: -1}
	defer src.frame.Close()
	d := &fakeDisplay{quitAfter: 3}
	l := newTestLoop(src, d)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if src.reads != 3 {
		t.Errorf("reads = %d, want 3 (other keys must not quit)", src.reads)
	}

	l.Close()
	if src.closed != 1 || d.closed != 1 {
		t.Errorf("closed source=%d display=%d, want 1 each", src.closed, d.closed)
	}
}

func TestRunSamplesClickFromDisplay(t *testing.T) {
	src := &fakeSource{frame: solidBGR(21, 21, color.RGBA{R: 255, A: 255}), frames: -1}
	defer src.frame.Close()
	d := &fakeDisplay{quitAfter: 4}
	l := newTestLoop(src, d)
	d.onShow = func(n int) {
		if n == 2 {
			l.Click(10, 10)
		}
	}

	var picks []*Pick
	l.On(EventSampled, func(data interface{}) { picks = append(picks, data.(*Pick)) })

	if err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(picks) != 1 || len(d.panels) != 1 {
		t.Fatalf("picks=%d panels=%d, want 1 each", len(picks), len(d.panels))
	}
	if picks[0].Color.Hex != "#ff0000" {
		t.Errorf("hex = %q", picks[0].Color.Hex)
	}
}

func TestRunCancelled(t *testing.T) {
	src := &fakeSource{frame: solidBGR(4, 4, color.RGBA{A: 255}), frames: -1}
	defer src.frame.Close()
	d := &fakeDisplay{}
	l := newTestLoop(src, d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if src.reads != 0 || src.closed != 1 || d.closed != 1 {
		t.Errorf("reads=%d closed=%d/%d", src.reads, src.closed, d.closed)
	}
}
