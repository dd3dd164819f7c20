package capture

import (
	"fmt"
	"time"

	"colorpick/internal/frame"

	"github.com/kbinani/screenshot"
	"gocv.io/x/gocv"
)

// Screen grabs frames from an attached display.
type Screen struct {
	display int
	open    bool
	pacer   pacer
}

// OpenScreen checks that display exists. Reads are spaced interval apart.
func OpenScreen(display int, interval time.Duration) (*Screen, error) {
	n := screenshot.NumActiveDisplays()
	if display < 0 || display >= n {
		return nil, fmt.Errorf("%w: display %d (have %d)", ErrDeviceUnavailable, display, n)
	}
	return &Screen{display: display, open: true, pacer: pacer{interval: interval}}, nil
}

// Read implements Source.
func (s *Screen) Read(dst *gocv.Mat) error {
	if !s.open {
		return fmt.Errorf("%w: display %d closed", ErrStreamEnded, s.display)
	}
	s.pacer.wait()

	img, err := screenshot.CaptureDisplay(s.display)
	if err != nil {
		return fmt.Errorf("%w: display %d: %v", ErrStreamEnded, s.display, err)
	}
	mat := frame.FromImage(img)
	defer mat.Close()
	mat.CopyTo(dst)
	return nil
}

// Close implements Source.
func (s *Screen) Close() error {
	s.open = false
	return nil
}

// Name implements Source.
func (s *Screen) Name() string {
	return fmt.Sprintf("display %d", s.display)
}
