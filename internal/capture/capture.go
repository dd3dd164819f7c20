// Package capture provides the frame sources the sampling loop reads from:
// a camera, a still image replayed as a stream, or a screen.
package capture

import (
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"
)

var (
	// ErrDeviceUnavailable is returned when a source cannot be opened.
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	// ErrStreamEnded is returned when a read fails after a successful open.
	ErrStreamEnded = errors.New("capture stream ended")
)

// Source kinds accepted by Open.
const (
	KindCamera = "camera"
	KindImage  = "image"
	KindScreen = "screen"
)

// Source delivers BGR frames.
type Source interface {
	// Read fills dst with the next frame. It blocks until a frame is
	// available and returns an error wrapping ErrStreamEnded on failure.
	Read(dst *gocv.Mat) error
	// Close releases the device. It is safe to call more than once.
	Close() error
	// Name describes the source for logs.
	Name() string
}

// Options selects and configures a Source.
type Options struct {
	Kind        string
	CameraIndex int
	ImagePath   string
	Display     int
	Interval    time.Duration // Pacing for image and screen sources
}

// Open opens the source described by opts.
func Open(opts Options) (Source, error) {
	switch opts.Kind {
	case "", KindCamera:
		return OpenCamera(opts.CameraIndex)
	case KindImage:
		return OpenImage(opts.ImagePath, opts.Interval)
	case KindScreen:
		return OpenScreen(opts.Display, opts.Interval)
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", ErrDeviceUnavailable, opts.Kind)
	}
}

// pacer spaces reads of sources that would otherwise return immediately.
type pacer struct {
	interval time.Duration
	next     time.Time
}

func (p *pacer) wait() {
	if p.interval <= 0 {
		return
	}
	now := time.Now()
	if d := p.next.Sub(now); d > 0 {
		time.Sleep(d)
		now = p.next
	}
	p.next = now.Add(p.interval)
}
