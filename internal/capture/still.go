package capture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"colorpick/internal/frame"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Still replays one decoded image as a stream of identical frames.
type Still struct {
	path  string
	mat   gocv.Mat
	open  bool
	pacer pacer
}

// OpenImage decodes the image at path (PNG, JPEG, TIFF or BMP). Reads are
// spaced interval apart.
func OpenImage(path string, interval time.Duration) (*Still, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	return &Still{
		path:  path,
		mat:   frame.FromImage(img),
		open:  true,
		pacer: pacer{interval: interval},
	}, nil
}

// LoadImage decodes an image file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: empty image", path)
	}
	return img, nil
}

// Read implements Source.
func (s *Still) Read(dst *gocv.Mat) error {
	if !s.open {
		return fmt.Errorf("%w: %s closed", ErrStreamEnded, s.path)
	}
	s.pacer.wait()
	s.mat.CopyTo(dst)
	return nil
}

// Close implements Source.
func (s *Still) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	return s.mat.Close()
}

// Name implements Source.
func (s *Still) Name() string {
	return "image " + s.path
}
