package capture

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Camera reads frames from a video device.
type Camera struct {
	index int
	vc    *gocv.VideoCapture
}

// OpenCamera opens video device index.
func OpenCamera(index int) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("%w: camera %d: %v", ErrDeviceUnavailable, index, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: camera %d did not open", ErrDeviceUnavailable, index)
	}
	return &Camera{index: index, vc: vc}, nil
}

// Read implements Source.
func (c *Camera) Read(dst *gocv.Mat) error {
	if c.vc == nil {
		return fmt.Errorf("%w: camera %d closed", ErrStreamEnded, c.index)
	}
	if ok := c.vc.Read(dst); !ok || dst.Empty() {
		return fmt.Errorf("%w: camera %d returned no frame", ErrStreamEnded, c.index)
	}
	return nil
}

// Close implements Source.
func (c *Camera) Close() error {
	if c.vc == nil {
		return nil
	}
	err := c.vc.Close()
	c.vc = nil
	return err
}

// Name implements Source.
func (c *Camera) Name() string {
	return fmt.Sprintf("camera %d", c.index)
}
