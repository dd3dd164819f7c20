package capture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"
	"golang.org/x/image/tiff"
)

func writeTestImage(t *testing.T, name string, encode func(*os.File, image.Image) error) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStillReadsFrames(t *testing.T) {
	encoders := map[string]func(*os.File, image.Image) error{
		"frame.png": func(f *os.File, img image.Image) error { return png.Encode(f, img) },
		"frame.tif": func(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) },
	}
	for name, enc := range encoders {
		path := writeTestImage(t, name, enc)

		src, err := Open(Options{Kind: KindImage, ImagePath: path})
		if err != nil {
			t.Fatalf("%s: Open: %v", name, err)
		}

		dst := gocv.NewMat()
		for i := 0; i < 2; i++ {
			if err := src.Read(&dst); err != nil {
				t.Fatalf("%s: Read %d: %v", name, i, err)
			}
		}
		if dst.Cols() != 8 || dst.Rows() != 6 {
			t.Errorf("%s: frame is %dx%d", name, dst.Cols(), dst.Rows())
		}
		// BGR storage.
		if b, r := dst.GetUCharAt(3, 3*3), dst.GetUCharAt(3, 3*3+2); b != 50 || r != 200 {
			t.Errorf("%s: pixel B=%d R=%d", name, b, r)
		}

		if err := src.Close(); err != nil {
			t.Errorf("%s: Close: %v", name, err)
		}
		if err := src.Close(); err != nil {
			t.Errorf("%s: second Close: %v", name, err)
		}
		if err := src.Read(&dst); !errors.Is(err, ErrStreamEnded) {
			t.Errorf("%s: Read after Close = %v, want ErrStreamEnded", name, err)
		}
		dst.Close()
	}
}

func TestOpenMissingImage(t *testing.T) {
	_, err := Open(Options{Kind: KindImage, ImagePath: filepath.Join(t.TempDir(), "nope.png")})
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("err = %v, want ErrDeviceUnavailable", err)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	if _, err := Open(Options{Kind: "radio"}); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("err = %v, want ErrDeviceUnavailable", err)
	}
}

func TestPacer(t *testing.T) {
	p := pacer{interval: 20 * time.Millisecond}
	start := time.Now()
	for i := 0; i < 3; i++ {
		p.wait()
	}
	// First wait returns at once, the next two each wait one interval.
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("three paced waits took %v", elapsed)
	}

	var none pacer
	start = time.Now()
	none.wait()
	if time.Since(start) > 10*time.Millisecond {
		t.Error("zero interval should not wait")
	}
}
