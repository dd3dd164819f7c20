// Command samplefile samples one pixel neighborhood of an image file and
// prints the same report the live picker prints for a click.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"colorpick/internal/app"
	"colorpick/internal/capture"
	"colorpick/internal/config"
	"colorpick/internal/report"

	"gocv.io/x/gocv"
)

// fileDisplay discards frames and optionally writes the info panel to disk.
type fileDisplay struct {
	panelPath string
	err       error
}

func (d *fileDisplay) ShowFrame(gocv.Mat) {}

func (d *fileDisplay) ShowPanel(m gocv.Mat) {
	if d.panelPath == "" {
		return
	}
	if ok := gocv.IMWrite(d.panelPath, m); !ok {
		d.err = fmt.Errorf("could not write panel to %s", d.panelPath)
	}
}

func (d *fileDisplay) PollKey() (rune, bool) { return 0, false }
func (d *fileDisplay) Close()                {}

func main() {
	imagePath := flag.String("image", "", "Path to image (PNG, JPEG, TIFF or BMP)")
	x := flag.Int("x", -1, "Pixel column to sample")
	y := flag.Int("y", -1, "Pixel row to sample")
	radius := flag.Int("radius", 0, "Sample window half-width (default from config)")
	kernel := flag.Int("kernel", 0, "Median filter size (default from config)")
	naming := flag.String("naming", "", "Naming mode: exact or nearest (default from config)")
	panelPath := flag.String("panel", "", "Write the info panel to this image file")
	flag.Parse()

	if *imagePath == "" || *x < 0 || *y < 0 {
		fmt.Println("Usage: samplefile -image <path> -x <col> -y <row> [-radius 10] [-kernel 5] [-naming exact|nearest] [-panel out.png]")
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.Source = capture.KindImage
	cfg.ImagePath = *imagePath
	cfg.FrameInterval = 0
	if *radius > 0 {
		cfg.SampleRadius = *radius
	}
	if *kernel > 0 {
		cfg.DenoiseKernel = *kernel
	}
	if *naming != "" {
		cfg.Naming = *naming
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid options: %v\n", err)
		os.Exit(1)
	}

	settings, err := app.NewSettings(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid options: %v\n", err)
		os.Exit(1)
	}

	src, err := capture.Open(cfg.CaptureOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}

	display := &fileDisplay{panelPath: *panelPath}
	loop := app.NewLoop(src, display, report.NewPrinter(os.Stdout), settings, 0)

	os.Exit(sampleOnce(loop, src, display, *x, *y))
}

func sampleOnce(loop *app.Loop, src capture.Source, display *fileDisplay, x, y int) int {
	defer loop.Close()

	mat := gocv.NewMat()
	defer mat.Close()
	if err := src.Read(&mat); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		return 1
	}
	fmt.Printf("Loaded image: %dx%d pixels\n", mat.Cols(), mat.Rows())

	loop.Click(x, y)
	if _, err := loop.Step(mat); err != nil {
		if errors.Is(err, app.ErrOutOfBounds) {
			fmt.Fprintln(os.Stderr, "Click coordinates out of frame bounds.")
		} else {
			fmt.Fprintf(os.Stderr, "Sampling failed: %v\n", err)
		}
		return 1
	}
	if display.err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", display.err)
		return 1
	}
	return 0
}
