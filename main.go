// Package main provides the entry point for the color picker: a live video
// view where clicking a pixel reports a stabilized color sample.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"colorpick/internal/app"
	"colorpick/internal/capture"
	"colorpick/internal/config"
	"colorpick/internal/report"
	"colorpick/internal/version"
	"colorpick/ui/mainwindow"
	"colorpick/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appTitle = "Color Picker"
	appID    = "io.colorpick"

	reloadInterval = 2 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", config.DefaultPath(), "Path to config file")
	camera := flag.Int("camera", -1, "Camera index (overrides config)")
	imagePath := flag.String("image", "", "Sample a still image instead of a camera")
	screen := flag.Int("screen", -1, "Sample a display instead of a camera")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(appTitle, version.String())
		return 0
	}
	log.Printf("Starting %s %s", appTitle, version.String())

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(cfg, *camera, *imagePath, *screen)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	settings, err := app.NewSettings(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	src, err := capture.Open(cfg.CaptureOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open video capture: %v\n", err)
		return 1
	}
	log.Printf("Capture: opened %s", src.Name())

	fyneApp := fyneapp.NewWithID(appID)
	win := mainwindow.New(fyneApp, prefs.Load(prefs.DefaultDir()))

	// From here on the loop owns src and win and releases both.
	loop := app.NewLoop(src, win, report.NewPrinter(os.Stdout), settings, cfg.QuitRune())
	win.OnPointerDown(loop.Click)
	win.Watch(loop)

	if cfg.Watch {
		watcher := setupReload(*configPath, loop)
		defer watcher.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-win.Done()
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- loop.Run(ctx)
	}()

	win.Show()
	fyneApp.Run()
	cancel()

	if err := <-errCh; err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to capture image: %v\n", err)
		return 1
	}
	return 0
}

// applyFlags lets command-line source selection override the config file.
func applyFlags(cfg *config.Config, camera int, imagePath string, screen int) {
	switch {
	case imagePath != "":
		cfg.Source = capture.KindImage
		cfg.ImagePath = imagePath
	case screen >= 0:
		cfg.Source = capture.KindScreen
		cfg.ScreenDisplay = screen
	case camera >= 0:
		cfg.Source = capture.KindCamera
		cfg.CameraIndex = camera
	}
}

// setupReload applies sampling settings from the config file whenever it changes.
func setupReload(path string, loop *app.Loop) *app.FileWatcher {
	watcher := app.NewFileWatcher(path, reloadInterval)
	log.Printf("Config: watching %s", watcher.Path())

	watcher.OnChange(func() {
		cfg, err := config.Load(path)
		if err != nil {
			log.Printf("Config: reload failed, keeping current settings: %v", err)
			return
		}
		s, err := app.NewSettings(cfg)
		if err != nil {
			log.Printf("Config: reload failed, keeping current settings: %v", err)
			return
		}
		loop.ApplySettings(s)
		log.Printf("Config: reloaded (radius %d, median %d, naming %s)", s.Radius, s.Kernel, cfg.Naming)
	})

	watcher.Start()
	return watcher
}
