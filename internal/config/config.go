// Package config loads the color picker's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"colorpick/internal/capture"
	"colorpick/internal/colorname"
	"colorpick/internal/frame"
	"colorpick/internal/sample"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

// Config is the full configuration.
type Config struct {
	Source        string        `yaml:"source"` // camera | image | screen
	CameraIndex   int           `yaml:"camera_index"`
	ImagePath     string        `yaml:"image_path"`
	ScreenDisplay int           `yaml:"screen_display"`
	FrameInterval time.Duration `yaml:"frame_interval"`

	DenoiseKernel int    `yaml:"denoise_kernel"`
	SampleRadius  int    `yaml:"sample_radius"`
	Naming        string `yaml:"naming"` // exact | nearest
	MarkerSize    int    `yaml:"marker_size"`

	QuitKey string `yaml:"quit_key"`
	Watch   bool   `yaml:"watch"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Source:        capture.KindCamera,
		FrameInterval: 33 * time.Millisecond,
		DenoiseKernel: frame.DefaultKernel,
		SampleRadius:  sample.DefaultRadius,
		Naming:        colorname.ModeExact,
		MarkerSize:    20,
		QuitKey:       "x",
		Watch:         true,
	}
}

// DefaultPath returns <UserConfigDir>/colorpick/config.yaml.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "colorpick", fileName)
}

// Load reads path over DefaultConfig. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	switch c.Source {
	case capture.KindCamera, capture.KindScreen:
	case capture.KindImage:
		if c.ImagePath == "" {
			return fmt.Errorf("image_path is required for source %q", c.Source)
		}
	default:
		return fmt.Errorf("source must be camera, image or screen, got %q", c.Source)
	}
	if c.CameraIndex < 0 {
		return fmt.Errorf("camera_index must be >= 0")
	}
	if c.FrameInterval < 0 {
		return fmt.Errorf("frame_interval must be >= 0")
	}
	if c.DenoiseKernel <= 0 || c.DenoiseKernel%2 == 0 {
		return fmt.Errorf("denoise_kernel must be odd and > 0, got %d", c.DenoiseKernel)
	}
	if c.SampleRadius <= 0 {
		return fmt.Errorf("sample_radius must be > 0")
	}
	if _, err := colorname.New(c.Naming); err != nil {
		return err
	}
	if c.MarkerSize < 0 {
		return fmt.Errorf("marker_size must be >= 0")
	}
	if utf8.RuneCountInString(c.QuitKey) != 1 {
		return fmt.Errorf("quit_key must be a single character, got %q", c.QuitKey)
	}
	return nil
}

// QuitRune returns the quit key as a rune.
func (c *Config) QuitRune() rune {
	r, _ := utf8.DecodeRuneInString(c.QuitKey)
	return r
}

// CaptureOptions returns the options for capture.Open.
func (c *Config) CaptureOptions() capture.Options {
	return capture.Options{
		Kind:        c.Source,
		CameraIndex: c.CameraIndex,
		ImagePath:   c.ImagePath,
		Display:     c.ScreenDisplay,
		Interval:    c.FrameInterval,
	}
}
