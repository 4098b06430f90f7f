// Package config handles application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/windmoth/internal/params"
	"github.com/Faultbox/windmoth/pkg/math"
)

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Scene    params.Params  `yaml:"scene"`
	Lighting LightingConfig `yaml:"lighting"`
	Model    ModelConfig    `yaml:"model"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and projection settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FPSLimit   int     `yaml:"fps_limit"`
	FOV        float32 `yaml:"fov"` // vertical, degrees
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	Position    math.Vec3 `yaml:"position"`
	Target      math.Vec3 `yaml:"target"`
	MinDistance float32   `yaml:"min_distance"`
	MaxDistance float32   `yaml:"max_distance"`

	// Damping eases the camera toward its goal instead of snapping.
	Damping      bool    `yaml:"damping"`
	Frequency    float64 `yaml:"frequency"`     // spring angular frequency
	DampingRatio float64 `yaml:"damping_ratio"` // 1 is critically damped

	RotateSpeed float32 `yaml:"rotate_speed"` // radians per pixel
	ZoomSpeed   float32 `yaml:"zoom_speed"`   // fraction of distance per wheel step
}

// LightingConfig holds the ambient light the model is shaded with.
type LightingConfig struct {
	AmbientColour    params.Colour `yaml:"ambient_colour"`
	AmbientIntensity float32       `yaml:"ambient_intensity"`
}

// ModelConfig holds the creature model settings.
type ModelConfig struct {
	Path        string        `yaml:"path"`
	TumbleClips []string      `yaml:"tumble_clips"`
	Smoothing   time.Duration `yaml:"smoothing"`
	SceneOffset math.Vec3     `yaml:"scene_offset"`
	RootOffset  math.Vec3     `yaml:"root_offset"`
}

// DebugConfig holds developer tooling settings.
type DebugConfig struct {
	Panel         bool   `yaml:"panel"`
	ShowFPS       bool   `yaml:"show_fps"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // log file format: "text" or "json"
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			FOV:        75,
			Near:       0.1,
			Far:        100,
		},
		Camera: CameraConfig{
			Position:     math.Vec3{X: 4, Y: 3, Z: 4},
			Target:       math.Vec3{},
			MinDistance:  1,
			MaxDistance:  10,
			Damping:      true,
			Frequency:    6,
			DampingRatio: 1,
			RotateSpeed:  0.008,
			ZoomSpeed:    0.1,
		},
		Scene: params.Default(),
		Lighting: LightingConfig{
			AmbientColour:    params.RGB(255, 255, 255),
			AmbientIntensity: 1,
		},
		Model: ModelConfig{
			Path:        "assets/moth.glb",
			TumbleClips: []string{"Key.002Action", "CNTRL_Action"},
			Smoothing:   500 * time.Millisecond,
			SceneOffset: math.Vec3{X: 0, Y: 0, Z: -3},
			RootOffset:  math.Vec3{X: 0, Y: 0, Z: 3},
		},
		Debug: DebugConfig{
			Panel:         false,
			ShowFPS:       false,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Format:  "text",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180 {
		errs = append(errs, fmt.Errorf("graphics: fov %v out of (0, 180)", c.Graphics.FOV))
	}
	if c.Graphics.Near <= 0 || c.Graphics.Far <= c.Graphics.Near {
		errs = append(errs, fmt.Errorf("graphics: clip planes near=%v far=%v", c.Graphics.Near, c.Graphics.Far))
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		errs = append(errs, fmt.Errorf("camera: distance range [%v, %v]", c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if err := c.Scene.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scene: %w", err))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging: format %q is not text or json", c.Logging.Format))
	}
	if c.Lighting.AmbientIntensity < 0 {
		errs = append(errs, fmt.Errorf("lighting: negative ambient intensity %v", c.Lighting.AmbientIntensity))
	}
	if c.Model.Smoothing < 0 {
		errs = append(errs, fmt.Errorf("model: negative smoothing %v", c.Model.Smoothing))
	}
	return errors.Join(errs...)
}
