// Package main is the entry point for the windmoth scene.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/windmoth/internal/assets"
	"github.com/Faultbox/windmoth/internal/config"
	"github.com/Faultbox/windmoth/internal/creature"
	"github.com/Faultbox/windmoth/internal/engine/camera"
	"github.com/Faultbox/windmoth/internal/engine/input"
	"github.com/Faultbox/windmoth/internal/engine/lighting"
	"github.com/Faultbox/windmoth/internal/engine/renderer"
	"github.com/Faultbox/windmoth/internal/engine/window"
	"github.com/Faultbox/windmoth/internal/logger"
	"github.com/Faultbox/windmoth/internal/params"
	"github.com/Faultbox/windmoth/internal/scene"
)

const windowTitle = "windmoth"

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== windmoth ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			logger.Error("saving config", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", path))
		return
	}

	if cfg.Debug.Panel {
		err = runPanel(cfg)
	} else {
		err = runWindow(cfg)
	}
	if err != nil {
		logger.Error("scene error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("closed normally")
}

// newScene wires the parameter store, camera and model load around r.
func newScene(cfg *config.Config, r scene.Renderer) (*scene.Scene, error) {
	store, err := params.NewStore(cfg.Scene)
	if err != nil {
		return nil, err
	}

	cam := camera.NewOrbitCamera(cfg.Camera.Position, cfg.Camera.Target)
	cam.MinDistance = cfg.Camera.MinDistance
	cam.MaxDistance = cfg.Camera.MaxDistance
	cam.Damping = cfg.Camera.Damping
	cam.Frequency = cfg.Camera.Frequency
	cam.DampingRatio = cfg.Camera.DampingRatio
	cam.DragSensitivity = cfg.Camera.RotateSpeed
	cam.ZoomSensitivity = cfg.Camera.ZoomSpeed
	cam.FOV = cfg.Graphics.FOV
	cam.Near = cfg.Graphics.Near
	cam.Far = cfg.Graphics.Far
	cam.SetAspect(cfg.Graphics.Width, cfg.Graphics.Height)

	rootOffset := cfg.Model.RootOffset
	var source scene.ModelSource
	if cfg.Model.Path != "" {
		source = assets.LoadAsync(cfg.Model.Path, assets.Options{
			SceneOffset: cfg.Model.SceneOffset,
			RootOffset:  &rootOffset,
		})
	}

	return scene.New(store, cam, r, source, scene.Options{
		Creature: creature.Options{
			TumbleClips: cfg.Model.TumbleClips,
			Smoothing:   cfg.Model.Smoothing,
		},
	})
}

func newRenderer(cfg *config.Config, width, height int) (*renderer.Renderer, error) {
	r, err := renderer.New(renderer.Config{Width: width, Height: height, ScreenshotDir: cfg.Debug.ScreenshotDir})
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	r.SetAmbient(lighting.Ambient{
		Colour:    cfg.Lighting.AmbientColour.Array(),
		Intensity: cfg.Lighting.AmbientIntensity,
	})
	return r, nil
}

// runWindow drives the scene from a plain SDL window.
func runWindow(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	w, h := win.DrawableSize()
	r, err := newRenderer(cfg, w, h)
	if err != nil {
		return err
	}
	defer r.Close()

	sc, err := newScene(cfg, r)
	if err != nil {
		return err
	}
	sc.Camera().SetAspect(w, h)

	var (
		events     []input.Event
		minFrame   time.Duration
		frames     int
		titleStamp = time.Now()
	)
	if cfg.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(cfg.Graphics.FPSLimit)
	}

	for !sc.Quit() {
		start := time.Now()

		events = win.Poll(events[:0])
		for _, e := range events {
			sc.HandleEvent(e)
		}

		sc.Frame(start)
		win.SwapBuffers()

		if cfg.Debug.ShowFPS {
			frames++
			if since := time.Since(titleStamp); since >= time.Second {
				win.SetTitle(fmt.Sprintf("%s - %.0f FPS", windowTitle, float64(frames)/since.Seconds()))
				frames = 0
				titleStamp = time.Now()
			}
		}
		if minFrame > 0 {
			if spent := time.Since(start); spent < minFrame {
				time.Sleep(minFrame - spent)
			}
		}
	}
	return nil
}
