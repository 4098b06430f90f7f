package main

import (
	"fmt"
	"time"

	"github.com/Faultbox/windmoth/internal/config"
	"github.com/Faultbox/windmoth/internal/engine/input"
	"github.com/Faultbox/windmoth/internal/engine/ui"
)

// runPanel drives the scene inside the ImGui backend with the parameter
// panel on top. The scene renders offscreen and is drawn as the backdrop.
func runPanel(cfg *config.Config) error {
	backend, err := ui.NewBackend(windowTitle, cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		return fmt.Errorf("creating imgui backend: %w", err)
	}

	// Sized on the first frame's resize event.
	r, err := newRenderer(cfg, cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := r.UseOffscreen(); err != nil {
		return fmt.Errorf("offscreen target: %w", err)
	}

	sc, err := newScene(cfg, r)
	if err != nil {
		return err
	}
	panel := ui.NewPanel(sc.Store())

	var (
		translator ui.Translator
		events     []input.Event
	)
	backend.Run(func() {
		events = translator.Translate(ui.ReadFrameInput(), events[:0])
		for _, e := range events {
			sc.HandleEvent(e)
		}
		if sc.Quit() {
			backend.Close()
			return
		}

		sc.Frame(time.Now())
		ui.DrawSceneTexture(r.SceneTexture())

		phase := "not loaded"
		if c := sc.Creature(); c != nil {
			phase = c.Phase().String()
		}
		panel.Draw(ui.Stats{Trails: sc.Field().Len(), Phase: phase, Elapsed: sc.Elapsed()})
	})
	return nil
}
