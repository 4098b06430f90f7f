// Package scene runs the per-frame update: wind trails, the creature model
// once it has loaded, and the camera, then hands the frame to a renderer.
package scene

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/windmoth/internal/anim"
	"github.com/Faultbox/windmoth/internal/assets"
	"github.com/Faultbox/windmoth/internal/creature"
	"github.com/Faultbox/windmoth/internal/engine/camera"
	"github.com/Faultbox/windmoth/internal/engine/input"
	"github.com/Faultbox/windmoth/internal/logger"
	"github.com/Faultbox/windmoth/internal/params"
	"github.com/Faultbox/windmoth/internal/wind"
)

// Renderer draws frames. It is called only from the frame loop's thread.
type Renderer interface {
	SetClearColour(c params.Colour)
	Resize(width, height int)
	UploadModel(m *assets.Model) error
	Draw(cam *camera.OrbitCamera, field *wind.Field, p *params.Params, pose *anim.Pose)
	Capture() (string, error)
}

// ModelSource delivers the model load result once; see assets.Pending.
type ModelSource interface {
	Poll() (assets.Result, bool)
}

// Options configures a Scene.
type Options struct {
	Creature creature.Options
	// Rand seeds trail placement; nil uses a random seed.
	Rand *rand.Rand
}

// Scene owns everything that changes from frame to frame.
type Scene struct {
	store    *params.Store
	field    *wind.Field
	camera   *camera.OrbitCamera
	renderer Renderer

	source   ModelSource
	model    *assets.Model
	creature *creature.Controller
	opts     creature.Options

	clock   Clock
	elapsed float32
	quit    bool
	log     *zap.Logger
}

// New builds the scene and generates the first set of trails. source may be
// nil for a scene without a model.
func New(store *params.Store, cam *camera.OrbitCamera, r Renderer, source ModelSource, opts Options) (*Scene, error) {
	s := &Scene{
		store:    store,
		field:    wind.NewField(opts.Rand),
		camera:   cam,
		renderer: r,
		source:   source,
		opts:     opts.Creature,
		log:      logger.Named("scene"),
	}

	p := store.Params()
	if err := s.field.Generate(p); err != nil {
		return nil, fmt.Errorf("generating wind trails: %w", err)
	}
	r.SetClearColour(p.BackgroundColour)
	store.OnChange(s.onParamChange)
	return s, nil
}

func (s *Scene) onParamChange(f params.Field, effect params.Effect) {
	switch effect {
	case params.EffectRegenerate:
		if err := s.field.Generate(s.store.Params()); err != nil {
			s.log.Warn("keeping previous trails", zap.Stringer("field", f), zap.Error(err))
		}
	case params.EffectBackground:
		s.renderer.SetClearColour(s.store.Params().BackgroundColour)
	case params.EffectInPlace:
		// Read every frame.
	}
}

// Frame advances the scene to now and draws it.
func (s *Scene) Frame(now time.Time) {
	elapsed, dt := s.clock.Tick(now)
	s.elapsed = elapsed

	p := s.store.Params()
	s.field.AdvanceAll(dt, &p)

	var pose *anim.Pose
	if s.creature != nil {
		s.creature.Update(dt)
		pose = s.creature.Pose()
	} else {
		s.pollModel()
	}

	s.camera.Update(dt)
	s.renderer.Draw(s.camera, s.field, &p, pose)
}

func (s *Scene) pollModel() {
	if s.source == nil {
		return
	}
	res, ok := s.source.Poll()
	if !ok {
		return
	}
	s.source = nil

	if res.Err != nil {
		s.log.Error("model load failed, continuing without it", zap.Error(res.Err))
		return
	}
	if err := s.renderer.UploadModel(res.Model); err != nil {
		s.log.Error("model upload failed", zap.Error(err))
		return
	}
	ctrl, err := creature.New(res.Model.NewPose(), res.Model.Clips, res.Model.Root, s.opts)
	if err != nil {
		s.log.Error("model controller", zap.Error(err))
		return
	}
	s.model = res.Model
	s.creature = ctrl
	s.log.Info("model ready",
		zap.String("model", res.Model.Name),
		zap.Int("root", ctrl.Root()),
		zap.Float32("after", s.elapsed))
}

// HandleEvent applies one input event.
func (s *Scene) HandleEvent(e input.Event) {
	switch e.Type {
	case input.EventQuit:
		s.quit = true

	case input.EventKeyDown:
		switch e.Key {
		case input.KeyEscape:
			s.quit = true
		case input.KeyR:
			s.camera.Reset()
		case input.KeyF12:
			if _, err := s.renderer.Capture(); err != nil {
				s.log.Warn("screenshot failed", zap.Error(err))
			}
		}

	case input.EventDoubleClick:
		if s.creature == nil {
			s.log.Debug("double-click ignored, model not loaded")
			return
		}
		s.creature.Toggle()

	case input.EventDrag:
		s.camera.HandleDrag(e.DeltaX, e.DeltaY)

	case input.EventMouseWheel:
		s.camera.HandleZoom(e.DeltaY)

	case input.EventWindowResize:
		s.camera.SetAspect(e.Width, e.Height)
		s.renderer.Resize(e.Width, e.Height)
	}
}

// Quit reports whether the scene asked to stop.
func (s *Scene) Quit() bool {
	return s.quit
}

// Store returns the parameter store.
func (s *Scene) Store() *params.Store {
	return s.store
}

// Field returns the wind trail field.
func (s *Scene) Field() *wind.Field {
	return s.field
}

// Camera returns the orbit camera.
func (s *Scene) Camera() *camera.OrbitCamera {
	return s.camera
}

// Creature returns the model controller, or nil until the model has loaded.
func (s *Scene) Creature() *creature.Controller {
	return s.creature
}

// Model returns the loaded model, or nil.
func (s *Scene) Model() *assets.Model {
	return s.model
}

// Elapsed returns seconds since the first frame.
func (s *Scene) Elapsed() float32 {
	return s.elapsed
}
