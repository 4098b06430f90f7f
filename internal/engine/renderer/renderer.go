// Package renderer draws the wind trails and the creature model with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/windmoth/internal/anim"
	"github.com/Faultbox/windmoth/internal/assets"
	"github.com/Faultbox/windmoth/internal/engine/camera"
	"github.com/Faultbox/windmoth/internal/engine/debug"
	"github.com/Faultbox/windmoth/internal/engine/framebuffer"
	"github.com/Faultbox/windmoth/internal/engine/lighting"
	"github.com/Faultbox/windmoth/internal/logger"
	"github.com/Faultbox/windmoth/internal/params"
	"github.com/Faultbox/windmoth/internal/wind"
)

// Config holds renderer configuration.
type Config struct {
	Width         int // drawable pixels
	Height        int
	ScreenshotDir string
}

// Renderer handles all OpenGL rendering.
// IMPORTANT: every method must be called on the thread that owns the GL context.
type Renderer struct {
	config Config
	clear  params.Colour

	trails *trailPass
	model  *modelPass

	// offscreen is set when the frame is composited by an overlay.
	offscreen *framebuffer.Framebuffer

	screenshots *debug.ScreenshotCapture
	log         *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:      cfg,
		clear:       params.Default().BackgroundColour,
		screenshots: debug.NewScreenshotCapture(cfg.ScreenshotDir, "windmoth"),
		log:         logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	var err error
	if r.trails, err = newTrailPass(); err != nil {
		return nil, fmt.Errorf("trail pass: %w", err)
	}
	if r.model, err = newModelPass(r.log); err != nil {
		r.trails.close()
		return nil, fmt.Errorf("model pass: %w", err)
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.trails.close()
	r.model.close()
	if r.offscreen != nil {
		r.offscreen.Destroy()
	}
}

// UseOffscreen redirects every later Draw into a texture sized to the
// drawable area. The texture is available from SceneTexture.
func (r *Renderer) UseOffscreen() error {
	if r.offscreen != nil {
		return nil
	}
	fb, err := framebuffer.New(int32(r.config.Width), int32(r.config.Height))
	if err != nil {
		return err
	}
	r.offscreen = fb
	return nil
}

// SceneTexture returns the offscreen colour texture, or 0 when drawing
// straight to the window.
func (r *Renderer) SceneTexture() uint32 {
	if r.offscreen == nil {
		return 0
	}
	return r.offscreen.ColorTexture()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	if r.offscreen != nil {
		r.offscreen.Resize(int32(width), int32(height))
	} else {
		gl.Viewport(0, 0, int32(width), int32(height))
	}
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetClearColour sets the background colour.
func (r *Renderer) SetClearColour(c params.Colour) {
	r.clear = c
}

// SetAmbient replaces the light the model is shaded with.
func (r *Renderer) SetAmbient(a lighting.Ambient) {
	r.model.ambient = a
}

// UploadModel creates GPU buffers for every mesh of m, replacing any
// previously uploaded model.
func (r *Renderer) UploadModel(m *assets.Model) error {
	return r.model.upload(m)
}

// Draw renders one frame. pose may be nil while the model is loading.
func (r *Renderer) Draw(cam *camera.OrbitCamera, field *wind.Field, p *params.Params, pose *anim.Pose) {
	if r.offscreen != nil {
		restore := r.offscreen.Bind()
		defer restore()
	}
	// An overlay may have changed these since the last frame.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(r.clear.R, r.clear.G, r.clear.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()

	if pose != nil {
		r.model.draw(view, proj, pose)
	}
	r.trails.draw(view, proj, field, p)
}

// Capture reads the last drawn frame and writes it as a PNG.
func (r *Renderer) Capture() (string, error) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("invalid viewport %dx%d", w, h)
	}
	var pixels []byte
	if r.offscreen != nil {
		fw, fh := r.offscreen.Size()
		w, h = int(fw), int(fh)
		pixels = r.offscreen.ReadPixels()
	} else {
		pixels = make([]byte, w*h*4)
		gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
		gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	}

	path, err := r.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	r.log.Info("screenshot saved", zap.String("path", path))
	return path, nil
}
