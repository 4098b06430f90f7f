package scene

import (
	"errors"
	gomath "math"
	"math/rand"
	"testing"
	"time"

	"github.com/Faultbox/windmoth/internal/anim"
	"github.com/Faultbox/windmoth/internal/assets"
	"github.com/Faultbox/windmoth/internal/creature"
	"github.com/Faultbox/windmoth/internal/engine/camera"
	"github.com/Faultbox/windmoth/internal/engine/input"
	"github.com/Faultbox/windmoth/internal/params"
	"github.com/Faultbox/windmoth/internal/wind"
	"github.com/Faultbox/windmoth/pkg/math"
)

type fakeRenderer struct {
	clear    params.Colour
	width    int
	height   int
	uploaded *assets.Model
	draws    int
	lastPose *anim.Pose
	captures int
}

func (f *fakeRenderer) SetClearColour(c params.Colour) { f.clear = c }
func (f *fakeRenderer) Resize(w, h int)                { f.width, f.height = w, h }
func (f *fakeRenderer) UploadModel(m *assets.Model) error {
	f.uploaded = m
	return nil
}
func (f *fakeRenderer) Draw(_ *camera.OrbitCamera, _ *wind.Field, _ *params.Params, pose *anim.Pose) {
	f.draws++
	f.lastPose = pose
}
func (f *fakeRenderer) Capture() (string, error) {
	f.captures++
	return "shot.png", nil
}

type fakeSource struct {
	ready bool
	res   assets.Result
	polls int
}

func (f *fakeSource) Poll() (assets.Result, bool) {
	f.polls++
	return f.res, f.ready
}

// spinModel is a single root node with a tumble clip that turns it half a
// revolution about Y over 2s.
func spinModel() *assets.Model {
	rest := &anim.Pose{Nodes: []anim.NodePose{{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}}}
	spin := anim.NewClip("CNTRL_Action", []anim.Channel{{
		Node:   0,
		Path:   anim.PathRotation,
		Times:  []float32{0, 2},
		Values: []float32{0, 0, 0, 1, 0, 1, 0, 0},
		Width:  4,
	}})
	return &assets.Model{
		Name:  "moth",
		Nodes: []assets.Node{{Name: "CNTRL", Parent: -1, Mesh: -1}},
		Rest:  rest,
		Roots: []int{0},
		Clips: []*anim.Clip{spin},
	}
}

func newTestScene(t *testing.T, src ModelSource) (*Scene, *fakeRenderer) {
	t.Helper()
	store, err := params.NewStore(params.Default())
	if err != nil {
		t.Fatal(err)
	}
	cam := camera.NewOrbitCamera(math.Vec3{X: 4, Y: 3, Z: 4}, math.Vec3{})
	r := &fakeRenderer{}
	s, err := New(store, cam, r, src, Options{
		Creature: creature.DefaultOptions(),
		Rand:     rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, r
}

func TestClock(t *testing.T) {
	var c Clock
	t0 := time.Unix(100, 0)
	if e, d := c.Tick(t0); e != 0 || d != 0 {
		t.Errorf("first tick = (%v, %v), want zeros", e, d)
	}
	e, d := c.Tick(t0.Add(250 * time.Millisecond))
	if e != 0.25 || d != 0.25 {
		t.Errorf("second tick = (%v, %v)", e, d)
	}
	e, d = c.Tick(t0.Add(time.Second))
	if e != 1 || d != 0.75 {
		t.Errorf("third tick = (%v, %v)", e, d)
	}
}

func TestNewGeneratesTrails(t *testing.T) {
	s, r := newTestScene(t, nil)
	if s.Field().Len() != params.Default().TrailCount {
		t.Errorf("trails = %d, want %d", s.Field().Len(), params.Default().TrailCount)
	}
	if r.clear != params.Default().BackgroundColour {
		t.Errorf("clear colour = %v", r.clear)
	}
}

func TestParameterRouting(t *testing.T) {
	s, r := newTestScene(t, nil)
	store := s.Store()
	gen := s.Field().Generation()

	// In-place fields do not regenerate.
	if err := store.Set(params.FieldTrailSpeed, 2); err != nil {
		t.Fatal(err)
	}
	if s.Field().Generation() != gen {
		t.Error("speed change should not regenerate trails")
	}

	// Geometry fields regenerate with the new count.
	if err := store.Set(params.FieldTrailCount, 12); err != nil {
		t.Fatal(err)
	}
	if s.Field().Generation() != gen+1 || s.Field().Len() != 12 {
		t.Errorf("after count change: generation %d, len %d", s.Field().Generation(), s.Field().Len())
	}

	// A gap that empties the spread is refused before it reaches the field.
	if err := store.Set(params.FieldXSpread, 1); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(params.FieldXSpreadGap, 0.5); !errors.Is(err, params.ErrOutOfRange) {
		t.Fatalf("Set(gap) error = %v, want ErrOutOfRange", err)
	}
	if err := store.Set(params.FieldTrailCount, 20); err != nil {
		t.Fatal(err)
	}
	if s.Field().Len() != 20 || s.Store().Params().TrailCount != 20 {
		t.Errorf("field len %d, stored count %d, want 20", s.Field().Len(), s.Store().Params().TrailCount)
	}

	// Background goes to the renderer.
	bg := params.RGB(10, 20, 30)
	if err := store.SetColour(params.FieldBackgroundColour, bg); err != nil {
		t.Fatal(err)
	}
	if r.clear != bg {
		t.Errorf("clear colour = %v, want %v", r.clear, bg)
	}
}

func TestFrameAdvancesTrails(t *testing.T) {
	s, r := newTestScene(t, nil)
	t0 := time.Unix(0, 0)
	s.Frame(t0)

	before := append([]wind.Trail(nil), s.Field().Trails()...)
	s.Frame(t0.Add(10 * time.Millisecond))

	p := s.Store().Params()
	for i, tr := range s.Field().Trails() {
		old := before[i]
		want := old.Position.Z + 0.01*p.TrailSpeed
		if old.Position.Z > p.TrailEndLoc {
			want = p.TrailStartLoc
		}
		if gomath.Abs(float64(tr.Position.Z-want)) > 1e-4 {
			t.Fatalf("trail %d: z = %v, want %v", i, tr.Position.Z, want)
		}
	}
	if r.draws != 2 {
		t.Errorf("draws = %d, want 2", r.draws)
	}
	if r.lastPose != nil {
		t.Error("no pose should be drawn without a model")
	}
}

func TestModelLoadAndToggle(t *testing.T) {
	src := &fakeSource{}
	s, r := newTestScene(t, src)
	t0 := time.Unix(0, 0)

	// Double-click before the model arrives is ignored.
	s.HandleEvent(input.Event{Type: input.EventDoubleClick})
	s.Frame(t0)
	if s.Creature() != nil {
		t.Fatal("creature should not exist before load")
	}

	model := spinModel()
	src.ready = true
	src.res = assets.Result{Model: model}
	s.Frame(t0.Add(16 * time.Millisecond))
	if s.Creature() == nil || r.uploaded != model || s.Model() != model {
		t.Fatal("model should be consumed on the frame it resolves")
	}
	polls := src.polls
	s.Frame(t0.Add(32 * time.Millisecond))
	if src.polls != polls {
		t.Error("source should not be polled after it resolved")
	}
	if r.lastPose != s.Creature().Pose() {
		t.Error("renderer should draw the creature pose")
	}
	if s.Creature().Root() != model.Root {
		t.Errorf("controller root = %d, want %d", s.Creature().Root(), model.Root)
	}
	if e := s.Elapsed(); gomath.Abs(float64(e)-0.032) > 1e-6 {
		t.Errorf("Elapsed() = %v, want 0.032", e)
	}

	// Tumble for one second: a quarter turn.
	s.HandleEvent(input.Event{Type: input.EventDoubleClick})
	if s.Creature().Phase() != creature.Tumbling {
		t.Fatalf("phase = %v, want tumbling", s.Creature().Phase())
	}
	s.Frame(t0.Add(1032 * time.Millisecond))
	quarter := math.QuatFromAxisAngle(math.Vec3{Y: 1}, gomath.Pi/2)
	if got := s.Creature().Pose().Rotation(0); !got.ApproxEqual(quarter, 1e-4) {
		t.Errorf("root after 1s tumbling = %v, want %v", got, quarter)
	}

	// Stop: the root returns upright over 500ms.
	s.HandleEvent(input.Event{Type: input.EventDoubleClick})
	if s.Creature().Phase() != creature.NormalCorrecting {
		t.Fatalf("phase = %v, want correcting", s.Creature().Phase())
	}
	s.Frame(t0.Add(1282 * time.Millisecond))
	if s.Creature().Phase() != creature.NormalCorrecting {
		t.Errorf("phase at 250ms = %v, want correcting", s.Creature().Phase())
	}
	s.Frame(t0.Add(1532 * time.Millisecond))
	if s.Creature().Phase() != creature.NormalIdle {
		t.Errorf("phase at 500ms = %v, want normal", s.Creature().Phase())
	}
	if got := s.Creature().Pose().Rotation(0); !got.ApproxEqual(math.QuatIdentity(), 1e-4) {
		t.Errorf("root after correction = %v, want identity", got)
	}
}

func TestModelLoadFailureKeepsRunning(t *testing.T) {
	src := &fakeSource{ready: true, res: assets.Result{Err: errors.New("boom")}}
	s, r := newTestScene(t, src)
	s.Frame(time.Unix(0, 0))
	s.Frame(time.Unix(1, 0))
	if s.Creature() != nil || r.uploaded != nil {
		t.Error("failed load should leave the scene without a model")
	}
	if r.draws != 2 {
		t.Errorf("draws = %d, want 2", r.draws)
	}
}

func TestHandleEvents(t *testing.T) {
	s, r := newTestScene(t, nil)
	s.Camera().Damping = false

	s.HandleEvent(input.Event{Type: input.EventWindowResize, Width: 1000, Height: 500})
	if r.width != 1000 || r.height != 500 || s.Camera().Aspect != 2 {
		t.Errorf("resize: renderer %dx%d, aspect %v", r.width, r.height, s.Camera().Aspect)
	}

	d := s.Camera().Distance()
	s.HandleEvent(input.Event{Type: input.EventMouseWheel, DeltaY: 1})
	s.Camera().Update(0.016)
	if s.Camera().Distance() >= d {
		t.Error("wheel up should zoom in")
	}

	pos := s.Camera().Position()
	s.HandleEvent(input.Event{Type: input.EventDrag, DeltaX: 50})
	s.Camera().Update(0.016)
	if s.Camera().Position() == pos {
		t.Error("drag should orbit the camera")
	}

	home := camera.NewOrbitCamera(math.Vec3{X: 4, Y: 3, Z: 4}, math.Vec3{}).Position()
	s.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.KeyR})
	s.Camera().Update(0.016)
	if p := s.Camera().Position(); gomath.Abs(float64(p.X-home.X)) > 1e-3 || gomath.Abs(float64(p.Z-home.Z)) > 1e-3 {
		t.Errorf("R should reset the view to %v, got %v", home, p)
	}

	s.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.KeyF12})
	if r.captures != 1 {
		t.Errorf("captures = %d, want 1", r.captures)
	}

	if s.Quit() {
		t.Fatal("scene should not quit yet")
	}
	s.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.KeyEscape})
	if !s.Quit() {
		t.Error("escape should quit")
	}
}
