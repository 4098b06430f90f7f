package assets

import (
	"errors"
	gomath "math"
	"path/filepath"
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/windmoth/internal/anim"
	"github.com/Faultbox/windmoth/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

// testDocument builds a two-node scene: a root "CNTRL" with a child "Body"
// carrying a single morphable triangle, plus a spin clip on the root and a
// weights clip on the body.
func testDocument() *gltf.Document {
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	delta := modeler.WritePosition(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})

	doc.Materials = []*gltf.Material{{
		Name: "Wing",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.5, 0.25, 1, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name:    "Body",
		Weights: []float64{0.5},
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
			Attributes: map[string]int{gltf.POSITION: pos},
			Targets:    []map[string]int{{gltf.POSITION: delta}},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "CNTRL", Children: []int{1}, Translation: [3]float64{0, 5, 0}},
		{Name: "Body", Mesh: gltf.Index(0), Translation: [3]float64{1, 0, 0}},
	}
	doc.Scenes[0].Nodes = []int{0}

	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 2})
	spin := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{0, 0, 0, 1}, {0, 0, 1, 0}})
	weights := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
	doc.Animations = []*gltf.Animation{
		{
			Name:     "CNTRL_Action",
			Samplers: []*gltf.AnimationSampler{{Input: times, Output: spin}},
			Channels: []*gltf.AnimationChannel{{
				Sampler: 0,
				Target:  gltf.AnimationChannelTarget{Node: gltf.Index(0), Path: gltf.TRSRotation},
			}},
		},
		{
			Name:     "Flutter",
			Samplers: []*gltf.AnimationSampler{{Input: times, Output: weights, Interpolation: gltf.InterpolationStep}},
			Channels: []*gltf.AnimationChannel{{
				Sampler: 0,
				Target:  gltf.AnimationChannelTarget{Node: gltf.Index(1), Path: gltf.TRSWeights},
			}},
		},
	}
	return doc
}

func TestDecode(t *testing.T) {
	m, err := Decode(testDocument(), Options{})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if m.Root != 0 || len(m.Roots) != 1 {
		t.Errorf("Root = %d, Roots = %v", m.Root, m.Roots)
	}
	if m.Nodes[1].Parent != 0 || m.Nodes[0].Parent != -1 {
		t.Errorf("parents = %d, %d", m.Nodes[0].Parent, m.Nodes[1].Parent)
	}
	if m.Nodes[1].Mesh != 0 || m.Nodes[0].Mesh != -1 {
		t.Errorf("meshes = %d, %d", m.Nodes[0].Mesh, m.Nodes[1].Mesh)
	}

	prim := m.Meshes[0].Primitives[0]
	if len(prim.Positions) != 3 || len(prim.Indices) != 3 {
		t.Fatalf("primitive has %d positions, %d indices", len(prim.Positions), len(prim.Indices))
	}
	if len(prim.Targets) != 1 || prim.Targets[0][2] != [3]float32{0, 0, 1} {
		t.Errorf("targets = %v", prim.Targets)
	}
	if prim.BaseColour != [4]float32{0.5, 0.25, 1, 1} {
		t.Errorf("BaseColour = %v", prim.BaseColour)
	}

	rest := m.Rest.Nodes
	if rest[0].Translation != (math.Vec3{X: 0, Y: 5, Z: 0}) {
		t.Errorf("root translation = %v", rest[0].Translation)
	}
	if rest[0].Rotation != math.QuatIdentity() || rest[0].Scale != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("root rest = %+v", rest[0])
	}
	if len(rest[1].Weights) != 1 || rest[1].Weights[0] != 0.5 {
		t.Errorf("body weights = %v, want mesh default [0.5]", rest[1].Weights)
	}
}

func TestDecodeClips(t *testing.T) {
	m, err := Decode(testDocument(), Options{})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(m.Clips) != 2 {
		t.Fatalf("got %d clips, want 2", len(m.Clips))
	}

	spin := m.Clips[0]
	if spin.Name != "CNTRL_Action" || spin.Duration != 2 {
		t.Errorf("spin = %q (%vs)", spin.Name, spin.Duration)
	}
	ch := spin.Channels[0]
	if ch.Path != anim.PathRotation || ch.Width != 4 || ch.Node != 0 {
		t.Errorf("spin channel = %+v", ch)
	}

	flutter := m.Clips[1].Channels[0]
	if flutter.Path != anim.PathWeights || flutter.Width != 1 || flutter.Interp != anim.InterpStep {
		t.Errorf("flutter channel = %+v", flutter)
	}
}

func TestDecodePlacement(t *testing.T) {
	m, err := Decode(testDocument(), DefaultOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := m.Rest.Nodes[m.Root].Translation; got != (math.Vec3{X: 0, Y: 0, Z: 3}) {
		t.Errorf("root translation = %v, want (0,0,3)", got)
	}

	world := m.WorldMatrices(m.NewPose(), nil)
	// Scene (0,0,-3) * root (0,0,3) puts the root at the origin.
	if p := world[0].TransformVec3(math.Vec3{}); !near(p.X, 0) || !near(p.Y, 0) || !near(p.Z, 0) {
		t.Errorf("root world position = %v, want origin", p)
	}
	if p := world[1].TransformVec3(math.Vec3{}); !near(p.X, 1) || !near(p.Z, 0) {
		t.Errorf("body world position = %v, want (1,0,0)", p)
	}
}

func TestWorldMatricesFollowPose(t *testing.T) {
	m, err := Decode(testDocument(), Options{})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	pose := m.NewPose()
	pose.SetRotation(0, math.QuatFromAxisAngle(math.Vec3{X: 0, Y: 0, Z: 1}, gomath.Pi/2))

	world := m.WorldMatrices(pose, nil)
	// Body sits at +X of the root; a quarter turn about Z moves it to +Y.
	p := world[1].TransformVec3(math.Vec3{})
	if !near(p.X, 0) || !near(p.Y, 6) {
		t.Errorf("body world position = %v, want (0,6,0)", p)
	}
	if m.Rest.Nodes[0].Rotation != math.QuatIdentity() {
		t.Error("posing must not touch the rest pose")
	}
}

func TestDecodeRejectsChannelWidth(t *testing.T) {
	tests := []struct {
		name   string
		path   gltf.TRSProperty
		output func(doc *gltf.Document) int
	}{
		{"translation vec2", gltf.TRSTranslation, func(doc *gltf.Document) int {
			return modeler.WriteAccessor(doc, gltf.TargetNone, [][2]float32{{0, 0}, {1, 1}})
		}},
		{"scale vec4", gltf.TRSScale, func(doc *gltf.Document) int {
			return modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{1, 1, 1, 1}, {2, 2, 2, 2}})
		}},
		{"rotation vec3", gltf.TRSRotation, func(doc *gltf.Document) int {
			return modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {0, 1, 0}})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDocument()
			spin := doc.Animations[0]
			spin.Samplers[0].Output = tt.output(doc)
			spin.Channels[0].Target.Path = tt.path
			if _, err := Decode(doc, Options{}); !errors.Is(err, ErrUnsupportedAccessor) {
				t.Errorf("Decode() error = %v, want ErrUnsupportedAccessor", err)
			}
		})
	}
}

func TestDecodeRejectsShortOutput(t *testing.T) {
	doc := testDocument()
	one := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{0, 0, 0, 1}})
	doc.Animations[0].Samplers[0].Output = one
	if _, err := Decode(doc, Options{}); err == nil {
		t.Error("expected error for one rotation key against two times")
	}
}

func TestDecodeNoScene(t *testing.T) {
	doc := gltf.NewDocument()
	if _, err := Decode(doc, Options{}); !errors.Is(err, ErrNoScene) {
		t.Errorf("Decode() error = %v, want ErrNoScene", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.glb")
	if _, err := Load(path, DefaultOptions()); err == nil {
		t.Error("expected error for missing file")
	}
	if res := LoadAsync(path, DefaultOptions()).Wait(); res.Err == nil || res.Model != nil {
		t.Errorf("async result = %+v, want an error and no model", res)
	}
}

func TestLoadAsync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moth.glb")
	if err := gltf.SaveBinary(testDocument(), path); err != nil {
		t.Fatalf("SaveBinary() error = %v", err)
	}

	p := LoadAsync(path, DefaultOptions())
	res := p.Wait()
	if res.Err != nil {
		t.Fatalf("load error = %v", res.Err)
	}
	if res.Model.Name != "moth.glb" || len(res.Model.Clips) != 2 {
		t.Errorf("model = %q with %d clips", res.Model.Name, len(res.Model.Clips))
	}

	again, ok := p.Poll()
	if !ok || again.Model != res.Model {
		t.Error("Poll() after resolution should return the same result")
	}
}

func TestPendingPollBeforeResolve(t *testing.T) {
	release := make(chan struct{})
	want := &Model{Name: "slow"}
	p := loadAsync(func() (*Model, error) {
		<-release
		return want, nil
	})

	if _, ok := p.Poll(); ok {
		t.Fatal("Poll() resolved before the load finished")
	}
	close(release)

	deadline := time.After(time.Second)
	for {
		if res, ok := p.Poll(); ok {
			if res.Model != want || res.Err != nil {
				t.Errorf("result = %+v", res)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("Poll() never resolved")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestPrimitiveMorph(t *testing.T) {
	p := Primitive{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}},
		Targets: [][][3]float32{
			{{0, 1, 0}, {0, 1, 0}},
			{{0, 0, 2}, {0, 0, 2}},
		},
	}

	out := p.Morph([]float32{0.5}, nil)
	if out[1] != [3]float32{1, 0.5, 0} {
		t.Errorf("single weight = %v, want [1 0.5 0]", out[1])
	}

	out = p.Morph([]float32{1, 0.25}, out)
	if out[0] != [3]float32{0, 1, 0.5} {
		t.Errorf("two weights = %v, want [0 1 0.5]", out[0])
	}
	if p.Positions[0] != [3]float32{0, 0, 0} {
		t.Error("Morph must not modify base positions")
	}
}
