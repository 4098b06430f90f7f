package assets

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/windmoth/internal/anim"
	"github.com/Faultbox/windmoth/pkg/math"
)

var (
	// ErrNoScene is returned for documents without any scene or root node.
	ErrNoScene = errors.New("model has no scene")
	// ErrUnsupportedAccessor is returned for accessor types the loader cannot read.
	ErrUnsupportedAccessor = errors.New("unsupported accessor type")
)

// Options controls model placement.
type Options struct {
	// SceneOffset translates the whole scene.
	SceneOffset math.Vec3
	// RootOffset, when non-nil, replaces the root node's rest translation.
	RootOffset *math.Vec3
}

// DefaultOptions places the scene 3 units back and the root 3 units forward,
// leaving the root over the origin while the scene pivots behind it.
func DefaultOptions() Options {
	return Options{
		SceneOffset: math.Vec3{X: 0, Y: 0, Z: -3},
		RootOffset:  &math.Vec3{X: 0, Y: 0, Z: 3},
	}
}

// Decode converts a parsed glTF document into a Model.
func Decode(doc *gltf.Document, opts Options) (*Model, error) {
	roots, err := sceneRoots(doc)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Nodes:       make([]Node, len(doc.Nodes)),
		Rest:        &anim.Pose{Nodes: make([]anim.NodePose, len(doc.Nodes))},
		Roots:       roots,
		Root:        roots[0],
		SceneOffset: opts.SceneOffset,
	}

	for i, n := range doc.Nodes {
		m.Nodes[i] = decodeNode(n)
		m.Rest.Nodes[i] = restPose(n)
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < 0 || c >= len(m.Nodes) {
				return nil, fmt.Errorf("node %d: child %d out of range", i, c)
			}
			m.Nodes[c].Parent = i
		}
	}

	m.Meshes = make([]Mesh, len(doc.Meshes))
	for i, mesh := range doc.Meshes {
		decoded, err := decodeMesh(doc, mesh)
		if err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, mesh.Name, err)
		}
		m.Meshes[i] = decoded
	}

	// Nodes without their own weights start from the mesh defaults.
	for i := range m.Nodes {
		if mi := m.Nodes[i].Mesh; mi >= 0 && mi < len(m.Meshes) && m.Rest.Nodes[i].Weights == nil {
			if w := m.Meshes[mi].Weights; w != nil {
				m.Rest.Nodes[i].Weights = append([]float32(nil), w...)
			}
		}
	}

	for i, a := range doc.Animations {
		clip, err := decodeAnimation(doc, a)
		if err != nil {
			return nil, fmt.Errorf("animation %d (%s): %w", i, a.Name, err)
		}
		m.Clips = append(m.Clips, clip)
	}

	if opts.RootOffset != nil {
		m.Rest.Nodes[m.Root].Translation = *opts.RootOffset
	}

	return m, nil
}

func sceneRoots(doc *gltf.Document) ([]int, error) {
	var roots []int
	switch {
	case doc.Scene != nil && *doc.Scene < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	}
	if len(roots) == 0 {
		return nil, ErrNoScene
	}
	for _, r := range roots {
		if r < 0 || r >= len(doc.Nodes) {
			return nil, fmt.Errorf("scene root %d out of range: %w", r, ErrNoScene)
		}
	}
	return append([]int(nil), roots...), nil
}

func decodeNode(n *gltf.Node) Node {
	out := Node{
		Name:     n.Name,
		Parent:   -1,
		Children: append([]int(nil), n.Children...),
		Mesh:     -1,
	}
	if n.Mesh != nil {
		out.Mesh = *n.Mesh
	}
	if n.Matrix != [16]float64{} && n.Matrix != identity64 {
		var mat math.Mat4
		for i, v := range n.Matrix {
			mat[i] = float32(v)
		}
		out.Matrix = &mat
	}
	return out
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func restPose(n *gltf.Node) anim.NodePose {
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	p := anim.NodePose{
		Translation: math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])},
		Rotation:    math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
		Scale:       math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])},
	}
	if len(n.Weights) > 0 {
		p.Weights = toFloat32(n.Weights)
	}
	return p
}

func decodeMesh(doc *gltf.Document, mesh *gltf.Mesh) (Mesh, error) {
	out := Mesh{Name: mesh.Name}
	if len(mesh.Weights) > 0 {
		out.Weights = toFloat32(mesh.Weights)
	}

	for i, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		p, err := decodePrimitive(doc, prim)
		if err != nil {
			return Mesh{}, fmt.Errorf("primitive %d: %w", i, err)
		}
		out.Primitives = append(out.Primitives, p)
	}
	return out, nil
}

func decodePrimitive(doc *gltf.Document, prim *gltf.Primitive) (Primitive, error) {
	var p Primitive

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return p, fmt.Errorf("missing %s attribute", gltf.POSITION)
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return p, err
	}
	if p.Positions, err = modeler.ReadPosition(doc, acc, nil); err != nil {
		return p, fmt.Errorf("reading positions: %w", err)
	}

	if prim.Indices != nil {
		acc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return p, err
		}
		if p.Indices, err = modeler.ReadIndices(doc, acc, nil); err != nil {
			return p, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		p.Indices = make([]uint32, len(p.Positions))
		for i := range p.Indices {
			p.Indices[i] = uint32(i)
		}
	}

	for ti, target := range prim.Targets {
		idx, ok := target[gltf.POSITION]
		if !ok {
			p.Targets = append(p.Targets, make([][3]float32, len(p.Positions)))
			continue
		}
		acc, err := accessor(doc, idx)
		if err != nil {
			return p, err
		}
		deltas, err := modeler.ReadPosition(doc, acc, nil)
		if err != nil {
			return p, fmt.Errorf("reading morph target %d: %w", ti, err)
		}
		if len(deltas) != len(p.Positions) {
			return p, fmt.Errorf("morph target %d has %d vertices, want %d", ti, len(deltas), len(p.Positions))
		}
		p.Targets = append(p.Targets, deltas)
	}

	p.BaseColour = [4]float32{1, 1, 1, 1}
	if prim.Material != nil && *prim.Material < len(doc.Materials) {
		if pbr := doc.Materials[*prim.Material].PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			p.BaseColour = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
		}
	}
	return p, nil
}

func decodeAnimation(doc *gltf.Document, a *gltf.Animation) (*anim.Clip, error) {
	channels := make([]anim.Channel, 0, len(a.Channels))
	for i, ch := range a.Channels {
		if ch.Target.Node == nil {
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(a.Samplers) {
			return nil, fmt.Errorf("channel %d: sampler %d out of range", i, ch.Sampler)
		}
		s := a.Samplers[ch.Sampler]

		inAcc, err := accessor(doc, s.Input)
		if err != nil {
			return nil, err
		}
		times, _, err := readFloats(doc, inAcc)
		if err != nil {
			return nil, fmt.Errorf("channel %d input: %w", i, err)
		}
		outAcc, err := accessor(doc, s.Output)
		if err != nil {
			return nil, err
		}
		values, width, err := readFloats(doc, outAcc)
		if err != nil {
			return nil, fmt.Errorf("channel %d output: %w", i, err)
		}

		c := anim.Channel{
			Node:   *ch.Target.Node,
			Times:  times,
			Values: values,
			Width:  width,
		}
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			c.Path = anim.PathTranslation
		case gltf.TRSRotation:
			c.Path = anim.PathRotation
		case gltf.TRSScale:
			c.Path = anim.PathScale
		case gltf.TRSWeights:
			c.Path = anim.PathWeights
		default:
			continue
		}
		switch s.Interpolation {
		case gltf.InterpolationStep:
			c.Interp = anim.InterpStep
		case gltf.InterpolationCubicSpline:
			c.Interp = anim.InterpCubicSpline
		default:
			c.Interp = anim.InterpLinear
		}

		keys := len(times)
		if c.Interp == anim.InterpCubicSpline {
			keys *= 3
		}
		// Weight outputs are scalar; the width is the number of targets.
		if c.Path == anim.PathWeights && keys > 0 {
			c.Width = len(values) / keys
		}
		if want := pathWidth(c.Path); want != 0 && c.Width != want {
			return nil, fmt.Errorf("channel %d: %s output has %d components, want %d: %w",
				i, ch.Target.Path, c.Width, want, ErrUnsupportedAccessor)
		}
		if c.Width == 0 || len(values) != keys*c.Width {
			return nil, fmt.Errorf("channel %d: %d output values for %d keyframes of width %d",
				i, len(values), len(times), c.Width)
		}
		channels = append(channels, c)
	}
	return anim.NewClip(a.Name, channels), nil
}

// pathWidth is the component count a TRS path needs; 0 for weights.
func pathWidth(p anim.Path) int {
	switch p {
	case anim.PathTranslation, anim.PathScale:
		return 3
	case anim.PathRotation:
		return 4
	}
	return 0
}

func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", i)
	}
	return doc.Accessors[i], nil
}

// readFloats returns accessor data flattened to float32 with its component width.
func readFloats(doc *gltf.Document, acc *gltf.Accessor) ([]float32, int, error) {
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, 0, err
	}
	switch v := data.(type) {
	case []float32:
		return v, 1, nil
	case [][2]float32:
		out := make([]float32, 0, len(v)*2)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, 2, nil
	case [][3]float32:
		out := make([]float32, 0, len(v)*3)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, 3, nil
	case [][4]float32:
		out := make([]float32, 0, len(v)*4)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, 4, nil
	}
	return nil, 0, fmt.Errorf("%T: %w", data, ErrUnsupportedAccessor)
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
