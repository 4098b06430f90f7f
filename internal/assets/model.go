package assets

import (
	"github.com/Faultbox/windmoth/internal/anim"
	"github.com/Faultbox/windmoth/pkg/math"
)

// Node is one entry of the model's node hierarchy.
type Node struct {
	Name     string
	Parent   int // -1 for scene roots
	Children []int
	Mesh     int // -1 when the node has no mesh

	// Matrix is set for nodes that declare a fixed local matrix instead of TRS.
	Matrix *math.Mat4
}

// Primitive is a triangle list with optional morph targets. The scene is lit
// by ambient light only, so normals are not kept.
type Primitive struct {
	Positions [][3]float32
	Indices   []uint32

	// Targets holds one position delta per vertex for each morph target.
	Targets [][][3]float32

	BaseColour [4]float32
}

// Morph writes the positions blended by weights into out, growing it when
// needed. Missing weights count as zero.
func (p *Primitive) Morph(weights []float32, out [][3]float32) [][3]float32 {
	if cap(out) < len(p.Positions) {
		out = make([][3]float32, len(p.Positions))
	}
	out = out[:len(p.Positions)]
	copy(out, p.Positions)

	for t, deltas := range p.Targets {
		if t >= len(weights) || weights[t] == 0 {
			continue
		}
		w := weights[t]
		for i, d := range deltas {
			out[i][0] += d[0] * w
			out[i][1] += d[1] * w
			out[i][2] += d[2] * w
		}
	}
	return out
}

// Mesh groups primitives that share morph weights.
type Mesh struct {
	Name       string
	Primitives []Primitive
	Weights    []float32
}

// Model is a decoded, CPU-side scene ready for animation and upload.
type Model struct {
	Name   string
	Nodes  []Node
	Meshes []Mesh
	Clips  []*anim.Clip

	// Rest is the pose from the file, with placement offsets applied.
	Rest *anim.Pose

	// Roots are the top-level nodes of the scene; Root is the first of them.
	Roots []int
	Root  int

	// SceneOffset translates the whole scene.
	SceneOffset math.Vec3
}

// NewPose returns a fresh copy of the rest pose for animation.
func (m *Model) NewPose() *anim.Pose {
	return m.Rest.Clone()
}

// WorldMatrices computes every node's world matrix for pose into out,
// growing it when needed.
func (m *Model) WorldMatrices(pose *anim.Pose, out []math.Mat4) []math.Mat4 {
	if cap(out) < len(m.Nodes) {
		out = make([]math.Mat4, len(m.Nodes))
	}
	out = out[:len(m.Nodes)]

	scene := math.Translate(m.SceneOffset.X, m.SceneOffset.Y, m.SceneOffset.Z)
	for _, r := range m.Roots {
		m.walk(r, scene, pose, out)
	}
	return out
}

func (m *Model) walk(i int, parent math.Mat4, pose *anim.Pose, out []math.Mat4) {
	n := &m.Nodes[i]
	local := pose.Nodes[i].Matrix()
	if n.Matrix != nil {
		local = *n.Matrix
	}
	out[i] = parent.Mul(local)
	for _, c := range n.Children {
		m.walk(c, out[i], pose, out)
	}
}

// VertexCount returns the total number of indexed vertices across all meshes.
func (m *Model) VertexCount() int {
	var n int
	for _, mesh := range m.Meshes {
		for _, p := range mesh.Primitives {
			n += len(p.Indices)
		}
	}
	return n
}
