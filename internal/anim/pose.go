package anim

import (
	"github.com/Faultbox/windmoth/pkg/math"
)

// NodePose is the animated local transform of one node.
type NodePose struct {
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
	Weights     []float32
}

// Matrix returns the local T*R*S matrix.
func (n *NodePose) Matrix() math.Mat4 {
	return math.Compose(n.Translation, n.Rotation, n.Scale)
}

// Pose holds the local transform of every node in a model.
type Pose struct {
	Nodes []NodePose
}

// Clone returns a deep copy.
func (p *Pose) Clone() *Pose {
	out := &Pose{Nodes: make([]NodePose, len(p.Nodes))}
	copy(out.Nodes, p.Nodes)
	for i := range out.Nodes {
		if w := p.Nodes[i].Weights; w != nil {
			out.Nodes[i].Weights = append([]float32(nil), w...)
		}
	}
	return out
}

// Rotation returns the rotation of node i, or identity when out of range.
func (p *Pose) Rotation(i int) math.Quat {
	if i < 0 || i >= len(p.Nodes) {
		return math.QuatIdentity()
	}
	return p.Nodes[i].Rotation
}

// SetRotation overrides the rotation of node i.
func (p *Pose) SetRotation(i int, q math.Quat) {
	if i < 0 || i >= len(p.Nodes) {
		return
	}
	p.Nodes[i].Rotation = q
}

// apply writes a sampled value into the pose. blend is the share of the new
// value when several actions drive the same property (1 overwrites).
func (p *Pose) apply(node int, path Path, v []float32, blend float32) {
	if node < 0 || node >= len(p.Nodes) {
		return
	}
	n := &p.Nodes[node]

	switch path {
	case PathTranslation:
		n.Translation = n.Translation.Lerp(math.Vec3{X: v[0], Y: v[1], Z: v[2]}, blend)
	case PathScale:
		n.Scale = n.Scale.Lerp(math.Vec3{X: v[0], Y: v[1], Z: v[2]}, blend)
	case PathRotation:
		q := math.QuatFromArray([4]float32{v[0], v[1], v[2], v[3]})
		if blend >= 1 {
			n.Rotation = q
		} else {
			n.Rotation = n.Rotation.Slerp(q, blend)
		}
	case PathWeights:
		if len(n.Weights) < len(v) {
			grown := make([]float32, len(v))
			copy(grown, n.Weights)
			n.Weights = grown
		}
		for k := range v {
			n.Weights[k] = math.Lerp(n.Weights[k], v[k], blend)
		}
	}
}
