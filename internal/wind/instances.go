package wind

import "github.com/Faultbox/windmoth/pkg/math"

// InstanceStride is the number of floats per trail in Instances:
// x, y, z, length, opacity.
const InstanceStride = 5

// Instances packs every trail into dst for GPU upload, growing dst when
// needed. Opacity is clamped to [0, 1] here; the trail keeps the raw value.
func (f *Field) Instances(dst []float32) []float32 {
	n := len(f.trails) * InstanceStride
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i, t := range f.trails {
		o := dst[i*InstanceStride : (i+1)*InstanceStride]
		o[0], o[1], o[2] = t.Position.X, t.Position.Y, t.Position.Z
		o[3] = t.Length
		o[4] = math.Clamp(t.Opacity, 0, 1)
	}
	return dst
}
