// Package anim samples keyframed node animation clips into a pose and plays
// them through looping mixers.
package anim

import (
	"github.com/Faultbox/windmoth/pkg/math"
)

// Path is the node property a channel drives.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
	PathWeights
)

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	case PathWeights:
		return "weights"
	}
	return "unknown"
}

// Interpolation selects how values between keyframes are produced.
type Interpolation int

const (
	InterpLinear Interpolation = iota
	InterpStep
	InterpCubicSpline
)

// Channel animates one property of one node.
type Channel struct {
	Node   int
	Path   Path
	Interp Interpolation
	Times  []float32
	// Values holds Width floats per keyframe; cubic-spline channels store
	// in-tangent, value and out-tangent per keyframe (3*Width floats).
	Values []float32
	Width  int
}

// Clip is a named set of channels.
type Clip struct {
	Name     string
	Duration float32
	Channels []Channel
}

// NewClip builds a clip whose duration is the last keyframe time across channels.
func NewClip(name string, channels []Channel) *Clip {
	c := &Clip{Name: name, Channels: channels}
	for i := range channels {
		if n := len(channels[i].Times); n > 0 && channels[i].Times[n-1] > c.Duration {
			c.Duration = channels[i].Times[n-1]
		}
	}
	return c
}

// Sample writes the channel value at time t into out (len >= Width).
func (c *Channel) Sample(t float32, out []float32) {
	n := len(c.Times)
	if n == 0 || c.Width == 0 {
		return
	}

	stride := c.Width
	offset := 0
	if c.Interp == InterpCubicSpline {
		stride = 3 * c.Width
		offset = c.Width
	}
	value := func(i int) []float32 {
		base := i*stride + offset
		return c.Values[base : base+c.Width]
	}

	if t <= c.Times[0] || n == 1 {
		copy(out, value(0))
		return
	}
	if t >= c.Times[n-1] {
		copy(out, value(n-1))
		return
	}

	i := c.keyframeBefore(t)
	if c.Interp == InterpStep {
		copy(out, value(i))
		return
	}

	t0, t1 := c.Times[i], c.Times[i+1]
	td := t1 - t0
	s := float32(0)
	if td > 0 {
		s = (t - t0) / td
	}

	switch c.Interp {
	case InterpCubicSpline:
		c.hermite(i, s, td, out)
		if c.Path == PathRotation {
			normalizeQuat(out)
		}
	default:
		a, b := value(i), value(i+1)
		if c.Path == PathRotation && c.Width == 4 {
			q := math.QuatFromArray([4]float32{a[0], a[1], a[2], a[3]}).
				Slerp(math.QuatFromArray([4]float32{b[0], b[1], b[2], b[3]}), s)
			out[0], out[1], out[2], out[3] = q.X, q.Y, q.Z, q.W
			return
		}
		for k := 0; k < c.Width; k++ {
			out[k] = math.Lerp(a[k], b[k], s)
		}
	}
}

// keyframeBefore returns i with Times[i] <= t < Times[i+1].
func (c *Channel) keyframeBefore(t float32) int {
	lo, hi := 0, len(c.Times)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if c.Times[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// hermite evaluates the glTF cubic-spline form between keyframes i and i+1.
func (c *Channel) hermite(i int, s, td float32, out []float32) {
	w := c.Width
	base0 := i * 3 * w
	base1 := (i + 1) * 3 * w

	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	for k := 0; k < w; k++ {
		p0 := c.Values[base0+w+k]
		m0 := c.Values[base0+2*w+k] * td
		p1 := c.Values[base1+w+k]
		m1 := c.Values[base1+k] * td
		out[k] = h00*p0 + h10*m0 + h01*p1 + h11*m1
	}
}

func normalizeQuat(v []float32) {
	q := math.QuatFromArray([4]float32{v[0], v[1], v[2], v[3]}).Normalize()
	v[0], v[1], v[2], v[3] = q.X, q.Y, q.Z, q.W
}
