// Package wind owns the wind trail particle field: generation from the
// current parameters and per-frame travel and fading along the z axis.
package wind

import (
	"github.com/Faultbox/windmoth/internal/params"
	"github.com/Faultbox/windmoth/pkg/math"
)

// FadeExtent is the |z| at which a trail has fully faded out. The fade is
// fixed while the wrap window comes from the parameters.
const FadeExtent = 5.0

// Trail is a single wind streak.
type Trail struct {
	Position math.Vec3
	Length   float32 // sampled once at creation
	Opacity  float32
}

// Advance moves a trail forward by one frame. A trail past the end location
// jumps back to the start location on this tick instead of moving.
func Advance(t *Trail, dt float32, p *params.Params) {
	if t.Position.Z > p.TrailEndLoc {
		t.Position.Z = p.TrailStartLoc
	} else {
		t.Position.Z += dt * p.TrailSpeed
	}
	t.Opacity = Opacity(t.Position.Z)
}

// Opacity is the piecewise-linear fade: 0 at -FadeExtent, 1 at z=0, 0 at +FadeExtent.
// Outside [-FadeExtent, FadeExtent] the value extrapolates below zero.
func Opacity(z float32) float32 {
	if z <= 0 {
		return math.MapRange(-FadeExtent, 0, 0, 1, z)
	}
	return math.MapRange(0, FadeExtent, 1, 0, z)
}
