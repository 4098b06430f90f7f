package tween

import (
	"testing"
	"time"

	"github.com/Faultbox/windmoth/pkg/math"
)

func TestRotationReachesTarget(t *testing.T) {
	from := math.QuatFromAxisAngle(math.Vec3{X: 1, Y: 0, Z: 0}, 2)
	r := NewRotation(from, math.QuatIdentity(), 500*time.Millisecond)

	if r.Done() {
		t.Fatal("fresh tween should not be done")
	}
	if got := r.Value(); !got.ApproxEqual(from, 1e-6) {
		t.Errorf("start value = %v, want %v", got, from)
	}

	var steps int
	for !r.Done() {
		r.Advance(1.0 / 60)
		steps++
		if steps > 100 {
			t.Fatal("tween never finished")
		}
	}
	// 500ms at 60fps takes 30 ticks, give or take float rounding.
	if steps < 30 || steps > 31 {
		t.Errorf("finished after %d ticks, want 30", steps)
	}
	if got := r.Value(); !got.ApproxEqual(math.QuatIdentity(), 1e-6) {
		t.Errorf("end value = %v, want identity", got)
	}
}

func TestRotationMidpoint(t *testing.T) {
	axis := math.Vec3{X: 0, Y: 0, Z: 1}
	r := NewRotation(math.QuatFromAxisAngle(axis, 1), math.QuatIdentity(), time.Second)
	got := r.Advance(0.5)
	if want := math.QuatFromAxisAngle(axis, 0.5); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("midpoint = %v, want %v", got, want)
	}
}

func TestRotationOvershootClamps(t *testing.T) {
	r := NewRotation(math.QuatFromAxisAngle(math.Vec3{Y: 1}, 1), math.QuatIdentity(), 100*time.Millisecond)
	got := r.Advance(5)
	if !r.Done() || !got.ApproxEqual(math.QuatIdentity(), 1e-6) {
		t.Errorf("overshoot should clamp to target, got %v", got)
	}
	if r.Progress() != 1 {
		t.Errorf("progress = %v, want 1", r.Progress())
	}
}

func TestZeroDurationIsDone(t *testing.T) {
	r := NewRotation(math.QuatIdentity(), math.QuatIdentity(), 0)
	if !r.Done() {
		t.Error("zero-duration tween should be done immediately")
	}
}
