// Package tween interpolates a rotation toward a target over a fixed duration.
// It is polled by the frame loop rather than driven by callbacks.
package tween

import (
	"time"

	"github.com/Faultbox/windmoth/pkg/math"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float32) float32

// Linear is the identity easing.
func Linear(t float32) float32 { return t }

// Rotation interpolates from a start orientation to a target orientation.
type Rotation struct {
	From     math.Quat
	To       math.Quat
	Duration float32 // seconds
	Elapsed  float32 // seconds
	Ease     Easing
}

// NewRotation starts a linear tween from from to to lasting d.
func NewRotation(from, to math.Quat, d time.Duration) *Rotation {
	return &Rotation{
		From:     from,
		To:       to,
		Duration: float32(d.Seconds()),
		Ease:     Linear,
	}
}

// Advance moves the tween forward by dt seconds and returns the current value.
func (r *Rotation) Advance(dt float32) math.Quat {
	r.Elapsed += dt
	return r.Value()
}

// Value returns the orientation at the current elapsed time.
func (r *Rotation) Value() math.Quat {
	return r.From.Slerp(r.To, r.progress())
}

// Progress reports eased progress in [0, 1].
func (r *Rotation) Progress() float32 {
	return r.progress()
}

// Done reports whether the tween has run its full duration.
func (r *Rotation) Done() bool {
	return r.Elapsed >= r.Duration
}

func (r *Rotation) progress() float32 {
	if r.Duration <= 0 {
		return 1
	}
	t := math.Clamp(r.Elapsed/r.Duration, 0, 1)
	if r.Ease != nil {
		t = r.Ease(t)
	}
	return t
}
