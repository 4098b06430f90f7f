// Package camera provides the damped orbit camera used to view the scene.
package camera

import (
	gomath "math"

	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/windmoth/pkg/math"
)

// orbit is a position on a sphere around the target.
type orbit struct {
	Distance float32
	Pitch    float32 // vertical angle, radians
	Yaw      float32 // horizontal angle, radians
}

// OrbitCamera orbits around a target point. Drag and zoom move a goal orbit;
// Update eases the current orbit toward it.
type OrbitCamera struct {
	Target math.Vec3

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Damping settings. With Damping off the camera snaps to its goal.
	Damping      bool
	Frequency    float64
	DampingRatio float64

	// Projection
	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	home     orbit
	current  orbit
	goal     orbit
	velocity orbit
}

// NewOrbitCamera creates a camera at eye looking at target.
func NewOrbitCamera(eye, target math.Vec3) *OrbitCamera {
	c := &OrbitCamera{
		Target:          target,
		MinDistance:     1,
		MaxDistance:     10,
		MinPitch:        -1.55,
		MaxPitch:        1.55,
		DragSensitivity: 0.008,
		ZoomSensitivity: 0.1,
		Damping:         true,
		Frequency:       6,
		DampingRatio:    1,
		FOV:             75,
		Aspect:          16.0 / 9.0,
		Near:            0.1,
		Far:             100,
	}
	c.home = orbitFrom(eye.Sub(target))
	c.current = c.home
	c.goal = c.home
	return c
}

// Reset moves the goal back to the initial view.
func (c *OrbitCamera) Reset() {
	c.goal = c.home
}

func orbitFrom(offset math.Vec3) orbit {
	d := offset.Length()
	if d == 0 {
		return orbit{Distance: 1}
	}
	return orbit{
		Distance: d,
		Pitch:    float32(gomath.Asin(float64(offset.Y / d))),
		Yaw:      float32(gomath.Atan2(float64(offset.X), float64(offset.Z))),
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	o := c.current
	cp := gomath.Cos(float64(o.Pitch))
	return math.Vec3{
		X: c.Target.X + o.Distance*float32(cp*gomath.Sin(float64(o.Yaw))),
		Y: c.Target.Y + o.Distance*float32(gomath.Sin(float64(o.Pitch))),
		Z: c.Target.Z + o.Distance*float32(cp*gomath.Cos(float64(o.Yaw))),
	}
}

// Distance returns the current distance from the target.
func (c *OrbitCamera) Distance() float32 {
	return c.current.Distance
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Target, up)
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV*gomath.Pi/180, c.Aspect, c.Near, c.Far)
}

// SetAspect updates the aspect ratio for a viewport of w by h pixels.
func (c *OrbitCamera) SetAspect(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.Aspect = float32(w) / float32(h)
}

// HandleDrag moves the goal orbit by a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.goal.Yaw -= deltaX * c.DragSensitivity
	c.goal.Pitch = math.Clamp(c.goal.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves the goal distance by scroll wheel steps; positive zooms in.
func (c *OrbitCamera) HandleZoom(delta float32) {
	d := c.goal.Distance - delta*c.goal.Distance*c.ZoomSensitivity
	c.goal.Distance = math.Clamp(d, c.MinDistance, c.MaxDistance)
}

// Update eases the camera toward its goal over dt seconds.
func (c *OrbitCamera) Update(dt float32) {
	c.goal.Distance = math.Clamp(c.goal.Distance, c.MinDistance, c.MaxDistance)
	c.goal.Pitch = math.Clamp(c.goal.Pitch, c.MinPitch, c.MaxPitch)

	if !c.Damping || dt <= 0 {
		if !c.Damping {
			c.current = c.goal
			c.velocity = orbit{}
		}
		return
	}

	s := harmonica.NewSpring(float64(dt), c.Frequency, c.DampingRatio)
	c.current.Distance, c.velocity.Distance = step(s, c.current.Distance, c.velocity.Distance, c.goal.Distance)
	c.current.Pitch, c.velocity.Pitch = step(s, c.current.Pitch, c.velocity.Pitch, c.goal.Pitch)
	c.current.Yaw, c.velocity.Yaw = step(s, c.current.Yaw, c.velocity.Yaw, c.goal.Yaw)
}

// Settled reports whether the camera has reached its goal.
func (c *OrbitCamera) Settled() bool {
	const eps = 1e-3
	return abs(c.current.Distance-c.goal.Distance) < eps &&
		abs(c.current.Pitch-c.goal.Pitch) < eps &&
		abs(c.current.Yaw-c.goal.Yaw) < eps
}

func step(s harmonica.Spring, pos, vel, goal float32) (float32, float32) {
	p, v := s.Update(float64(pos), float64(vel), float64(goal))
	return float32(p), float32(v)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
