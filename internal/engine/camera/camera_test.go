package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/windmoth/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-3
}

func TestInitialPosition(t *testing.T) {
	eye := math.Vec3{X: 4, Y: 3, Z: 4}
	c := NewOrbitCamera(eye, math.Vec3{})

	p := c.Position()
	if !near(p.X, 4) || !near(p.Y, 3) || !near(p.Z, 4) {
		t.Errorf("Position() = %v, want %v", p, eye)
	}
	if !c.Settled() {
		t.Error("fresh camera should be settled")
	}
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := NewOrbitCamera(math.Vec3{X: 4, Y: 3, Z: 4}, math.Vec3{})
	v := c.ViewMatrix()

	// The target lies straight ahead on the -Z view axis.
	p := v.TransformVec3(math.Vec3{})
	if !near(p.X, 0) || !near(p.Y, 0) {
		t.Errorf("target in view space = %v, want on the -Z axis", p)
	}
	if !near(p.Z, -c.Distance()) {
		t.Errorf("target depth = %v, want %v", p.Z, -c.Distance())
	}
}

func TestZoomClampsDistance(t *testing.T) {
	c := NewOrbitCamera(math.Vec3{X: 0, Y: 0, Z: 5}, math.Vec3{})
	c.Damping = false

	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	c.Update(1.0 / 60)
	if c.Distance() != c.MinDistance {
		t.Errorf("zoomed in distance = %v, want %v", c.Distance(), c.MinDistance)
	}

	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	c.Update(1.0 / 60)
	if c.Distance() != c.MaxDistance {
		t.Errorf("zoomed out distance = %v, want %v", c.Distance(), c.MaxDistance)
	}
}

func TestDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera(math.Vec3{X: 0, Y: 0, Z: 5}, math.Vec3{})
	c.Damping = false

	c.HandleDrag(0, 10000)
	c.Update(1.0 / 60)
	if p := c.Position(); p.Y >= 5 || p.Y <= 4.9 {
		t.Errorf("camera should stop just short of straight overhead, y = %v", p.Y)
	}
}

func TestDampingEasesTowardGoal(t *testing.T) {
	c := NewOrbitCamera(math.Vec3{X: 0, Y: 0, Z: 5}, math.Vec3{})
	c.HandleDrag(-100, 0)

	c.Update(1.0 / 60)
	if c.Settled() {
		t.Fatal("damped camera should not reach its goal in one frame")
	}
	first := c.Position()
	if near(first.X, 0) && near(first.Z, 5) {
		t.Error("damped camera did not move")
	}

	for i := 0; i < 600; i++ {
		c.Update(1.0 / 60)
	}
	if !c.Settled() {
		t.Error("damped camera should settle within ten seconds")
	}
	// Dragging left by 100px yaws by +0.8 rad.
	want := math.Vec3{X: 5 * float32(gomath.Sin(0.8)), Y: 0, Z: 5 * float32(gomath.Cos(0.8))}
	if p := c.Position(); !near(p.X, want.X) || !near(p.Z, want.Z) {
		t.Errorf("settled position = %v, want %v", p, want)
	}
}

func TestSetAspect(t *testing.T) {
	c := NewOrbitCamera(math.Vec3{X: 0, Y: 0, Z: 5}, math.Vec3{})
	c.SetAspect(800, 400)
	if c.Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", c.Aspect)
	}
	c.SetAspect(0, 400)
	if c.Aspect != 2 {
		t.Error("zero-size viewport should leave the aspect unchanged")
	}

	p := c.ProjectionMatrix()
	if !near(p[5]/p[0], 2) {
		t.Errorf("projection x/y scale ratio = %v, want aspect 2", p[5]/p[0])
	}
}

func TestResetReturnsHome(t *testing.T) {
	c := NewOrbitCamera(math.Vec3{X: 4, Y: 3, Z: 4}, math.Vec3{})
	c.Damping = false
	home := c.Position()

	c.HandleDrag(200, 50)
	c.HandleZoom(3)
	c.Update(1.0 / 60)
	if p := c.Position(); near(p.X, home.X) && near(p.Y, home.Y) {
		t.Fatal("drag should have moved the camera")
	}

	c.Reset()
	c.Update(1.0 / 60)
	if p := c.Position(); !near(p.X, home.X) || !near(p.Y, home.Y) || !near(p.Z, home.Z) {
		t.Errorf("after Reset position = %v, want %v", p, home)
	}
}
