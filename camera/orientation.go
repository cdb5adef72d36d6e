// Package camera moves eyes through a scene: a terrain-following first-person
// camera with jumping and collider boxes, a simpler camera pinned to a
// heightfield, a third-person chase camera and a trackball.
//
// Camera methods mutate the receiver and are not safe for concurrent use.
// Separate cameras share nothing.
package camera

import (
	"fmt"

	"solidcast/math"
)

// Surface reports the height of the ground at world (x, z), or false when
// (x, z) is outside it. terrain.Scaled is the usual implementation.
type Surface interface {
	GroundAt(x, z float64) (float64, bool)
}

// orientation holds a unit forward vector and a fixed world up. The right
// vector is derived on every call and never stored.
type orientation struct {
	forward math.Vec3
	worldUp math.Vec3
}

func newOrientation(from, to, worldUp math.Vec3) (orientation, error) {
	forward, err := to.Sub(from).Normalize()
	if err != nil {
		return orientation{}, fmt.Errorf("camera look direction: %w", err)
	}
	up, err := worldUp.Normalize()
	if err != nil {
		return orientation{}, fmt.Errorf("camera world up: %w", err)
	}
	return orientation{forward: forward, worldUp: up}, nil
}

// Forward is the unit view direction.
func (o *orientation) Forward() math.Vec3 { return o.forward }

// WorldUp is the fixed up direction yaw rotates about.
func (o *orientation) WorldUp() math.Vec3 { return o.worldUp }

// Right is normalize(forward x worldUp). Looking straight along the up axis
// leaves that undefined, so any horizontal unit vector is returned instead.
func (o *orientation) Right() math.Vec3 {
	right, err := o.forward.Cross(o.worldUp).Normalize()
	if err != nil {
		return perpendicular(o.worldUp)
	}
	return right
}

// Up is the eye's up vector, perpendicular to forward and right.
func (o *orientation) Up() math.Vec3 {
	return o.Right().Cross(o.forward)
}

// SetForward points the camera along dir.
func (o *orientation) SetForward(dir math.Vec3) error {
	forward, err := dir.Normalize()
	if err != nil {
		return fmt.Errorf("camera look direction: %w", err)
	}
	o.forward = forward
	return nil
}

// Yaw turns forward about the world up axis by degrees, counter-clockwise
// seen from above.
func (o *orientation) Yaw(degrees float64) {
	o.rotate(o.worldUp, degrees)
}

// Pitch tilts forward about the right axis by degrees; positive looks up.
// Nothing clamps the result.
func (o *orientation) Pitch(degrees float64) {
	o.rotate(o.Right(), degrees)
}

func (o *orientation) rotate(axis math.Vec3, degrees float64) {
	rotation, err := math.Mat4RotateAround(axis, degrees)
	if err != nil {
		return
	}
	if forward, err := rotation.MulDir(o.forward).Normalize(); err == nil {
		o.forward = forward
	}
}

func (o *orientation) eyeFromWorld(from math.Vec3) math.Mat4 {
	right := o.Right()
	return math.Mat4EyeFromAxes(from, right, right.Cross(o.forward), o.forward.Negate())
}

// perpendicular returns a unit vector at right angles to v.
func perpendicular(v math.Vec3) math.Vec3 {
	candidate := math.Vec3Right
	if v.Cross(candidate).LengthSqr() < 1e-12 {
		candidate = math.Vec3Front
	}
	out, err := v.Cross(candidate).Normalize()
	if err != nil {
		return math.Vec3Right
	}
	return out
}
