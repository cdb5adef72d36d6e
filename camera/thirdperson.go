package camera

import (
	"fmt"

	"solidcast/math"
)

// ThirdPersonCamera follows an avatar standing at Anchor. The eye sits at
// EyeOffset in the avatar's frame (x right, y up, -z forward) and looks at
// the point FocalDistance ahead of the avatar.
type ThirdPersonCamera struct {
	orientation

	Anchor        math.Vec3
	EyeOffset     math.Vec3
	FocalDistance float64
}

// NewThirdPerson places the avatar at anchor facing to. The distance between
// them becomes the focal distance.
func NewThirdPerson(anchor, to, eyeOffset math.Vec3) (*ThirdPersonCamera, error) {
	o, err := newOrientation(anchor, to, math.Vec3Up)
	if err != nil {
		return nil, err
	}
	if o.forward.Cross(o.worldUp).LengthSqr() == 0 {
		return nil, fmt.Errorf("third-person camera: avatar cannot face straight up or down")
	}
	return &ThirdPersonCamera{
		orientation:   o,
		Anchor:        anchor,
		EyeOffset:     eyeOffset,
		FocalDistance: to.Sub(anchor).Length(),
	}, nil
}

func (c *ThirdPersonCamera) Strafe(distance float64) {
	c.Anchor = c.Anchor.Add(c.Right().Mul(distance))
}

func (c *ThirdPersonCamera) Advance(distance float64) {
	c.Anchor = c.Anchor.Add(c.forward.Mul(distance))
}

// WorldFromModel places the avatar model: its x axis along Right, y along
// the eye's up and -z along forward, with its origin at Anchor.
func (c *ThirdPersonCamera) WorldFromModel() math.Mat4 {
	right := c.Right()
	up := right.Cross(c.forward)
	return math.Mat4WorldFromAxes(c.Anchor, right, up, c.forward.Negate())
}

// Eye is the world position of the camera.
func (c *ThirdPersonCamera) Eye() math.Vec3 {
	return c.WorldFromModel().MulPoint(c.EyeOffset)
}

// FocalPoint is the point the eye looks at.
func (c *ThirdPersonCamera) FocalPoint() math.Vec3 {
	return c.Anchor.Add(c.forward.Mul(c.FocalDistance))
}

// EyeFromWorld views the focal point from Eye. When the eye coincides with
// the focal point the avatar's own heading is used.
func (c *ThirdPersonCamera) EyeFromWorld() math.Mat4 {
	eye := c.Eye()
	forward, err := c.FocalPoint().Sub(eye).Normalize()
	if err != nil {
		forward = c.forward
	}
	view := orientation{forward: forward, worldUp: c.worldUp}
	return view.eyeFromWorld(eye)
}
