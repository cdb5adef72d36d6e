package input

import (
	stdmath "math"
	"time"

	"k8s.io/klog/v2"

	"solidcast/camera"
	"solidcast/math"
	"solidcast/raycast"
)

// Controller drives a first-person camera from per-frame input. Speeds are
// per millisecond and angles are in degrees.
type Controller struct {
	// Speed is the walking distance per ms at full momentum.
	Speed float64 `json:"speed"`
	// SprintFactor multiplies Speed while Sprint is held.
	SprintFactor float64 `json:"sprintFactor"`
	// LookSpeed is the key and stick turn rate per ms.
	LookSpeed float64 `json:"lookSpeed"`
	// MouseLookSpeed is the turn per pixel of mouse movement.
	MouseLookSpeed float64 `json:"mouseLookSpeed"`
	JumpVelocity   float64 `json:"jumpVelocity"`
	// MaxPitch bounds how far above or below the horizon the camera looks.
	MaxPitch float64 `json:"maxPitch"`

	// Bounds, when set, keeps the camera inside a horizontal footprint.
	Bounds *raycast.Box `json:"-"`
	// Code toggles god mode when completed. Nil disables it.
	Code *Sequence `json:"-"`

	tracker Tracker
	clock   time.Duration
}

// NewController returns a controller with the stock tuning and the god mode
// code armed.
func NewController() *Controller {
	return &Controller{
		Speed:          0.2,
		SprintFactor:   3.5,
		LookSpeed:      0.24,
		MouseLookSpeed: 0.24 / 2.3,
		JumpVelocity:   0.88,
		MaxPitch:       75,
		Code:           NewSequence(GodModeCode, DefaultSequenceTimeout),
	}
}

// Tracker exposes the edge state seen by the last Update.
func (c *Controller) Tracker() *Tracker { return &c.tracker }

// Update applies one frame of input to cam: momentum and movement, bounds,
// look, jump, then physics and knockback.
func (c *Controller) Update(cam *camera.FirstPersonCamera, s State, elapsedMs float64) {
	c.tracker.Update(s)
	c.clock += time.Duration(elapsedMs * float64(time.Millisecond))

	if c.Code != nil && c.Code.Feed(c.tracker.PressedActions(), c.clock) {
		cam.GodMode = !cam.GodMode
		klog.V(2).InfoS("Toggled god mode", "enabled", cam.GodMode)
	}

	forward, strafe := s.Axes()
	cam.UpdateMomentum(forward, strafe)
	speed := c.Speed
	if s.Sprint {
		speed *= c.SprintFactor
	}
	cam.ApplyMomentumMovement(elapsedMs * speed)

	if c.Bounds != nil {
		cam.ClampTo(*c.Bounds)
	}

	turn := c.LookSpeed * elapsedMs
	var yaw, pitch float64
	if s.LookUp {
		pitch += turn
	}
	if s.LookDown {
		pitch -= turn
	}
	if s.LookLeft {
		yaw += turn
	}
	if s.LookRight {
		yaw -= turn
	}
	yaw -= deadZone(s.LookX) * turn
	pitch -= deadZone(s.LookY) * turn
	yaw -= s.MouseDX * c.MouseLookSpeed
	pitch -= s.MouseDY * c.MouseLookSpeed

	if yaw != 0 {
		cam.Yaw(yaw)
	}
	if pitch != 0 {
		c.pitch(cam, pitch)
	}

	if c.tracker.Pressed(ActionJump) {
		cam.Jump(c.JumpVelocity)
	}

	cam.UpdatePhysics(elapsedMs)
	cam.UpdateKnockback()
}

// pitch turns by delta degrees without passing MaxPitch either way. A
// camera already beyond the limit may still turn back toward the horizon.
func (c *Controller) pitch(cam *camera.FirstPersonCamera, delta float64) {
	current := Elevation(cam.Forward(), cam.WorldUp())
	limited := delta
	if delta > 0 {
		limited = stdmath.Min(delta, c.MaxPitch-current)
	} else {
		limited = stdmath.Max(delta, -c.MaxPitch-current)
	}
	if limited*delta > 0 {
		cam.Pitch(limited)
	}
}

// Elevation is the angle in degrees between forward and the horizontal plane
// of up, positive when looking up.
func Elevation(forward, up math.Vec3) float64 {
	return math.Degrees(stdmath.Asin(math.Clamp(forward.Dot(up), -1, 1)))
}
