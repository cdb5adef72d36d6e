package camera

import (
	stdmath "math"

	"k8s.io/klog/v2"

	"solidcast/math"
	"solidcast/raycast"
)

// Tuning holds the first-person camera's physics constants. Times are in
// milliseconds and distances in world units.
type Tuning struct {
	// Gravity is the downward acceleration in units per ms².
	Gravity float64 `json:"gravity"`
	// Acceleration and Deceleration are the per-update lerp factors that
	// pull momentum toward the input, or toward zero without input.
	Acceleration float64 `json:"acceleration"`
	Deceleration float64 `json:"deceleration"`
	// MomentumDeadZone is the momentum magnitude below which no movement is
	// applied.
	MomentumDeadZone float64 `json:"momentumDeadZone"`
	// SnapTolerance is how far a grounded camera may drift from the ground
	// before being snapped back.
	SnapTolerance float64 `json:"snapTolerance"`
	// FallThreshold is how far above the ground a move may leave a grounded
	// camera before it starts falling.
	FallThreshold float64 `json:"fallThreshold"`
	// KnockbackDecay scales knockback velocity each update; KnockbackCutoff
	// is the speed below which knockback stops.
	KnockbackDecay  float64 `json:"knockbackDecay"`
	KnockbackCutoff float64 `json:"knockbackCutoff"`
}

// DefaultTuning returns the stock physics constants.
func DefaultTuning() Tuning {
	return Tuning{
		Gravity:          0.002,
		Acceleration:     0.15,
		Deceleration:     0.10,
		MomentumDeadZone: 0.001,
		SnapTolerance:    0.01,
		FallThreshold:    0.5,
		KnockbackDecay:   0.85,
		KnockbackCutoff:  0.1,
	}
}

// FirstPersonCamera walks over a heightfield and a set of axis-aligned
// collider boxes. Its vertical position is either grounded, tracking the
// highest surface below it, or airborne, integrating gravity until it lands.
//
// Heights of the ground and of collider tops are raised by Offset (eye
// height); collider bottoms are lowered by it.
type FirstPersonCamera struct {
	orientation

	From    math.Vec3
	Terrain Surface
	Offset  float64
	Tuning  Tuning

	// GodMode moves freely along forward and ignores knockback.
	GodMode bool
	// MeshInteraction enables ground following, colliders and physics.
	MeshInteraction bool

	colliders        []raycast.Box
	verticalVelocity float64
	airborne         bool
	momentumForward  float64
	momentumStrafe   float64
	knockback        math.Vec3
}

// NewFirstPerson places a camera at from looking toward to. It starts
// airborne so the first physics update drops it onto the ground.
func NewFirstPerson(from, to, worldUp math.Vec3, terrain Surface, offset float64) (*FirstPersonCamera, error) {
	o, err := newOrientation(from, to, worldUp)
	if err != nil {
		return nil, err
	}
	return &FirstPersonCamera{
		orientation:     o,
		From:            from,
		Terrain:         terrain,
		Offset:          offset,
		Tuning:          DefaultTuning(),
		MeshInteraction: true,
		airborne:        true,
	}, nil
}

// EyeFromWorld is the view transform for the current position and heading.
func (c *FirstPersonCamera) EyeFromWorld() math.Mat4 {
	return c.eyeFromWorld(c.From)
}

// Airborne reports whether the camera is jumping or falling.
func (c *FirstPersonCamera) Airborne() bool { return c.airborne }

// VerticalVelocity is in units per ms, positive upward.
func (c *FirstPersonCamera) VerticalVelocity() float64 { return c.verticalVelocity }

// Momentum returns the smoothed forward and strafe input.
func (c *FirstPersonCamera) Momentum() (forward, strafe float64) {
	return c.momentumForward, c.momentumStrafe
}

// Knockback is the displacement the next UpdateKnockback applies.
func (c *FirstPersonCamera) Knockback() math.Vec3 { return c.knockback }

// Strafe moves along Right by distance.
func (c *FirstPersonCamera) Strafe(distance float64) {
	c.From = c.From.Add(c.Right().Mul(distance))
	if c.MeshInteraction {
		c.checkIfShouldFall()
	}
}

// Advance moves along forward by distance. While walking, forward is
// flattened onto the horizontal plane so looking up or down does not fly;
// looking straight up or down then moves nowhere.
func (c *FirstPersonCamera) Advance(distance float64) {
	if c.GodMode || !c.MeshInteraction {
		c.From = c.From.Add(c.forward.Mul(distance))
		return
	}
	horizontal := c.forward.Sub(c.worldUp.Mul(c.forward.Dot(c.worldUp)))
	if dir, err := horizontal.Normalize(); err == nil {
		c.From = c.From.Add(dir.Mul(distance))
	}
	c.checkIfShouldFall()
}

// Jump launches the camera upward with velocity units per ms. It does
// nothing while already airborne.
func (c *FirstPersonCamera) Jump(velocity float64) {
	if c.airborne {
		return
	}
	c.verticalVelocity = velocity
	c.airborne = true
	klog.V(4).InfoS("Camera jumped", "from", c.From, "velocity", velocity)
}

// UpdateMomentum eases momentum toward the raw input, each in [-1, 1]. Zero
// input eases toward zero at the deceleration rate.
func (c *FirstPersonCamera) UpdateMomentum(inputForward, inputStrafe float64) {
	c.momentumForward = c.ease(c.momentumForward, inputForward)
	c.momentumStrafe = c.ease(c.momentumStrafe, inputStrafe)
}

func (c *FirstPersonCamera) ease(current, input float64) float64 {
	if input != 0 {
		return math.Lerp(current, input, c.Tuning.Acceleration)
	}
	return math.Lerp(current, 0, c.Tuning.Deceleration)
}

// ApplyMomentumMovement advances and strafes by momentum times speed,
// skipping either axis inside the dead zone.
func (c *FirstPersonCamera) ApplyMomentumMovement(speed float64) {
	if stdmath.Abs(c.momentumForward) > c.Tuning.MomentumDeadZone {
		c.Advance(c.momentumForward * speed)
	}
	if stdmath.Abs(c.momentumStrafe) > c.Tuning.MomentumDeadZone {
		c.Strafe(c.momentumStrafe * speed)
	}
}

// ApplyKnockback sets a per-update displacement of direction*strength and
// makes the camera airborne so it falls if pushed off a ledge.
func (c *FirstPersonCamera) ApplyKnockback(direction math.Vec3, strength float64) {
	if c.GodMode {
		return
	}
	c.knockback = direction.Mul(strength)
	c.airborne = true
}

// UpdateKnockback applies and decays the current knockback.
func (c *FirstPersonCamera) UpdateKnockback() {
	if c.knockback.Length() <= c.Tuning.KnockbackCutoff {
		c.knockback = math.Vec3Zero
		return
	}
	c.From = c.From.Add(c.knockback)
	c.knockback = c.knockback.Mul(c.Tuning.KnockbackDecay)
}

// ClampTo keeps From inside bounds horizontally and reports whether it moved.
func (c *FirstPersonCamera) ClampTo(bounds raycast.Box) bool {
	x := math.Clamp(c.From.X, bounds.Min.X, bounds.Max.X)
	z := math.Clamp(c.From.Z, bounds.Min.Z, bounds.Max.Z)
	moved := x != c.From.X || z != c.From.Z
	c.From.X, c.From.Z = x, z
	return moved
}

// AddCollider registers a box the camera can stand on or bump into.
func (c *FirstPersonCamera) AddCollider(box raycast.Box) {
	c.colliders = append(c.colliders, box)
}

// RemoveCollider drops the first collider equal to box.
func (c *FirstPersonCamera) RemoveCollider(box raycast.Box) bool {
	for i, existing := range c.colliders {
		if existing == box {
			c.colliders = append(c.colliders[:i], c.colliders[i+1:]...)
			return true
		}
	}
	return false
}

func (c *FirstPersonCamera) ClearColliders() { c.colliders = nil }

// Colliders returns a copy of the registered boxes.
func (c *FirstPersonCamera) Colliders() []raycast.Box {
	return append([]raycast.Box(nil), c.colliders...)
}

// checkIfShouldFall resolves a grounded camera after a horizontal move:
// it snaps to the ground below, or starts falling when the ground is gone or
// more than FallThreshold below.
func (c *FirstPersonCamera) checkIfShouldFall() {
	if c.airborne {
		return
	}
	ground, ok := c.groundBelow(c.From.Y)
	switch {
	case !ok:
		c.startFalling("no ground")
	case c.From.Y > ground+c.Tuning.FallThreshold:
		c.startFalling("walked off ledge")
	default:
		c.From.Y = ground
		c.verticalVelocity = 0
	}
}

func (c *FirstPersonCamera) startFalling(reason string) {
	c.airborne = true
	c.verticalVelocity = 0
	klog.V(4).InfoS("Camera falling", "reason", reason, "from", c.From)
}

// UpdatePhysics advances vertical motion by elapsed milliseconds.
func (c *FirstPersonCamera) UpdatePhysics(elapsed float64) {
	if !c.MeshInteraction {
		return
	}
	if !c.airborne {
		ground, ok := c.groundBelow(c.From.Y)
		switch {
		case !ok:
			c.startFalling("no ground")
		case stdmath.Abs(c.From.Y-ground) > c.Tuning.SnapTolerance:
			c.From.Y = ground
		}
		return
	}

	// Surfaces are probed from where the step started so a fast fall
	// cannot tunnel through a thin platform.
	startY := c.From.Y
	c.verticalVelocity -= c.Tuning.Gravity * elapsed
	c.From.Y += c.verticalVelocity * elapsed

	if c.verticalVelocity > 0 {
		if ceiling, ok := c.ceilingAbove(startY); ok && c.From.Y >= ceiling {
			c.From.Y = ceiling
			c.verticalVelocity = 0
			klog.V(4).InfoS("Camera hit ceiling", "y", ceiling)
		}
	}

	if ground, ok := c.groundBelow(startY); ok && c.From.Y <= ground {
		c.From.Y = ground
		c.verticalVelocity = 0
		c.airborne = false
		klog.V(4).InfoS("Camera landed", "from", c.From)
	}
}

// GroundHeight is the highest surface below the camera, eye offset included.
func (c *FirstPersonCamera) GroundHeight() (float64, bool) {
	return c.groundBelow(c.From.Y)
}

// CeilingHeight is the lowest collider underside above the camera, eye
// offset subtracted.
func (c *FirstPersonCamera) CeilingHeight() (float64, bool) {
	return c.ceilingAbove(c.From.Y)
}

// groundBelow takes the maximum of the terrain and the top of every collider
// that a downward ray from (x, probeY, z) enters. A probe within Tolerance
// below a top still stands on it, so a camera resting on a face never
// starts its next probe inside the box.
func (c *FirstPersonCamera) groundBelow(probeY float64) (float64, bool) {
	best, found := 0.0, false
	if c.Terrain != nil {
		if h, ok := c.Terrain.GroundAt(c.From.X, c.From.Z); ok {
			best, found = h+c.Offset, true
		}
	}
	down := raycast.Ray{Origin: math.Vec3{X: c.From.X, Y: probeY, Z: c.From.Z}, Direction: math.Vec3Down}
	for _, box := range c.colliders {
		if !box.ContainsXZ(c.From.X, c.From.Z) {
			continue
		}
		t0, _, ok := raycast.IntersectRayBoxSpan(down, box.Min, box.Max)
		if !ok || t0 < -raycast.Tolerance {
			// Starting inside a box does not put its top underfoot.
			continue
		}
		h := box.Max.Y + c.Offset
		if !found || h > best {
			best, found = h, true
		}
	}
	return best, found
}

// ceilingAbove takes the minimum underside of every collider that an upward
// ray from (x, probeY, z) enters, with the same Tolerance as groundBelow.
func (c *FirstPersonCamera) ceilingAbove(probeY float64) (float64, bool) {
	best, found := 0.0, false
	up := raycast.Ray{Origin: math.Vec3{X: c.From.X, Y: probeY, Z: c.From.Z}, Direction: math.Vec3Up}
	for _, box := range c.colliders {
		if !box.ContainsXZ(c.From.X, c.From.Z) {
			continue
		}
		t0, _, ok := raycast.IntersectRayBoxSpan(up, box.Min, box.Max)
		if !ok || t0 < -raycast.Tolerance {
			continue
		}
		h := box.Min.Y - c.Offset
		if !found || h < best {
			best, found = h, true
		}
	}
	return best, found
}

// Snapshot is a copy of the camera's observable state.
type Snapshot struct {
	From             math.Vec3 `json:"from"`
	Forward          math.Vec3 `json:"forward"`
	VerticalVelocity float64   `json:"verticalVelocity"`
	Airborne         bool      `json:"airborne"`
	MomentumForward  float64   `json:"momentumForward"`
	MomentumStrafe   float64   `json:"momentumStrafe"`
}

func (c *FirstPersonCamera) Snapshot() Snapshot {
	return Snapshot{
		From:             c.From,
		Forward:          c.forward,
		VerticalVelocity: c.verticalVelocity,
		Airborne:         c.airborne,
		MomentumForward:  c.momentumForward,
		MomentumStrafe:   c.momentumStrafe,
	}
}
