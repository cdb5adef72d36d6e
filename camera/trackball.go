package camera

import (
	stdmath "math"

	"solidcast/math"
)

// Trackball turns mouse drags into rotations by mapping pixels onto a
// virtual sphere centered in the viewport.
type Trackball struct {
	DragSpeed float64

	width, height float64
	radius        float64

	start    math.Vec3
	previous math.Mat4
	current  math.Mat4
}

// NewTrackball returns an idle trackball. Call SetViewport before dragging.
func NewTrackball(dragSpeed float64) *Trackball {
	return &Trackball{
		DragSpeed: dragSpeed,
		previous:  math.Mat4Identity(),
		current:   math.Mat4Identity(),
	}
}

// SetViewport sizes the virtual sphere. A radius of zero or less uses half
// the smaller viewport dimension.
func (t *Trackball) SetViewport(width, height, radius float64) {
	t.width, t.height = width, height
	if radius <= 0 {
		radius = stdmath.Min(width, height) / 2
	}
	t.radius = radius
}

// PixelToSphere maps a pixel (y down) to a point on the unit sphere, with +z
// toward the viewer. Pixels outside the sphere's silhouette land on its rim.
func (t *Trackball) PixelToSphere(px, py float64) math.Vec3 {
	if t.radius <= 0 {
		return math.Vec3Front
	}
	x := px - t.width/2
	y := -(py - t.height/2)
	if d := stdmath.Hypot(x, y); d > t.radius {
		x, y = x/d*t.radius, y/d*t.radius
	}
	x /= t.radius
	y /= t.radius
	if zSquared := 1 - x*x - y*y; zSquared > 0 {
		return math.Vec3{X: x, Y: y, Z: stdmath.Sqrt(zSquared)}
	}
	return math.Vec3{X: x, Y: y}
}

// Start begins a drag at the given pixel.
func (t *Trackball) Start(px, py float64) {
	t.start = t.PixelToSphere(px, py)
}

// Drag updates the rotation to carry the start point onto the current
// pixel's sphere point, scaled by DragSpeed. Drags too short to define an
// axis leave the rotation unchanged.
func (t *Trackball) Drag(px, py float64) {
	now := t.PixelToSphere(px, py)
	dot := t.start.Dot(now)
	if stdmath.Abs(dot) >= 0.999999 {
		return
	}
	axis := t.start.Cross(now)
	if axis.Length() <= 1e-4 {
		return
	}
	degrees := math.Degrees(stdmath.Acos(math.Clamp(dot, -1, 1)) * t.DragSpeed)
	rotation, err := math.Mat4RotateAround(axis, degrees)
	if err != nil {
		return
	}
	t.current = t.previous.Mul(rotation)
}

// End commits the current drag.
func (t *Trackball) End() {
	t.previous = t.current
}

// Cancel abandons the current drag.
func (t *Trackball) Cancel() {
	t.current = t.previous
}

// Rotation is the accumulated rotation, including any drag in progress.
func (t *Trackball) Rotation() math.Mat4 {
	return t.current
}
