package raycast

import (
	stdmath "math"

	"solidcast/math"
)

// IntersectRaySphere solves |o + t·d - c|² = r² for t. A tangent ray yields a
// single point.
func IntersectRaySphere(ray Ray, center math.Vec3, radius float64) []math.Vec3 {
	ray, ok := ray.unit()
	if !ok || radius <= 0 {
		return nil
	}

	// With a unit direction the quadratic's leading coefficient is 1.
	centerToStart := ray.Origin.Sub(center)
	b := 2 * centerToStart.Dot(ray.Direction)
	c := centerToStart.Dot(centerToStart) - radius*radius
	discriminant := b*b - 4*c
	if discriminant < 0 {
		return nil
	}

	hits := newHitList(ray)
	if discriminant == 0 {
		hits.add(-b / 2)
		return hits.points()
	}
	offset := stdmath.Sqrt(discriminant)
	hits.add((-b - offset) / 2)
	hits.add((-b + offset) / 2)
	return hits.points()
}
