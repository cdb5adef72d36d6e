package raycast

import (
	stdmath "math"

	"solidcast/math"
)

// IntersectRayCone intersects a truncated cone around the Y axis whose radius
// runs linearly from bottomRadius at y = -height/2 to topRadius at
// y = +height/2. Both flat caps are tested; the top cap is skipped when
// topRadius is effectively zero.
func IntersectRayCone(ray Ray, topRadius, bottomRadius, height float64) []math.Vec3 {
	ray, ok := ray.unit()
	if !ok || height <= 0 || topRadius < 0 || bottomRadius < 0 {
		return nil
	}

	halfHeight := height / 2
	o, d := ray.Origin, ray.Direction
	hits := newHitList(ray)

	// r(y) = k*y + r0, and the lateral surface is x² + z² = r(y)².
	k := (topRadius - bottomRadius) / height
	r0 := k*halfHeight + bottomRadius

	a := d.X*d.X + d.Z*d.Z - k*k*d.Y*d.Y
	b := 2 * (o.X*d.X + o.Z*d.Z - k*k*d.Y*o.Y - k*d.Y*r0)
	c := o.X*o.X + o.Z*o.Z - (k*o.Y+r0)*(k*o.Y+r0)
	discriminant := b*b - 4*a*c

	if discriminant >= 0 && stdmath.Abs(a) > ParallelEpsilon {
		sqrtDisc := stdmath.Sqrt(discriminant)
		for _, t := range [2]float64{(-b - sqrtDisc) / (2 * a), (-b + sqrtDisc) / (2 * a)} {
			if t < 0 {
				continue
			}
			y := o.Y + t*d.Y
			if y >= -halfHeight-Tolerance && y <= halfHeight+Tolerance {
				hits.add(t)
			}
		}
	}

	if stdmath.Abs(d.Y) > ParallelEpsilon {
		if topRadius > apexEpsilon {
			capHit(hits, halfHeight, topRadius)
		}
		capHit(hits, -halfHeight, bottomRadius)
	}

	return hits.points()
}

// capHit tests the horizontal disk of the given radius at height y.
func capHit(hits *hitList, y, radius float64) {
	t := (y - hits.ray.Origin.Y) / hits.ray.Direction.Y
	if t < 0 {
		return
	}
	p := hits.ray.At(t)
	if stdmath.Sqrt(p.X*p.X+p.Z*p.Z) <= radius+Tolerance {
		hits.add(t)
	}
}
