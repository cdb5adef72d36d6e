package raycast

import (
	stdmath "math"

	"solidcast/math"
)

// Box is an axis-aligned box given by its min and max corners.
type Box struct {
	Min math.Vec3
	Max math.Vec3
}

func (b Box) Kind() Kind { return KindBox }

func (b Box) Intersect(ray Ray) []math.Vec3 {
	return IntersectRayBox(ray, b.Min, b.Max)
}

func (b Box) Bounds() Box { return b }

func (b Box) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// ContainsXZ reports whether (x, z) lies within the box's horizontal
// footprint, edges included.
func (b Box) ContainsXZ(x, z float64) bool {
	return x >= b.Min.X && x <= b.Max.X && z >= b.Min.Z && z <= b.Max.Z
}

// Union returns the smallest box holding both b and other.
func (b Box) Union(other Box) Box {
	return Box{
		Min: math.Vec3{
			X: stdmath.Min(b.Min.X, other.Min.X),
			Y: stdmath.Min(b.Min.Y, other.Min.Y),
			Z: stdmath.Min(b.Min.Z, other.Min.Z),
		},
		Max: math.Vec3{
			X: stdmath.Max(b.Max.X, other.Max.X),
			Y: stdmath.Max(b.Max.Y, other.Max.Y),
			Z: stdmath.Max(b.Max.Z, other.Max.Z),
		},
	}
}

// IntersectRayBoxSpan runs the slab method over the whole line through ray
// and returns the parameter interval [t0, t1] spent inside the box. The
// interval may start or end behind the origin.
func IntersectRayBoxSpan(ray Ray, boxMin, boxMax math.Vec3) (t0, t1 float64, ok bool) {
	ray, ok = ray.unit()
	if !ok {
		return 0, 0, false
	}
	return slabs(ray, boxMin, boxMax)
}

func slabs(ray Ray, boxMin, boxMax math.Vec3) (t0, t1 float64, ok bool) {
	t0, t1 = stdmath.Inf(-1), stdmath.Inf(1)

	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	dir := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	lo := [3]float64{boxMin.X, boxMin.Y, boxMin.Z}
	hi := [3]float64{boxMax.X, boxMax.Y, boxMax.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			// Parallel to this pair of planes: either always between them or never.
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, 0, false
			}
			continue
		}
		near := (lo[axis] - origin[axis]) / dir[axis]
		far := (hi[axis] - origin[axis]) / dir[axis]
		if near > far {
			near, far = far, near
		}
		// If we've exited one dimension before entering another, bail.
		if near > t1 || far < t0 {
			return 0, 0, false
		}
		if near > t0 {
			t0 = near
		}
		if far < t1 {
			t1 = far
		}
	}
	return t0, t1, true
}

// IntersectRayBox returns the entry and exit points of ray through the box.
// A ray starting inside yields only the exit point.
func IntersectRayBox(ray Ray, boxMin, boxMax math.Vec3) []math.Vec3 {
	ray, ok := ray.unit()
	if !ok {
		return nil
	}
	t0, t1, ok := slabs(ray, boxMin, boxMax)
	if !ok || t1 < 0 {
		return nil
	}
	hits := newHitList(ray)
	hits.add(t0)
	hits.add(t1)
	return hits.points()
}
