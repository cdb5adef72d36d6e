package raycast

import (
	"sort"

	"solidcast/math"
)

// Triangles is a read-only indexed triangle list, such as a tessellated
// terrain.
type Triangles interface {
	Bounds() Box
	TriangleCount() int
	Triangle(i int) (a, b, c math.Vec3)
}

// TriangleHit is a ray hit on one face of a triangle list.
type TriangleHit struct {
	T     float64
	Point math.Vec3
	Face  int
}

// IntersectRayTriangle runs the Möller–Trumbore test and returns the ray
// parameter of the hit. Hits behind the origin are rejected.
func IntersectRayTriangle(ray Ray, v0, v1, v2 math.Vec3) (float64, bool) {
	const epsilon = 1e-12

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false // parallel
	}

	f := 1 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t >= 0
}

// IntersectRayTrimesh tests every face of mesh after a bounding-box
// rejection and returns the hits nearest first. Hits that land on a shared
// edge are reported once.
func IntersectRayTrimesh(ray Ray, mesh Triangles) []TriangleHit {
	ray, ok := ray.unit()
	if !ok || mesh.TriangleCount() == 0 {
		return nil
	}
	bounds := mesh.Bounds()
	if _, t1, ok := slabs(ray, bounds.Min, bounds.Max); !ok || t1 < 0 {
		return nil
	}

	var hits []TriangleHit
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		t, ok := IntersectRayTriangle(ray, a, b, c)
		if !ok {
			continue
		}
		hits = append(hits, TriangleHit{T: t, Point: ray.At(t), Face: i})
	}
	if len(hits) == 0 {
		return nil
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].T < hits[j].T })
	out := hits[:1]
	for _, h := range hits[1:] {
		if h.T-out[len(out)-1].T > Tolerance {
			out = append(out, h)
		}
	}
	return out
}
