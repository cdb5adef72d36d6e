// Package raycast intersects rays with solids defined in their own model
// frame. Every function is pure and safe to call from many goroutines.
//
// Results are ordered nearest first and only include points at or in front
// of the ray origin. A ray that starts inside a solid therefore reports only
// its exit point.
package raycast

import (
	"fmt"
	"sort"

	"solidcast/math"
)

const (
	// ParallelEpsilon is the smallest |direction·normal| for which a ray is
	// considered to cross a plane. Below it the plane is skipped.
	ParallelEpsilon = 1e-4

	// Tolerance is the slack applied to containment tests (barycentric
	// weights, cap radii, cone height) and the distance under which two hits
	// on one solid are treated as the same point.
	Tolerance = 1e-3

	// apexEpsilon is the cone top radius below which the top is a true apex
	// with no cap.
	apexEpsilon = 1e-4
)

// Ray is a half-line. Direction does not need to be unit length; every
// intersection routine normalizes it on entry, so results depend only on the
// line's geometry and not on the direction's magnitude.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// NewRay builds a ray with a unit direction.
func NewRay(origin, direction math.Vec3) (Ray, error) {
	dir, err := direction.Normalize()
	if err != nil {
		return Ray{}, fmt.Errorf("ray direction: %w", err)
	}
	return Ray{Origin: origin, Direction: dir}, nil
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) math.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// unit returns r with a unit direction, or false when the direction is zero.
func (r Ray) unit() (Ray, bool) {
	dir, err := r.Direction.Normalize()
	if err != nil {
		return r, false
	}
	return Ray{Origin: r.Origin, Direction: dir}, true
}

// Hit is a point on a ray together with its ray parameter.
type Hit struct {
	T     float64
	Point math.Vec3
}

// hitList accumulates hits for a single solid, dropping anything behind the
// origin and anything within Tolerance of an earlier hit.
type hitList struct {
	ray  Ray
	hits []Hit
}

func newHitList(ray Ray) *hitList {
	return &hitList{ray: ray, hits: make([]Hit, 0, 2)}
}

func (h *hitList) add(t float64) {
	if t < 0 {
		return
	}
	p := h.ray.At(t)
	for _, existing := range h.hits {
		if existing.Point.Distance(p) <= Tolerance {
			return
		}
	}
	h.hits = append(h.hits, Hit{T: t, Point: p})
}

func (h *hitList) points() []math.Vec3 {
	if len(h.hits) == 0 {
		return nil
	}
	sort.Slice(h.hits, func(i, j int) bool { return h.hits[i].T < h.hits[j].T })
	out := make([]math.Vec3, len(h.hits))
	for i, hit := range h.hits {
		out[i] = hit.Point
	}
	return out
}
