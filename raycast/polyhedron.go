package raycast

import (
	stdmath "math"

	lru "github.com/hashicorp/golang-lru"

	"solidcast/math"
)

// Polyhedron is a closed convex solid with planar faces. Faces list vertex
// indices in winding order; faces with more than three vertices are fanned
// from their first vertex.
type Polyhedron struct {
	Vertices []math.Vec3
	Faces    [][]int

	triangles []faceTriangle
	bounds    Box
	centroid  math.Vec3
}

// faceTriangle caches the terms of the barycentric containment test. The
// normal always points away from the centroid.
type faceTriangle struct {
	v0, edge1, edge2 math.Vec3
	normal           math.Vec3
	dot00, dot01     float64
	dot11, invDenom  float64
}

func newPolyhedron(vertices []math.Vec3, faces [][]int) *Polyhedron {
	p := &Polyhedron{Vertices: vertices, Faces: faces}

	p.bounds = Box{Min: vertices[0], Max: vertices[0]}
	sum := vertices[0]
	for _, v := range vertices[1:] {
		p.bounds = p.bounds.Union(Box{Min: v, Max: v})
		sum = sum.Add(v)
	}
	p.centroid = sum.Div(float64(len(vertices)))

	for _, face := range faces {
		for i := 1; i+1 < len(face); i++ {
			v0 := vertices[face[0]]
			edge1 := vertices[face[i]].Sub(v0)
			edge2 := vertices[face[i+1]].Sub(v0)
			normal, err := edge1.Cross(edge2).Normalize()
			if err != nil {
				// Degenerate face of a zero-sized solid.
				continue
			}
			if normal.Dot(v0.Sub(p.centroid)) < 0 {
				normal = normal.Negate()
			}
			dot00 := edge2.Dot(edge2)
			dot01 := edge2.Dot(edge1)
			dot11 := edge1.Dot(edge1)
			p.triangles = append(p.triangles, faceTriangle{
				v0:       v0,
				edge1:    edge1,
				edge2:    edge2,
				normal:   normal,
				dot00:    dot00,
				dot01:    dot01,
				dot11:    dot11,
				invDenom: 1 / (dot00*dot11 - dot01*dot01),
			})
		}
	}
	return p
}

// Centroid is the mean of the vertices.
func (p *Polyhedron) Centroid() math.Vec3 { return p.centroid }

// Bounds is the axis-aligned box around the vertices.
func (p *Polyhedron) Bounds() Box { return p.bounds }

// faceHit is the best candidate seen so far for one crossing direction.
type faceHit struct {
	found bool
	t     float64
	slack float64
}

// Intersect tests every face plane and keeps the hits that land inside the
// face, allowing Tolerance of slack in barycentric weight.
//
// A line crosses a convex solid's boundary at most once inward and once
// outward, so near an edge only the candidate with the least slack is kept
// for each direction. Adjacent faces would otherwise both accept a grazing
// ray at points a few thousandths apart.
func (p *Polyhedron) Intersect(ray Ray) []math.Vec3 {
	ray, ok := ray.unit()
	if !ok {
		return nil
	}
	var entering, exiting faceHit
	for i := range p.triangles {
		tri := &p.triangles[i]

		denom := ray.Direction.Dot(tri.normal)
		if stdmath.Abs(denom) < ParallelEpsilon {
			continue
		}
		t := tri.v0.Sub(ray.Origin).Dot(tri.normal) / denom
		if t < 0 {
			continue
		}

		vp := ray.At(t).Sub(tri.v0)
		dot02 := tri.edge2.Dot(vp)
		dot12 := tri.edge1.Dot(vp)
		u := (tri.dot11*dot02 - tri.dot01*dot12) * tri.invDenom
		v := (tri.dot00*dot12 - tri.dot01*dot02) * tri.invDenom
		if u < -Tolerance || v < -Tolerance || u+v > 1+Tolerance {
			continue
		}

		slack := stdmath.Max(0, stdmath.Max(-u, stdmath.Max(-v, u+v-1)))
		best := &entering
		if denom > 0 {
			best = &exiting
		}
		if !best.found || slack < best.slack {
			*best = faceHit{found: true, t: t, slack: slack}
		}
	}

	hits := newHitList(ray)
	if entering.found {
		hits.add(entering.t)
	}
	if exiting.found {
		hits.add(exiting.t)
	}
	return hits.points()
}

// IntersectRayPyramid intersects a square pyramid whose base has half-width
// halfBase at y = -height/2 and whose apex sits at y = +height/2.
func IntersectRayPyramid(ray Ray, halfBase, height float64) []math.Vec3 {
	if halfBase <= 0 || height <= 0 {
		return nil
	}
	return polyhedronFor(KindPyramid, halfBase, height).Intersect(ray)
}

// IntersectRayTetrahedron intersects a regular tetrahedron of edge size.
func IntersectRayTetrahedron(ray Ray, size float64) []math.Vec3 {
	if size <= 0 {
		return nil
	}
	return polyhedronFor(KindTetrahedron, size, 0).Intersect(ray)
}

// IntersectRayOctahedron intersects a regular octahedron of edge size.
func IntersectRayOctahedron(ray Ray, size float64) []math.Vec3 {
	if size <= 0 {
		return nil
	}
	return polyhedronFor(KindOctahedron, size, 0).Intersect(ray)
}

// IntersectRayDodecahedron intersects a regular dodecahedron. Each pentagonal
// face is split into three triangles.
func IntersectRayDodecahedron(ray Ray, size float64) []math.Vec3 {
	if size <= 0 {
		return nil
	}
	return polyhedronFor(KindDodecahedron, size, 0).Intersect(ray)
}

// IntersectRayIcosahedron intersects a regular icosahedron of circumradius
// size/2.
func IntersectRayIcosahedron(ray Ray, size float64) []math.Vec3 {
	if size <= 0 {
		return nil
	}
	return polyhedronFor(KindIcosahedron, size, 0).Intersect(ray)
}

// PolyhedronOf returns the vertex and face tables for a flat-faced solid.
// It reports false for curved kinds and for boxes, which use slabs.
func PolyhedronOf(s Solid) (*Polyhedron, bool) {
	switch v := s.(type) {
	case Pyramid:
		return polyhedronFor(KindPyramid, v.HalfBase, v.Height), true
	case Tetrahedron:
		return polyhedronFor(KindTetrahedron, v.Size, 0), true
	case Octahedron:
		return polyhedronFor(KindOctahedron, v.Size, 0), true
	case Dodecahedron:
		return polyhedronFor(KindDodecahedron, v.Size, 0), true
	case Icosahedron:
		return polyhedronFor(KindIcosahedron, v.Size, 0), true
	}
	return nil, false
}

// tableKey identifies a polyhedron by kind and its one or two dimensions.
type tableKey struct {
	kind Kind
	a, b float64
}

const tableCacheSize = 128

// tables keeps recently used polyhedra so per-frame callers do not rebuild
// face planes on every ray. The cache is safe for concurrent use.
var tables = mustCache(tableCacheSize)

// mustCache panics on a non-positive size, the only error lru.New returns.
func mustCache(size int) *lru.Cache {
	cache, err := lru.New(size)
	if err != nil {
		panic("raycast: " + err.Error())
	}
	return cache
}

func polyhedronFor(kind Kind, a, b float64) *Polyhedron {
	key := tableKey{kind: kind, a: a, b: b}
	if cached, ok := tables.Get(key); ok {
		return cached.(*Polyhedron)
	}
	var p *Polyhedron
	switch kind {
	case KindPyramid:
		p = buildPyramid(a, b)
	case KindTetrahedron:
		p = buildTetrahedron(a)
	case KindOctahedron:
		p = buildOctahedron(a)
	case KindDodecahedron:
		p = buildDodecahedron(a)
	case KindIcosahedron:
		p = buildIcosahedron(a)
	default:
		panic("raycast: no polyhedron table for " + kind.String())
	}
	tables.Add(key, p)
	return p
}

func buildPyramid(halfBase, height float64) *Polyhedron {
	halfHeight := height / 2
	vertices := []math.Vec3{
		{X: 0, Y: halfHeight, Z: 0}, // apex
		{X: -halfBase, Y: -halfHeight, Z: -halfBase},
		{X: halfBase, Y: -halfHeight, Z: -halfBase},
		{X: halfBase, Y: -halfHeight, Z: halfBase},
		{X: -halfBase, Y: -halfHeight, Z: halfBase},
	}
	faces := [][]int{
		{1, 2, 3, 4}, // base
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 4},
		{0, 4, 1},
	}
	return newPolyhedron(vertices, faces)
}

func buildTetrahedron(size float64) *Polyhedron {
	h := size * stdmath.Sqrt(2.0/3.0) // base to apex
	r := size * stdmath.Sqrt(3) / 3   // base circumradius
	vertices := []math.Vec3{
		{X: 0, Y: h / 2, Z: 0},
		{X: r, Y: -h / 2, Z: 0},
		{X: -r / 2, Y: -h / 2, Z: r * stdmath.Sqrt(3) / 2},
		{X: -r / 2, Y: -h / 2, Z: -r * stdmath.Sqrt(3) / 2},
	}
	faces := [][]int{
		{0, 2, 1},
		{0, 3, 2},
		{0, 1, 3},
		{1, 2, 3},
	}
	return newPolyhedron(vertices, faces)
}

func buildOctahedron(size float64) *Polyhedron {
	s := size / stdmath.Sqrt2
	vertices := []math.Vec3{
		{X: s}, {X: -s},
		{Y: s}, {Y: -s},
		{Z: s}, {Z: -s},
	}
	faces := [][]int{
		{2, 0, 4}, {2, 4, 1}, {2, 1, 5}, {2, 5, 0},
		{3, 4, 0}, {3, 1, 4}, {3, 5, 1}, {3, 0, 5},
	}
	return newPolyhedron(vertices, faces)
}

func buildDodecahedron(size float64) *Polyhedron {
	phi := (1 + stdmath.Sqrt(5)) / 2
	scale := size / (2 * phi)
	raw := []math.Vec3{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: -1},
		{X: 0, Y: 1 / phi, Z: phi}, {X: 0, Y: 1 / phi, Z: -phi}, {X: 0, Y: -1 / phi, Z: phi}, {X: 0, Y: -1 / phi, Z: -phi},
		{X: 1 / phi, Y: phi, Z: 0}, {X: 1 / phi, Y: -phi, Z: 0}, {X: -1 / phi, Y: phi, Z: 0}, {X: -1 / phi, Y: -phi, Z: 0},
		{X: phi, Y: 0, Z: 1 / phi}, {X: phi, Y: 0, Z: -1 / phi}, {X: -phi, Y: 0, Z: 1 / phi}, {X: -phi, Y: 0, Z: -1 / phi},
	}
	vertices := make([]math.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = v.Mul(scale)
	}
	faces := [][]int{
		{0, 8, 10, 2, 16},
		{0, 16, 17, 1, 12},
		{0, 12, 14, 4, 8},
		{1, 17, 3, 11, 9},
		{1, 9, 5, 14, 12},
		{2, 10, 6, 15, 13},
		{2, 13, 3, 17, 16},
		{3, 13, 15, 7, 11},
		{4, 14, 5, 19, 18},
		{4, 18, 6, 10, 8},
		{5, 9, 11, 7, 19},
		{6, 18, 19, 7, 15},
	}
	return newPolyhedron(vertices, faces)
}

func buildIcosahedron(size float64) *Polyhedron {
	phi := (1 + stdmath.Sqrt(5)) / 2
	scale := size / 2
	raw := []math.Vec3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	vertices := make([]math.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = v.MustNormalize().Mul(scale)
	}
	faces := [][]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return newPolyhedron(vertices, faces)
}
