package raycast

import (
	"fmt"
	stdmath "math"
	"strings"

	"solidcast/math"
)

// Kind names a family of solids.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindPyramid
	KindCone
	KindTetrahedron
	KindOctahedron
	KindDodecahedron
	KindIcosahedron
)

var kindNames = [...]string{
	KindSphere:       "sphere",
	KindBox:          "box",
	KindPyramid:      "pyramid",
	KindCone:         "cone",
	KindTetrahedron:  "tetrahedron",
	KindOctahedron:   "octahedron",
	KindDodecahedron: "dodecahedron",
	KindIcosahedron:  "icosahedron",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a case-insensitive name such as "cone" to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown solid kind %q", name)
}

// Solid is anything a ray can be intersected with in its model frame.
type Solid interface {
	Kind() Kind
	// Intersect returns surface points ordered nearest first.
	Intersect(ray Ray) []math.Vec3
	// Bounds is the model-space axis-aligned box enclosing the solid.
	Bounds() Box
}

// Sphere is centered at Center with the given Radius.
type Sphere struct {
	Center math.Vec3
	Radius float64
}

func (s Sphere) Kind() Kind { return KindSphere }

func (s Sphere) Intersect(ray Ray) []math.Vec3 {
	return IntersectRaySphere(ray, s.Center, s.Radius)
}

func (s Sphere) Bounds() Box {
	r := math.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return Box{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Pyramid has a square base of half-width HalfBase at y = -Height/2 and its
// apex at y = +Height/2.
type Pyramid struct {
	HalfBase float64
	Height   float64
}

func (p Pyramid) Kind() Kind { return KindPyramid }

func (p Pyramid) Intersect(ray Ray) []math.Vec3 {
	return IntersectRayPyramid(ray, p.HalfBase, p.Height)
}

func (p Pyramid) Bounds() Box {
	return symmetricBox(p.HalfBase, p.Height/2, p.HalfBase)
}

// Cone is a truncated cone around the Y axis: BottomRadius at y = -Height/2
// and TopRadius at y = +Height/2. A TopRadius of zero is a true apex.
type Cone struct {
	TopRadius    float64
	BottomRadius float64
	Height       float64
}

func (c Cone) Kind() Kind { return KindCone }

func (c Cone) Intersect(ray Ray) []math.Vec3 {
	return IntersectRayCone(ray, c.TopRadius, c.BottomRadius, c.Height)
}

func (c Cone) Bounds() Box {
	r := stdmath.Max(c.TopRadius, c.BottomRadius)
	return symmetricBox(r, c.Height/2, r)
}

// Tetrahedron is regular with edge length Size.
type Tetrahedron struct{ Size float64 }

func (t Tetrahedron) Kind() Kind { return KindTetrahedron }

func (t Tetrahedron) Intersect(ray Ray) []math.Vec3 {
	return IntersectRayTetrahedron(ray, t.Size)
}

func (t Tetrahedron) Bounds() Box { return polyhedronFor(KindTetrahedron, t.Size, 0).bounds }

// Octahedron is regular with edge length Size.
type Octahedron struct{ Size float64 }

func (o Octahedron) Kind() Kind { return KindOctahedron }

func (o Octahedron) Intersect(ray Ray) []math.Vec3 {
	return IntersectRayOctahedron(ray, o.Size)
}

func (o Octahedron) Bounds() Box { return polyhedronFor(KindOctahedron, o.Size, 0).bounds }

// Dodecahedron is regular with circumscribed cube width Size/phi.
type Dodecahedron struct{ Size float64 }

func (d Dodecahedron) Kind() Kind { return KindDodecahedron }

func (d Dodecahedron) Intersect(ray Ray) []math.Vec3 {
	return IntersectRayDodecahedron(ray, d.Size)
}

func (d Dodecahedron) Bounds() Box { return polyhedronFor(KindDodecahedron, d.Size, 0).bounds }

// Icosahedron is regular with circumradius Size/2.
type Icosahedron struct{ Size float64 }

func (i Icosahedron) Kind() Kind { return KindIcosahedron }

func (i Icosahedron) Intersect(ray Ray) []math.Vec3 {
	return IntersectRayIcosahedron(ray, i.Size)
}

func (i Icosahedron) Bounds() Box { return polyhedronFor(KindIcosahedron, i.Size, 0).bounds }

func symmetricBox(hx, hy, hz float64) Box {
	return Box{
		Min: math.Vec3{X: -hx, Y: -hy, Z: -hz},
		Max: math.Vec3{X: hx, Y: hy, Z: hz},
	}
}
