package mesh

import (
	"fmt"
	stdmath "math"

	"solidcast/math"
	"solidcast/raycast"
)

// DefaultSegments is the number of slices used around curved solids.
const DefaultSegments = 24

// FromSolid tessellates a solid in its model frame. Curved solids use
// segments slices around the Y axis (and segments/2 rings for spheres);
// values below 3 fall back to DefaultSegments. Every face winds
// counter-clockwise seen from outside.
func FromSolid(s raycast.Solid, segments int) (*Trimesh, error) {
	if segments < 3 {
		segments = DefaultSegments
	}
	var b builder
	center := s.Bounds().Center()
	switch v := s.(type) {
	case raycast.Sphere:
		b = sphere(v, segments)
	case raycast.Box:
		b = box(v)
	case raycast.Cone:
		b = cone(v, segments)
	default:
		poly, ok := raycast.PolyhedronOf(s)
		if !ok {
			return nil, fmt.Errorf("tessellate %s: unsupported solid", s.Kind())
		}
		b = flatFaces(poly.Vertices, poly.Faces)
		center = poly.Centroid()
	}
	b.orientOutward(center)
	m, err := New(s.Kind().String(), b.positions, b.faces)
	if err != nil {
		return nil, fmt.Errorf("tessellate %s: %w", s.Kind(), err)
	}
	return m, nil
}

type builder struct {
	positions []math.Vec3
	faces     [][3]int
}

func (b *builder) vertex(p math.Vec3) int {
	b.positions = append(b.positions, p)
	return len(b.positions) - 1
}

func (b *builder) tri(i, j, k int) {
	b.faces = append(b.faces, [3]int{i, j, k})
}

// orientOutward flips any face whose normal points back toward center. All
// supported solids are convex, so this fixes winding without per-shape care.
func (b *builder) orientOutward(center math.Vec3) {
	for i, f := range b.faces {
		p0, p1, p2 := b.positions[f[0]], b.positions[f[1]], b.positions[f[2]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		mid := p0.Add(p1).Add(p2).Div(3)
		if n.Dot(mid.Sub(center)) < 0 {
			b.faces[i] = [3]int{f[0], f[2], f[1]}
		}
	}
}

func sphere(s raycast.Sphere, segments int) builder {
	rings := segments / 2
	if rings < 2 {
		rings = 2
	}
	var b builder
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi, cosPhi := stdmath.Sin(phi), stdmath.Cos(phi)
		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * stdmath.Pi / float64(segments)
			dir := math.Vec3{X: sinPhi * stdmath.Cos(theta), Y: cosPhi, Z: sinPhi * stdmath.Sin(theta)}
			b.vertex(s.Center.Add(dir.Mul(s.Radius)))
		}
	}
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := ring*(segments+1) + seg
			next := current + segments + 1
			if ring > 0 {
				b.tri(current, current+1, next)
			}
			if ring < rings-1 {
				b.tri(current+1, next+1, next)
			}
		}
	}
	return b
}

func box(bx raycast.Box) builder {
	lo, hi := bx.Min, bx.Max
	corner := func(x, y, z bool) math.Vec3 {
		p := lo
		if x {
			p.X = hi.X
		}
		if y {
			p.Y = hi.Y
		}
		if z {
			p.Z = hi.Z
		}
		return p
	}
	quads := [6][4]math.Vec3{
		{corner(true, false, false), corner(true, true, false), corner(true, true, true), corner(true, false, true)},
		{corner(false, false, false), corner(false, false, true), corner(false, true, true), corner(false, true, false)},
		{corner(false, true, false), corner(false, true, true), corner(true, true, true), corner(true, true, false)},
		{corner(false, false, false), corner(true, false, false), corner(true, false, true), corner(false, false, true)},
		{corner(false, false, true), corner(true, false, true), corner(true, true, true), corner(false, true, true)},
		{corner(false, false, false), corner(false, true, false), corner(true, true, false), corner(true, false, false)},
	}
	var b builder
	for _, q := range quads {
		i0, i1, i2, i3 := b.vertex(q[0]), b.vertex(q[1]), b.vertex(q[2]), b.vertex(q[3])
		b.tri(i0, i1, i2)
		b.tri(i0, i2, i3)
	}
	return b
}

func cone(c raycast.Cone, segments int) builder {
	halfHeight := c.Height / 2
	ring := func(y, radius float64) []math.Vec3 {
		out := make([]math.Vec3, segments)
		for i := range out {
			theta := float64(i) * 2 * stdmath.Pi / float64(segments)
			out[i] = math.Vec3{X: radius * stdmath.Cos(theta), Y: y, Z: radius * stdmath.Sin(theta)}
		}
		return out
	}
	bottom := ring(-halfHeight, c.BottomRadius)
	top := ring(halfHeight, c.TopRadius)
	apex := c.TopRadius <= 1e-4

	var b builder
	// Lateral surface.
	base := len(b.positions)
	for i := 0; i < segments; i++ {
		b.vertex(bottom[i])
	}
	if apex {
		tip := b.vertex(math.Vec3{Y: halfHeight})
		for i := 0; i < segments; i++ {
			b.tri(base+i, tip, base+(i+1)%segments)
		}
	} else {
		topBase := len(b.positions)
		for i := 0; i < segments; i++ {
			b.vertex(top[i])
		}
		for i := 0; i < segments; i++ {
			next := (i + 1) % segments
			b.tri(base+i, topBase+i, topBase+next)
			b.tri(base+i, topBase+next, base+next)
		}
	}

	addCap := func(y float64, rim []math.Vec3) {
		center := b.vertex(math.Vec3{Y: y})
		first := len(b.positions)
		for _, p := range rim {
			b.vertex(p)
		}
		for i := 0; i < segments; i++ {
			b.tri(center, first+i, first+(i+1)%segments)
		}
	}
	addCap(-halfHeight, bottom)
	if !apex {
		addCap(halfHeight, top)
	}
	return b
}

// flatFaces gives every polygon its own vertices so normals stay flat, and
// fans polygons from their first vertex.
func flatFaces(vertices []math.Vec3, polygons [][]int) builder {
	var b builder
	for _, poly := range polygons {
		first := len(b.positions)
		for _, idx := range poly {
			b.vertex(vertices[idx])
		}
		for i := 1; i+1 < len(poly); i++ {
			b.tri(first, first+i, first+i+1)
		}
	}
	return b
}
