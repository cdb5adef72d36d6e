// Package mesh holds indexed triangle meshes built from solids and
// heightfields. Meshes are plain CPU-side data; nothing here uploads or draws.
package mesh

import (
	"fmt"

	"solidcast/math"
	"solidcast/raycast"
)

// Trimesh is an indexed triangle list with per-vertex normals and a cached
// bounding box.
type Trimesh struct {
	Name      string
	Positions []math.Vec3
	Normals   []math.Vec3
	Faces     [][3]int
	Min       math.Vec3
	Max       math.Vec3
}

// New builds a mesh, checks every face index, and computes bounds and
// area-weighted vertex normals.
func New(name string, positions []math.Vec3, faces [][3]int) (*Trimesh, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("mesh %q: no positions", name)
	}
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(positions) {
				return nil, fmt.Errorf("mesh %q: face %d index %d out of range [0, %d)", name, i, idx, len(positions))
			}
		}
	}
	m := &Trimesh{Name: name, Positions: positions, Faces: faces}
	m.computeBounds()
	m.ComputeNormals()
	return m, nil
}

func (m *Trimesh) computeBounds() {
	min := m.Positions[0]
	max := m.Positions[0]
	for _, p := range m.Positions[1:] {
		if p.X < min.X { min.X = p.X }
		if p.Y < min.Y { min.Y = p.Y }
		if p.Z < min.Z { min.Z = p.Z }
		if p.X > max.X { max.X = p.X }
		if p.Y > max.Y { max.Y = p.Y }
		if p.Z > max.Z { max.Z = p.Z }
	}
	m.Min, m.Max = min, max
}

// ComputeNormals rebuilds vertex normals by summing the unnormalized face
// normals around each vertex, so larger faces weigh more. A vertex touched
// only by degenerate faces gets +Y.
func (m *Trimesh) ComputeNormals() {
	normals := make([]math.Vec3, len(m.Positions))
	for _, f := range m.Faces {
		a, b, c := m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range f {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i, n := range normals {
		unit, err := n.Normalize()
		if err != nil {
			unit = math.Vec3Up
		}
		normals[i] = unit
	}
	m.Normals = normals
}

// FaceNormal is the unit normal of face i following its winding, or the zero
// vector for a degenerate face.
func (m *Trimesh) FaceNormal(i int) math.Vec3 {
	a, b, c := m.Triangle(i)
	n, err := b.Sub(a).Cross(c.Sub(a)).Normalize()
	if err != nil {
		return math.Vec3Zero
	}
	return n
}

func (m *Trimesh) Bounds() raycast.Box {
	return raycast.Box{Min: m.Min, Max: m.Max}
}

func (m *Trimesh) TriangleCount() int { return len(m.Faces) }

func (m *Trimesh) Triangle(i int) (a, b, c math.Vec3) {
	f := m.Faces[i]
	return m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
}

// Transform returns a copy with every position carried through worldFromModel.
// Normals are recomputed rather than transformed.
func (m *Trimesh) Transform(worldFromModel math.Mat4) *Trimesh {
	positions := make([]math.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		positions[i] = worldFromModel.MulPoint(p)
	}
	faces := make([][3]int, len(m.Faces))
	copy(faces, m.Faces)
	out := &Trimesh{Name: m.Name, Positions: positions, Faces: faces}
	out.computeBounds()
	out.ComputeNormals()
	return out
}

// Indices flattens the faces into a single index list, three per face.
func (m *Trimesh) Indices() []uint32 {
	out := make([]uint32, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		out = append(out, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return out
}
