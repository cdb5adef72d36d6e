package mesh

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solidcast/math"
	"solidcast/raycast"
)

func TestNewValidatesIndices(t *testing.T) {
	_, err := New("empty", nil, nil)
	assert.Error(t, err)

	_, err = New("bad", []math.Vec3{{}, {X: 1}, {Z: 1}}, [][3]int{{0, 1, 3}})
	assert.ErrorContains(t, err, "out of range")
}

func TestNewBoundsAndNormals(t *testing.T) {
	positions := []math.Vec3{{X: -1, Z: -1}, {X: -1, Z: 1}, {X: 1, Z: -1}, {X: 1, Y: 0.5, Z: 1}}
	m, err := New("quad", positions, [][3]int{{0, 1, 2}, {2, 1, 3}})
	require.NoError(t, err)

	assert.Equal(t, math.NewVec3(-1, 0, -1), m.Min)
	assert.Equal(t, math.NewVec3(1, 0.5, 1), m.Max)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 3}, m.Indices())

	assert.Equal(t, math.Vec3Up, m.Normals[0])
	for _, n := range m.Normals {
		assert.InDelta(t, 1, n.Length(), 1e-9)
		assert.Greater(t, n.Y, 0.0)
	}
}

func TestFromSolidWindsOutward(t *testing.T) {
	solids := []raycast.Solid{
		raycast.Sphere{Center: math.NewVec3(1, 2, 3), Radius: 2},
		raycast.Box{Min: math.NewVec3(-1, -2, -3), Max: math.NewVec3(1, 2, 3)},
		raycast.Cone{TopRadius: 0, BottomRadius: 1, Height: 2},
		raycast.Cone{TopRadius: 0.5, BottomRadius: 1, Height: 2},
		raycast.Pyramid{HalfBase: 1, Height: 2},
		raycast.Tetrahedron{Size: 2},
		raycast.Octahedron{Size: 2},
		raycast.Dodecahedron{Size: 2},
		raycast.Icosahedron{Size: 2},
	}
	for _, s := range solids {
		t.Run(s.Kind().String(), func(t *testing.T) {
			m, err := FromSolid(s, 16)
			require.NoError(t, err)
			require.NotZero(t, m.TriangleCount())
			assert.Equal(t, s.Kind().String(), m.Name)

			center := s.Bounds().Center()
			if poly, ok := raycast.PolyhedronOf(s); ok {
				center = poly.Centroid()
			}
			for i := 0; i < m.TriangleCount(); i++ {
				a, b, c := m.Triangle(i)
				mid := a.Add(b).Add(c).Div(3)
				assert.GreaterOrEqual(t, m.FaceNormal(i).Dot(mid.Sub(center)), 0.0, "face %d", i)
			}
		})
	}
}

func TestFromSolidMatchesAnalyticHits(t *testing.T) {
	r := raycast.Ray{Origin: math.NewVec3(5, 0.1, 0.2), Direction: math.NewVec3(-1, 0, 0)}

	for _, s := range []raycast.Solid{
		raycast.Box{Min: math.NewVec3(-1, -1, -1), Max: math.NewVec3(1, 1, 1)},
		raycast.Octahedron{Size: 2},
		raycast.Icosahedron{Size: 2},
	} {
		m, err := FromSolid(s, 0)
		require.NoError(t, err)

		want := s.Intersect(r)
		got := raycast.IntersectRayTrimesh(r, m)
		require.Len(t, got, len(want), s.Kind().String())
		for i := range want {
			assert.True(t, want[i].ApproxEqual(got[i].Point, 1e-6), "%s hit %d", s.Kind(), i)
		}
	}
}

func TestFromSolidSphereApproximatesSurface(t *testing.T) {
	m, err := FromSolid(raycast.Sphere{Radius: 1}, 64)
	require.NoError(t, err)
	for _, p := range m.Positions {
		assert.InDelta(t, 1, p.Length(), 1e-9)
	}

	hits := raycast.IntersectRayTrimesh(raycast.Ray{Origin: math.NewVec3(0.1, 0.2, 5), Direction: math.NewVec3(0, 0, -1)}, m)
	require.Len(t, hits, 2)
	want := stdmath.Sqrt(1 - 0.01 - 0.04)
	assert.InDelta(t, want, hits[0].Point.Z, 0.01)
	assert.InDelta(t, -want, hits[1].Point.Z, 0.01)
}

type unsupported struct{}

func (unsupported) Kind() raycast.Kind                  { return raycast.Kind(99) }
func (unsupported) Intersect(raycast.Ray) []math.Vec3   { return nil }
func (unsupported) Bounds() raycast.Box                 { return raycast.Box{} }

func TestFromSolidUnsupported(t *testing.T) {
	_, err := FromSolid(unsupported{}, 8)
	assert.ErrorContains(t, err, "unsupported")
}

func TestTransform(t *testing.T) {
	m, err := FromSolid(raycast.Box{Min: math.NewVec3(-1, -1, -1), Max: math.NewVec3(1, 1, 1)}, 0)
	require.NoError(t, err)

	moved := m.Transform(math.Mat4Translation(math.NewVec3(10, 0, 0)))
	assert.True(t, moved.Min.ApproxEqual(math.NewVec3(9, -1, -1), 1e-12))
	assert.True(t, moved.Max.ApproxEqual(math.NewVec3(11, 1, 1), 1e-12))
	assert.Equal(t, m.Faces, moved.Faces)
	assert.Equal(t, math.NewVec3(-1, -1, -1), m.Min, "original untouched")
}
