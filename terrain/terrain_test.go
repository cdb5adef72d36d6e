package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solidcast/math"
	"solidcast/raycast"
)

func ramp(t *testing.T) *Heightfield {
	t.Helper()
	h, err := FromRows([][]float64{
		{0, 1, 2},
		{1, 2, 3},
		{4, 4, 4},
	})
	require.NoError(t, err)
	return h
}

func TestNewRejectsBadShapes(t *testing.T) {
	_, err := New(1, 4, []float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrShape)

	_, err = New(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShape)

	_, err = FromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrShape)

	_, err = FromRows(nil)
	assert.ErrorIs(t, err, ErrShape)

	_, err = Flat(0, 3, 1)
	assert.ErrorIs(t, err, ErrShape)
}

func TestSampleAtGridPoints(t *testing.T) {
	h := ramp(t)
	for z := 0; z < h.Depth; z++ {
		for x := 0; x < h.Width; x++ {
			got, ok := h.Sample(float64(x), float64(z))
			require.True(t, ok)
			assert.Equal(t, h.At(x, z), got, "(%d, %d)", x, z)
		}
	}
}

func TestSampleInterpolates(t *testing.T) {
	h := ramp(t)
	tests := []struct {
		x, z float64
		want float64
	}{
		{0.5, 0, 0.5},
		{0, 0.5, 0.5},
		{0.5, 0.5, 1},
		{1.5, 1.5, 3.25},
		{2, 1.5, 3.5},
		{0.25, 2, 4},
	}
	for _, tt := range tests {
		got, ok := h.Sample(tt.x, tt.z)
		require.True(t, ok)
		assert.InDelta(t, tt.want, got, 1e-12, "(%v, %v)", tt.x, tt.z)
	}
}

func TestSampleOffDomain(t *testing.T) {
	h := ramp(t)
	for _, p := range [][2]float64{{-0.01, 0}, {0, -1}, {2.01, 1}, {1, 3}} {
		_, ok := h.Sample(p[0], p[1])
		assert.False(t, ok, "%v", p)
	}
}

func TestAtClamps(t *testing.T) {
	h := ramp(t)
	assert.Equal(t, 0.0, h.At(-3, -3))
	assert.Equal(t, 4.0, h.At(10, 10))
}

func TestScaledGroundAt(t *testing.T) {
	s := Scaled{Field: ramp(t), Factors: math.NewVec3(10, 2, 5), Offset: 1.5}

	got, ok := s.GroundAt(5, 2.5)
	require.True(t, ok)
	assert.InDelta(t, 1*2+1.5, got, 1e-12)

	_, ok = s.GroundAt(25, 0)
	assert.False(t, ok)

	_, ok = Scaled{}.GroundAt(0, 0)
	assert.False(t, ok)

	assert.Equal(t, raycast.Box{Min: math.NewVec3(0, 0, 0), Max: math.NewVec3(20, 8, 10)}, s.Extent())
}

func TestToTrimesh(t *testing.T) {
	s := Scaled{Field: ramp(t), Factors: math.NewVec3(2, 1, 2)}
	m, err := s.Trimesh()
	require.NoError(t, err)

	assert.Len(t, m.Positions, 9)
	assert.Equal(t, 8, m.TriangleCount())
	assert.Equal(t, math.NewVec3(4, 3, 2), m.Positions[5])
	for i := 0; i < m.TriangleCount(); i++ {
		assert.Greater(t, m.FaceNormal(i).Y, 0.0, "face %d faces up", i)
	}

	// A vertical ray onto the mesh agrees with the bilinear sample at a grid
	// point, where both surfaces coincide.
	hits := raycast.IntersectRayTrimesh(raycast.Ray{Origin: math.NewVec3(2, 10, 2), Direction: math.NewVec3(0, -1, 0)}, m)
	require.NotEmpty(t, hits)
	want, ok := s.GroundAt(2, 2)
	require.True(t, ok)
	assert.InDelta(t, want, hits[0].Point.Y, 1e-9)

	s.Offset = 1.5
	lifted, err := s.Trimesh()
	require.NoError(t, err)
	assert.InDelta(t, m.Positions[5].Y+1.5, lifted.Positions[5].Y, 1e-12)
	want, _ = s.GroundAt(2, 2)
	hits = raycast.IntersectRayTrimesh(raycast.Ray{Origin: math.NewVec3(2, 10, 2), Direction: math.NewVec3(0, -1, 0)}, lifted)
	require.NotEmpty(t, hits)
	assert.InDelta(t, want, hits[0].Point.Y, 1e-9)
}

func TestFlat(t *testing.T) {
	h, err := Flat(4, 3, 2.5)
	require.NoError(t, err)
	got, ok := h.Sample(2.7, 1.1)
	require.True(t, ok)
	assert.Equal(t, 2.5, got)

	lo, hi := h.MinMax()
	assert.Equal(t, 2.5, lo)
	assert.Equal(t, 2.5, hi)
}
