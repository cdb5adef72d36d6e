package terrain

import (
	"solidcast/math"
	"solidcast/mesh"
	"solidcast/raycast"
)

// Scaled places a heightfield in world space. Column x sits at world
// x*Factors.X, row z at z*Factors.Z, and heights are multiplied by Factors.Y
// before Offset is added.
type Scaled struct {
	Field   *Heightfield
	Factors math.Vec3
	Offset  float64
}

// GroundAt returns the world height of the surface plus Offset at world
// (x, z), or false when (x, z) is off the field.
func (s Scaled) GroundAt(x, z float64) (float64, bool) {
	if s.Field == nil || s.Factors.X == 0 || s.Factors.Z == 0 {
		return 0, false
	}
	height, ok := s.Field.Sample(x/s.Factors.X, z/s.Factors.Z)
	if !ok {
		return 0, false
	}
	return height*s.Factors.Y + s.Offset, true
}

// Extent is the world-space box spanned by the field, ignoring Offset.
func (s Scaled) Extent() raycast.Box {
	lo, hi := s.Field.MinMax()
	a := math.Vec3{X: 0, Y: lo, Z: 0}.MulVec(s.Factors)
	b := math.Vec3{X: float64(s.Field.Width - 1), Y: hi, Z: float64(s.Field.Depth - 1)}.MulVec(s.Factors)
	return raycast.Box{Min: a, Max: a}.Union(raycast.Box{Min: b, Max: b})
}

// Trimesh tessellates the field in world space, Offset included.
func (s Scaled) Trimesh() (*mesh.Trimesh, error) {
	m, err := s.Field.ToTrimesh(s.Factors)
	if err != nil || s.Offset == 0 {
		return m, err
	}
	return m.Transform(math.Mat4Translation(math.NewVec3(0, s.Offset, 0))), nil
}
