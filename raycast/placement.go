package raycast

import (
	"errors"

	"solidcast/math"
)

// ErrSingularPlacement is returned when a placement matrix cannot be inverted.
var ErrSingularPlacement = errors.New("raycast: placement matrix is singular")

// Placement positions a solid in the world. The solid itself stays in its
// model frame; rays are carried into that frame and hits are carried back.
type Placement struct {
	WorldFromModel math.Mat4
}

// NewPlacement builds a placement from translation, rotation and scale.
func NewPlacement(translation math.Vec3, rotation math.Quaternion, scale math.Vec3) Placement {
	return Placement{WorldFromModel: math.Mat4TRS(translation, rotation, scale)}
}

// ModelRay carries a world-space ray into the solid's model frame. The
// returned direction is not normalized.
func (p Placement) ModelRay(ray Ray) (Ray, error) {
	modelFromWorld, ok := p.WorldFromModel.Inverse()
	if !ok {
		return Ray{}, ErrSingularPlacement
	}
	return Ray{
		Origin:    modelFromWorld.MulPoint(ray.Origin),
		Direction: modelFromWorld.MulDir(ray.Direction),
	}, nil
}

// IntersectWorld intersects a world-space ray with a placed solid and
// returns world-space points, nearest first.
func (p Placement) IntersectWorld(ray Ray, solid Solid) ([]math.Vec3, error) {
	local, err := p.ModelRay(ray)
	if err != nil {
		return nil, err
	}
	points := solid.Intersect(local)
	for i, pt := range points {
		points[i] = p.WorldFromModel.MulPoint(pt)
	}
	return points, nil
}

// WorldBounds returns the world-space box around the eight transformed
// corners of the solid's model bounds.
func (p Placement) WorldBounds(solid Solid) Box {
	b := solid.Bounds()
	var out Box
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		w := p.WorldFromModel.MulPoint(corner)
		if i == 0 {
			out = Box{Min: w, Max: w}
			continue
		}
		out = out.Union(Box{Min: w, Max: w})
	}
	return out
}
