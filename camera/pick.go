package camera

import (
	"errors"
	"fmt"
	stdmath "math"

	"solidcast/math"
	"solidcast/raycast"
)

var ErrViewport = errors.New("camera: viewport must have a positive size and field of view")

// Lens is a symmetric perspective projection over a viewport in pixels.
type Lens struct {
	// FovY is the vertical field of view in degrees.
	FovY   float64
	Width  float64
	Height float64
}

// PickRay returns the world-space ray from the eye through pixel (px, py),
// measured from the viewport's top-left corner. The direction is unit
// length.
func PickRay(eyeFromWorld math.Mat4, lens Lens, px, py float64) (raycast.Ray, error) {
	if lens.Width <= 0 || lens.Height <= 0 || lens.FovY <= 0 || lens.FovY >= 180 {
		return raycast.Ray{}, ErrViewport
	}
	worldFromEye, ok := eyeFromWorld.Inverse()
	if !ok {
		return raycast.Ray{}, fmt.Errorf("camera: view transform is singular")
	}

	// Normalized device coordinates, y flipped so up is positive.
	ndcX := 2*px/lens.Width - 1
	ndcY := 1 - 2*py/lens.Height

	halfHeight := stdmath.Tan(math.Radians(lens.FovY) / 2)
	aspect := lens.Width / lens.Height
	eyeDir := math.NewVec3(ndcX*halfHeight*aspect, ndcY*halfHeight, -1)

	dir, err := worldFromEye.MulDir(eyeDir).Normalize()
	if err != nil {
		return raycast.Ray{}, err
	}
	return raycast.Ray{Origin: worldFromEye.MulPoint(math.Vec3Zero), Direction: dir}, nil
}
