package camera

import (
	"solidcast/math"
)

// TerrainCamera is pinned to a surface: after every move its height is reset
// to the ground plus Offset. Off the surface it keeps its last height.
type TerrainCamera struct {
	orientation

	From    math.Vec3
	Terrain Surface
	Offset  float64
}

// NewTerrain places a camera at from looking toward to, with +Y as world up,
// and drops it onto the surface.
func NewTerrain(from, to math.Vec3, terrain Surface, offset float64) (*TerrainCamera, error) {
	o, err := newOrientation(from, to, math.Vec3Up)
	if err != nil {
		return nil, err
	}
	c := &TerrainCamera{orientation: o, From: from, Terrain: terrain, Offset: offset}
	c.adjustY()
	return c, nil
}

func (c *TerrainCamera) EyeFromWorld() math.Mat4 {
	return c.eyeFromWorld(c.From)
}

func (c *TerrainCamera) Strafe(distance float64) {
	c.From = c.From.Add(c.Right().Mul(distance))
	c.adjustY()
}

func (c *TerrainCamera) Advance(distance float64) {
	c.From = c.From.Add(c.forward.Mul(distance))
	c.adjustY()
}

func (c *TerrainCamera) adjustY() {
	if c.Terrain == nil {
		return
	}
	if h, ok := c.Terrain.GroundAt(c.From.X, c.From.Z); ok {
		c.From.Y = h + c.Offset
	}
}
