// Package terrain samples heightfields: regular grids of heights that are
// bilinearly interpolated between samples.
package terrain

import (
	"errors"
	"fmt"
	stdmath "math"

	"solidcast/math"
	"solidcast/mesh"
)

// ErrShape reports a heightfield whose values do not fill its grid.
var ErrShape = errors.New("terrain: heightfield shape mismatch")

// Heightfield stores Width*Depth heights row by row: the sample at grid
// column x and row z is Values[z*Width+x].
type Heightfield struct {
	Width  int
	Depth  int
	Values []float64
}

// New checks that the grid is at least 2x2 and fully populated.
func New(width, depth int, values []float64) (*Heightfield, error) {
	if width < 2 || depth < 2 {
		return nil, fmt.Errorf("%w: grid %dx%d is smaller than 2x2", ErrShape, width, depth)
	}
	if len(values) != width*depth {
		return nil, fmt.Errorf("%w: %d values for a %dx%d grid", ErrShape, len(values), width, depth)
	}
	return &Heightfield{Width: width, Depth: depth, Values: values}, nil
}

// Flat is a width x depth grid at a constant height.
func Flat(width, depth int, height float64) (*Heightfield, error) {
	if width < 2 || depth < 2 {
		return nil, fmt.Errorf("%w: grid %dx%d is smaller than 2x2", ErrShape, width, depth)
	}
	values := make([]float64, width*depth)
	for i := range values {
		values[i] = height
	}
	return New(width, depth, values)
}

// FromRows builds a heightfield from rows of equal length; rows[z][x] is the
// sample at column x and row z.
func FromRows(rows [][]float64) (*Heightfield, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrShape)
	}
	width := len(rows[0])
	values := make([]float64, 0, width*len(rows))
	for z, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, z, len(row), width)
		}
		values = append(values, row...)
	}
	return New(width, len(rows), values)
}

// At returns the stored sample, clamping x and z to the grid.
func (h *Heightfield) At(x, z int) float64 {
	x = clampIndex(x, h.Width)
	z = clampIndex(z, h.Depth)
	return h.Values[z*h.Width+x]
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Contains reports whether (x, z) lies on the grid domain
// [0, Width-1] x [0, Depth-1].
func (h *Heightfield) Contains(x, z float64) bool {
	return x >= 0 && z >= 0 && x <= float64(h.Width-1) && z <= float64(h.Depth-1)
}

// Sample bilinearly interpolates the heights around (x, z). It reports false
// off the grid domain. Along the far edges the missing neighbor is clamped,
// so grid points return their stored values exactly.
func (h *Heightfield) Sample(x, z float64) (float64, bool) {
	if !h.Contains(x, z) || stdmath.IsNaN(x) || stdmath.IsNaN(z) {
		return 0, false
	}
	floorX := stdmath.Floor(x)
	floorZ := stdmath.Floor(z)
	fracX := x - floorX
	fracZ := z - floorZ
	ix, iz := int(floorX), int(floorZ)

	bottomLeft := h.At(ix, iz)
	bottomRight := h.At(ix+1, iz)
	topLeft := h.At(ix, iz+1)
	topRight := h.At(ix+1, iz+1)

	bottom := math.Lerp(bottomLeft, bottomRight, fracX)
	top := math.Lerp(topLeft, topRight, fracX)
	return math.Lerp(bottom, top, fracZ), true
}

// MinMax returns the lowest and highest stored samples.
func (h *Heightfield) MinMax() (lo, hi float64) {
	lo, hi = h.Values[0], h.Values[0]
	for _, v := range h.Values[1:] {
		lo = stdmath.Min(lo, v)
		hi = stdmath.Max(hi, v)
	}
	return lo, hi
}

// ToTrimesh lays the grid out in world space, scaling column, height and row
// by factors, with two upward-facing triangles per cell.
func (h *Heightfield) ToTrimesh(factors math.Vec3) (*mesh.Trimesh, error) {
	positions := make([]math.Vec3, 0, h.Width*h.Depth)
	for z := 0; z < h.Depth; z++ {
		for x := 0; x < h.Width; x++ {
			p := math.Vec3{X: float64(x), Y: h.At(x, z), Z: float64(z)}
			positions = append(positions, p.MulVec(factors))
		}
	}
	index := func(x, z int) int { return z*h.Width + x }

	faces := make([][3]int, 0, 2*(h.Width-1)*(h.Depth-1))
	for z := 0; z < h.Depth-1; z++ {
		for x := 0; x < h.Width-1; x++ {
			faces = append(faces,
				[3]int{index(x, z), index(x, z+1), index(x+1, z)},
				[3]int{index(x+1, z), index(x, z+1), index(x+1, z+1)},
			)
		}
	}
	return mesh.New("terrain", positions, faces)
}
