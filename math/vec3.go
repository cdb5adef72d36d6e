package math

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroVector is returned when a direction is requested from a vector with
// no length.
var ErrZeroVector = errors.New("can't normalize the zero vector")

// Vec3 is an immutable triple; every operation returns a new value.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Vec3Zero  = Vec3{0, 0, 0}
	Vec3One   = Vec3{1, 1, 1}
	Vec3Up    = Vec3{0, 1, 0}
	Vec3Down  = Vec3{0, -1, 0}
	Vec3Right = Vec3{1, 0, 0}
	Vec3Left  = Vec3{-1, 0, 0}
	Vec3Front = Vec3{0, 0, 1}
	Vec3Back  = Vec3{0, 0, -1}
)

func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v Vec3) Mul(scalar float64) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// MulVec is the component-wise product.
func (v Vec3) MulVec(other Vec3) Vec3 {
	return Vec3{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z}
}

// DivVec is the component-wise quotient.
func (v Vec3) DivVec(other Vec3) Vec3 {
	return Vec3{X: v.X / other.X, Y: v.Y / other.Y, Z: v.Z / other.Z}
}

func (v Vec3) Div(scalar float64) Vec3 {
	return v.Mul(1.0 / scalar)
}

func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) LengthSqr() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns the unit vector pointing along v. A zero vector has no
// direction and yields ErrZeroVector.
func (v Vec3) Normalize() (Vec3, error) {
	length := v.Length()
	if length == 0 {
		return Vec3{}, ErrZeroVector
	}
	return v.Mul(1.0 / length), nil
}

// MustNormalize is Normalize for vectors known to be non-zero, such as face
// edges of a fixed solid. It panics on the zero vector.
func (v Vec3) MustNormalize() Vec3 {
	n, err := v.Normalize()
	if err != nil {
		panic(err)
	}
	return n
}

func (v Vec3) Distance(other Vec3) float64 {
	return v.Sub(other).Length()
}

func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return Vec3{
		X: Lerp(v.X, other.X, t),
		Y: Lerp(v.Y, other.Y, t),
		Z: Lerp(v.Z, other.Z, t),
	}
}

func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// ApproxEqual reports whether every component of v is within tol of other.
func (v Vec3) ApproxEqual(other Vec3, tol float64) bool {
	return math.Abs(v.X-other.X) <= tol &&
		math.Abs(v.Y-other.Y) <= tol &&
		math.Abs(v.Z-other.Z) <= tol
}

func (v Vec3) ToVec4(w float64) Vec4 {
	return Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

func (v Vec3) String() string {
	return fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z)
}
