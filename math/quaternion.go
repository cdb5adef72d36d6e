package math

import "math"

// Quaternion is the rotation X·i + Y·j + Z·k + W. Only unit quaternions
// represent rotations; constructors here return unit values.
type Quaternion struct {
	X, Y, Z, W float64
}

func QuaternionIdentity() Quaternion {
	return Quaternion{W: 1}
}

// QuaternionFromAxisAngle rotates by angle radians about axis. A zero axis
// has no direction and yields the identity.
func QuaternionFromAxisAngle(axis Vec3, angle float64) Quaternion {
	axis, err := axis.Normalize()
	if err != nil {
		return QuaternionIdentity()
	}
	sin, cos := math.Sincos(angle / 2)
	return quaternionOf(axis.Mul(sin), cos)
}

func quaternionOf(v Vec3, w float64) Quaternion {
	return Quaternion{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

func (q Quaternion) vector() Vec3 { return Vec3{X: q.X, Y: q.Y, Z: q.Z} }

// Mul applies other first, then q.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	a, b := q.vector(), other.vector()
	v := b.Mul(q.W).Add(a.Mul(other.W)).Add(a.Cross(b))
	return quaternionOf(v, q.W*other.W-a.Dot(b))
}

// Normalize rescales q to unit length. The zero quaternion is returned as is.
func (q Quaternion) Normalize() Quaternion {
	length := math.Sqrt(q.vector().LengthSqr() + q.W*q.W)
	if length == 0 {
		return q
	}
	return quaternionOf(q.vector().Div(length), q.W/length)
}

// Conjugate is the inverse rotation of a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return quaternionOf(q.vector().Negate(), q.W)
}

func (q Quaternion) RotateVector(v Vec3) Vec3 {
	u := q.vector()
	t := u.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(u.Cross(t))
}

// ToMat4 returns the row-vector rotation matrix, so that
// v * q.ToMat4() == q.RotateVector(v). Its rows are the rotated basis
// vectors.
func (q Quaternion) ToMat4() Mat4 {
	q = q.Normalize()
	x := q.RotateVector(Vec3Right)
	y := q.RotateVector(Vec3Up)
	z := q.RotateVector(Vec3Front)
	return Mat4{
		{x.X, x.Y, x.Z, 0},
		{y.X, y.Y, y.Z, 0},
		{z.X, z.Y, z.Z, 0},
		{0, 0, 0, 1},
	}
}
