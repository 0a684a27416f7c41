package common

import (
	"fmt"

	"github.com/chewxy/math32"
)

// slerpLinearThreshold is the cosine above which Slerp falls back to a normalized lerp,
// avoiding the unstable division by sin(theta0) for nearly parallel rotations.
const slerpLinearThreshold = 0.9995

// Quaternion represents a rotation as (w, x, y, z) where w is the scalar part.
// It is not kept unit length; ToMatrix and Slerp normalize where they need to.
type Quaternion struct {
	W, X, Y, Z float32
}

// QuaternionIdentity returns the identity rotation (1, 0, 0, 0).
func QuaternionIdentity() Quaternion {
	return Quaternion{W: 1}
}

// NewQuaternion creates a Quaternion from its components.
//
// Parameters:
//   - w: the scalar part
//   - x, y, z: the vector part
//
// Returns:
//   - Quaternion: the new quaternion
func NewQuaternion(w, x, y, z float32) Quaternion {
	return Quaternion{W: w, X: x, Y: y, Z: z}
}

// QuaternionFromArray creates a Quaternion from a flat [w, x, y, z] array.
//
// Parameters:
//   - a: the components in w, x, y, z order
//
// Returns:
//   - Quaternion: the new quaternion
func QuaternionFromArray(a [4]float32) Quaternion {
	return Quaternion{W: a[0], X: a[1], Y: a[2], Z: a[3]}
}

// QuaternionFromAxisAngle creates a rotation of angle radians around axis.
// The axis is normalized first; a zero axis yields the identity rotation.
//
// Parameters:
//   - axis: the rotation axis
//   - angle: the rotation angle in radians
//
// Returns:
//   - Quaternion: the unit quaternion for the rotation
func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	if axis.LengthSq() == 0 {
		return QuaternionIdentity()
	}
	axis = axis.Normalize()
	s := math32.Sin(angle / 2)
	return Quaternion{
		W: math32.Cos(angle / 2),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

// ToArray returns the components as a flat [w, x, y, z] array.
//
// Returns:
//   - [4]float32: the components in w, x, y, z order
func (q Quaternion) ToArray() [4]float32 {
	return [4]float32{q.W, q.X, q.Y, q.Z}
}

// Mul returns the Hamilton product q * o. The product is not commutative:
// applying rotation A and then rotation B is B.Mul(A).
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Add returns the component-wise sum q + o.
func (q Quaternion) Add(o Quaternion) Quaternion {
	return Quaternion{q.W + o.W, q.X + o.X, q.Y + o.Y, q.Z + o.Z}
}

// Sub returns the component-wise difference q - o.
func (q Quaternion) Sub(o Quaternion) Quaternion {
	return Quaternion{q.W - o.W, q.X - o.X, q.Y - o.Y, q.Z - o.Z}
}

// Scale returns every component multiplied by s.
func (q Quaternion) Scale(s float32) Quaternion {
	return Quaternion{q.W * s, q.X * s, q.Y * s, q.Z * s}
}

// Negate returns -q, which represents the same rotation.
func (q Quaternion) Negate() Quaternion {
	return Quaternion{-q.W, -q.X, -q.Y, -q.Z}
}

// Conjugate returns (w, -x, -y, -z), the inverse rotation for unit quaternions.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

// Dot returns the four component dot product of q and o.
func (q Quaternion) Dot(o Quaternion) float32 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

// Length returns the norm of q.
func (q Quaternion) Length() float32 {
	return math32.Sqrt(q.Dot(q))
}

// Normalize returns q scaled to unit length. A zero quaternion is returned unchanged.
func (q Quaternion) Normalize() Quaternion {
	l := q.Length()
	if l == 0 {
		return q
	}
	return q.Scale(1 / l)
}

// Rotate applies the rotation represented by q to v.
//
// Parameters:
//   - v: the vector to rotate
//
// Returns:
//   - Vec3: the rotated vector
func (q Quaternion) Rotate(v Vec3) Vec3 {
	n := q.Normalize()
	p := n.Mul(Quaternion{X: v.X, Y: v.Y, Z: v.Z}).Mul(n.Conjugate())
	return Vec3{p.X, p.Y, p.Z}
}

// Slerp spherically interpolates from a to b along the shortest arc.
// If a·b is negative, b is negated first. When the rotations are nearly parallel
// the components are linearly interpolated and normalized instead. Slerp is a pure
// function: identical inputs always produce identical outputs.
//
// Parameters:
//   - a: the rotation at t = 0
//   - b: the rotation at t = 1
//   - t: the interpolation factor in [0, 1]
//
// Returns:
//   - Quaternion: the interpolated rotation
func Slerp(a, b Quaternion, t float32) Quaternion {
	dot := a.Dot(b)
	if dot < 0 {
		dot = -dot
		b = b.Negate()
	}

	if dot > slerpLinearThreshold {
		return a.Add(b.Sub(a).Scale(t)).Normalize()
	}

	theta0 := math32.Acos(dot)
	theta := theta0 * t
	sinTheta := math32.Sin(theta)
	sinTheta0 := math32.Sin(theta0)

	s0 := math32.Cos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0

	return a.Scale(s0).Add(b.Scale(s1))
}

// ToMatrix converts q to a row-major rotation matrix. q is normalized first, so a
// non-unit quaternion still produces a pure rotation. The identity quaternion maps to
// the identity matrix.
//
// Returns:
//   - Mat4: the rotation matrix
func (q Quaternion) ToMatrix() Mat4 {
	n := q.Normalize()
	if n.Dot(n) == 0 {
		return Identity()
	}

	xx, yy, zz := n.X*n.X, n.Y*n.Y, n.Z*n.Z
	xy, xz, yz := n.X*n.Y, n.X*n.Z, n.Y*n.Z
	wx, wy, wz := n.W*n.X, n.W*n.Y, n.W*n.Z

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy), 0,
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx), 0,
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

func (q Quaternion) String() string {
	return fmt.Sprintf("quat(%g, %g, %g, %g)", q.W, q.X, q.Y, q.Z)
}
