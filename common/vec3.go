package common

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vec3 is a three component float32 vector. It is a plain value type; every operation returns a new Vec3.
type Vec3 struct {
	X, Y, Z float32
}

// NewVec3 creates a Vec3 from its components.
//
// Parameters:
//   - x, y, z: the vector components
//
// Returns:
//   - Vec3: the new vector
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Vec3FromArray creates a Vec3 from a flat [x, y, z] array.
//
// Parameters:
//   - a: the components in x, y, z order
//
// Returns:
//   - Vec3: the new vector
func Vec3FromArray(a [3]float32) Vec3 {
	return Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// ToArray returns the components as a flat [x, y, z] array, the layout GPU buffers expect.
//
// Returns:
//   - [3]float32: the components in x, y, z order
func (v Vec3) ToArray() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by the scalar s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the Euclidean dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the right-handed cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LengthSq returns the squared length of v.
func (v Vec3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.LengthSq())
}

// Normalize returns v scaled to unit length.
// A zero-length vector is returned unchanged; no division by zero takes place.
//
// Returns:
//   - Vec3: the unit vector, or v itself if v has zero length
func (v Vec3) Normalize() Vec3 {
	lenSq := v.LengthSq()
	if lenSq == 0 {
		return v
	}
	inv := 1 / math32.Sqrt(lenSq)
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// NormalizeChecked behaves like Normalize but also reports ErrZeroLengthVector when v has no direction.
//
// Returns:
//   - Vec3: the unit vector, or v itself if v has zero length
//   - error: ErrZeroLengthVector if v has zero length
func (v Vec3) NormalizeChecked() (Vec3, error) {
	if v.LengthSq() == 0 {
		return v, ErrZeroLengthVector
	}
	return v.Normalize(), nil
}

// Lerp linearly interpolates between v and o. t = 0 yields v and t = 1 yields o.
//
// Parameters:
//   - o: the target vector
//   - t: the interpolation factor
//
// Returns:
//   - Vec3: v*(1-t) + o*t
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return v.Scale(1 - t).Add(o.Scale(t))
}

// Min returns the component-wise minimum of v and o.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{min(v.X, o.X), min(v.Y, o.Y), min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{max(v.X, o.X), max(v.Y, o.Y), max(v.Z, o.Z)}
}

func (v Vec3) String() string {
	return fmt.Sprintf("vec3(%g, %g, %g)", v.X, v.Y, v.Z)
}
