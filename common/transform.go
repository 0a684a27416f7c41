package common

import (
	"github.com/chewxy/math32"
)

// RotationX builds a row-major rotation of theta radians around the X axis.
func RotationX(theta float32) Mat4 {
	c, s := math32.Cos(theta), math32.Sin(theta)
	m := Identity()
	m[5], m[6] = c, -s
	m[9], m[10] = s, c
	return m
}

// RotationY builds a row-major rotation of theta radians around the Y axis.
func RotationY(theta float32) Mat4 {
	c, s := math32.Cos(theta), math32.Sin(theta)
	m := Identity()
	m[0], m[2] = c, s
	m[8], m[10] = -s, c
	return m
}

// RotationZ builds a row-major rotation of theta radians around the Z axis.
func RotationZ(theta float32) Mat4 {
	c, s := math32.Cos(theta), math32.Sin(theta)
	m := Identity()
	m[0], m[1] = c, -s
	m[4], m[5] = s, c
	return m
}

// ComposeTRS builds translation · rotation · scale, so scale applies first, then rotation, then translation.
// This is the local transform layout used for every sampled bone.
//
// Parameters:
//   - t: the translation
//   - r: the rotation; normalized internally
//   - s: the per-axis scale
//
// Returns:
//   - Mat4: the composed transform
func ComposeTRS(t Vec3, r Quaternion, s Vec3) Mat4 {
	// Equivalent to Translation(t).Mul(r.ToMatrix()).Mul(Scaling(s)) without the two full multiplies.
	m := r.ToMatrix()
	m[0], m[4], m[8] = m[0]*s.X, m[4]*s.X, m[8]*s.X
	m[1], m[5], m[9] = m[1]*s.Y, m[5]*s.Y, m[9]*s.Y
	m[2], m[6], m[10] = m[2]*s.Z, m[6]*s.Z, m[10]*s.Z
	m[3], m[7], m[11] = t.X, t.Y, t.Z
	return m
}

// Perspective creates a right-handed perspective projection with a [0, 1] depth range.
// The matrix is row-major and maps view space -Z forward onto clip space.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	tanHalf := math32.Tan(fovY / 2)
	var m Mat4
	m[0] = 1 / (aspect * tanHalf)
	m[5] = 1 / tanHalf
	m[10] = -far / (far - near)
	m[11] = -(far * near) / (far - near)
	m[14] = -1
	return m
}

// LookAt creates a row-major view matrix for a camera at eye looking towards center.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up direction (typically 0,1,0)
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	forward := eye.Sub(center).Normalize()
	right := up.Cross(forward).Normalize()
	trueUp := forward.Cross(right)

	return Mat4{
		right.X, right.Y, right.Z, -eye.Dot(right),
		trueUp.X, trueUp.Y, trueUp.Z, -eye.Dot(trueUp),
		forward.X, forward.Y, forward.Z, -eye.Dot(forward),
		0, 0, 0, 1,
	}
}

// Lerp linearly interpolates between two scalars.
func Lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
