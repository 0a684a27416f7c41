package common

import (
	"fmt"
	"strings"
)

// Mat4 is a 4x4 float32 matrix stored row-major: element (row, col) lives at m[row*4+col].
// Translation occupies m[3], m[7] and m[11]. The zero value is the zero matrix, so use
// Identity or one of the constructors when a transform is needed.
type Mat4 [16]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// NewMat4 returns a new identity matrix.
func NewMat4() Mat4 {
	return Identity()
}

// Mat4FromArray creates a Mat4 from 16 row-major floats.
//
// Parameters:
//   - a: the elements in row-major order
//
// Returns:
//   - Mat4: the new matrix
func Mat4FromArray(a [16]float32) Mat4 {
	return Mat4(a)
}

// Mat4FromColumnMajor creates a Mat4 from 16 column-major floats, the layout used by
// glTF and WGSL mat4x4<f32>.
//
// Parameters:
//   - a: the elements in column-major order
//
// Returns:
//   - Mat4: the equivalent row-major matrix
func Mat4FromColumnMajor(a [16]float32) Mat4 {
	return Mat4(a).Transpose()
}

// ToArray returns the 16 elements in row-major order.
func (m Mat4) ToArray() [16]float32 {
	return [16]float32(m)
}

// At returns the element at the given row and column.
func (m Mat4) At(row, col int) float32 {
	return m[row*4+col]
}

// Translation builds a matrix translating by v.
func Translation(v Vec3) Mat4 {
	m := Identity()
	m[3], m[7], m[11] = v.X, v.Y, v.Z
	return m
}

// Scaling builds a matrix scaling each axis by the matching component of v.
func Scaling(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// Mul returns the row-major product m * o. Applied to a column vector, o acts first.
//
// Parameters:
//   - o: the right-hand matrix
//
// Returns:
//   - Mat4: the product
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row*4+col] = m[row*4+0]*o[0*4+col] +
				m[row*4+1]*o[1*4+col] +
				m[row*4+2]*o[2*4+col] +
				m[row*4+3]*o[3*4+col]
		}
	}
	return out
}

// Transpose returns the transpose of m. Use it to hand a row-major matrix to a column-major consumer.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col*4+row] = m[row*4+col]
		}
	}
	return out
}

// MulPoint transforms the point v, computing the homogeneous w and dividing by it.
// A w of exactly zero leaves the xyz result undivided.
//
// Parameters:
//   - v: the point to transform
//
// Returns:
//   - Vec3: the transformed point
func (m Mat4) MulPoint(v Vec3) Vec3 {
	out := Vec3{
		v.X*m[0] + v.Y*m[1] + v.Z*m[2] + m[3],
		v.X*m[4] + v.Y*m[5] + v.Z*m[6] + m[7],
		v.X*m[8] + v.Y*m[9] + v.Z*m[10] + m[11],
	}
	w := v.X*m[12] + v.Y*m[13] + v.Z*m[14] + m[15]
	if w == 0 {
		return out
	}
	return out.Scale(1 / w)
}

// MulVec transforms the direction v, ignoring translation.
//
// Parameters:
//   - v: the direction to transform
//
// Returns:
//   - Vec3: the transformed direction
func (m Mat4) MulVec(v Vec3) Vec3 {
	return Vec3{
		v.X*m[0] + v.Y*m[1] + v.Z*m[2],
		v.X*m[4] + v.Y*m[5] + v.Z*m[6],
		v.X*m[8] + v.Y*m[9] + v.Z*m[10],
	}
}

// TranslationPart returns the translation column (m[3], m[7], m[11]).
func (m Mat4) TranslationPart() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// cofactors returns the adjugate of m (unscaled inverse) together with the determinant.
func (m Mat4) cofactors() (Mat4, float32) {
	var inv Mat4
	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	return inv, det
}

// Determinant returns the determinant of m.
func (m Mat4) Determinant() float32 {
	_, det := m.cofactors()
	return det
}

// Invert computes the inverse of m with the cofactor (adjugate) method.
// A determinant of exactly zero is a precondition violation and is reported
// instead of dividing by zero.
//
// Returns:
//   - Mat4: the inverse, or the zero matrix on failure
//   - error: ErrSingularMatrix if m has no inverse
func (m Mat4) Invert() (Mat4, error) {
	inv, det := m.cofactors()
	if det == 0 {
		return Mat4{}, ErrSingularMatrix
	}
	invDet := 1 / det
	for i := range inv {
		inv[i] *= invDet
	}
	return inv, nil
}

// ApproxEqual reports whether every element of m is within tol of the matching element of o.
func (m Mat4) ApproxEqual(o Mat4, tol float32) bool {
	for i := range m {
		d := m[i] - o[i]
		if d > tol || d < -tol {
			return false
		}
	}
	return true
}

func (m Mat4) String() string {
	var sb strings.Builder
	for row := 0; row < 4; row++ {
		fmt.Fprintf(&sb, "[% .5f % .5f % .5f % .5f]", m[row*4], m[row*4+1], m[row*4+2], m[row*4+3])
		if row < 3 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
