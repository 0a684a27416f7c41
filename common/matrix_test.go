package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowMajor converts a column-major mathgl matrix into a row-major Mat4.
func rowMajor(m mgl32.Mat4) Mat4 {
	return Mat4FromColumnMajor([16]float32(m))
}

func sampleMatrices() []Mat4 {
	return []Mat4{
		Identity(),
		Translation(NewVec3(1, -2, 3)),
		Scaling(NewVec3(2, 0.5, 4)),
		RotationX(0.4),
		ComposeTRS(NewVec3(3, 1, -2), QuaternionFromAxisAngle(NewVec3(1, 1, 1), 1.1), NewVec3(1, 2, 3)),
		ComposeTRS(NewVec3(0, 5, 0), QuaternionFromAxisAngle(NewVec3(0, 1, 0), -2.3), NewVec3(0.5, 0.5, 0.5)),
	}
}

func TestIdentity(t *testing.T) {
	id := Identity()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			expected := float32(0)
			if row == col {
				expected = 1
			}
			assert.Equal(t, expected, id.At(row, col))
		}
	}
}

func TestMulIdentity(t *testing.T) {
	for _, m := range sampleMatrices() {
		assert.Equal(t, m, Identity().Mul(m))
		assert.Equal(t, m, m.Mul(Identity()))
	}
}

func TestMulMatchesMathGL(t *testing.T) {
	ms := sampleMatrices()
	for i := range ms {
		for j := range ms {
			a, b := ms[i], ms[j]
			ref := mgl32.Mat4(a.Transpose()).Mul4(mgl32.Mat4(b.Transpose()))
			assert.True(t, rowMajor(ref).ApproxEqual(a.Mul(b), 1e-4), "a=\n%v\nb=\n%v", a, b)
		}
	}
}

func TestTranslationLayout(t *testing.T) {
	m := Translation(NewVec3(1, 2, 3))
	assert.Equal(t, float32(1), m[3])
	assert.Equal(t, float32(2), m[7])
	assert.Equal(t, float32(3), m[11])
	assert.Equal(t, NewVec3(1, 2, 3), m.TranslationPart())
	assert.True(t, rowMajor(mgl32.Translate3D(1, 2, 3)).ApproxEqual(m, 0))
}

func TestMulPoint(t *testing.T) {
	m := Translation(NewVec3(1, 2, 3)).Mul(Scaling(NewVec3(2, 2, 2)))
	assertVec3InDelta(t, NewVec3(3, 4, 5), m.MulPoint(NewVec3(1, 1, 1)), tol)
	assertVec3InDelta(t, NewVec3(2, 2, 2), m.MulVec(NewVec3(1, 1, 1)), tol)
}

func TestMulPointPerspectiveDivide(t *testing.T) {
	var m Mat4
	m[0], m[5], m[10], m[15] = 2, 2, 2, 2
	assertVec3InDelta(t, NewVec3(1, 2, 3), m.MulPoint(NewVec3(1, 2, 3)), tol)
}

func TestTranspose(t *testing.T) {
	m := Mat4FromArray([16]float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})
	tr := m.Transpose()
	assert.Equal(t, float32(5), tr[1])
	assert.Equal(t, float32(4), tr[12])
	assert.Equal(t, m, tr.Transpose())
}

func TestInvert(t *testing.T) {
	for _, m := range sampleMatrices() {
		inv, err := m.Invert()
		require.NoError(t, err)
		assert.True(t, m.Mul(inv).ApproxEqual(Identity(), 1e-4), "M*inv(M) for\n%v\n=\n%v", m, m.Mul(inv))
		assert.True(t, inv.Mul(m).ApproxEqual(Identity(), 1e-4))
	}
}

func TestInvertMatchesMathGL(t *testing.T) {
	m := ComposeTRS(NewVec3(3, 1, -2), QuaternionFromAxisAngle(NewVec3(1, 1, 1), 1.1), NewVec3(1, 2, 3))
	inv, err := m.Invert()
	require.NoError(t, err)
	ref := mgl32.Mat4(m.Transpose()).Inv()
	assert.True(t, rowMajor(ref).ApproxEqual(inv, 1e-4))
}

func TestInvertSingular(t *testing.T) {
	singular := []Mat4{
		{},
		Scaling(NewVec3(1, 0, 1)),
		Mat4FromArray([16]float32{
			1, 2, 3, 4,
			2, 4, 6, 8,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}),
	}
	for _, m := range singular {
		assert.Equal(t, float32(0), m.Determinant())
		_, err := m.Invert()
		assert.ErrorIs(t, err, ErrSingularMatrix)
	}
}

func TestDeterminant(t *testing.T) {
	assert.Equal(t, float32(1), Identity().Determinant())
	assert.InDelta(t, 24, Scaling(NewVec3(2, 3, 4)).Determinant(), tol)
	assert.InDelta(t, 1, RotationY(0.9).Determinant(), tol)
}

func TestComposeTRS(t *testing.T) {
	tr := NewVec3(1, 2, 3)
	r := QuaternionFromAxisAngle(NewVec3(0, 0, 1), math.Pi/3)
	s := NewVec3(2, 3, 4)
	expected := Translation(tr).Mul(r.ToMatrix()).Mul(Scaling(s))
	assert.True(t, expected.ApproxEqual(ComposeTRS(tr, r, s), 1e-5))
}

func TestComposeTRSIdentity(t *testing.T) {
	assert.Equal(t, Identity(), ComposeTRS(Vec3{}, QuaternionIdentity(), NewVec3(1, 1, 1)))
}

func TestRotationMatchesMathGL(t *testing.T) {
	for _, a := range []float32{-1.5, 0, 0.3, 2.2} {
		assert.True(t, rowMajor(mgl32.HomogRotate3DX(a)).ApproxEqual(RotationX(a), 1e-5))
		assert.True(t, rowMajor(mgl32.HomogRotate3DY(a)).ApproxEqual(RotationY(a), 1e-5))
		assert.True(t, rowMajor(mgl32.HomogRotate3DZ(a)).ApproxEqual(RotationZ(a), 1e-5))
	}
}

func TestLookAtMatchesMathGL(t *testing.T) {
	eye := NewVec3(3, 4, 5)
	center := NewVec3(0, 1, 0)
	up := NewVec3(0, 1, 0)
	ref := mgl32.LookAtV(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})
	assert.True(t, rowMajor(ref).ApproxEqual(LookAt(eye, center, up), 1e-5))
}

func TestPerspectiveLayout(t *testing.T) {
	p := Perspective(math.Pi/2, 2, 1, 11)
	assert.InDelta(t, 0.5, p[0], tol)
	assert.InDelta(t, 1, p[5], tol)
	assert.InDelta(t, -1.1, p[10], tol)
	assert.InDelta(t, -1.1, p[11], tol)
	assert.Equal(t, float32(-1), p[14])
	assert.Equal(t, float32(0), p[15])

	// The near plane maps to depth 0 and the far plane to depth 1.
	assert.InDelta(t, 0, p.MulPoint(NewVec3(0, 0, -1)).Z, tol)
	assert.InDelta(t, 1, p.MulPoint(NewVec3(0, 0, -11)).Z, tol)
}

func TestMat4FromColumnMajor(t *testing.T) {
	cm := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		7, 8, 9, 1,
	}
	m := Mat4FromColumnMajor(cm)
	assert.Equal(t, NewVec3(7, 8, 9), m.TranslationPart())
}

func TestNewMat4IsIdentity(t *testing.T) {
	assert.Equal(t, Identity(), NewMat4())
	assert.NotEqual(t, Mat4{}, NewMat4())
}
