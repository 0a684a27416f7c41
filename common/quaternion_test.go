package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertQuatInDelta(t *testing.T, expected, actual Quaternion, delta float64) {
	t.Helper()
	assert.InDelta(t, expected.W, actual.W, delta, "w")
	assert.InDelta(t, expected.X, actual.X, delta, "x")
	assert.InDelta(t, expected.Y, actual.Y, delta, "y")
	assert.InDelta(t, expected.Z, actual.Z, delta, "z")
}

// sameRotation treats q and -q as equal.
func assertSameRotation(t *testing.T, expected, actual Quaternion, delta float64) {
	t.Helper()
	if expected.Dot(actual) < 0 {
		actual = actual.Negate()
	}
	assertQuatInDelta(t, expected, actual, delta)
}

func sampleQuaternions() []Quaternion {
	return []Quaternion{
		QuaternionIdentity(),
		QuaternionFromAxisAngle(NewVec3(0, 1, 0), math.Pi/2),
		QuaternionFromAxisAngle(NewVec3(1, 1, 0), 0.3),
		QuaternionFromAxisAngle(NewVec3(-1, 2, 3), 2.5),
		QuaternionFromAxisAngle(NewVec3(0, 0, 1), -1.2),
	}
}

func TestQuaternionIdentityToMatrix(t *testing.T) {
	assert.Equal(t, Identity(), QuaternionIdentity().ToMatrix())
}

func TestQuaternionToMatrixNormalizes(t *testing.T) {
	q := QuaternionFromAxisAngle(NewVec3(0, 0, 1), 0.7)
	assert.True(t, q.ToMatrix().ApproxEqual(q.Scale(3).ToMatrix(), 1e-5))
}

func TestQuaternionToMatrixMatchesRotationConstructors(t *testing.T) {
	angle := float32(0.6)
	assert.True(t, RotationX(angle).ApproxEqual(QuaternionFromAxisAngle(NewVec3(1, 0, 0), angle).ToMatrix(), 1e-5))
	assert.True(t, RotationY(angle).ApproxEqual(QuaternionFromAxisAngle(NewVec3(0, 1, 0), angle).ToMatrix(), 1e-5))
	assert.True(t, RotationZ(angle).ApproxEqual(QuaternionFromAxisAngle(NewVec3(0, 0, 1), angle).ToMatrix(), 1e-5))
}

func TestQuaternionToMatrixMatchesMathGL(t *testing.T) {
	for _, q := range sampleQuaternions() {
		ref := mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}.Mat4()
		// mgl32 is column-major; reading it as row-major gives the transpose.
		got := Mat4(ref).Transpose()
		assert.True(t, got.ApproxEqual(q.ToMatrix(), 1e-5), "q=%v\nexpected:\n%v\ngot:\n%v", q, got, q.ToMatrix())
	}
}

func TestQuaternionMulMatchesMathGL(t *testing.T) {
	qs := sampleQuaternions()
	for i := range qs {
		for j := range qs {
			a, b := qs[i], qs[j]
			ref := mgl32.Quat{W: a.W, V: mgl32.Vec3{a.X, a.Y, a.Z}}.Mul(mgl32.Quat{W: b.W, V: mgl32.Vec3{b.X, b.Y, b.Z}})
			assertQuatInDelta(t, NewQuaternion(ref.W, ref.V[0], ref.V[1], ref.V[2]), a.Mul(b), 1e-5)
		}
	}
}

func TestQuaternionMulComposition(t *testing.T) {
	a := QuaternionFromAxisAngle(NewVec3(0, 0, 1), math.Pi/2)
	b := QuaternionFromAxisAngle(NewVec3(1, 0, 0), math.Pi/2)
	v := NewVec3(1, 0, 0)

	// A then B is B*A.
	assertVec3InDelta(t, b.Rotate(a.Rotate(v)), b.Mul(a).Rotate(v), 1e-5)
	// Composition matches matrix composition.
	assert.True(t, b.Mul(a).ToMatrix().ApproxEqual(b.ToMatrix().Mul(a.ToMatrix()), 1e-5))
}

func TestQuaternionRotate(t *testing.T) {
	q := QuaternionFromAxisAngle(NewVec3(0, 0, 1), math.Pi/2)
	assertVec3InDelta(t, NewVec3(0, 1, 0), q.Rotate(NewVec3(1, 0, 0)), 1e-5)
}

func TestQuaternionNormalizeZero(t *testing.T) {
	assert.Equal(t, Quaternion{}, Quaternion{}.Normalize())
}

func TestSlerpSameRotation(t *testing.T) {
	for _, q := range sampleQuaternions() {
		for _, s := range []float32{0, 0.1, 0.25, 0.5, 0.9, 1} {
			assertQuatInDelta(t, q, Slerp(q, q, s), 1e-5)
		}
	}
}

func TestSlerpEndpoints(t *testing.T) {
	qs := sampleQuaternions()
	for i := range qs {
		for j := range qs {
			a, b := qs[i], qs[j]
			assertSameRotation(t, a, Slerp(a, b, 0), 1e-5)
			assertSameRotation(t, b, Slerp(a, b, 1), 1e-4)
		}
	}
}

func TestSlerpShortestPath(t *testing.T) {
	a := QuaternionIdentity()
	b := QuaternionFromAxisAngle(NewVec3(0, 1, 0), 0.5).Negate()
	mid := Slerp(a, b, 0.5)

	// The negated target represents the same rotation; the midpoint must be a quarter of it, not the long way round.
	assert.Greater(t, mid.W, float32(0))
	assertSameRotation(t, QuaternionFromAxisAngle(NewVec3(0, 1, 0), 0.25), mid, 1e-5)
}

func TestSlerpMatchesMathGL(t *testing.T) {
	a := QuaternionFromAxisAngle(NewVec3(0, 1, 0), 0.2)
	b := QuaternionFromAxisAngle(NewVec3(0, 1, 0), 1.8)
	ref := mgl32.QuatSlerp(
		mgl32.Quat{W: a.W, V: mgl32.Vec3{a.X, a.Y, a.Z}},
		mgl32.Quat{W: b.W, V: mgl32.Vec3{b.X, b.Y, b.Z}},
		0.3,
	)
	assertQuatInDelta(t, NewQuaternion(ref.W, ref.V[0], ref.V[1], ref.V[2]), Slerp(a, b, 0.3), 1e-5)
}

func TestSlerpDeterministic(t *testing.T) {
	a := QuaternionFromAxisAngle(NewVec3(1, 2, 3), 0.4)
	b := QuaternionFromAxisAngle(NewVec3(-3, 1, 0), 2.1)
	first := Slerp(a, b, 0.37)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Slerp(a, b, 0.37))
	}
}

func TestSlerpNearlyParallelFallsBackToLerp(t *testing.T) {
	a := QuaternionFromAxisAngle(NewVec3(0, 1, 0), 0.0)
	b := QuaternionFromAxisAngle(NewVec3(0, 1, 0), 0.001)
	mid := Slerp(a, b, 0.5)
	assert.InDelta(t, 1, mid.Length(), 1e-6)
	assertSameRotation(t, QuaternionFromAxisAngle(NewVec3(0, 1, 0), 0.0005), mid, 1e-6)
}

func TestQuaternionArrayRoundTrip(t *testing.T) {
	q := NewQuaternion(1, 2, 3, 4)
	assert.Equal(t, [4]float32{1, 2, 3, 4}, q.ToArray())
	assert.Equal(t, q, QuaternionFromArray(q.ToArray()))
}
