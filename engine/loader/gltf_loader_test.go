package loader

import (
	"bytes"
	"log"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

// skinnedDocument builds a three-joint skin whose joints are listed child-first, plus a
// one-second animation that slides "arm" along X and turns "root" a quarter turn about Y.
func skinnedDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "hand", Translation: [3]float64{0, 0, 1}},
		{Name: "arm", Translation: [3]float64{0, 2, 0}, Children: []int{0}},
		{Name: "root", Children: []int{1}, Scale: [3]float64{1, 1, 1}},
		{Name: "mesh"},
	}

	// Column-major inverse bind matrices: identity for hand and root, translate(0,-2,0) for arm.
	ibm := [][4][4]float32{
		{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
		{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, -2, 0, 1}},
		{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
	}
	ibmIndex := modeler.WriteAccessor(doc, gltf.TargetNone, ibm)
	doc.Skins = []*gltf.Skin{{Name: "rig", Joints: []int{0, 1, 2}, InverseBindMatrices: ptr(ibmIndex)}}

	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
	slide := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 2, 0}, {1, 2, 0}})
	s := float32(math.Sqrt2 / 2)
	turn := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{0, 0, 0, 1}, {0, s, 0, s}})
	stepTimes := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 0.5})
	meshScale := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{1, 1, 1}, {3, 3, 3}})

	doc.Animations = []*gltf.Animation{
		{
			Name: "wave",
			Samplers: []*gltf.AnimationSampler{
				{Input: times, Output: slide, Interpolation: gltf.InterpolationLinear},
				{Input: times, Output: turn, Interpolation: gltf.InterpolationLinear},
			},
			Channels: []*gltf.AnimationChannel{
				{Sampler: 0, Target: gltf.AnimationChannelTarget{Node: ptr(1), Path: gltf.TRSTranslation}},
				{Sampler: 1, Target: gltf.AnimationChannelTarget{Node: ptr(2), Path: gltf.TRSRotation}},
			},
		},
		{
			Name: "mesh_only",
			Samplers: []*gltf.AnimationSampler{
				{Input: stepTimes, Output: meshScale, Interpolation: gltf.InterpolationStep},
			},
			Channels: []*gltf.AnimationChannel{
				{Sampler: 0, Target: gltf.AnimationChannelTarget{Node: ptr(3), Path: gltf.TRSScale}},
			},
		},
	}
	return doc
}

func TestGLTFImportSortsJointsParentsFirst(t *testing.T) {
	rig, err := newGLTFLoaderBackend(DefaultSampleRate).(*gltfLoaderBackendImpl).importDocument(skinnedDocument())
	require.NoError(t, err)

	require.Len(t, rig.Bones, 3)
	assert.Equal(t, "rig", rig.Name)
	assert.Equal(t, []string{"root", "arm", "hand"}, []string{rig.Bones[0].Name, rig.Bones[1].Name, rig.Bones[2].Name})
	assert.Equal(t, []int{-1, 0, 1}, []int{rig.Bones[0].ParentIndex, rig.Bones[1].ParentIndex, rig.Bones[2].ParentIndex})

	// The arm's inverse bind matrix is transposed into row-major order.
	assert.Equal(t, common.NewVec3(0, -2, 0), rig.Bones[1].Offset.TranslationPart())
	assert.Equal(t, common.Identity(), rig.Bones[0].Offset)
}

func TestGLTFImportResamplesAnimation(t *testing.T) {
	rig, err := newGLTFLoaderBackend(4).(*gltfLoaderBackendImpl).importDocument(skinnedDocument())
	require.NoError(t, err)

	// The mesh-only animation targets no joint and is skipped.
	require.Len(t, rig.Clips, 1)
	clip := rig.Clips[0]
	assert.Equal(t, "wave", clip.Name)
	assert.Equal(t, float32(4), clip.TicksPerSecond)
	require.Len(t, clip.Frames, 4)

	half := clip.Frames[2]
	// Driven translation on arm (bone 1).
	assert.InDelta(t, 0.5, half.Positions[1].X, 1e-5)
	assert.InDelta(t, 2, half.Positions[1].Y, 1e-5)
	// Driven rotation on root (bone 0): 45 degrees about Y.
	expected := common.QuaternionFromAxisAngle(common.NewVec3(0, 1, 0), math.Pi/4)
	assert.InDelta(t, expected.W, half.Rotations[0].W, 1e-5)
	assert.InDelta(t, expected.Y, half.Rotations[0].Y, 1e-5)
	// The undriven hand keeps its rest translation.
	assert.Equal(t, common.NewVec3(0, 0, 1), half.Positions[2])
	assert.Equal(t, common.QuaternionIdentity(), half.Rotations[2])
	assert.Equal(t, common.NewVec3(1, 1, 1), half.Scales[2])
}

func TestGLTFImportBuildsValidModel(t *testing.T) {
	var logs bytes.Buffer
	l := NewLoader(WithSampleRate(10), WithLogger(log.New(&logs, "", 0))).(*loader)
	rig, err := l.backends[BackendTypeGLTF].(*gltfLoaderBackendImpl).importDocument(skinnedDocument())
	require.NoError(t, err)

	m, err := l.importedToModel(rig)
	require.NoError(t, err)
	assert.Equal(t, []string{"wave"}, m.AnimationNames())
	clip, _ := m.Clip("wave")
	assert.Len(t, clip.Frames, 10)
	assert.Contains(t, logs.String(), "[Loader]")
}

func TestGLTFImportWithoutSkin(t *testing.T) {
	_, err := newGLTFLoaderBackend(DefaultSampleRate).(*gltfLoaderBackendImpl).importDocument(gltf.NewDocument())
	assert.ErrorContains(t, err, "no skins")
}

func TestGLTFRoundTripThroughEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(skinnedDocument()))

	m, err := NewLoader().LoadReader("glb", &buf, BackendTypeGLTF)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Skeleton().BoneCount())
	assert.Equal(t, 0, m.Skeleton().BoneIndex("root"))
}

func TestTopologicalOrder(t *testing.T) {
	bones := []model.BoneRecord{
		{Name: "c", ParentIndex: 1},
		{Name: "b", ParentIndex: 2},
		{Name: "a", ParentIndex: -1},
		{Name: "z", ParentIndex: -1},
	}
	order, err := topologicalOrder(bones)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1, 0}, order)

	sorted, oldToNew := reorderBones(bones, order)
	assert.Equal(t, "a", sorted[0].Name)
	assert.Equal(t, 0, sorted[2].ParentIndex)
	assert.Equal(t, 2, sorted[3].ParentIndex)
	assert.Equal(t, 3, oldToNew[0])

	_, err = model.NewSkeleton(sorted)
	assert.NoError(t, err)
}

func TestTopologicalOrderCycle(t *testing.T) {
	bones := []model.BoneRecord{
		{Name: "a", ParentIndex: 1},
		{Name: "b", ParentIndex: 0},
		{Name: "root", ParentIndex: -1},
	}
	_, err := topologicalOrder(bones)
	assert.ErrorIs(t, err, errJointCycle)
}

func TestDecomposeMatrix(t *testing.T) {
	rot := common.QuaternionFromAxisAngle(common.NewVec3(1, 2, 3), 0.8)
	m := common.ComposeTRS(common.NewVec3(4, 5, 6), rot, common.NewVec3(2, 3, 4))

	pose := decomposeMatrix(m)
	assert.InDelta(t, 4, pose.Translation.X, 1e-5)
	assert.InDelta(t, 6, pose.Translation.Z, 1e-5)
	assert.InDelta(t, 3, pose.Scale.Y, 1e-4)
	rebuilt := common.ComposeTRS(pose.Translation, pose.Rotation, pose.Scale)
	assert.True(t, m.ApproxEqual(rebuilt, 1e-4), "expected:\n%v\nrebuilt:\n%v", m, rebuilt)
}

func TestNodeRestPoseFromMatrix(t *testing.T) {
	// Column-major translate(1, 2, 3).
	node := &gltf.Node{Matrix: [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 2, 3, 1}}
	pose := gltfNodeRestPose(node)
	assert.Equal(t, common.NewVec3(1, 2, 3), pose.Translation)
	assert.InDelta(t, 1, pose.Rotation.W, 1e-6)
	assert.Equal(t, common.NewVec3(1, 1, 1), pose.Scale)
}

func TestTrackSampling(t *testing.T) {
	linear := &gltfTrack{
		times:  []float32{1, 2},
		values: [][4]float32{{0, 0, 0, 0}, {2, 4, 6, 0}},
		interp: gltf.InterpolationLinear,
	}
	assert.Equal(t, [4]float32{0, 0, 0, 0}, linear.sample(0))
	assert.Equal(t, [4]float32{1, 2, 3, 0}, linear.sample(1.5))
	assert.Equal(t, [4]float32{2, 4, 6, 0}, linear.sample(5))

	step := &gltfTrack{times: linear.times, values: linear.values, interp: gltf.InterpolationStep}
	assert.Equal(t, [4]float32{0, 0, 0, 0}, step.sample(1.9))

	// Cubic spline keys are (in-tangent, value, out-tangent); zero tangents give smoothstep.
	cubic := &gltfTrack{
		times: []float32{0, 1},
		values: [][4]float32{
			{}, {0, 0, 0, 0}, {},
			{}, {1, 0, 0, 0}, {},
		},
		interp: gltf.InterpolationCubicSpline,
	}
	assert.InDelta(t, 0.5, cubic.sample(0.5)[0], 1e-6)
	assert.InDelta(t, 0.15625, cubic.sample(0.25)[0], 1e-6)
	assert.Equal(t, [4]float32{1, 0, 0, 0}, cubic.sample(1))
}

func TestNormalizeVec4(t *testing.T) {
	out := normalizeVec4([][4]int8{{127, -128, 0, 64}}, 127, -1)
	assert.Equal(t, float32(1), out[0][0])
	assert.Equal(t, float32(-1), out[0][1])
	assert.InDelta(t, 64.0/127.0, out[0][3], 1e-6)
}
