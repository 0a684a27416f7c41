package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBoneRig = `
name: slider
bones:
  - name: root
    parent: -1
  - name: child
    parent: 0
    offset: [1, 0, 0, 0,
             0, 1, 0, -1,
             0, 0, 1, 0,
             0, 0, 0, 1]
clips:
  - name: slide
    ticks_per_second: 1
    frames:
      - positions: [[0, 0, 0], [0, 0, 0]]
      - positions: [[0, 0, 0], [1, 0, 0]]
        rotations: [[1, 0, 0, 0], [0.7071068, 0, 0.7071068, 0]]
        scales: [[1, 1, 1], [2, 2, 2]]
`

func TestDecodeRig(t *testing.T) {
	m, err := DecodeRig(strings.NewReader(twoBoneRig))
	require.NoError(t, err)

	assert.Equal(t, "slider", m.Name())
	skel := m.Skeleton()
	require.Equal(t, 2, skel.BoneCount())
	assert.Equal(t, common.Identity(), skel.Bone(0).Offset)
	assert.Equal(t, 0, skel.Bone(1).ParentIndex)
	assert.Equal(t, float32(-1), skel.Bone(1).Offset[7])

	clip, ok := m.Clip("slide")
	require.True(t, ok)
	require.Len(t, clip.Frames, 2)
	assert.Equal(t, float32(1), clip.TicksPerSecond)

	first := clip.Frames[0]
	assert.Equal(t, common.QuaternionIdentity(), first.Rotations[1])
	assert.Equal(t, common.NewVec3(1, 1, 1), first.Scales[1])

	second := clip.Frames[1]
	assert.Equal(t, common.NewVec3(1, 0, 0), second.Positions[1])
	assert.InDelta(t, 0.7071068, second.Rotations[1].W, 1e-6)
	assert.InDelta(t, 0.7071068, second.Rotations[1].Y, 1e-6)
	assert.Equal(t, common.NewVec3(2, 2, 2), second.Scales[1])
}

func TestDecodeRigErrors(t *testing.T) {
	cases := map[string]struct {
		doc string
		err error
	}{
		"bone order": {
			doc: "bones:\n  - {name: a, parent: 1}\n  - {name: b, parent: -1}\n",
			err: model.ErrBoneOrder,
		},
		"frame bone count": {
			doc: "bones:\n  - {name: a, parent: -1}\nclips:\n  - name: c\n    ticks_per_second: 1\n    frames:\n      - positions: [[0,0,0],[0,0,0]]\n",
			err: model.ErrBoneIndexMismatch,
		},
		"empty clip": {
			doc: "bones:\n  - {name: a, parent: -1}\nclips:\n  - {name: c, ticks_per_second: 1}\n",
			err: model.ErrEmptyClip,
		},
		"tick rate": {
			doc: "bones:\n  - {name: a, parent: -1}\nclips:\n  - name: c\n    frames:\n      - positions: [[0,0,0]]\n",
			err: model.ErrInvalidTickRate,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRig(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDecodeRigMalformed(t *testing.T) {
	_, err := DecodeRig(strings.NewReader("bones:\n  - {name: a, parent: -1, offset: [1, 2, 3]}\n"))
	assert.ErrorContains(t, err, "offset has 3 values")

	_, err = DecodeRig(strings.NewReader("bones: [{name: a, parent: -1, colour: red}]\n"))
	assert.Error(t, err)

	_, err = DecodeRig(strings.NewReader("bones: [\n"))
	assert.Error(t, err)
}

func TestEncodeRigRoundTrip(t *testing.T) {
	m, err := DecodeRig(strings.NewReader(twoBoneRig))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeRig(&buf, m))

	again, err := DecodeRig(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Name(), again.Name())
	assert.Equal(t, m.Skeleton().Bones(), again.Skeleton().Bones())
	a, _ := m.Clip("slide")
	b, _ := again.Clip("slide")
	assert.Equal(t, a.Frames, b.Frames)
}

func TestLoadRigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slider.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoBoneRig), 0o644))

	m, err := LoadRigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.AnimationCount())

	_, err = LoadRigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderCachesByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slider.yml")
	require.NoError(t, os.WriteFile(path, []byte(twoBoneRig), 0o644))

	l := NewLoader()
	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, l.Get(path))
	assert.Len(t, l.Models(), 1)
	assert.Nil(t, l.Get("other"))
}

func TestLoaderNamesUnnamedRigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bones:\n  - {name: a, parent: -1}\n"), 0o644))

	m, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "walker", m.Name())
}

func TestLoaderLoadReader(t *testing.T) {
	l := NewLoader()
	m, err := l.LoadReader("mem", strings.NewReader(twoBoneRig), BackendTypeRig)
	require.NoError(t, err)
	assert.Same(t, m, l.Get("mem"))
	assert.Equal(t, "slider", m.Name())

	unnamed, err := l.LoadReader("anon", strings.NewReader("bones:\n  - {name: a, parent: -1}\n"), BackendTypeRig)
	require.NoError(t, err)
	assert.Equal(t, "anon", unnamed.Name())

	_, err = l.LoadReader("bad", strings.NewReader(twoBoneRig), LoaderBackendType(99))
	assert.Error(t, err)
}

func TestLoaderUnsupportedExtension(t *testing.T) {
	_, err := NewLoader().Load("rig.fbx")
	assert.ErrorContains(t, err, "unsupported rig format")
}

func TestBackendTypeForPath(t *testing.T) {
	for path, want := range map[string]LoaderBackendType{
		"a.yaml": BackendTypeRig,
		"a.YML":  BackendTypeRig,
		"a.gltf": BackendTypeGLTF,
		"a.glb":  BackendTypeGLTF,
	} {
		got, err := BackendTypeForPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
}

func TestWithModelPrepopulatesCache(t *testing.T) {
	m, err := DecodeRig(strings.NewReader(twoBoneRig))
	require.NoError(t, err)
	l := NewLoader(WithModel("hero", m))
	assert.Same(t, m, l.Get("hero"))
}
