package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"gopkg.in/yaml.v3"
)

// rigLoaderBackendImpl is the implementation of rigLoaderBackend.
type rigLoaderBackendImpl struct{}

// rigLoaderBackend is a loaderBackend implementation for YAML rig files.
type rigLoaderBackend interface {
	loaderBackend
}

var _ rigLoaderBackend = &rigLoaderBackendImpl{}

// newRigLoaderBackend creates a new YAML rig loader backend.
//
// Returns:
//   - rigLoaderBackend: the loader backend for YAML rig files
func newRigLoaderBackend() rigLoaderBackend {
	return &rigLoaderBackendImpl{}
}

func (b *rigLoaderBackendImpl) Load(path string) (*importedRig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return b.LoadReader(f)
}

func (b *rigLoaderBackendImpl) LoadReader(r io.Reader) (*importedRig, error) {
	var doc rigFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode rig: %w", err)
	}
	return doc.toImported()
}

// toImported converts the YAML document into bone and clip records, filling defaults.
func (d *rigFile) toImported() (*importedRig, error) {
	rig := &importedRig{
		Name:  d.Name,
		Bones: make([]model.BoneRecord, len(d.Bones)),
		Clips: make([]model.ClipRecord, len(d.Clips)),
	}

	for i, b := range d.Bones {
		offset := common.Identity()
		switch len(b.Offset) {
		case 0:
		case 16:
			offset = common.Mat4FromArray([16]float32(b.Offset))
		default:
			return nil, fmt.Errorf("bone %d (%q): offset has %d values, want 16", i, b.Name, len(b.Offset))
		}
		rig.Bones[i] = model.BoneRecord{Name: b.Name, ParentIndex: b.Parent, Offset: offset}
	}

	boneCount := len(d.Bones)
	for ci, c := range d.Clips {
		frames := make([]model.AnimationFrame, len(c.Frames))
		for fi, f := range c.Frames {
			frames[fi] = f.toFrame(boneCount)
		}
		rig.Clips[ci] = model.ClipRecord{Name: c.Name, TicksPerSecond: c.TicksPerSecond, Frames: frames}
	}
	return rig, nil
}

// toFrame converts one YAML frame. Positions are required per bone; rotations and scales may be omitted.
func (f *rigFileFrame) toFrame(boneCount int) model.AnimationFrame {
	frame := model.AnimationFrame{
		Positions: make([]common.Vec3, len(f.Positions)),
	}
	for i, p := range f.Positions {
		frame.Positions[i] = common.Vec3FromArray(p)
	}

	if len(f.Rotations) == 0 {
		frame.Rotations = make([]common.Quaternion, boneCount)
		for i := range frame.Rotations {
			frame.Rotations[i] = common.QuaternionIdentity()
		}
	} else {
		frame.Rotations = make([]common.Quaternion, len(f.Rotations))
		for i, r := range f.Rotations {
			frame.Rotations[i] = common.QuaternionFromArray(r)
		}
	}

	if len(f.Scales) == 0 {
		frame.Scales = make([]common.Vec3, boneCount)
		for i := range frame.Scales {
			frame.Scales[i] = common.NewVec3(1, 1, 1)
		}
	} else {
		frame.Scales = make([]common.Vec3, len(f.Scales))
		for i, s := range f.Scales {
			frame.Scales[i] = common.Vec3FromArray(s)
		}
	}
	return frame
}

// encodeRig converts a model back to the YAML rig document.
func encodeRig(m model.Model) *rigFile {
	doc := &rigFile{Name: m.Name()}
	if skel := m.Skeleton(); skel != nil {
		for _, b := range skel.Bones() {
			offset := b.Offset.ToArray()
			doc.Bones = append(doc.Bones, rigFileBone{Name: b.Name, Parent: b.ParentIndex, Offset: offset[:]})
		}
	}
	for _, name := range m.AnimationNames() {
		clip, _ := m.Clip(name)
		fc := rigFileClip{Name: clip.Name, TicksPerSecond: clip.TicksPerSecond}
		for _, f := range clip.Frames {
			var rf rigFileFrame
			for i := range f.Positions {
				rf.Positions = append(rf.Positions, f.Positions[i].ToArray())
				rf.Rotations = append(rf.Rotations, f.Rotations[i].ToArray())
				rf.Scales = append(rf.Scales, f.Scales[i].ToArray())
			}
			fc.Frames = append(fc.Frames, rf)
		}
		doc.Clips = append(doc.Clips, fc)
	}
	return doc
}

// EncodeRig writes m as a YAML rig document that DecodeRig reads back.
//
// Parameters:
//   - w: the destination writer
//   - m: the model to encode
//
// Returns:
//   - error: error if encoding fails
func EncodeRig(w io.Writer, m model.Model) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(encodeRig(m)); err != nil {
		return fmt.Errorf("failed to encode rig %q: %w", m.Name(), err)
	}
	return enc.Close()
}
