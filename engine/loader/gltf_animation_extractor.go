package loader

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
)

// gltfTrack is one animation channel's keyframes. Vec3 values use the first three components.
// Cubic spline tracks store in-tangent, value and out-tangent for every key.
type gltfTrack struct {
	times    []float32
	values   [][4]float32
	interp   gltf.Interpolation
	rotation bool
}

// gltfBoneTracks groups the channels that drive one bone.
type gltfBoneTracks struct {
	translation, rotation, scale *gltfTrack
}

// gltfAnimationExtractor converts glTF animations into uniformly sampled clips.
// Channels are keyed by node and mapped to sorted bone indices through the skeleton's NodeToBone.
type gltfAnimationExtractor struct {
	doc        *gltf.Document
	reader     *gltfAccessorReader
	sampleRate float32
}

func newGLTFAnimationExtractor(doc *gltf.Document, sampleRate float32) *gltfAnimationExtractor {
	return &gltfAnimationExtractor{doc: doc, reader: &gltfAccessorReader{doc: doc}, sampleRate: sampleRate}
}

// ExtractAnimationsForSkeleton extracts all animations that target at least one joint of skel.
//
// Parameters:
//   - skel: the extracted skeleton
//
// Returns:
//   - []model.ClipRecord: the resampled clips
//   - error: error if extraction fails
func (e *gltfAnimationExtractor) ExtractAnimationsForSkeleton(skel *gltfSkeleton) ([]model.ClipRecord, error) {
	var clips []model.ClipRecord
	for animIdx, anim := range e.doc.Animations {
		relevant := false
		for _, ch := range anim.Channels {
			if ch.Target.Node == nil {
				continue
			}
			if _, ok := skel.NodeToBone[*ch.Target.Node]; ok {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		clip, err := e.ExtractAnimation(animIdx, skel)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", animIdx, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// ExtractAnimation reads one animation and resamples it at the extractor's sample rate.
// Bones without a channel for a path keep their rest value for that path.
//
// Parameters:
//   - animIndex: the index of the animation in the document
//   - skel: the extracted skeleton the animation drives
//
// Returns:
//   - model.ClipRecord: the resampled clip
//   - error: error if extraction fails
func (e *gltfAnimationExtractor) ExtractAnimation(animIndex int, skel *gltfSkeleton) (model.ClipRecord, error) {
	if animIndex < 0 || animIndex >= len(e.doc.Animations) {
		return model.ClipRecord{}, fmt.Errorf("animation index %d out of range", animIndex)
	}
	anim := e.doc.Animations[animIndex]

	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	tracks := make(map[int]*gltfBoneTracks)
	var duration float32

	for i, ch := range anim.Channels {
		// Skip channels with no target node and channels on nodes outside the skeleton.
		if ch.Target.Node == nil {
			continue
		}
		bone, ok := skel.NodeToBone[*ch.Target.Node]
		if !ok {
			continue
		}
		if ch.Target.Path == gltf.TRSWeights {
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return model.ClipRecord{}, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, i, ch.Sampler)
		}

		track, err := e.readTrack(anim.Samplers[ch.Sampler], ch.Target.Path)
		if err != nil {
			return model.ClipRecord{}, fmt.Errorf("animation %q channel %d: %w", name, i, err)
		}
		if n := len(track.times); n > 0 && track.times[n-1] > duration {
			duration = track.times[n-1]
		}

		bt, exists := tracks[bone]
		if !exists {
			bt = &gltfBoneTracks{}
			tracks[bone] = bt
		}
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			bt.translation = track
		case gltf.TRSRotation:
			bt.rotation = track
		case gltf.TRSScale:
			bt.scale = track
		}
	}

	frameCount := int(math32.Floor(duration*e.sampleRate + 0.5))
	if frameCount < 1 {
		frameCount = 1
	}

	boneCount := len(skel.Bones)
	frames := make([]model.AnimationFrame, frameCount)
	for f := range frames {
		time := float32(f) / e.sampleRate
		frame := model.AnimationFrame{
			Positions: make([]common.Vec3, boneCount),
			Rotations: make([]common.Quaternion, boneCount),
			Scales:    make([]common.Vec3, boneCount),
		}
		for b := 0; b < boneCount; b++ {
			rest := skel.Rest[b]
			frame.Positions[b], frame.Rotations[b], frame.Scales[b] = rest.Translation, rest.Rotation, rest.Scale

			bt, ok := tracks[b]
			if !ok {
				continue
			}
			if bt.translation != nil {
				frame.Positions[b] = vec3FromSample(bt.translation.sample(time))
			}
			if bt.rotation != nil {
				frame.Rotations[b] = quatFromSample(bt.rotation.sample(time))
			}
			if bt.scale != nil {
				frame.Scales[b] = vec3FromSample(bt.scale.sample(time))
			}
		}
		frames[f] = frame
	}

	return model.ClipRecord{Name: name, TicksPerSecond: e.sampleRate, Frames: frames}, nil
}

// readTrack reads a sampler's input times and output values for a target path.
func (e *gltfAnimationExtractor) readTrack(sampler *gltf.AnimationSampler, path gltf.TRSProperty) (*gltfTrack, error) {
	times, err := e.reader.readScalars(sampler.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read timestamps: %w", err)
	}

	track := &gltfTrack{times: times, interp: sampler.Interpolation, rotation: path == gltf.TRSRotation}
	if track.rotation {
		track.values, err = e.reader.readVec4(sampler.Output)
	} else {
		var v3 [][3]float32
		v3, err = e.reader.readVec3(sampler.Output)
		track.values = make([][4]float32, len(v3))
		for i, v := range v3 {
			track.values[i] = [4]float32{v[0], v[1], v[2], 0}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}

	want := len(times)
	if track.interp == gltf.InterpolationCubicSpline {
		want *= 3
	}
	if len(track.values) < want {
		return nil, fmt.Errorf("%d keyframe values for %d timestamps", len(track.values), len(times))
	}
	return track, nil
}

// value returns the keyframe value at key k, skipping cubic spline tangents.
func (t *gltfTrack) value(k int) [4]float32 {
	if t.interp == gltf.InterpolationCubicSpline {
		return t.values[k*3+1]
	}
	return t.values[k]
}

// sample evaluates the track at time, holding the first and last keys outside their range.
func (t *gltfTrack) sample(time float32) [4]float32 {
	n := len(t.times)
	if n == 0 {
		return [4]float32{0, 0, 0, 1}
	}
	if time <= t.times[0] {
		return t.value(0)
	}
	if time >= t.times[n-1] {
		return t.value(n - 1)
	}

	// k is the last key at or before time.
	k := sort.Search(n, func(i int) bool { return t.times[i] > time }) - 1
	t0, t1 := t.times[k], t.times[k+1]
	dt := t1 - t0
	u := (time - t0) / dt

	switch t.interp {
	case gltf.InterpolationStep:
		return t.value(k)
	case gltf.InterpolationCubicSpline:
		p0, m0 := t.values[k*3+1], t.values[k*3+2]
		p1, m1 := t.values[(k+1)*3+1], t.values[(k+1)*3]
		u2, u3 := u*u, u*u*u
		h00 := 2*u3 - 3*u2 + 1
		h10 := u3 - 2*u2 + u
		h01 := -2*u3 + 3*u2
		h11 := u3 - u2
		var out [4]float32
		for i := range out {
			out[i] = h00*p0[i] + h10*dt*m0[i] + h01*p1[i] + h11*dt*m1[i]
		}
		if t.rotation {
			q := quatFromSample(out).Normalize()
			return [4]float32{q.X, q.Y, q.Z, q.W}
		}
		return out
	default:
		a, b := t.value(k), t.value(k+1)
		if t.rotation {
			q := common.Slerp(quatFromSample(a), quatFromSample(b), u)
			return [4]float32{q.X, q.Y, q.Z, q.W}
		}
		return [4]float32{
			common.Lerp(a[0], b[0], u),
			common.Lerp(a[1], b[1], u),
			common.Lerp(a[2], b[2], u),
			0,
		}
	}
}

func vec3FromSample(v [4]float32) common.Vec3 {
	return common.NewVec3(v[0], v[1], v[2])
}

// quatFromSample converts a glTF (x, y, z, w) rotation.
func quatFromSample(v [4]float32) common.Quaternion {
	return common.NewQuaternion(v[3], v[0], v[1], v[2])
}
