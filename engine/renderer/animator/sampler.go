package animator

import (
	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/chewxy/math32"
)

// LoopMode selects how playback behaves past the last frame of a clip.
type LoopMode int

const (
	// LoopWrap wraps from the last frame back to frame 0, interpolating across the seam.
	LoopWrap LoopMode = iota

	// LoopClamp holds the last frame once the clip has finished.
	LoopClamp
)

func (m LoopMode) String() string {
	switch m {
	case LoopClamp:
		return "clamp"
	default:
		return "wrap"
	}
}

// FramePair locates the two frames surrounding time in clip and the blend factor between them.
// With LoopWrap, f0 = floor(time*ticksPerSecond) mod N and f1 = (f0+1) mod N.
// With LoopClamp, times past the end return the last frame twice.
//
// Parameters:
//   - clip: the clip to sample; it must have at least one frame
//   - time: the playback time in seconds
//   - mode: the loop mode
//
// Returns:
//   - int: the first frame index
//   - int: the second frame index
//   - float32: the blend factor in [0, 1)
func FramePair(clip *model.AnimationSequence, time float32, mode LoopMode) (int, int, float32) {
	n := len(clip.Frames)
	frame := time * clip.TicksPerSecond
	base := math32.Floor(frame)
	t := frame - base

	if mode == LoopClamp {
		switch {
		case base < 0:
			return 0, 0, 0
		case int(base) >= n-1:
			return n - 1, n - 1, 0
		default:
			return int(base), int(base) + 1, t
		}
	}

	f0 := common.PositiveMod(int(base), n)
	return f0, (f0 + 1) % n, t
}

// SampleLocal computes the local transform of bone at time in clip.
//
// Parameters:
//   - clip: the clip to sample
//   - time: the playback time in seconds
//   - bone: the bone index
//   - mode: the loop mode
//
// Returns:
//   - common.Mat4: translation · rotation · scale for the bone
func SampleLocal(clip *model.AnimationSequence, time float32, bone int, mode LoopMode) common.Mat4 {
	f0, f1, t := FramePair(clip, time, mode)
	return interpolateLocal(&clip.Frames[f0], &clip.Frames[f1], bone, t)
}

// interpolateLocal lerps position and scale and slerps rotation between two frames for one bone.
func interpolateLocal(from, to *model.AnimationFrame, bone int, t float32) common.Mat4 {
	pos := from.Positions[bone].Lerp(to.Positions[bone], t)
	rot := common.Slerp(from.Rotations[bone], to.Rotations[bone], t)
	scale := from.Scales[bone].Lerp(to.Scales[bone], t)
	return common.ComposeTRS(pos, rot, scale)
}
