package model

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-skel/common"
)

var (
	// ErrBoneOrder is returned when a bone's parent index does not precede the bone itself.
	ErrBoneOrder = errors.New("bone parent index must precede the bone")
	// ErrBoneIndexMismatch is returned when a clip frame does not carry exactly one entry per bone.
	ErrBoneIndexMismatch = errors.New("clip frame does not match skeleton bone count")
	// ErrEmptyClip is returned when a clip has no frames.
	ErrEmptyClip = errors.New("clip has no frames")
	// ErrInvalidTickRate is returned when a clip's ticks per second is not positive.
	ErrInvalidTickRate = errors.New("clip ticks per second must be positive")
	// ErrDuplicateClip is returned when a clip name is registered twice on the same model.
	ErrDuplicateClip = errors.New("clip already registered")
	// ErrNoSkeleton is returned when clips are registered on a model without a skeleton.
	ErrNoSkeleton = errors.New("model has no skeleton")
)

// --- Skeleton Types ---

// Bone represents a single bone in a skeleton hierarchy.
type Bone struct {
	// Name is the bone's identifier (for debugging and animation targeting).
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones).
	// A parent always precedes its children.
	ParentIndex int

	// Offset transforms from model space to bone space at bind pose (the inverse bind matrix).
	Offset common.Mat4
}

// BoneRecord is the loader-facing description of a bone, in traversal order.
type BoneRecord struct {
	Name        string
	ParentIndex int
	Offset      common.Mat4
}

// --- Animation Types ---

// AnimationFrame is one uniformly spaced sample of a clip. Each slice is indexed by bone index
// and has exactly one entry per bone of the skeleton the clip is registered against.
type AnimationFrame struct {
	Positions []common.Vec3
	Rotations []common.Quaternion
	Scales    []common.Vec3
}

// AnimationSequence represents a single animation clip (walk, run, attack, etc.).
// A registered sequence is shared by every instance of the model and must not be mutated.
type AnimationSequence struct {
	// Name is the animation identifier.
	Name string

	// TicksPerSecond is the sample rate of the animation; frame i sits at time i / TicksPerSecond.
	TicksPerSecond float32

	// Frames holds the uniformly spaced samples.
	Frames []AnimationFrame
}

// FrameCount returns the number of frames in the sequence.
func (s *AnimationSequence) FrameCount() int {
	return len(s.Frames)
}

// Duration returns the length of one loop of the sequence in seconds.
//
// Returns:
//   - float32: frame count divided by ticks per second, or 0 if the tick rate is not positive
func (s *AnimationSequence) Duration() float32 {
	if s.TicksPerSecond <= 0 {
		return 0
	}
	return float32(len(s.Frames)) / s.TicksPerSecond
}

// ClipRecord is the loader-facing description of a clip.
type ClipRecord struct {
	Name           string
	TicksPerSecond float32
	Frames         []AnimationFrame
}
