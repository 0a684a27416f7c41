package animator

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/chewxy/math32"
)

// ErrClipNotFound is returned when an instance is asked to play a clip its model does not have.
var ErrClipNotFound = errors.New("animation clip not found")

// ErrNoSkeleton is returned when an instance is created for a model without a skeleton.
var ErrNoSkeleton = errors.New("model has no skeleton")

// PlaybackState is the coarse playback state of an AnimationInstance.
type PlaybackState int

const (
	// StateStopped means no clip is selected and the palette holds identity matrices.
	StateStopped PlaybackState = iota

	// StatePlaying means a clip is selected and Update advances it.
	StatePlaying
)

func (s PlaybackState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	default:
		return "stopped"
	}
}

// animationInstance is the implementation of the AnimationInstance interface.
type animationInstance struct {
	model    model.Model
	skeleton *model.Skeleton

	clipName string
	clip     *model.AnimationSequence
	elapsed  float32
	speed    float32
	loopMode LoopMode

	globals []common.Mat4
	palette []common.Mat4
}

// AnimationInstance defines the per-entity playback state for a skeletal Model.
//
// Many instances can share one Model: the skeleton and clips are read-only, while each instance owns
// its clip selection, elapsed time and output palette. Each Update samples the current clip at the
// elapsed time, composes bone transforms parent-first and writes one skinning matrix per bone
// (global transform times the bone offset) into the palette.
//
// An AnimationInstance is not safe for concurrent use.
type AnimationInstance interface {
	// Model returns the model this instance plays.
	//
	// Returns:
	//   - model.Model: the shared model
	Model() model.Model

	// Update selects clipName if it differs from the current clip, advances the elapsed time by
	// deltaTime scaled by the playback speed, and recomputes the palette.
	// Switching clips resets the elapsed time to zero before advancing.
	// If clipName is not registered on the model, the clip, elapsed time and palette are left unchanged.
	//
	// Parameters:
	//   - clipName: the clip to play
	//   - deltaTime: elapsed seconds since the previous update, non-negative
	//
	// Returns:
	//   - error: an error wrapping ErrClipNotFound if clipName is unknown
	Update(clipName string, deltaTime float32) error

	// Play selects clipName, resets the elapsed time and computes the pose at time zero.
	//
	// Parameters:
	//   - clipName: the clip to play
	//
	// Returns:
	//   - error: an error wrapping ErrClipNotFound if clipName is unknown
	Play(clipName string) error

	// Stop deselects the current clip and restores the identity palette.
	Stop()

	// ResetAnimationTime sets the elapsed time to zero without changing the clip.
	// The palette is refreshed on the next Update.
	ResetAnimationTime()

	// State reports whether a clip is selected.
	//
	// Returns:
	//   - PlaybackState: StatePlaying or StateStopped
	State() PlaybackState

	// CurrentClip returns the name of the selected clip, or "" when stopped.
	//
	// Returns:
	//   - string: the clip name
	CurrentClip() string

	// ElapsedTime returns the playback position in seconds.
	// In LoopWrap mode the value is folded into [0, duration).
	//
	// Returns:
	//   - float32: the elapsed time
	ElapsedTime() float32

	// SetSpeed sets the multiplier applied to deltaTime on every Update.
	//
	// Parameters:
	//   - speed: the playback speed, 1 for real time
	SetSpeed(speed float32)

	// Speed returns the playback speed multiplier.
	//
	// Returns:
	//   - float32: the playback speed
	Speed() float32

	// SetLoopMode sets how playback behaves past the end of a clip.
	//
	// Parameters:
	//   - mode: LoopWrap or LoopClamp
	SetLoopMode(mode LoopMode)

	// LoopMode returns the current loop mode.
	//
	// Returns:
	//   - LoopMode: the loop mode
	LoopMode() LoopMode

	// BoneCount returns the number of palette entries.
	//
	// Returns:
	//   - int: the bone count of the model's skeleton
	BoneCount() int

	// Palette returns the current skinning matrices, one per bone in bone order, row-major.
	// The slice is owned by the instance and overwritten by the next Update; callers must not modify it.
	//
	// Returns:
	//   - []common.Mat4: the palette
	Palette() []common.Mat4

	// CopyPalette copies the palette into dst.
	//
	// Parameters:
	//   - dst: the destination slice
	//
	// Returns:
	//   - int: the number of matrices copied
	CopyPalette(dst []common.Mat4) int

	// GlobalTransforms returns a copy of the model-space bone transforms from the last pose computation.
	//
	// Returns:
	//   - []common.Mat4: the global transforms in bone order
	GlobalTransforms() []common.Mat4
}

var _ AnimationInstance = &animationInstance{}

// NewAnimationInstance creates a stopped AnimationInstance for m with an identity palette and applies the options.
//
// Parameters:
//   - m: the model to play; it must have a skeleton
//   - options: a variadic list of AnimationInstanceBuilderOption functions
//
// Returns:
//   - AnimationInstance: the new instance
//   - error: ErrNoSkeleton, or an error wrapping ErrClipNotFound if WithClip names an unknown clip
func NewAnimationInstance(m model.Model, options ...AnimationInstanceBuilderOption) (AnimationInstance, error) {
	if m == nil || m.Skeleton() == nil {
		return nil, ErrNoSkeleton
	}
	boneCount := m.Skeleton().BoneCount()
	a := &animationInstance{
		model:    m,
		skeleton: m.Skeleton(),
		speed:    1,
		loopMode: LoopWrap,
		globals:  make([]common.Mat4, boneCount),
		palette:  make([]common.Mat4, boneCount),
	}
	a.resetPose()

	var initialClip string
	for _, opt := range options {
		opt(a, &initialClip)
	}
	if initialClip != "" {
		if err := a.Play(initialClip); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *animationInstance) Model() model.Model {
	return a.model
}

func (a *animationInstance) Update(clipName string, deltaTime float32) error {
	if a.clip == nil || clipName != a.clipName {
		if err := a.selectClip(clipName); err != nil {
			return err
		}
	}

	a.elapsed += deltaTime * a.speed
	if a.loopMode == LoopWrap {
		a.elapsed = wrapTime(a.elapsed, a.clip.Duration())
	}
	a.computePose()
	return nil
}

func (a *animationInstance) Play(clipName string) error {
	if err := a.selectClip(clipName); err != nil {
		return err
	}
	a.computePose()
	return nil
}

func (a *animationInstance) Stop() {
	a.clip = nil
	a.clipName = ""
	a.elapsed = 0
	a.resetPose()
}

func (a *animationInstance) ResetAnimationTime() {
	a.elapsed = 0
}

func (a *animationInstance) State() PlaybackState {
	if a.clip == nil {
		return StateStopped
	}
	return StatePlaying
}

func (a *animationInstance) CurrentClip() string {
	return a.clipName
}

func (a *animationInstance) ElapsedTime() float32 {
	return a.elapsed
}

func (a *animationInstance) SetSpeed(speed float32) {
	a.speed = speed
}

func (a *animationInstance) Speed() float32 {
	return a.speed
}

func (a *animationInstance) SetLoopMode(mode LoopMode) {
	a.loopMode = mode
}

func (a *animationInstance) LoopMode() LoopMode {
	return a.loopMode
}

func (a *animationInstance) BoneCount() int {
	return len(a.palette)
}

func (a *animationInstance) Palette() []common.Mat4 {
	return a.palette
}

func (a *animationInstance) CopyPalette(dst []common.Mat4) int {
	return copy(dst, a.palette)
}

func (a *animationInstance) GlobalTransforms() []common.Mat4 {
	out := make([]common.Mat4, len(a.globals))
	copy(out, a.globals)
	return out
}

// selectClip switches to clipName and resets the elapsed time. Nothing changes if the clip is unknown.
func (a *animationInstance) selectClip(clipName string) error {
	clip, ok := a.model.Clip(clipName)
	if !ok {
		return fmt.Errorf("model %q clip %q: %w", a.model.Name(), clipName, ErrClipNotFound)
	}
	a.clip = clip
	a.clipName = clipName
	a.elapsed = 0
	return nil
}

// computePose samples the current clip at the elapsed time and rebuilds globals and palette.
// Bones are visited in index order, so a parent's global transform is always ready before its children.
func (a *animationInstance) computePose() {
	f0, f1, t := FramePair(a.clip, a.elapsed, a.loopMode)
	from, to := &a.clip.Frames[f0], &a.clip.Frames[f1]

	for i := range a.palette {
		local := interpolateLocal(from, to, i, t)
		bone := a.skeleton.Bone(i)
		if bone.ParentIndex < 0 {
			a.globals[i] = local
		} else {
			a.globals[i] = a.globals[bone.ParentIndex].Mul(local)
		}
		a.palette[i] = a.globals[i].Mul(bone.Offset)
	}
}

func (a *animationInstance) resetPose() {
	for i := range a.palette {
		a.globals[i] = common.Identity()
		a.palette[i] = common.Identity()
	}
}

// wrapTime folds t into [0, duration). Folding keeps float precision stable over long sessions
// without changing which frame is sampled.
func wrapTime(t, duration float32) float32 {
	if duration <= 0 || (t >= 0 && t < duration) {
		return t
	}
	t = math32.Mod(t, duration)
	if t < 0 {
		t += duration
	}
	return t
}
