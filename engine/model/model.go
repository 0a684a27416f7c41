package model

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/jinzhu/copier"
)

// model is the implementation of the Model interface.
type model struct {
	name     string
	skeleton *Skeleton
	clips    map[string]*AnimationSequence
	order    []string
}

// Model defines the interface for a loaded skeletal rig.
// A Model holds the immutable skeleton and the named animation clips that drive it.
// It is produced by the Loader and shared by every AnimationInstance playing it.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skeleton retrieves the bone hierarchy for this model.
	//
	// Returns:
	//   - *Skeleton: the skeleton or nil
	Skeleton() *Skeleton

	// AddClip validates and registers an animation clip.
	// Every frame must carry exactly one position, rotation and scale per bone.
	//
	// Parameters:
	//   - record: the clip to register
	//
	// Returns:
	//   - error: ErrNoSkeleton, ErrEmptyClip, ErrInvalidTickRate, ErrBoneIndexMismatch or ErrDuplicateClip
	AddClip(record ClipRecord) error

	// Clip retrieves a registered clip by name.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - *AnimationSequence: the clip, or nil if not found
	//   - bool: whether the clip exists
	Clip(name string) (*AnimationSequence, bool)

	// AnimationCount returns the number of registered clips.
	//
	// Returns:
	//   - int: the clip count
	AnimationCount() int

	// AnimationNames returns the names of all clips in registration order.
	//
	// Returns:
	//   - []string: the clip names
	AnimationNames() []string

	// GetAnimationIndex returns the registration index of a clip by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the clip name to search for
	//
	// Returns:
	//   - int: the clip index, or -1 if not found
	GetAnimationIndex(name string) int
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// Clips supplied through WithClips are validated against the skeleton; the first failure is returned.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
//   - error: the first clip validation error, if any
func NewModel(options ...ModelBuilderOption) (Model, error) {
	m := &model{
		clips: make(map[string]*AnimationSequence),
	}
	var pending []ClipRecord
	for _, opt := range options {
		opt(m, &pending)
	}
	for _, rec := range pending {
		if err := m.AddClip(rec); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) AddClip(record ClipRecord) error {
	if m.skeleton == nil {
		return fmt.Errorf("clip %q: %w", record.Name, ErrNoSkeleton)
	}
	if len(record.Frames) == 0 {
		return fmt.Errorf("clip %q: %w", record.Name, ErrEmptyClip)
	}
	if !(record.TicksPerSecond > 0) || math32.IsInf(record.TicksPerSecond, 0) {
		return fmt.Errorf("clip %q has %v ticks per second: %w", record.Name, record.TicksPerSecond, ErrInvalidTickRate)
	}
	if _, exists := m.clips[record.Name]; exists {
		return fmt.Errorf("clip %q: %w", record.Name, ErrDuplicateClip)
	}

	frames := make([]AnimationFrame, 0, len(record.Frames))
	if err := copier.CopyWithOption(&frames, record.Frames, copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("failed to copy frames of clip %q: %w", record.Name, err)
	}

	boneCount := m.skeleton.BoneCount()
	for i, f := range frames {
		if len(f.Positions) != boneCount || len(f.Rotations) != boneCount || len(f.Scales) != boneCount {
			return fmt.Errorf("clip %q frame %d has %d/%d/%d entries for %d bones: %w",
				record.Name, i, len(f.Positions), len(f.Rotations), len(f.Scales), boneCount, ErrBoneIndexMismatch)
		}
	}

	m.clips[record.Name] = &AnimationSequence{
		Name:           record.Name,
		TicksPerSecond: record.TicksPerSecond,
		Frames:         frames,
	}
	m.order = append(m.order, record.Name)
	return nil
}

func (m *model) Clip(name string) (*AnimationSequence, bool) {
	c, ok := m.clips[name]
	return c, ok
}

func (m *model) AnimationCount() int {
	return len(m.order)
}

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

func (m *model) GetAnimationIndex(name string) int {
	for i, n := range m.order {
		if n == name {
			return i
		}
	}
	return -1
}
