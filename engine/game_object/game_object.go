package game_object

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/controller"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/Carmen-Shannon/oxy-skel/engine/renderer/animator"
)

type gameObject struct {
	mu sync.Mutex

	id      uint64
	enabled atomic.Bool
	mdl     model.Model

	instance     animator.AnimationInstance
	instanceOpts []animator.AnimationInstanceBuilderOption
	ctrl         controller.AnimationController

	// requestedClip is the clip handed to the instance on every Tick. Empty leaves the instance as is.
	requestedClip string

	position common.Vec3
	rotation common.Quaternion
	scale    common.Vec3
}

// GameObject defines the interface for a scene entity driven by a skeletal AnimationInstance.
// It holds the clip that gameplay code requests, a state machine whose states request clips,
// and a world transform that places the model-space palette in the scene.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Enabled returns whether Tick advances this object.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether Tick advances this object.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Model returns the shared Model this object plays.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// Instance returns the object's playback state.
	//
	// Returns:
	//   - animator.AnimationInstance: the instance
	Instance() animator.AnimationInstance

	// Controller returns the object's animation state machine.
	//
	// Returns:
	//   - controller.AnimationController: the controller
	Controller() controller.AnimationController

	// SetClip requests a clip. The instance switches to it on the next Tick.
	// An empty name leaves the instance untouched by Tick.
	//
	// Parameters:
	//   - name: the clip name
	SetClip(name string)

	// RequestedClip returns the clip requested by SetClip or the last entered state.
	//
	// Returns:
	//   - string: the clip name
	RequestedClip() string

	// BindState registers a controller state whose on-enter callback requests clip and
	// restarts playback from time zero.
	//
	// Parameters:
	//   - state: the controller state name
	//   - clip: the clip to request on entry
	BindState(state, clip string)

	// TransitionTo enters a controller state.
	//
	// Parameters:
	//   - state: the target state
	//
	// Returns:
	//   - bool: true if a transition happened
	TransitionTo(state string) bool

	// Tick advances the instance by deltaTime using the requested clip.
	// Disabled objects and objects without a requested clip are skipped.
	//
	// Parameters:
	//   - deltaTime: elapsed seconds since the last tick
	//
	// Returns:
	//   - error: an error wrapping animator.ErrClipNotFound if the requested clip is unknown
	Tick(deltaTime float32) error

	// Position returns the world position.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// SetPosition sets the world position.
	//
	// Parameters:
	//   - p: the position
	SetPosition(p common.Vec3)

	// Rotation returns the world rotation.
	//
	// Returns:
	//   - common.Quaternion: the rotation
	Rotation() common.Quaternion

	// SetRotation sets the world rotation.
	//
	// Parameters:
	//   - q: the rotation
	SetRotation(q common.Quaternion)

	// Scale returns the world scale.
	//
	// Returns:
	//   - common.Vec3: the scale
	Scale() common.Vec3

	// SetScale sets the world scale.
	//
	// Parameters:
	//   - s: the scale factors
	SetScale(s common.Vec3)

	// WorldTransform composes position, rotation and scale into a row-major matrix.
	//
	// Returns:
	//   - common.Mat4: the world transform
	WorldTransform() common.Mat4

	// WorldPalette writes the instance palette premultiplied by the world transform into dst.
	//
	// Parameters:
	//   - dst: the destination slice
	//
	// Returns:
	//   - int: the number of matrices written
	WorldPalette(dst []common.Mat4) int
}

var _ GameObject = &gameObject{}

// NewGameObject creates an enabled GameObject that plays m, configured with the given options.
//
// Parameters:
//   - m: the shared model; it must have a skeleton
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
//   - error: error if the animation instance cannot be created
func NewGameObject(m model.Model, options ...GameObjectBuilderOption) (GameObject, error) {
	obj := &gameObject{
		mdl:      m,
		rotation: common.QuaternionIdentity(),
		scale:    common.NewVec3(1, 1, 1),
		ctrl:     controller.NewAnimationController(),
	}
	obj.enabled.Store(true)

	var pending []func(*gameObject)
	for _, option := range options {
		if deferred := option(obj); deferred != nil {
			pending = append(pending, deferred)
		}
	}

	instance, err := animator.NewAnimationInstance(m, obj.instanceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create animation instance: %w", err)
	}
	obj.instance = instance

	// State bindings and transitions need the instance.
	for _, apply := range pending {
		apply(obj)
	}
	return obj, nil
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Instance() animator.AnimationInstance {
	return g.instance
}

func (g *gameObject) Controller() controller.AnimationController {
	return g.ctrl
}

func (g *gameObject) SetClip(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requestedClip = name
}

func (g *gameObject) RequestedClip() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requestedClip
}

func (g *gameObject) BindState(state, clip string) {
	g.ctrl.AddState(state, func() {
		g.mu.Lock()
		g.requestedClip = clip
		g.mu.Unlock()
		g.instance.ResetAnimationTime()
	})
}

func (g *gameObject) TransitionTo(state string) bool {
	return g.ctrl.TransitionTo(state)
}

func (g *gameObject) Tick(deltaTime float32) error {
	if !g.enabled.Load() {
		return nil
	}
	clip := g.RequestedClip()
	if clip == "" {
		return nil
	}
	if err := g.instance.Update(clip, deltaTime); err != nil {
		return fmt.Errorf("object %d: %w", g.id, err)
	}
	return nil
}

func (g *gameObject) Position() common.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) SetPosition(p common.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) Rotation() common.Quaternion {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) SetRotation(q common.Quaternion) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = q
}

func (g *gameObject) Scale() common.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) SetScale(s common.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) WorldTransform() common.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return common.ComposeTRS(g.position, g.rotation, g.scale)
}

func (g *gameObject) WorldPalette(dst []common.Mat4) int {
	world := g.WorldTransform()
	palette := g.instance.Palette()
	n := min(len(dst), len(palette))
	for i := 0; i < n; i++ {
		dst[i] = world.Mul(palette[i])
	}
	return n
}
