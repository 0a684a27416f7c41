package game_object

import (
	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/renderer/animator"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
// An option may return a follow-up that runs once the animation instance exists.
type GameObjectBuilderOption func(*gameObject) func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) func(*gameObject) {
		obj.id = id
		return nil
	}
}

// WithEnabled sets whether the GameObject is advanced by Tick. Objects are enabled by default.
//
// Parameters:
//   - enabled: false to skip the object on Tick
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) func(*gameObject) {
		obj.enabled.Store(enabled)
		return nil
	}
}

// WithPosition sets the world position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) func(*gameObject) {
		obj.position = common.NewVec3(x, y, z)
		return nil
	}
}

// WithScale sets the world scale of the GameObject.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) func(*gameObject) {
		obj.scale = common.NewVec3(sx, sy, sz)
		return nil
	}
}

// WithRotation sets the world rotation of the GameObject.
//
// Parameters:
//   - q: the rotation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(q common.Quaternion) GameObjectBuilderOption {
	return func(obj *gameObject) func(*gameObject) {
		obj.rotation = q
		return nil
	}
}

// WithClip requests the clip the object plays from its first Tick.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the requested clip
func WithClip(name string) GameObjectBuilderOption {
	return func(obj *gameObject) func(*gameObject) {
		obj.requestedClip = name
		return nil
	}
}

// WithInstanceOptions passes options through to the object's AnimationInstance.
//
// Parameters:
//   - options: the instance options, such as animator.WithSpeed or animator.WithLoopMode
//
// Returns:
//   - GameObjectBuilderOption: functional option to configure the instance
func WithInstanceOptions(options ...animator.AnimationInstanceBuilderOption) GameObjectBuilderOption {
	return func(obj *gameObject) func(*gameObject) {
		obj.instanceOpts = append(obj.instanceOpts, options...)
		return nil
	}
}

// WithStateClip binds a controller state to a clip. See GameObject.BindState.
//
// Parameters:
//   - state: the controller state name
//   - clip: the clip requested on entry
//
// Returns:
//   - GameObjectBuilderOption: functional option to bind the state
func WithStateClip(state, clip string) GameObjectBuilderOption {
	return func(*gameObject) func(*gameObject) {
		return func(obj *gameObject) {
			obj.BindState(state, clip)
		}
	}
}

// WithInitialState enters a controller state once every state binding has been applied.
//
// Parameters:
//   - state: the state to enter
//
// Returns:
//   - GameObjectBuilderOption: functional option to enter the state
func WithInitialState(state string) GameObjectBuilderOption {
	return func(*gameObject) func(*gameObject) {
		return func(obj *gameObject) {
			obj.TransitionTo(state)
		}
	}
}
