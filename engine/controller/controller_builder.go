package controller

// AnimationControllerBuilderOption is a functional option for configuring an AnimationController during construction.
type AnimationControllerBuilderOption func(*controller)

// WithState is an option builder that registers a state and its on-enter callback.
//
// Parameters:
//   - name: the state name
//   - onEnter: the callback invoked when the state is entered
//
// Returns:
//   - AnimationControllerBuilderOption: a function that registers the state on a controller
func WithState(name string, onEnter func()) AnimationControllerBuilderOption {
	return func(c *controller) {
		c.AddState(name, onEnter)
	}
}

// WithInitialState is an option builder that enters a state once all options have been applied
// in the order given. The state must already be registered by an earlier option.
//
// Parameters:
//   - name: the state to enter
//
// Returns:
//   - AnimationControllerBuilderOption: a function that transitions the controller
func WithInitialState(name string) AnimationControllerBuilderOption {
	return func(c *controller) {
		c.TransitionTo(name)
	}
}
