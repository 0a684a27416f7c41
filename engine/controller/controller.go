package controller

import "sort"

// controller is the implementation of the AnimationController interface.
type controller struct {
	states  map[string]func()
	current string
}

// AnimationController is a minimal named-state machine for gameplay-driven animation changes.
//
// Each state has an on-enter callback, typically one that requests a clip on an AnimationInstance
// and resets its time. There are no exit callbacks, guards or hierarchy. The current state starts
// empty. An AnimationController is not safe for concurrent use.
type AnimationController interface {
	// AddState registers or replaces a state and its on-enter callback.
	// Replacing the current state does not re-run its callback.
	//
	// Parameters:
	//   - name: the state name
	//   - onEnter: the callback invoked when the state is entered; may be nil
	AddState(name string, onEnter func())

	// TransitionTo enters name if it is registered and differs from the current state.
	// The current state is updated before the on-enter callback runs. Otherwise nothing happens.
	//
	// Parameters:
	//   - name: the target state
	//
	// Returns:
	//   - bool: true if a transition happened
	TransitionTo(name string) bool

	// CurrentState returns the name of the current state, or "" before the first transition.
	//
	// Returns:
	//   - string: the current state
	CurrentState() string

	// HasState reports whether name is registered.
	//
	// Parameters:
	//   - name: the state name
	//
	// Returns:
	//   - bool: true if the state exists
	HasState(name string) bool

	// States returns the registered state names in lexical order.
	//
	// Returns:
	//   - []string: the state names
	States() []string
}

var _ AnimationController = &controller{}

// NewAnimationController creates a new AnimationController with the specified options applied.
//
// Parameters:
//   - options: a variadic list of AnimationControllerBuilderOption functions
//
// Returns:
//   - AnimationController: the new controller
func NewAnimationController(options ...AnimationControllerBuilderOption) AnimationController {
	c := &controller{
		states: make(map[string]func()),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *controller) AddState(name string, onEnter func()) {
	c.states[name] = onEnter
}

func (c *controller) TransitionTo(name string) bool {
	if name == c.current {
		return false
	}
	onEnter, ok := c.states[name]
	if !ok {
		return false
	}
	c.current = name
	if onEnter != nil {
		onEnter()
	}
	return true
}

func (c *controller) CurrentState() string {
	return c.current
}

func (c *controller) HasState(name string) bool {
	_, ok := c.states[name]
	return ok
}

func (c *controller) States() []string {
	names := make([]string, 0, len(c.states))
	for name := range c.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
