package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionRunsOnEnterOncePerChange(t *testing.T) {
	var idle, run int
	c := NewAnimationController()
	c.AddState("Idle", func() { idle++ })
	c.AddState("Run", func() { run++ })

	assert.True(t, c.TransitionTo("Run"))
	assert.False(t, c.TransitionTo("Run"))
	assert.True(t, c.TransitionTo("Idle"))

	assert.Equal(t, 1, run)
	assert.Equal(t, 1, idle)
	assert.Equal(t, "Idle", c.CurrentState())
}

func TestTransitionToUnknownStateIsNoOp(t *testing.T) {
	called := false
	c := NewAnimationController(WithState("Idle", func() { called = true }))

	assert.False(t, c.TransitionTo("Jump"))
	assert.Equal(t, "", c.CurrentState())
	assert.False(t, called)

	assert.True(t, c.TransitionTo("Idle"))
	assert.False(t, c.TransitionTo("Jump"))
	assert.Equal(t, "Idle", c.CurrentState())
}

func TestCurrentStateSetBeforeOnEnter(t *testing.T) {
	var seen string
	var c AnimationController
	c = NewAnimationController(WithState("Run", func() { seen = c.CurrentState() }))

	c.TransitionTo("Run")
	assert.Equal(t, "Run", seen)
}

func TestAddStateReplaces(t *testing.T) {
	var first, second int
	c := NewAnimationController(WithState("Idle", func() { first++ }))
	c.AddState("Idle", func() { second++ })

	c.TransitionTo("Idle")
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestNilOnEnter(t *testing.T) {
	c := NewAnimationController(WithState("Idle", nil))
	assert.True(t, c.TransitionTo("Idle"))
	assert.Equal(t, "Idle", c.CurrentState())
}

func TestEmptyStateName(t *testing.T) {
	called := false
	c := NewAnimationController(WithState("", func() { called = true }))

	// "" is already current, so registering it does not make it enterable.
	assert.False(t, c.TransitionTo(""))
	assert.False(t, called)
}

func TestStatesAndHasState(t *testing.T) {
	c := NewAnimationController(
		WithState("Run", nil),
		WithState("Idle", nil),
		WithInitialState("Idle"),
	)
	assert.Equal(t, []string{"Idle", "Run"}, c.States())
	assert.True(t, c.HasState("Run"))
	assert.False(t, c.HasState("Jump"))
	assert.Equal(t, "Idle", c.CurrentState())
}
