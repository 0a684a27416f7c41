package animator

// AnimationInstanceBuilderOption is a functional option for configuring an AnimationInstance during construction.
type AnimationInstanceBuilderOption func(a *animationInstance, initialClip *string)

// WithSpeed is an option builder that sets the playback speed multiplier.
//
// Parameters:
//   - speed: the multiplier applied to every deltaTime
//
// Returns:
//   - AnimationInstanceBuilderOption: a function that applies the speed option to an instance
func WithSpeed(speed float32) AnimationInstanceBuilderOption {
	return func(a *animationInstance, _ *string) {
		a.speed = speed
	}
}

// WithLoopMode is an option builder that sets the loop mode. The default is LoopWrap.
//
// Parameters:
//   - mode: the loop mode
//
// Returns:
//   - AnimationInstanceBuilderOption: a function that applies the loop mode option to an instance
func WithLoopMode(mode LoopMode) AnimationInstanceBuilderOption {
	return func(a *animationInstance, _ *string) {
		a.loopMode = mode
	}
}

// WithClip is an option builder that starts the instance playing a clip at time zero.
//
// Parameters:
//   - name: the clip to play
//
// Returns:
//   - AnimationInstanceBuilderOption: a function that applies the initial clip option to an instance
func WithClip(name string) AnimationInstanceBuilderOption {
	return func(_ *animationInstance, initialClip *string) {
		*initialClip = name
	}
}
