package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
// Clip records are collected and validated once all options have been applied, so option order does not matter.
type ModelBuilderOption func(m *model, clips *[]ClipRecord)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model, _ *[]ClipRecord) {
		m.name = name
	}
}

// WithSkeleton is an option builder that sets the bone hierarchy of the Model.
//
// Parameters:
//   - skeleton: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model, _ *[]ClipRecord) {
		m.skeleton = skeleton
	}
}

// WithClips is an option builder that queues animation clips for registration.
//
// Parameters:
//   - clips: the clip records to register
//
// Returns:
//   - ModelBuilderOption: a function that applies the clips option to a model
func WithClips(clips ...ClipRecord) ModelBuilderOption {
	return func(_ *model, pending *[]ClipRecord) {
		*pending = append(*pending, clips...)
	}
}
