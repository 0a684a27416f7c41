package palette

// UploaderBuilderOption is a functional option for configuring an Uploader during construction.
type UploaderBuilderOption func(*uploader)

// WithLabel is an option builder that sets the debug label of the GPU buffer.
//
// Parameters:
//   - label: the buffer label prefix
//
// Returns:
//   - UploaderBuilderOption: a function that applies the label option to an uploader
func WithLabel(label string) UploaderBuilderOption {
	return func(u *uploader) {
		u.label = label
	}
}

// WithBinding is an option builder that records the binding index staged writes target.
//
// Parameters:
//   - binding: the bind group binding index of the bone buffer
//
// Returns:
//   - UploaderBuilderOption: a function that applies the binding option to an uploader
func WithBinding(binding int) UploaderBuilderOption {
	return func(u *uploader) {
		u.binding = binding
	}
}

// WithMaxInstances is an option builder that sizes the buffer for several instances of the rig.
//
// Parameters:
//   - maxInstances: the number of instance palettes the buffer holds
//
// Returns:
//   - UploaderBuilderOption: a function that applies the max instances option to an uploader
func WithMaxInstances(maxInstances int) UploaderBuilderOption {
	return func(u *uploader) {
		u.maxInstances = maxInstances
	}
}

// WithLayout is an option builder that sets the staged matrix layout. The default is LayoutRowMajor;
// pass LayoutColumnMajor for WGSL mat4x4<f32> consumers.
//
// Parameters:
//   - layout: the element order to stage
//
// Returns:
//   - UploaderBuilderOption: a function that applies the layout option to an uploader
func WithLayout(layout Layout) UploaderBuilderOption {
	return func(u *uploader) {
		u.layout = layout
	}
}
