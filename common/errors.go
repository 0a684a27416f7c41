package common

import "errors"

var (
	// ErrZeroLengthVector is reported by NormalizeChecked when the input has no direction.
	// Normalize itself degrades gracefully and returns the input unchanged.
	ErrZeroLengthVector = errors.New("zero length vector")

	// ErrSingularMatrix is returned by Mat4.Invert when the determinant is exactly zero.
	ErrSingularMatrix = errors.New("singular matrix")
)
