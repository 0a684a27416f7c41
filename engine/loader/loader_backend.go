package loader

import (
	"io"
)

// loaderBackend defines the generic interface for importing rigs from files or streams.
// Concrete implementations (rigLoaderBackend, gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load performs a full rig import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *importedRig: the imported bones and clips
	//   - error: error if loading fails
	Load(path string) (*importedRig, error)

	// LoadReader imports a rig from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing rig data
	//
	// Returns:
	//   - *importedRig: the imported bones and clips
	//   - error: error if loading fails
	LoadReader(r io.Reader) (*importedRig, error)
}
