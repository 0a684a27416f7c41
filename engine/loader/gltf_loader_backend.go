package loader

import (
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
)

// DefaultSampleRate is the rate, in ticks per second, at which glTF animations are resampled.
const DefaultSampleRate = 30

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	sampleRate float32
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// It imports the first skin of the document and every animation that drives it.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Parameters:
//   - sampleRate: the resampling rate for animations in ticks per second
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend(sampleRate float32) gltfLoaderBackend {
	return &gltfLoaderBackendImpl{sampleRate: sampleRate}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*importedRig, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	return b.importDocument(doc)
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader) (*importedRig, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, err
	}
	return b.importDocument(doc)
}

func (b *gltfLoaderBackendImpl) importDocument(doc *gltf.Document) (*importedRig, error) {
	if len(doc.Skins) == 0 {
		return nil, fmt.Errorf("document has no skins")
	}

	skel, err := newGLTFSkeletonExtractor(doc).ExtractSkeleton(0)
	if err != nil {
		return nil, err
	}
	clips, err := newGLTFAnimationExtractor(doc, b.sampleRate).ExtractAnimationsForSkeleton(skel)
	if err != nil {
		return nil, err
	}

	name := doc.Skins[0].Name
	if name == "" && doc.Asset.Generator != "" {
		name = doc.Asset.Generator
	}
	return &importedRig{Name: name, Bones: skel.Bones, Clips: clips}, nil
}
