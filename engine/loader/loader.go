package loader

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
)

// LoaderBackendType identifies the rig file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeRig selects the YAML rig backend (.yaml, .yml).
	BackendTypeRig LoaderBackendType = iota

	// BackendTypeGLTF selects the glTF/GLB backend (.gltf, .glb).
	BackendTypeGLTF
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger     *log.Logger
	sampleRate float32

	modelCache map[string]model.Model

	backends map[LoaderBackendType]loaderBackend
}

// Loader defines the public-facing interface for loading and caching rigs.
// It abstracts the file format (YAML rig, glTF, GLB) behind a backend and manages a cache
// of previously loaded models. Bone order and clip shape are validated on load, so a
// model returned by a Loader is ready to drive AnimationInstances.
type Loader interface {
	// Load imports a rig file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension.
	//
	// Parameters:
	//   - path: the file path to the rig file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading or validation fails
	Load(path string) (model.Model, error)

	// LoadReader imports a rig from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing rig data
	//   - backendType: the format of the stream
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading or validation fails
	LoadReader(name string, r io.Reader, backendType LoaderBackendType) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with every format backend registered and the options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		logger:     log.Default(),
		sampleRate: DefaultSampleRate,
		modelCache: make(map[string]model.Model),
	}
	for _, option := range options {
		option(l)
	}

	l.backends = map[LoaderBackendType]loaderBackend{
		BackendTypeRig:  newRigLoaderBackend(),
		BackendTypeGLTF: newGLTFLoaderBackend(l.sampleRate),
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backendType, err := BackendTypeForPath(path)
	if err != nil {
		return nil, err
	}

	imported, err := l.backends[backendType].Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	imported.Name = common.Coalesce(imported.Name, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, backendType LoaderBackendType) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, ok := l.backends[backendType]
	if !ok {
		return nil, fmt.Errorf("unknown loader backend %d", backendType)
	}

	imported, err := backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	imported.Name = common.Coalesce(imported.Name, name)

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// importedToModel validates an importedRig and converts it into a Model.
//
// Parameters:
//   - imported: the CPU-side bones and clips
//
// Returns:
//   - model.Model: the validated model
//   - error: a wrapped model validation error
func (l *loader) importedToModel(imported *importedRig) (model.Model, error) {
	skel, err := model.NewSkeleton(imported.Bones)
	if err != nil {
		return nil, err
	}

	m, err := model.NewModel(
		model.WithName(imported.Name),
		model.WithSkeleton(skel),
		model.WithClips(imported.Clips...),
	)
	if err != nil {
		return nil, err
	}

	l.logger.Printf("[Loader] %q: %d bones, %d clips %v", m.Name(), skel.BoneCount(), m.AnimationCount(), m.AnimationNames())
	return m, nil
}

// BackendTypeForPath selects a backend based on the file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - LoaderBackendType: the backend for the extension
//   - error: error if the extension is not supported
func BackendTypeForPath(path string) (LoaderBackendType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return BackendTypeRig, nil
	case ".gltf", ".glb":
		return BackendTypeGLTF, nil
	default:
		return 0, fmt.Errorf("unsupported rig format: %q", ext)
	}
}

// LoadRigFile loads a YAML rig file without caching.
//
// Parameters:
//   - path: the rig file path
//
// Returns:
//   - model.Model: the validated model
//   - error: error if reading, decoding or validation fails
func LoadRigFile(path string) (model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rig %s: %w", path, err)
	}
	defer f.Close()

	m, err := DecodeRig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// DecodeRig decodes a YAML rig document from r.
//
// Parameters:
//   - r: the reader providing the document
//
// Returns:
//   - model.Model: the validated model
//   - error: error if decoding or validation fails
func DecodeRig(r io.Reader) (model.Model, error) {
	imported, err := newRigLoaderBackend().LoadReader(r)
	if err != nil {
		return nil, err
	}
	l := &loader{logger: log.New(io.Discard, "", 0)}
	return l.importedToModel(imported)
}

// LoadGLTF loads the first skin and its animations from a glTF or GLB file without caching.
//
// Parameters:
//   - path: the glTF/GLB file path
//   - options: loader options; WithSampleRate and WithLogger apply
//
// Returns:
//   - model.Model: the validated model
//   - error: error if reading, decoding or validation fails
func LoadGLTF(path string, options ...LoaderBuilderOption) (model.Model, error) {
	l := NewLoader(options...).(*loader)
	imported, err := l.backends[BackendTypeGLTF].Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	imported.Name = common.Coalesce(imported.Name, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return m, nil
}
