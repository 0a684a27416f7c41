package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/Carmen-Shannon/oxy-skel/engine/renderer/palette"
	"github.com/Carmen-Shannon/oxy-skel/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend     RendererBackend
	backendType RendererBackendType

	forceFallbackAdapter bool
	deviceLabel          string

	uploaders []palette.Uploader
}

// Renderer is the GPU-facing end of the animation pipeline. It owns a headless device and the
// bone palette buffers created on it, and copies a scene's palettes into those buffers.
// Drawing is left to the caller, who binds Uploader.Buffer() in their own pipelines.
type Renderer interface {
	// Device returns the GPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// NewPaletteUploader creates a bone palette buffer on the device. The renderer releases it on Release.
	//
	// Parameters:
	//   - boneCount: the bones per instance
	//   - options: uploader options such as palette.WithMaxInstances
	//
	// Returns:
	//   - palette.Uploader: the uploader
	//   - error: error if the buffer could not be created
	NewPaletteUploader(boneCount int, options ...palette.UploaderBuilderOption) (palette.Uploader, error)

	// UploadScene writes the world palettes of every object in s that plays m into u, one slot
	// per object in ascending ID order.
	//
	// Parameters:
	//   - s: the scene
	//   - m: the model whose objects are uploaded
	//   - u: an uploader sized for m's skeleton
	//
	// Returns:
	//   - []uint64: the uploaded object IDs indexed by slot
	//   - error: error if the objects do not fit or the bone counts differ
	UploadScene(s scene.Scene, m model.Model, u palette.Uploader) ([]uint64, error)

	// Release frees every uploader and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type.
//
// Parameters:
//   - backendType: the type of GPU backend to use (e.g., WGPU)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer
//   - error: error if no GPU device is available
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		deviceLabel: "Animation Device",
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		b, err := newWGPURendererBackend(r.forceFallbackAdapter, r.deviceLabel)
		if err != nil {
			return nil, err
		}
		r.backend = b
	}
	return r, nil
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Queue() *wgpu.Queue {
	return r.backend.Queue()
}

func (r *renderer) NewPaletteUploader(boneCount int, options ...palette.UploaderBuilderOption) (palette.Uploader, error) {
	u, err := palette.NewUploader(r.backend.Device(), r.backend.Queue(), boneCount, options...)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.uploaders = append(r.uploaders, u)
	r.mu.Unlock()
	return u, nil
}

func (r *renderer) UploadScene(s scene.Scene, m model.Model, u palette.Uploader) ([]uint64, error) {
	if got := m.Skeleton().BoneCount(); got != u.BoneCount() {
		return nil, fmt.Errorf("model %q has %d bones, uploader holds %d", m.Name(), got, u.BoneCount())
	}
	ids := s.StagePalettes(m, u.Stager())
	if len(ids) > u.MaxInstances() {
		u.Stager().StagedWriteData()
		return nil, fmt.Errorf("%d instances of %q exceed uploader capacity %d", len(ids), m.Name(), u.MaxInstances())
	}
	u.Flush()
	return ids, nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.uploaders {
		u.Release()
	}
	r.uploaders = nil
	r.backend.Release()
}
