package palette

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// uploader is the implementation of the Uploader interface.
type uploader struct {
	mu sync.Mutex

	device *wgpu.Device
	queue  *wgpu.Queue
	buffer *wgpu.Buffer

	label        string
	binding      int
	boneCount    int
	maxInstances int
	layout       Layout
	stager       *Stager
}

// Uploader owns a GPU storage buffer holding the palettes of up to MaxInstances instances of one rig.
// Palettes are staged on the CPU and written to the buffer in one pass by Flush.
type Uploader interface {
	// Buffer returns the GPU buffer (storage | copy-dst) sized MaxInstances*BoneCount*64 bytes.
	//
	// Returns:
	//   - *wgpu.Buffer: the bone buffer, or nil after Release
	Buffer() *wgpu.Buffer

	// BoneCount returns the bones per instance.
	//
	// Returns:
	//   - int: the bone count
	BoneCount() int

	// MaxInstances returns how many instance palettes fit in the buffer.
	//
	// Returns:
	//   - int: the instance capacity
	MaxInstances() int

	// Stage queues the palette of instance index for the next Flush.
	//
	// Parameters:
	//   - index: the instance slot, in [0, MaxInstances)
	//   - palette: the instance palette
	//
	// Returns:
	//   - error: an error if index is out of range
	Stage(index int, palette []common.Mat4) error

	// Stager returns the CPU staging area Flush drains. Writes staged directly on it must
	// target slots below MaxInstances.
	//
	// Returns:
	//   - *Stager: the stager
	Stager() *Stager

	// Flush writes every staged palette to the GPU queue.
	//
	// Returns:
	//   - int: the number of writes submitted
	Flush() int

	// Upload stages and immediately writes a single-instance palette at slot 0.
	//
	// Parameters:
	//   - palette: the palette to upload
	//
	// Returns:
	//   - error: an error if the uploader has been released
	Upload(palette []common.Mat4) error

	// Release frees the GPU buffer.
	Release()
}

var _ Uploader = &uploader{}

// NewUploader creates the GPU bone buffer for boneCount bones per instance.
//
// Parameters:
//   - device: the device that creates the buffer
//   - queue: the queue that receives writes
//   - boneCount: the bones per instance
//   - options: a variadic list of UploaderBuilderOption functions
//
// Returns:
//   - Uploader: the new uploader
//   - error: an error if the buffer could not be created
func NewUploader(device *wgpu.Device, queue *wgpu.Queue, boneCount int, options ...UploaderBuilderOption) (Uploader, error) {
	u := &uploader{
		device:       device,
		queue:        queue,
		label:        "Bone Palette",
		boneCount:    boneCount,
		maxInstances: 1,
		layout:       LayoutRowMajor,
	}
	for _, opt := range options {
		opt(u)
	}
	if boneCount <= 0 || u.maxInstances <= 0 {
		return nil, fmt.Errorf("invalid palette buffer shape: %d bones x %d instances", boneCount, u.maxInstances)
	}

	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            u.label + " Buffer",
		Size:             uint64(u.maxInstances) * uint64(boneCount) * MatrixSize,
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s buffer: %w", u.label, err)
	}
	u.buffer = buf
	u.stager = NewStager(u.binding, boneCount, u.layout)
	return u, nil
}

func (u *uploader) Buffer() *wgpu.Buffer {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.buffer
}

func (u *uploader) BoneCount() int {
	return u.boneCount
}

func (u *uploader) MaxInstances() int {
	return u.maxInstances
}

func (u *uploader) Stage(index int, palette []common.Mat4) error {
	if index < 0 || index >= u.maxInstances {
		return fmt.Errorf("instance slot %d out of range [0, %d)", index, u.maxInstances)
	}
	u.stager.StageInstance(index, palette)
	return nil
}

func (u *uploader) Stager() *Stager {
	return u.stager
}

func (u *uploader) Flush() int {
	writes := u.stager.StagedWriteData()

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.buffer == nil {
		return 0
	}
	for _, w := range writes {
		u.queue.WriteBuffer(u.buffer, w.Offset, w.Data)
	}
	return len(writes)
}

func (u *uploader) Upload(palette []common.Mat4) error {
	if u.Buffer() == nil {
		return fmt.Errorf("%s buffer already released", u.label)
	}
	if err := u.Stage(0, palette); err != nil {
		return err
	}
	u.Flush()
	return nil
}

func (u *uploader) Release() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.buffer != nil {
		u.buffer.Release()
		u.buffer = nil
	}
}
