package palette

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-skel/common"
)

// Stager collects per-instance palette writes for a shared bone buffer.
// Instance i of a rig with N bones occupies bytes [i*N*64, (i+1)*N*64).
// A Stager is safe for concurrent use, so scene workers can stage in parallel.
type Stager struct {
	mu        sync.Mutex
	binding   int
	boneCount int
	layout    Layout
	staged    []BufferWrite
}

// NewStager creates a Stager for instances of a rig with boneCount bones.
//
// Parameters:
//   - binding: the binding index of the bone buffer
//   - boneCount: the bones per instance
//   - layout: the element order to stage
//
// Returns:
//   - *Stager: the new stager
func NewStager(binding, boneCount int, layout Layout) *Stager {
	return &Stager{binding: binding, boneCount: boneCount, layout: layout}
}

// StageInstance queues the palette of instance index.
// A palette longer than the rig's bone count is truncated.
func (s *Stager) StageInstance(index int, palette []common.Mat4) {
	if len(palette) > s.boneCount {
		palette = palette[:s.boneCount]
	}
	w := Stage(palette, s.binding, s.layout)
	w.Offset = uint64(index) * uint64(s.boneCount) * MatrixSize

	s.mu.Lock()
	s.staged = append(s.staged, w)
	s.mu.Unlock()
}

// StagedWriteData returns and clears the pending writes.
func (s *Stager) StagedWriteData() []BufferWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.staged
	s.staged = nil
	return out
}

// Layout returns the element order the stager writes.
func (s *Stager) Layout() Layout {
	return s.layout
}

// BoneCount returns the bones per instance.
func (s *Stager) BoneCount() int {
	return s.boneCount
}
