package model

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Skeleton is an immutable bone hierarchy. Bones are stored in traversal order so that every
// parent precedes its children, which lets a single forward pass compose global transforms.
type Skeleton struct {
	bones       []Bone
	rootIndices []int
	nameToIndex map[string]int
}

// NewSkeleton builds a Skeleton from loader bone records. Names, parent indices and offsets are
// copied verbatim; the records slice is not retained.
//
// Parameters:
//   - records: the bones in traversal order
//
// Returns:
//   - *Skeleton: the new skeleton
//   - error: ErrBoneOrder if a parent index is not in [-1, self)
func NewSkeleton(records []BoneRecord) (*Skeleton, error) {
	bones := make([]Bone, 0, len(records))
	if err := copier.CopyWithOption(&bones, records, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to copy bone records: %w", err)
	}

	s := &Skeleton{
		bones:       bones,
		nameToIndex: make(map[string]int, len(bones)),
	}
	for i, b := range bones {
		if b.ParentIndex < -1 || b.ParentIndex >= i {
			return nil, fmt.Errorf("bone %d (%q) has parent %d: %w", i, b.Name, b.ParentIndex, ErrBoneOrder)
		}
		if b.ParentIndex == -1 {
			s.rootIndices = append(s.rootIndices, i)
		}
		// First bone wins on duplicate names.
		if _, ok := s.nameToIndex[b.Name]; !ok {
			s.nameToIndex[b.Name] = i
		}
	}
	return s, nil
}

// BoneCount returns the number of bones in the skeleton.
func (s *Skeleton) BoneCount() int {
	if s == nil {
		return 0
	}
	return len(s.bones)
}

// Bone returns the bone at index i. The caller must ensure 0 <= i < BoneCount().
func (s *Skeleton) Bone(i int) Bone {
	return s.bones[i]
}

// Bones returns a copy of the bones in traversal order.
func (s *Skeleton) Bones() []Bone {
	out := make([]Bone, len(s.bones))
	copy(out, s.bones)
	return out
}

// BoneIndex looks up a bone by name.
//
// Parameters:
//   - name: the bone name
//
// Returns:
//   - int: the bone index, or -1 if not found
func (s *Skeleton) BoneIndex(name string) int {
	if i, ok := s.nameToIndex[name]; ok {
		return i
	}
	return -1
}

// RootIndices returns the indices of bones with no parent.
func (s *Skeleton) RootIndices() []int {
	out := make([]int, len(s.rootIndices))
	copy(out, s.rootIndices)
	return out
}
