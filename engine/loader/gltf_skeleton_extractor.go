package loader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
)

// errJointCycle is returned when skin joints cannot be ordered parents-first.
var errJointCycle = errors.New("joint hierarchy contains a cycle")

// gltfRestPose is the node TRS of a joint, used for bones a clip does not drive.
type gltfRestPose struct {
	Translation common.Vec3
	Rotation    common.Quaternion
	Scale       common.Vec3
}

// gltfSkeleton is an extracted skin in topological order.
type gltfSkeleton struct {
	Bones []model.BoneRecord
	Rest  []gltfRestPose
	// NodeToBone maps glTF node indices to sorted bone indices.
	NodeToBone map[int]int
}

// gltfSkeletonExtractor converts a glTF skin into topologically sorted bone records.
type gltfSkeletonExtractor struct {
	doc    *gltf.Document
	reader *gltfAccessorReader
}

func newGLTFSkeletonExtractor(doc *gltf.Document) *gltfSkeletonExtractor {
	return &gltfSkeletonExtractor{doc: doc, reader: &gltfAccessorReader{doc: doc}}
}

// ExtractSkeleton extracts a skin by index.
//
// Parameters:
//   - skinIndex: the index of the skin to extract
//
// Returns:
//   - *gltfSkeleton: the bones, rest poses and node mapping
//   - error: error if extraction fails
func (e *gltfSkeletonExtractor) ExtractSkeleton(skinIndex int) (*gltfSkeleton, error) {
	doc := e.doc
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}
	skin := doc.Skins[skinIndex]

	// Inverse bind matrices are optional; missing ones are identity.
	var inverseBindMatrices [][16]float32
	if skin.InverseBindMatrices != nil {
		var err error
		inverseBindMatrices, err = e.reader.readMat4(*skin.InverseBindMatrices)
		if err != nil {
			return nil, fmt.Errorf("failed to read inverse bind matrices: %w", err)
		}
	}

	bones := make([]model.BoneRecord, len(skin.Joints))
	rest := make([]gltfRestPose, len(skin.Joints))
	nodeToJoint := make(map[int]int, len(skin.Joints))

	for i, nodeIndex := range skin.Joints {
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return nil, fmt.Errorf("joint %d: invalid node index %d", i, nodeIndex)
		}
		node := doc.Nodes[nodeIndex]

		name := node.Name
		if name == "" {
			name = fmt.Sprintf("bone_%d", i)
		}
		offset := common.Identity()
		if i < len(inverseBindMatrices) {
			offset = common.Mat4FromColumnMajor(inverseBindMatrices[i])
		}
		bones[i] = model.BoneRecord{Name: name, ParentIndex: -1, Offset: offset}
		rest[i] = gltfNodeRestPose(node)
		nodeToJoint[nodeIndex] = i
	}

	// A joint's parent is the nearest joint whose node lists it as a child.
	for nodeIndex, node := range doc.Nodes {
		parentJoint, isJoint := nodeToJoint[nodeIndex]
		if !isJoint {
			continue
		}
		for _, child := range node.Children {
			if childJoint, ok := nodeToJoint[child]; ok {
				bones[childJoint].ParentIndex = parentJoint
			}
		}
	}

	order, err := topologicalOrder(bones)
	if err != nil {
		return nil, fmt.Errorf("skin %d: %w", skinIndex, err)
	}

	sorted, oldToNew := reorderBones(bones, order)
	sortedRest := make([]gltfRestPose, len(rest))
	for newIdx, oldIdx := range order {
		sortedRest[newIdx] = rest[oldIdx]
	}
	nodeToBone := make(map[int]int, len(nodeToJoint))
	for nodeIndex, joint := range nodeToJoint {
		nodeToBone[nodeIndex] = oldToNew[joint]
	}

	return &gltfSkeleton{Bones: sorted, Rest: sortedRest, NodeToBone: nodeToBone}, nil
}

// gltfNodeRestPose extracts the TRS of a node, decomposing its matrix when one is set.
func gltfNodeRestPose(node *gltf.Node) gltfRestPose {
	m := node.MatrixOrDefault()
	if m != gltf.DefaultMatrix {
		var cm [16]float32
		for i, v := range m {
			cm[i] = float32(v)
		}
		return decomposeMatrix(common.Mat4FromColumnMajor(cm))
	}

	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	return gltfRestPose{
		Translation: common.NewVec3(float32(t[0]), float32(t[1]), float32(t[2])),
		Rotation:    common.NewQuaternion(float32(r[3]), float32(r[0]), float32(r[1]), float32(r[2])),
		Scale:       common.NewVec3(float32(s[0]), float32(s[1]), float32(s[2])),
	}
}

// decomposeMatrix splits a row-major affine matrix into translation, rotation and scale.
// It assumes no shear.
func decomposeMatrix(m common.Mat4) gltfRestPose {
	sx := common.NewVec3(m[0], m[4], m[8]).Length()
	sy := common.NewVec3(m[1], m[5], m[9]).Length()
	sz := common.NewVec3(m[2], m[6], m[10]).Length()
	pose := gltfRestPose{
		Translation: m.TranslationPart(),
		Scale:       common.NewVec3(sx, sy, sz),
	}

	// Avoid division by zero
	if sx < 0.0001 {
		sx = 1
	}
	if sy < 0.0001 {
		sy = 1
	}
	if sz < 0.0001 {
		sz = 1
	}

	pose.Rotation = rotationToQuaternion([9]float32{
		m[0] / sx, m[1] / sy, m[2] / sz,
		m[4] / sx, m[5] / sy, m[6] / sz,
		m[8] / sx, m[9] / sy, m[10] / sz,
	})
	return pose
}

// rotationToQuaternion converts a row-major 3x3 rotation matrix to a unit quaternion.
func rotationToQuaternion(m [9]float32) common.Quaternion {
	r00, r01, r02 := m[0], m[1], m[2]
	r10, r11, r12 := m[3], m[4], m[5]
	r20, r21, r22 := m[6], m[7], m[8]

	trace := r00 + r11 + r22

	var q common.Quaternion
	switch {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		q = common.NewQuaternion(0.25*s, (r21-r12)/s, (r02-r20)/s, (r10-r01)/s)
	case r00 > r11 && r00 > r22:
		s := math32.Sqrt(1+r00-r11-r22) * 2
		q = common.NewQuaternion((r21-r12)/s, 0.25*s, (r01+r10)/s, (r02+r20)/s)
	case r11 > r22:
		s := math32.Sqrt(1+r11-r00-r22) * 2
		q = common.NewQuaternion((r02-r20)/s, (r01+r10)/s, 0.25*s, (r12+r21)/s)
	default:
		s := math32.Sqrt(1+r22-r00-r11) * 2
		q = common.NewQuaternion((r10-r01)/s, (r02+r20)/s, (r12+r21)/s, 0.25*s)
	}
	return q.Normalize()
}

// topologicalOrder returns bone indices ordered so every parent precedes its children.
// Roots keep their relative order and children are visited breadth-first.
//
// Parameters:
//   - bones: bones with parent indices into the same slice
//
// Returns:
//   - []int: old bone indices in sorted order
//   - error: errJointCycle if some bones are unreachable from a root
func topologicalOrder(bones []model.BoneRecord) ([]int, error) {
	children := make(map[int][]int)
	queue := make([]int, 0, len(bones))
	for i, b := range bones {
		if b.ParentIndex >= 0 {
			children[b.ParentIndex] = append(children[b.ParentIndex], i)
		} else {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, len(bones))
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		order = append(order, idx)
		queue = append(queue, children[idx]...)
	}

	if len(order) < len(bones) {
		return nil, fmt.Errorf("%d of %d joints unreachable from a root: %w", len(bones)-len(order), len(bones), errJointCycle)
	}
	return order, nil
}

// reorderBones permutes bones into order and rewrites parent indices.
//
// Returns:
//   - []model.BoneRecord: the reordered bones
//   - map[int]int: old bone index to new bone index
func reorderBones(bones []model.BoneRecord, order []int) ([]model.BoneRecord, map[int]int) {
	oldToNew := make(map[int]int, len(order))
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = newIdx
	}

	sorted := make([]model.BoneRecord, len(order))
	for newIdx, oldIdx := range order {
		b := bones[oldIdx]
		if b.ParentIndex >= 0 {
			b.ParentIndex = oldToNew[b.ParentIndex]
		}
		sorted[newIdx] = b
	}
	return sorted, oldToNew
}
