package loader

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfAccessorReader reads typed accessor data from a decoded glTF document.
type gltfAccessorReader struct {
	doc *gltf.Document
}

func (r *gltfAccessorReader) read(index int) (any, error) {
	if index < 0 || index >= len(r.doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", index)
	}
	data, err := modeler.ReadAccessor(r.doc, r.doc.Accessors[index], nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", index, err)
	}
	return data, nil
}

// readScalars reads a SCALAR float accessor (animation timestamps).
func (r *gltfAccessorReader) readScalars(index int) ([]float32, error) {
	data, err := r.read(index)
	if err != nil {
		return nil, err
	}
	v, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: expected float scalars, got %T", index, data)
	}
	return v, nil
}

// readVec3 reads a VEC3 float accessor (translations and scales).
func (r *gltfAccessorReader) readVec3(index int) ([][3]float32, error) {
	data, err := r.read(index)
	if err != nil {
		return nil, err
	}
	v, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: expected float vec3, got %T", index, data)
	}
	return v, nil
}

// readVec4 reads a VEC4 accessor (rotations), accepting the normalized integer encodings glTF allows.
func (r *gltfAccessorReader) readVec4(index int) ([][4]float32, error) {
	data, err := r.read(index)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case [][4]float32:
		return v, nil
	case [][4]int8:
		return normalizeVec4(v, 127, -1), nil
	case [][4]uint8:
		return normalizeVec4(v, 255, 0), nil
	case [][4]int16:
		return normalizeVec4(v, 32767, -1), nil
	case [][4]uint16:
		return normalizeVec4(v, 65535, 0), nil
	default:
		return nil, fmt.Errorf("accessor %d: expected vec4, got %T", index, data)
	}
}

// readMat4 reads a MAT4 float accessor (inverse bind matrices). Each matrix is returned column-major.
func (r *gltfAccessorReader) readMat4(index int) ([][16]float32, error) {
	data, err := r.read(index)
	if err != nil {
		return nil, err
	}
	v, ok := data.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: expected float mat4, got %T", index, data)
	}
	out := make([][16]float32, len(v))
	for i, m := range v {
		for col := 0; col < 4; col++ {
			copy(out[i][col*4:col*4+4], m[col][:])
		}
	}
	return out, nil
}

type normalizedInt interface {
	~int8 | ~uint8 | ~int16 | ~uint16
}

// normalizeVec4 maps normalized integer components to floats, clamping at lo as glTF requires.
func normalizeVec4[T normalizedInt](in [][4]T, max, lo float32) [][4]float32 {
	out := make([][4]float32, len(in))
	for i, q := range in {
		for j := range q {
			f := float32(q[j]) / max
			if f < lo {
				f = lo
			}
			out[i][j] = f
		}
	}
	return out
}
