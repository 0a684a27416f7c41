package palette

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-skel/common"
)

// hostLittleEndian reports whether common.Mat4 memory already has the staged byte order.
var hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// MatrixSize is the byte size of one staged bone matrix (16 little-endian float32 values).
const MatrixSize = 64

// Layout selects the element order of staged matrices.
type Layout int

const (
	// LayoutRowMajor stages matrices exactly as common.Mat4 stores them.
	LayoutRowMajor Layout = iota

	// LayoutColumnMajor stages transposed matrices, as read by a WGSL mat4x4<f32>.
	LayoutColumnMajor
)

func (l Layout) String() string {
	switch l {
	case LayoutColumnMajor:
		return "column-major"
	default:
		return "row-major"
	}
}

// GPUBoneMatrix is the GPU-aligned representation of one skinning matrix.
// Size: 64 bytes (mat4x4<f32>, std430 aligned).
type GPUBoneMatrix struct {
	Matrix [16]float32 // offset 0, size 64
}

// Size returns the size of the GPUBoneMatrix struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUBoneMatrix) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBoneMatrix struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUBoneMatrix) Marshal() []byte {
	buf := make([]byte, MatrixSize)
	g.put(buf)
	return buf
}

func (g *GPUBoneMatrix) put(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Matrix[i]))
	}
}

// BufferWrite describes a single GPU buffer write at a given byte offset of the buffer bound at Binding.
type BufferWrite struct {
	Binding int
	Offset  uint64
	Data    []byte
}

// Stage converts a palette to bytes, one 64-byte matrix per bone in bone order.
//
// Parameters:
//   - palette: the skinning matrices
//   - binding: the binding index the write targets
//   - layout: the element order to stage
//
// Returns:
//   - BufferWrite: the write at offset 0
func Stage(palette []common.Mat4, binding int, layout Layout) BufferWrite {
	return BufferWrite{
		Binding: binding,
		Data:    AppendPalette(make([]byte, 0, len(palette)*MatrixSize), palette, layout),
	}
}

// AppendPalette appends the staged bytes of palette to dst and returns the extended slice.
//
// Parameters:
//   - dst: the destination buffer
//   - palette: the skinning matrices
//   - layout: the element order to stage
//
// Returns:
//   - []byte: dst extended by len(palette)*MatrixSize bytes
func AppendPalette(dst []byte, palette []common.Mat4, layout Layout) []byte {
	if layout == LayoutRowMajor && hostLittleEndian {
		return append(dst, common.SliceToBytes(palette)...)
	}
	var m GPUBoneMatrix
	for _, p := range palette {
		if layout == LayoutColumnMajor {
			p = p.Transpose()
		}
		m.Matrix = p
		start := len(dst)
		dst = append(dst, make([]byte, MatrixSize)...)
		m.put(dst[start:])
	}
	return dst
}
