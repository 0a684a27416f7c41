package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 3, Coalesce(0, 0, 3))
	assert.Equal(t, 0, Coalesce[int]())
}

func TestPositiveMod(t *testing.T) {
	assert.Equal(t, 1, PositiveMod(5, 4))
	assert.Equal(t, 3, PositiveMod(-1, 4))
	assert.Equal(t, 0, PositiveMod(-8, 4))
	assert.Equal(t, 0, PositiveMod(0, 1))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))

	data := []float32{1, 2}
	b := SliceToBytes(data)
	assert.Len(t, b, 8)
	assert.Equal(t, math.Float32bits(2), binary.LittleEndian.Uint32(b[4:]))
}
