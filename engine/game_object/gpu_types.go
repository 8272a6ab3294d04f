package game_object

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUObjectUniformSource is the WGSL definition of the ObjectUniform struct shared by both primitive shader stages.
// Matches GPUObjectUniform layout exactly (80 bytes, 16-byte aligned).
//
//go:embed assets/object_uniform.wgsl
var GPUObjectUniformSource string

// GPUObjectUniform is the per-object uniform block: the model-view-projection matrix and the flat color.
type GPUObjectUniform struct {
	MVP   [16]float32 // offset 0: column-major mvp_matrix (64 bytes)
	Color [4]float32  // offset 64: uColor RGBA (16 bytes)
}

// GPUObjectUniformSize is the byte size of GPUObjectUniform on the GPU.
const GPUObjectUniformSize = 80

// MarshalMatrix serializes a column-major matrix into 64 little-endian bytes.
//
// Parameters:
//   - m: the matrix to serialize
//
// Returns:
//   - []byte: the serialized matrix
func MarshalMatrix(m [16]float32) []byte {
	buf := make([]byte, 64)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// MarshalColor serializes an RGBA color into 16 little-endian bytes.
//
// Parameters:
//   - c: the color to serialize
//
// Returns:
//   - []byte: the serialized color
func MarshalColor(c [4]float32) []byte {
	buf := make([]byte, 16)
	for i, v := range c {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
