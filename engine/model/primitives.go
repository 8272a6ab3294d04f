package model

// Model names used by the primitive constructors.
const (
	TriangleName = "triangle"
	BoxName      = "box"
)

// TriangleVertices is a single triangle in the XY plane, base on the X axis and apex at y = 1.5.
var TriangleVertices = []GPUVertex{
	{Position: [3]float32{-1, 0, 0}},
	{Position: [3]float32{1, 0, 0}},
	{Position: [3]float32{0, 1.5, 0}},
}

// BoxVertices are the eight corners of the unit cube [0,1]^3.
// Corner i sits at x = i>>2&1, y = i>>1&1, z = i&1.
var BoxVertices = []GPUVertex{
	{Position: [3]float32{0, 0, 0}},
	{Position: [3]float32{0, 0, 1}},
	{Position: [3]float32{0, 1, 0}},
	{Position: [3]float32{0, 1, 1}},
	{Position: [3]float32{1, 0, 0}},
	{Position: [3]float32{1, 0, 1}},
	{Position: [3]float32{1, 1, 0}},
	{Position: [3]float32{1, 1, 1}},
}

// BoxIndices lists the twelve box triangles, two per face, each counter-clockwise when viewed from outside the cube.
var BoxIndices = []uint8{
	4, 7, 5, 4, 6, 7, // +X
	0, 3, 2, 0, 1, 3, // -X
	2, 7, 6, 2, 3, 7, // +Y
	0, 5, 1, 0, 4, 5, // -Y
	1, 7, 3, 1, 5, 7, // +Z
	0, 6, 4, 0, 2, 6, // -Z
}

// NewTriangle creates the non-indexed triangle primitive.
//
// Returns:
//   - Model: a model holding TriangleVertices
func NewTriangle() Model {
	return NewModel(WithName(TriangleName), WithVertices(TriangleVertices))
}

// NewBox creates the indexed unit cube primitive.
//
// Returns:
//   - Model: a model holding BoxVertices and BoxIndices
func NewBox() Model {
	return NewModel(WithName(BoxName), WithVertices(BoxVertices), WithIndices(BoxIndices))
}

// WidenIndices converts single-byte indices to 16-bit indices.
// WebGPU has no 8-bit index format, so byte-sized index data is widened before upload.
//
// Parameters:
//   - indices: the byte indices to widen
//
// Returns:
//   - []uint16: the widened indices, or nil if indices is empty
func WidenIndices(indices []uint8) []uint16 {
	if len(indices) == 0 {
		return nil
	}
	out := make([]uint16, len(indices))
	for i, idx := range indices {
		out[i] = uint16(idx)
	}
	return out
}
