package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// model is the implementation of the Model interface.
type model struct {
	name         string
	vertices     []GPUVertex
	indices      []uint8
	meshProvider bind_group_provider.BindGroupProvider
}

// Model defines the interface for a static mesh held on the CPU until its buffers are uploaded.
// A Model with indices is drawn indexed; a Model without indices is drawn as a plain vertex list.
// Vertex and index data never change after construction.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices retrieves the model-space vertices of the mesh.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices retrieves the byte-sized triangle indices, or nil for a non-indexed mesh.
	//
	// Returns:
	//   - []uint8: the indices or nil
	Indices() []uint8

	// Indexed reports whether the mesh is drawn with an index buffer.
	//
	// Returns:
	//   - bool: true if the model has indices
	Indexed() bool

	// VertexCount returns the number of vertices in the mesh.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices in the mesh, zero when not indexed.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// IndexFormat returns the GPU index format used for the uploaded index buffer.
	//
	// Returns:
	//   - wgpu.IndexFormat: wgpu.IndexFormatUint16 for indexed meshes, wgpu.IndexFormatUndefined otherwise
	IndexFormat() wgpu.IndexFormat

	// VertexData returns the packed vertex bytes for GPU upload.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the index bytes for GPU upload, widened to 16 bits per index.
	//
	// Returns:
	//   - []byte: the index data, or nil for a non-indexed mesh
	IndexData() []byte

	// Validate checks that the index list describes whole triangles referencing existing vertices.
	//
	// Returns:
	//   - error: a descriptive error if the mesh is malformed
	Validate() error

	// MeshProvider retrieves the BindGroupProvider holding GPU vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider, or nil before upload
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider assigns the BindGroupProvider that holds this model's GPU buffers.
	//
	// Parameters:
	//   - provider: the mesh provider
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint8 {
	return m.indices
}

func (m *model) Indexed() bool {
	return len(m.indices) > 0
}

func (m *model) VertexCount() int {
	return len(m.vertices)
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) IndexFormat() wgpu.IndexFormat {
	if !m.Indexed() {
		return wgpu.IndexFormatUndefined
	}
	return wgpu.IndexFormatUint16
}

func (m *model) VertexData() []byte {
	if len(m.vertices) == 0 {
		return nil
	}
	buf := make([]byte, 0, len(m.vertices)*m.vertices[0].Size())
	for i := range m.vertices {
		buf = append(buf, m.vertices[i].Marshal()...)
	}
	return buf
}

func (m *model) IndexData() []byte {
	return common.SliceToBytes(WidenIndices(m.indices))
}

func (m *model) Validate() error {
	if len(m.vertices) == 0 {
		return fmt.Errorf("model %q has no vertices", m.name)
	}
	if !m.Indexed() {
		if len(m.vertices)%3 != 0 {
			return fmt.Errorf("model %q: %d vertices do not form whole triangles", m.name, len(m.vertices))
		}
		return nil
	}
	if len(m.indices)%3 != 0 {
		return fmt.Errorf("model %q: %d indices do not form whole triangles", m.name, len(m.indices))
	}
	for i, idx := range m.indices {
		if int(idx) >= len(m.vertices) {
			return fmt.Errorf("model %q: index %d at position %d is out of range for %d vertices", m.name, idx, i, len(m.vertices))
		}
	}
	return nil
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.meshProvider = provider
}
