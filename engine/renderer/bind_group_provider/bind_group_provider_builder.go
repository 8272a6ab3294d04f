package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer sets a buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithVertexCount presets the vertex count used by non-indexed draws before any buffer is uploaded.
//
// Parameters:
//   - count: the number of vertices
//
// Returns:
//   - BindGroupProviderOption: a function that sets the vertex count
func WithVertexCount(count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexCount = count
	}
}

// WithIndexCount presets the index count and format used by indexed draws.
//
// Parameters:
//   - count: the number of indices
//   - format: the index element format
//
// Returns:
//   - BindGroupProviderOption: a function that sets the index count and format
func WithIndexCount(count int, format wgpu.IndexFormat) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.indexCount = count
		p.indexFormat = format
	}
}
