package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo is a vertex attribute format with its byte size.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout is the size and alignment of a WGSL type in host-shareable memory.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// fieldLayout is a struct member placed at its byte offset.
type fieldLayout struct {
	name   string
	offset uint64
	size   uint64
}

type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

// bindingDecl is one @group/@binding variable declaration found in the source.
type bindingDecl struct {
	group        int
	binding      int
	addressSpace string
	varName      string
	typeName     string
}
