package shader

import _ "embed"

// PrimitiveVertexSource transforms vPos by the per-object mvp_matrix.
//
//go:embed assets/primitive.vert.wgsl
var PrimitiveVertexSource string

// PrimitiveFragmentSource outputs the per-object uColor.
//
//go:embed assets/primitive.frag.wgsl
var PrimitiveFragmentSource string
