package shader

// ShaderBuilderOption is a functional option for configuring a Shader via NewShader.
type ShaderBuilderOption func(*shader)

// WithSource sets the raw WGSL source of the shader.
//
// Parameters:
//   - source: WGSL source, optionally containing @oxy: annotations
//
// Returns:
//   - ShaderBuilderOption: a function that applies the source option to a shader
func WithSource(source string) ShaderBuilderOption {
	return func(s *shader) {
		s.source = source
	}
}

// WithSourcePath sets a file to read the WGSL source from.
//
// Parameters:
//   - path: path to a .wgsl file
//
// Returns:
//   - ShaderBuilderOption: a function that applies the source path option to a shader
func WithSourcePath(path string) ShaderBuilderOption {
	return func(s *shader) {
		s.sourcePath = path
	}
}

// WithValidation toggles offline WGSL validation. Enabled by default.
//
// Parameters:
//   - enabled: false to skip validation
//
// Returns:
//   - ShaderBuilderOption: a function that applies the validation option to a shader
func WithValidation(enabled bool) ShaderBuilderOption {
	return func(s *shader) {
		s.validate = enabled
	}
}
