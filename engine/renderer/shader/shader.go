package shader

import (
	"errors"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is written for.
type ShaderType int

const (
	// ShaderTypeVertex is a shader with a @vertex entry point.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a shader with a @fragment entry point.
	ShaderTypeFragment
)

// String returns the WGSL stage attribute name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// visibility returns the bind group visibility flag for the stage.
func (t ShaderType) visibility() wgpu.ShaderStage {
	switch t {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

var (
	// ErrEntryPointNotFound is returned when the source has no entry point for the shader's stage.
	ErrEntryPointNotFound = errors.New("shader entry point not found")

	// ErrAttributeNotFound is returned when a named vertex attribute is not declared by a shader.
	ErrAttributeNotFound = errors.New("shader attribute not found")

	// ErrUniformNotFound is returned when a named uniform member is not declared by a shader.
	ErrUniformNotFound = errors.New("shader uniform not found")
)

// UniformLocation addresses one member of a uniform struct: the buffer it lives in
// (group and binding) and its byte range inside that buffer.
type UniformLocation struct {
	Group   int
	Binding int
	VarName string
	Offset  uint64
	Size    uint64
}

// shader holds everything parsed from one WGSL stage that pipeline creation and
// per-draw uniform writes need.
type shader struct {
	key        string
	source     string
	sourcePath string
	shaderType ShaderType
	validate   bool

	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	spirv                      []byte
	vertexLayouts              []wgpu.VertexBufferLayout
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	attributeLocations         map[string]uint32
	uniformLocations           map[string]UniformLocation

	pp PreProcessor
}

// Shader is a pre-processed, validated and parsed WGSL shader stage.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL source after annotation expansion.
	//
	// Returns:
	//   - string: the expanded WGSL source
	Source() string

	// ShaderType returns the stage this shader is written for.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point function name.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor with the expanded WGSL code
	Module() *wgpu.ShaderModuleDescriptor

	// SPIRV returns the SPIR-V produced while validating the source, or nil when validation is disabled.
	//
	// Returns:
	//   - []byte: the SPIR-V binary
	SPIRV() []byte

	// VertexLayouts returns the vertex buffer layouts of a vertex shader, one per buffer slot.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, empty for fragment shaders
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor retrieves the layout descriptor of one bind group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, empty if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all declared bind group layout descriptors.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index
	//
	// Returns:
	//   - string: the variable name, or "" if nothing is declared there
	BindGroupVarName(group, binding int) string

	// AttributeLocation looks up the @location of a vertex input attribute.
	//
	// Parameters:
	//   - name: the attribute member name, e.g. "vPos"
	//
	// Returns:
	//   - uint32: the shader location
	//   - bool: false if the attribute is not declared
	AttributeLocation(name string) (uint32, bool)

	// UniformLocation looks up a member of a uniform-bound struct.
	//
	// Parameters:
	//   - name: the member name, e.g. "mvp_matrix"
	//
	// Returns:
	//   - UniformLocation: the buffer and byte range holding the member
	//   - bool: false if no uniform declares the member
	UniformLocation(name string) (UniformLocation, bool)

	// Declarations returns the @oxy:group annotations expanded from the source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader loads, pre-processes, validates and parses a WGSL shader stage.
// Exactly one of WithSource or WithSourcePath must be given.
//
// Parameters:
//   - key: a unique identifier used for labels and pipeline lookups
//   - shaderType: the stage the source is written for
//   - options: functional options providing the source and validation settings
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the source is missing, malformed or lacks an entry point for the stage
func NewShader(key string, shaderType ShaderType, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
		validate:   true,
		pp:         NewPreProcessor(),
	}
	for _, opt := range options {
		opt(s)
	}

	raw, err := s.loadSource()
	if err != nil {
		return nil, err
	}
	if err := s.parse(raw); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) SPIRV() []byte {
	return s.spirv
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) AttributeLocation(name string) (uint32, bool) {
	loc, ok := s.attributeLocations[name]
	return loc, ok
}

func (s *shader) UniformLocation(name string) (UniformLocation, bool) {
	loc, ok := s.uniformLocations[name]
	return loc, ok
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}

// loadSource returns the raw source from WithSource or reads it from WithSourcePath.
func (s *shader) loadSource() (string, error) {
	switch {
	case s.source != "" && s.sourcePath != "":
		return "", fmt.Errorf("shader %s: both source and source path were provided", s.key)
	case s.source != "":
		return s.source, nil
	case s.sourcePath != "":
		data, err := os.ReadFile(s.sourcePath)
		if err != nil {
			return "", fmt.Errorf("failed to read shader %s source %q: %w", s.key, s.sourcePath, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("shader %s: no source provided", s.key)
	}
}

// parse expands annotations, validates the result and extracts every piece of metadata for the stage.
func (s *shader) parse(raw string) error {
	source, err := s.pp.Process(raw)
	if err != nil {
		return fmt.Errorf("failed to pre-process shader %s: %w", s.key, err)
	}
	s.source = source

	s.entryPoint = parseEntryPoint(source, s.shaderType)
	if s.entryPoint == "" {
		return fmt.Errorf("shader %s: no @%s function: %w", s.key, s.shaderType, ErrEntryPointNotFound)
	}

	if s.validate {
		s.spirv, err = Validate(source)
		if err != nil {
			return fmt.Errorf("failed to validate shader %s: %w", s.key, err)
		}
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label:          s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	}
	if s.shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(source)
		s.attributeLocations = parseAttributeLocations(source)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(source, s.shaderType.visibility())
	s.uniformLocations = parseUniformLocations(source)
	return nil
}
