package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps WGSL vertex input types to vertex formats.
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec3<u32>": {wgpu.VertexFormatUint32x3, 12},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
	"vec2<i32>": {wgpu.VertexFormatSint32x2, 8},
	"vec3<i32>": {wgpu.VertexFormatSint32x3, 12},
	"vec4<i32>": {wgpu.VertexFormatSint32x4, 16},
}

var (
	// structBlockRegex captures a struct name and its body.
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex  = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex captures a member name and its type after any leading attributes.
	fieldRegex = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)

	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, address space, name and type of
	// declarations like: @group(0) @binding(0) var<uniform> object: ObjectUniform;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexLayouts builds one vertex buffer layout per vertex input struct, in source order.
// A vertex input struct has @location members and no @builtin members.
//
// Parameters:
//   - source: WGSL source
//
// Returns:
//   - []wgpu.VertexBufferLayout: the layouts, one buffer slot each
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	var layouts []wgpu.VertexBufferLayout
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		if layout, ok := buildVertexBufferLayout(ps); ok {
			layouts = append(layouts, layout)
		}
	}
	return layouts
}

// parseAttributeLocations maps every vertex input member name to its @location.
//
// Parameters:
//   - source: WGSL source
//
// Returns:
//   - map[string]uint32: shader locations keyed by attribute name
func parseAttributeLocations(source string) map[string]uint32 {
	locations := make(map[string]uint32)
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		for _, f := range ps.fields {
			if f.location >= 0 {
				locations[f.name] = uint32(f.location)
			}
		}
	}
	return locations
}

// parseBindingDecls returns every @group/@binding declaration in the source.
//
// Parameters:
//   - source: WGSL source
//
// Returns:
//   - []bindingDecl: the declarations in source order
func parseBindingDecls(source string) []bindingDecl {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1)
	decls := make([]bindingDecl, 0, len(matches))
	for _, m := range matches {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		decls = append(decls, bindingDecl{
			group:        group,
			binding:      binding,
			addressSpace: strings.TrimSpace(m[3]),
			varName:      strings.TrimSpace(m[4]),
			typeName:     strings.TrimSpace(m[5]),
		})
	}
	return decls
}

// parseBindGroupLayouts turns the source's buffer declarations into bind group layout descriptors.
// Entries are sorted by binding and carry the given stage visibility. MinBindingSize is set from
// the resolved struct size so buffers can be allocated from the descriptor alone.
//
// Parameters:
//   - source: WGSL source
//   - visibility: the shader stage that declared the bindings
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	sizes := computeStructSizes(parseStructBlocks(stripComments(source)))
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)

	for _, d := range parseBindingDecls(source) {
		entry := classifyResource(uint32(d.binding), visibility, d.addressSpace)
		if entry.Buffer.Type == wgpu.BufferBindingTypeUndefined {
			continue
		}
		if layout, ok := resolveTypeLayout(d.typeName, sizes); ok {
			entry.Buffer.MinBindingSize = layout.size
		}
		groups[d.group] = append(groups[d.group], entry)
		if varNames[d.group] == nil {
			varNames[d.group] = make(map[int]string)
		}
		varNames[d.group][d.binding] = d.varName
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, varNames
}

// parseUniformLocations resolves every member of every uniform-bound struct to its
// group, binding and byte range inside the bound buffer. When two uniforms share a
// member name the first declaration wins.
//
// Parameters:
//   - source: WGSL source
//
// Returns:
//   - map[string]UniformLocation: locations keyed by member name
func parseUniformLocations(source string) map[string]UniformLocation {
	structs := parseStructBlocks(stripComments(source))
	sizes := computeStructSizes(structs)
	byName := make(map[string]parsedStruct, len(structs))
	for _, ps := range structs {
		byName[ps.name] = ps
	}

	locations := make(map[string]UniformLocation)
	for _, d := range parseBindingDecls(source) {
		if d.addressSpace != "uniform" {
			continue
		}
		ps, ok := byName[d.typeName]
		if !ok {
			continue
		}
		fields, ok := structFieldLayouts(ps, sizes)
		if !ok {
			continue
		}
		for _, f := range fields {
			if _, seen := locations[f.name]; seen {
				continue
			}
			locations[f.name] = UniformLocation{
				Group:   d.group,
				Binding: d.binding,
				VarName: d.varName,
				Offset:  f.offset,
				Size:    f.size,
			}
		}
	}
	return locations
}

// parseEntryPoint returns the name of the entry point function for the stage, or "" if none is declared.
//
// Parameters:
//   - source: WGSL source
//   - shaderType: the stage to look for
//
// Returns:
//   - string: the entry point name
func parseEntryPoint(source string, shaderType ShaderType) string {
	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}
	if m := re.FindStringSubmatch(stripComments(source)); m != nil {
		return m[1]
	}
	return ""
}

// parseStructBlocks parses every struct declaration in comment-free WGSL source.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		structs = append(structs, parsedStruct{
			name:   m[1],
			fields: parseStructFields(m[2]),
		})
	}
	return structs
}

// parseStructFields parses a struct body into members, recording @location and @builtin attributes.
func parseStructFields(body string) []parsedField {
	parts := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fm := fieldRegex.FindStringSubmatch(part)
		if fm == nil {
			continue
		}
		field := parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			location:  -1,
			isBuiltin: builtinRegex.MatchString(part),
		}
		if lm := locationRegex.FindStringSubmatch(part); lm != nil {
			if loc, err := strconv.Atoi(lm[1]); err == nil {
				field.location = loc
			}
		}
		fields = append(fields, field)
	}
	return fields
}
