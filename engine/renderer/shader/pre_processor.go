// pre_processor.go expands @oxy: annotations in WGSL source. The struct registry maps
// struct keys to the embedded WGSL definitions of the engine's GPU types, so the Go
// struct layout and the WGSL struct layout come from the same package.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-primitives/engine/game_object"
	"github.com/Carmen-Shannon/oxy-primitives/engine/model"
)

// registryEntry pairs an embedded WGSL struct definition with its WGSL type name.
type registryEntry struct {
	Source string
	Type   string
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string

	// declarations collects group annotations from the last Process call.
	declarations []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source and records the bind group declarations it generated.
type PreProcessor interface {
	// Process replaces every annotation line with its generated WGSL.
	// Each struct is injected at most once, so two include lines for the same key are harmless.
	// The declarations list is reset at the start of every call.
	//
	// Parameters:
	//   - source: WGSL source containing annotations
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error if an annotation is malformed
	Process(source string) (string, error)

	// Declarations returns the group annotations recorded by the last Process call, in source order.
	//
	// Returns:
	//   - []Annotation: the recorded declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU struct types registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			annotationArgVertex:        {Source: model.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgObjectUniform: {Source: game_object.GPUObjectUniformSource, Type: "ObjectUniform"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			if included[a.Args[0]] {
				continue
			}
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: struct %q is not registered", a.Line, a.Args[0])
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case AnnotationTypeBindingGroup:
			entry, ok := p.structRegistry[a.StructType()]
			if !ok {
				return "", fmt.Errorf("line %d: struct %q is not registered", a.Line, a.StructType())
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, p.addressSpaceRegistry[a.Args[0]], a.VarName(), entry.Type))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
