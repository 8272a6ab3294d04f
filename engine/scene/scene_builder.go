package scene

import (
	"github.com/Carmen-Shannon/oxy-primitives/engine/game_object"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/pipeline"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithObjects appends objects to the scene in draw order.
// Objects without IDs are assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj == nil {
				continue
			}
			if obj.ID() == 0 {
				obj.SetID(s.nextID)
				s.nextID++
			}
			s.objects = append(s.objects, obj)
		}
	}
}

// WithShaderSources replaces the embedded primitive shaders. The sources may use the
// //@oxy: annotations and must declare the vPos input, the mvp_matrix uniform in the vertex
// stage and the uColor uniform in the fragment stage.
//
// Parameters:
//   - vertexSource: WGSL vertex stage source
//   - fragmentSource: WGSL fragment stage source
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShaderSources(vertexSource, fragmentSource string) SceneBuilderOption {
	return func(s *scene) {
		s.vertexSource = vertexSource
		s.fragmentSource = fragmentSource
	}
}

// WithShaderValidation toggles the offline WGSL compile run during Init. Enabled by default.
//
// Parameters:
//   - enabled: false to skip validation
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShaderValidation(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.validateShaders = enabled
	}
}

// WithPipelineOptions adds options applied to the scene's render pipeline after its shaders.
//
// Parameters:
//   - opts: pipeline builder options such as depth or cull settings
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPipelineOptions(opts ...pipeline.PipelineBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.pipelineOpts = append(s.pipelineOpts, opts...)
	}
}
