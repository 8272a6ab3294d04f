package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/camera"
	"github.com/Carmen-Shannon/oxy-primitives/engine/game_object"
	"github.com/Carmen-Shannon/oxy-primitives/engine/model"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineKey is the key of the single render pipeline every scene object is drawn with.
const PipelineKey = "primitives"

// Names the shader pair must declare.
const (
	PositionAttribute = "vPos"
	MVPUniform        = "mvp_matrix"
	ColorUniform      = "uColor"
)

var (
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("scene already initialized")

	// ErrNotInitialized is returned by DrawCalls before Init has succeeded.
	ErrNotInitialized = errors.New("scene not initialized")
)

// Scene owns a fixed list of GameObjects, the Camera they are viewed through and the Renderer
// that draws them. Init uploads every GPU resource once; DrawCalls records one draw per
// enabled object inside a frame the caller has begun on the Renderer.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Objects returns the scene's objects in draw order.
	//
	// Returns:
	//   - []game_object.GameObject: a copy of the object list
	Objects() []game_object.GameObject

	// Get retrieves an object by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Initialized reports whether Init has succeeded.
	Initialized() bool

	// Init builds and validates the shader pair, resolves the position attribute and the
	// mvp_matrix and uColor uniform locations, registers the render pipeline, uploads each
	// model's vertex and index buffers and creates one uniform buffer and bind group per object.
	//
	// Returns:
	//   - error: ErrAlreadyInitialized on a second call, or a wrapped build or upload failure
	Init() error

	// Resize reconfigures the render surface and rebuilds the camera projection. A zero width or
	// height is ignored and the previous state stays in effect.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// DrawCalls uploads each enabled object's MVP matrix and color and records its draw.
	// Must be called between BeginFrame and EndFrame on the renderer.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init, or the first draw failure
	DrawCalls() error

	// Release releases the GPU buffers owned by the scene's objects and models.
	Release()
}

type scene struct {
	mu *sync.RWMutex

	name    string
	cam     camera.Camera
	r       renderer.Renderer
	objects []game_object.GameObject
	nextID  uint64

	vertexSource    string
	fragmentSource  string
	validateShaders bool
	pipelineOpts    []pipeline.PipelineBuilderOption

	initialized   bool
	mvpLocation   shader.UniformLocation
	colorLocation shader.UniformLocation

	// Reused by DrawCalls.
	writePool          []bind_group_provider.BufferWrite
	drawBindGroupsPool []bind_group_provider.BindGroupProvider
}

var _ Scene = &scene{}

// NewScene creates a Scene drawn with the embedded primitive shaders. The camera and renderer
// are required and NewScene panics if either is nil.
//
// Parameters:
//   - name: the name of the scene, also used as a prefix for shader keys
//   - cam: the camera to view through (must not be nil)
//   - r: the renderer to draw with (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene, not yet initialized
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:                 &sync.RWMutex{},
		name:               name,
		cam:                cam,
		r:                  r,
		nextID:             1,
		vertexSource:       shader.PrimitiveVertexSource,
		fragmentSource:     shader.PrimitiveFragmentSource,
		validateShaders:    true,
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 1),
	}
	for _, option := range options {
		option(s)
	}
	s.writePool = make([]bind_group_provider.BufferWrite, 0, 2)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.objects {
		if obj.ID() == id {
			return obj
		}
	}
	return nil
}

func (s *scene) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *scene) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return ErrAlreadyInitialized
	}

	vs, err := shader.NewShader(s.name+"_vs", shader.ShaderTypeVertex,
		shader.WithSource(s.vertexSource),
		shader.WithValidation(s.validateShaders),
	)
	if err != nil {
		return fmt.Errorf("failed to build vertex shader: %w", err)
	}
	fs, err := shader.NewShader(s.name+"_fs", shader.ShaderTypeFragment,
		shader.WithSource(s.fragmentSource),
		shader.WithValidation(s.validateShaders),
	)
	if err != nil {
		return fmt.Errorf("failed to build fragment shader: %w", err)
	}

	if err := s.resolveLocations(vs, fs); err != nil {
		return err
	}

	p := pipeline.NewPipeline(PipelineKey, append([]pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	}, s.pipelineOpts...)...)
	if err := s.r.RegisterPipelines(p); err != nil {
		return fmt.Errorf("failed to register pipeline: %w", err)
	}

	groups, descriptors := p.BindGroupLayoutDescriptors()
	if len(groups) != 1 || groups[0] != 0 || s.mvpLocation.Group != 0 {
		return fmt.Errorf("pipeline %s must declare exactly one bind group at group 0, got %v", PipelineKey, groups)
	}
	objectLayout := descriptors[groups[0]]

	uploaded := make(map[model.Model]bool, len(s.objects))
	for _, obj := range s.objects {
		mdl := obj.Model()
		if mdl == nil {
			return fmt.Errorf("object %q has no model", obj.Name())
		}
		if !uploaded[mdl] {
			if err := s.uploadModel(mdl); err != nil {
				return err
			}
			uploaded[mdl] = true
		}
		if err := s.r.InitBindGroup(obj.BindGroupProvider(), objectLayout); err != nil {
			return fmt.Errorf("failed to init uniform bind group for %q: %w", obj.Name(), err)
		}
	}

	s.initialized = true
	common.Logger().Info("scene initialized",
		"scene", s.name,
		"objects", len(s.objects),
		"models", len(uploaded))
	return nil
}

// resolveLocations looks up the position attribute and both uniform fields and checks the vertex
// stride against the CPU vertex layout. Caller must hold the mutex.
func (s *scene) resolveLocations(vs, fs shader.Shader) error {
	loc, ok := vs.AttributeLocation(PositionAttribute)
	if !ok {
		return fmt.Errorf("vertex shader %s: %w: %s", vs.Key(), shader.ErrAttributeNotFound, PositionAttribute)
	}
	mvp, ok := vs.UniformLocation(MVPUniform)
	if !ok {
		return fmt.Errorf("vertex shader %s: %w: %s", vs.Key(), shader.ErrUniformNotFound, MVPUniform)
	}
	color, ok := fs.UniformLocation(ColorUniform)
	if !ok {
		return fmt.Errorf("fragment shader %s: %w: %s", fs.Key(), shader.ErrUniformNotFound, ColorUniform)
	}
	if mvp.Group != color.Group || mvp.Binding != color.Binding {
		return fmt.Errorf("%s and %s must live in the same uniform block, got %d/%d and %d/%d",
			MVPUniform, ColorUniform, mvp.Group, mvp.Binding, color.Group, color.Binding)
	}

	var v model.GPUVertex
	stride, found := vertexStride(vs.VertexLayouts(), loc)
	if !found {
		return fmt.Errorf("vertex shader %s: no vertex buffer holds location %d", vs.Key(), loc)
	}
	if stride != uint64(v.Size()) {
		return fmt.Errorf("vertex shader %s: stride %d does not match vertex size %d", vs.Key(), stride, v.Size())
	}

	s.mvpLocation = mvp
	s.colorLocation = color
	return nil
}

func vertexStride(layouts []wgpu.VertexBufferLayout, location uint32) (uint64, bool) {
	for _, l := range layouts {
		for _, a := range l.Attributes {
			if a.ShaderLocation == location {
				return l.ArrayStride, true
			}
		}
	}
	return 0, false
}

// uploadModel validates mdl and uploads its vertex and index data. Caller must hold the mutex.
func (s *scene) uploadModel(mdl model.Model) error {
	if err := mdl.Validate(); err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}
	mesh := mdl.MeshProvider()
	if mesh == nil {
		mesh = bind_group_provider.NewBindGroupProvider(mdl.Name() + "_mesh")
		mdl.SetMeshProvider(mesh)
	}
	if err := s.r.InitMeshBuffers(mesh, mdl.VertexData(), mdl.VertexCount(), mdl.IndexData(), mdl.IndexCount(), mdl.IndexFormat()); err != nil {
		return fmt.Errorf("failed to upload model %q: %w", mdl.Name(), err)
	}
	return nil
}

func (s *scene) Resize(width, height int) error {
	if err := s.r.Resize(width, height); err != nil {
		return fmt.Errorf("failed to resize scene %q: %w", s.name, err)
	}
	if s.cam.Resize(width, height) {
		common.Logger().Debug("projection updated", "scene", s.name, "width", width, "height", height)
	}
	return nil
}

func (s *scene) DrawCalls() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}

	viewProjection := s.cam.ViewProjectionMatrix()
	for _, obj := range s.objects {
		if !obj.Enabled() {
			continue
		}
		if err := s.drawObject(obj, viewProjection); err != nil {
			return fmt.Errorf("failed to draw %q: %w", obj.Name(), err)
		}
	}
	return nil
}

// drawObject writes the object's MVP and color into its own uniform buffer and records its draw.
// Caller must hold the mutex.
func (s *scene) drawObject(obj game_object.GameObject, viewProjection common.Mat4) error {
	u := obj.Uniform(viewProjection)
	bgp := obj.BindGroupProvider()

	s.writePool = append(s.writePool[:0],
		bind_group_provider.BufferWrite{
			Provider: bgp,
			Binding:  s.mvpLocation.Binding,
			Offset:   s.mvpLocation.Offset,
			Data:     game_object.MarshalMatrix(u.MVP),
		},
		bind_group_provider.BufferWrite{
			Provider: bgp,
			Binding:  s.colorLocation.Binding,
			Offset:   s.colorLocation.Offset,
			Data:     game_object.MarshalColor(u.Color),
		},
	)
	s.r.WriteBuffers(s.writePool)

	s.drawBindGroupsPool[0] = bgp
	return s.r.DrawCall(PipelineKey, obj.Model().MeshProvider(), s.drawBindGroupsPool)
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	released := make(map[model.Model]bool, len(s.objects))
	for _, obj := range s.objects {
		obj.BindGroupProvider().Release()
		mdl := obj.Model()
		if mdl == nil || released[mdl] {
			continue
		}
		if mesh := mdl.MeshProvider(); mesh != nil {
			mesh.Release()
		}
		released[mdl] = true
	}
	s.initialized = false
}
