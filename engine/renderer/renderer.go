package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-primitives/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	viewport common.Viewport

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	clearColor           common.Color
}

// Renderer is the high-level rendering API. It caches registered pipelines by key, tracks the
// surface size and forwards GPU work to a RendererBackend.
//
// A frame is BeginFrame, any number of DrawCall, EndFrame, then Present. A frame that fails
// part way is ended with DiscardFrame instead of Present.
type Renderer interface {
	// Pipeline retrieves a registered Pipeline.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline, or nil if not registered
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: pipelines keyed by Pipeline.Key
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines validates each pipeline, creates its GPU pipeline and caches it under its key.
	// Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: the first validation or creation failure
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new size. A zero width or height (a minimised window)
	// leaves the surface configuration alone and records an empty Viewport, so nothing is drawn
	// until a real size arrives.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// Viewport returns the size of the last Resize.
	//
	// Returns:
	//   - common.Viewport: the surface size in pixels, empty while minimised
	Viewport() common.Viewport

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers uploads a mesh and stores its buffers and counts on provider.
	//
	// Parameters:
	//   - provider: the mesh provider
	//   - vertexData: raw vertex bytes
	//   - vertexCount: the number of vertices
	//   - indexData: raw index bytes, nil for a non-indexed mesh
	//   - indexCount: the number of indices
	//   - indexFormat: the index element format, wgpu.IndexFormatUndefined when not indexed
	//
	// Returns:
	//   - error: an error if the data is empty or a buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error

	// InitBindGroup creates the buffers and bind group described by descriptor on provider.
	//
	// Parameters:
	//   - provider: the provider that receives the resources
	//   - descriptor: the bind group layout to instantiate
	//
	// Returns:
	//   - error: an error if a GPU object could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers queues buffer writes, padding each to a multiple of four bytes.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface texture and clears color and depth.
	//
	// Returns:
	//   - error: an error if a frame is already in progress or the surface is unavailable
	BeginFrame() error

	// DrawCall records one draw with a registered pipeline. Meshes with an index buffer are drawn
	// indexed, all others draw their vertex count.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - meshProvider: the provider holding the mesh buffers
	//   - bindGroups: providers bound to groups 0..n-1 in order
	//
	// Returns:
	//   - error: ErrPipelineNotRegistered, ErrNoFrame, or a backend error
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the frame's commands.
	//
	// Returns:
	//   - error: ErrNoFrame or a submission error
	EndFrame() error

	// Present shows the submitted frame.
	Present()

	// DiscardFrame releases whatever the current frame still holds without presenting it, so the
	// next BeginFrame can acquire a new surface texture.
	DiscardFrame()

	// Release releases every registered pipeline and the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given window. The surface is configured at the
// window's current size.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - w: the window providing the surface
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the backend could not be created or the surface configured
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		sampleCount:   MSAA4x,
		clearColor:    common.Black,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			desc := w.SurfaceDescriptor()
			if desc == nil {
				return nil, errors.New("window has no surface descriptor")
			}
			b, err := newWGPURendererBackend(desc, r.forceFallbackAdapter, r.sampleCount)
			if err != nil {
				return nil, fmt.Errorf("failed to create wgpu backend: %w", err)
			}
			r.backend = b
		default:
			return nil, fmt.Errorf("unsupported renderer backend type %d", backendType)
		}
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)
	if err := r.Resize(w.Width(), w.Height()); err != nil {
		r.backend.Release()
		return nil, err
	}

	common.Logger().Info("renderer created",
		"backend", backendType,
		"msaa", uint32(r.sampleCount),
		"width", w.Width(),
		"height", w.Height())
	return r, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		if p == nil {
			return errors.New("cannot register a nil pipeline")
		}
		if _, ok := r.pipelineCache[p.Key()]; ok {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("failed to validate pipeline %s: %w", p.Key(), err)
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %s: %w", p.Key(), err)
		}
		r.pipelineCache[p.Key()] = p
		common.Logger().Debug("pipeline registered", "key", p.Key())
	}
	return nil
}

func (r *renderer) Resize(width, height int) error {
	vp := common.Viewport{Width: width, Height: height}

	r.mu.Lock()
	defer r.mu.Unlock()
	if vp.Empty() {
		common.Logger().Debug("surface minimised", "width", width, "height", height)
		r.viewport = common.Viewport{}
		return nil
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("failed to configure surface %dx%d: %w", width, height, err)
	}
	r.viewport = vp
	return nil
}

func (r *renderer) Viewport() common.Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error {
	if len(vertexData) == 0 || vertexCount == 0 {
		return fmt.Errorf("mesh %s has no vertex data", provider.Label())
	}
	if len(indexData) > 0 && indexFormat == wgpu.IndexFormatUndefined {
		return fmt.Errorf("mesh %s has index data without an index format", provider.Label())
	}
	return r.backend.InitMeshBuffers(provider, vertexData, vertexCount, indexData, indexCount, indexFormat)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	padded := make([]bind_group_provider.BufferWrite, len(writes))
	for i, w := range writes {
		w.Data = w.PaddedData()
		padded[i] = w
	}
	r.backend.WriteBuffers(padded)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, ok := r.pipelineCache[pipelineKey]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrPipelineNotRegistered, pipelineKey)
	}
	return r.backend.DrawCall(p, meshProvider, bindGroups)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) DiscardFrame() {
	r.backend.DiscardFrame()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}
