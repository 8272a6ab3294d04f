package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing.
// WebGPU guarantees support for 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8x multisample anti-aliasing. Adapter-dependent.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16x multisample anti-aliasing. Adapter-dependent.
	MSAA16x MSAASampleCount = 16
)

// DepthFormat is the depth attachment format shared by the render pass and every pipeline.
const DepthFormat = wgpu.TextureFormatDepth24Plus

var (
	// ErrNoFrame is returned when a draw or frame end is issued outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("no frame in progress")

	// ErrFrameInProgress is returned by BeginFrame while a previous frame has not been presented.
	ErrFrameInProgress = errors.New("previous frame not yet presented")

	// ErrPipelineNotRegistered is returned when drawing with a pipeline key the Renderer does not know.
	ErrPipelineNotRegistered = errors.New("pipeline not registered")
)

// RendererBackend is the GPU API implementation behind a Renderer. The Renderer owns pipeline
// bookkeeping and argument checks; the backend owns every GPU object.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and the depth and MSAA attachments for a surface size.
	//
	// Parameters:
	//   - width: the surface width in pixels, non-zero
	//   - height: the surface height in pixels, non-zero
	//
	// Returns:
	//   - error: an error if an attachment could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode
	SetPresentMode(mode PresentMode)

	// SetClearColor selects the color the render pass clears to.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// RegisterRenderPipeline creates the shader modules, bind group layouts, pipeline layout and
	// render pipeline for p and stores the result on p.
	//
	// Parameters:
	//   - p: a validated Pipeline
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and optional index data and stores the buffers on provider.
	//
	// Parameters:
	//   - provider: the mesh provider that receives the buffers
	//   - vertexData: raw vertex bytes
	//   - vertexCount: the number of vertices in vertexData
	//   - indexData: raw index bytes, nil for a non-indexed mesh
	//   - indexCount: the number of indices in indexData
	//   - indexFormat: the element format of indexData
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error

	// InitBindGroup creates the bind group layout, any missing buffers and the bind group described
	// by descriptor and stores them on provider.
	//
	// Parameters:
	//   - provider: the provider that receives the resources
	//   - descriptor: the bind group layout to instantiate
	//
	// Returns:
	//   - error: an error if a GPU object could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers queues the given writes. Writes whose binding has no buffer are skipped.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface texture and begins the main render pass.
	//
	// Returns:
	//   - error: ErrFrameInProgress or a surface acquisition error
	BeginFrame() error

	// DrawCall binds p, the bind groups and the mesh buffers and records one draw.
	//
	// Parameters:
	//   - p: a registered Pipeline
	//   - meshProvider: the provider holding the vertex and optional index buffer
	//   - bindGroups: providers bound to groups 0..n-1 in order
	//
	// Returns:
	//   - error: ErrNoFrame when called outside a frame
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the recorded commands.
	//
	// Returns:
	//   - error: ErrNoFrame when called outside a frame, or a submission error
	EndFrame() error

	// Present presents the acquired surface texture. A no-op when no texture is held.
	Present()

	// DiscardFrame abandons the current frame: an open render pass is ended, the encoder is
	// dropped without submitting and the surface texture is released without presenting.
	// A no-op when no frame is held.
	DiscardFrame()

	// Release releases every GPU object owned by the backend.
	Release()
}
