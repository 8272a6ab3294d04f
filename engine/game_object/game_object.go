package game_object

import (
	"cmp"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/model"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/bind_group_provider"
)

type gameObject struct {
	id        uint64
	name      string
	enabled   atomic.Bool
	mdl       model.Model
	position  [3]float32
	rotationY float32
	color     common.Color

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// GameObject defines the interface for a static scene entity: a Model placed with a fixed
// translation and Y rotation and drawn with one flat color.
// The transform never accumulates; ModelMatrix is rebuilt from the stored values on every call.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name, used for GPU labels and log lines.
	//
	// Returns:
	//   - string: the object name
	Name() string

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Position returns the world-space translation of the object.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// RotationY returns the rotation about the +Y axis in radians.
	//
	// Returns:
	//   - float32: the Y rotation in radians
	RotationY() float32

	// Color returns the flat color the object is drawn with.
	//
	// Returns:
	//   - common.Color: the RGBA color
	Color() common.Color

	// ModelMatrix returns translate(position) * rotateY(rotation).
	//
	// Returns:
	//   - [16]float32: the column-major model matrix
	ModelMatrix() [16]float32

	// Uniform builds the object's uniform block for the given view-projection matrix.
	//
	// Parameters:
	//   - viewProjection: the camera's projection * view matrix
	//
	// Returns:
	//   - GPUObjectUniform: MVP = viewProjection * ModelMatrix and the object color
	Uniform(viewProjection [16]float32) GPUObjectUniform

	// BindGroupProvider returns the provider holding this object's uniform buffer and bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects are enabled and red by default.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		color: common.Red,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	if obj.name == "" && obj.mdl != nil {
		obj.name = obj.mdl.Name()
	}
	if obj.bindGroupProvider == nil {
		obj.bindGroupProvider = bind_group_provider.NewBindGroupProvider(cmp.Or(obj.name, "object") + "_uniform")
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Position() (x, y, z float32) {
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) RotationY() float32 {
	return g.rotationY
}

func (g *gameObject) Color() common.Color {
	return g.color
}

func (g *gameObject) ModelMatrix() [16]float32 {
	return common.Mul4(
		common.Translate(g.position[0], g.position[1], g.position[2]),
		common.RotateY(g.rotationY),
	)
}

func (g *gameObject) Uniform(viewProjection [16]float32) GPUObjectUniform {
	return GPUObjectUniform{
		MVP:   common.Mul4(viewProjection, g.ModelMatrix()),
		Color: g.color,
	}
}

func (g *gameObject) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return g.bindGroupProvider
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}
