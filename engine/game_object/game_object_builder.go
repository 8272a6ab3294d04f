package game_object

import (
	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/model"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer/bind_group_provider"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the name of the GameObject. Defaults to the model name.
//
// Parameters:
//   - name: the object name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel sets the Model for this GameObject.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithPosition sets the world-space translation of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithRotationY sets the rotation about +Y in degrees.
//
// Parameters:
//   - degrees: the Y rotation angle in degrees
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Y rotation
func WithRotationY(degrees float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationY = common.Radians(degrees)
	}
}

// WithColor sets the flat draw color.
//
// Parameters:
//   - c: the RGBA color
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the color
func WithColor(c common.Color) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.color = c
	}
}

// WithBindGroupProvider overrides the provider that holds the object's uniform buffer.
//
// Parameters:
//   - provider: the BindGroupProvider to use
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.bindGroupProvider = provider
	}
}
