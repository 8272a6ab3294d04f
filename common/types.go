// package common contains small value types and helpers shared by every engine package. They are plain data, not interface-wrapped structs.
package common

// Color is a linear RGBA color with components in [0, 1].
type Color [4]float32

var (
	// Black is opaque black, the default clear color.
	Black = Color{0, 0, 0, 1}
	// Red is opaque red, the default object color.
	Red = Color{1, 0, 0, 1}
)

// Viewport is a framebuffer size in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Empty reports whether either dimension is zero, as happens while a window is minimized.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Aspect returns width divided by height.
func (v Viewport) Aspect() float32 {
	return float32(v.Width) / float32(v.Height)
}
