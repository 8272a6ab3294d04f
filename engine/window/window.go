package window

import (
	"cmp"
	"fmt"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides a platform window that a renderer can draw into, plus the few events the
// engine reacts to. Escape closes the window.
type Window interface {
	// SetUpdateCallback sets the function called after each batch of processed events.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRefreshCallback sets the function called when the window contents must be redrawn,
	// for example after being uncovered.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetRefreshCallback(callback func())

	// SurfaceDescriptor returns a platform-appropriate wgpu.SurfaceDescriptor created by the
	// wgpuglfw bridge.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil if the window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Title returns the window title.
	//
	// Returns:
	//   - string: the title
	Title() string

	// IsRunning returns true while the window is open.
	//
	// Returns:
	//   - bool: true if the window is running, false once closed
	IsRunning() bool

	// Close destroys the window and releases platform resources. Closing twice is a no-op. Called from inside a callback
	// while ProcessMessages runs, it only requests the close; the window is destroyed when the
	// loop returns.
	//
	// Returns:
	//   - error: error if the window was never initialized
	Close() error

	// ProcessMessages runs the event loop until the window is closed. It blocks waiting for
	// events and calls the update callback after each wake-up.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	// Resize limits; zero means unbounded
	minWidth, minHeight int
	maxWidth, maxHeight int

	width  int
	height int

	resizable bool

	processing   bool
	closePending bool
	closed       bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onRefresh func()
}

var _ Window = &engineWindow{}

// DefaultTitle is used when no title option is given.
const DefaultTitle = "oxy-primitives"

// NewWindow creates and shows a window. The default is a resizable 800x800 window.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		width:     800,
		height:    800,
		resizable: true,
	}
	for _, opt := range options {
		opt(w)
	}
	w.title = cmp.Or(w.title, DefaultTitle)

	if w.width <= 0 || w.height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", w.width, w.height)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	common.Logger().Info("window created", "title", w.title, "width", w.width, "height", w.height)
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetRefreshCallback(callback func()) {
	w.onRefresh = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	if w.closed {
		return nil
	}
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	if w.processing {
		w.closePending = true
		platformRequestClose(w)
		return nil
	}
	return w.destroy()
}

func (w *engineWindow) destroy() error {
	if err := platformCloseWindow(w); err != nil {
		return err
	}
	w.closed = true
	return nil
}

func (w *engineWindow) ProcessMessages() {
	w.processing = true
	for w.IsRunning() {
		if ok := platformProcessMessages(w); !ok {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
	w.processing = false

	if w.closePending {
		w.closePending = false
		if err := w.destroy(); err != nil {
			common.Logger().Warn("failed to close window", "error", err)
		}
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleResize records a framebuffer size change and forwards it.
func (w *engineWindow) handleResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// handleRefresh forwards a redraw request.
func (w *engineWindow) handleRefresh() {
	if w.onRefresh != nil {
		w.onRefresh()
	}
}
