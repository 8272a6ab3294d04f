package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/profiler"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer"
	"github.com/Carmen-Shannon/oxy-primitives/engine/scene"
	"github.com/Carmen-Shannon/oxy-primitives/engine/window"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// engine implements the Engine interface.
// Everything runs on the goroutine that called Run, which must be the one that created the window.
type engine struct {
	mu *sync.Mutex

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	scenes map[int]scene.Scene

	dirty   bool
	running bool
	err     error
}

// Engine owns the window event loop and draws its scenes when the window needs a new frame:
// the first frame, after a resize and on refresh requests. Nothing animates, so idle time is
// spent blocked on window events.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// AddScene registers a scene at the given z-index key.
	// Scenes are drawn in ascending key order within one render pass.
	//
	// Parameters:
	//   - key: the z-index determining draw order (lower draws first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Invalidate marks the frame dirty so it is redrawn after the next batch of events.
	Invalidate()

	// Run draws the first frame, then processes window events until the window closes or a
	// frame fails. Blocks.
	//
	// Returns:
	//   - error: the frame failure that stopped the loop, nil on a normal close
	Run() error

	// Quit closes the window, which ends Run. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options and hooks it into the
// window's resize, refresh and update callbacks.
//
// Parameters:
//   - options: functional options for engine configuration (window, scenes, profiling)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:       &sync.Mutex{},
		scenes:   make(map[int]scene.Scene),
		profiler: profiler.NewProfiler(profiler.DefaultInterval),
		dirty:    true,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.handleResize)
		e.window.SetRefreshCallback(e.Invalidate)
		e.window.SetUpdateCallback(e.handleUpdate)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}

	e.mu.Lock()
	e.running = true
	e.err = nil
	e.mu.Unlock()

	common.Logger().Info("engine started", "title", e.window.Title(), "scenes", len(e.scenes))
	e.handleUpdate()
	e.window.ProcessMessages()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	common.Logger().Info("engine stopped", "error", e.err)
	return e.err
}

func (e *engine) Quit() {
	if e.window == nil {
		return
	}
	if err := e.window.Close(); err != nil {
		common.Logger().Warn("failed to close window", "error", err)
	}
}

func (e *engine) Invalidate() {
	e.mu.Lock()
	e.dirty = true
	e.mu.Unlock()
}

// handleResize forwards a framebuffer size change to every scene and marks the frame dirty.
func (e *engine) handleResize(width, height int) {
	for _, s := range e.orderedScenes() {
		if err := s.Resize(width, height); err != nil {
			e.fail(fmt.Errorf("failed to resize scene %q: %w", s.Name(), err))
			return
		}
	}
	e.Invalidate()
}

// handleUpdate runs after each batch of window events and draws a frame if one is pending.
func (e *engine) handleUpdate() {
	e.mu.Lock()
	pending := e.dirty && e.err == nil
	e.mu.Unlock()
	if !pending {
		return
	}

	drawn, err := e.renderFrame()
	if err != nil {
		e.fail(err)
		return
	}
	if !drawn {
		return
	}

	e.mu.Lock()
	e.dirty = false
	profile := e.profilingEnabled
	e.mu.Unlock()
	if profile {
		e.profiler.Tick()
	}
}

// fail records the first error and closes the window.
func (e *engine) fail(err error) {
	e.mu.Lock()
	if e.err == nil {
		e.err = err
	}
	e.mu.Unlock()
	common.Logger().Error("render loop stopped", "error", err)
	e.Quit()
}

// renderFrame draws all scenes in ascending z-index order in one pass on the first scene's
// renderer. A minimised surface draws nothing and leaves the frame pending. A frame that fails
// after BeginFrame is discarded, never presented.
//
// Returns:
//   - bool: true if a frame was presented
//   - error: the first frame failure, or a recovered panic
func (e *engine) renderFrame() (drawn bool, err error) {
	var open renderer.Renderer
	defer func() {
		if rec := recover(); rec != nil {
			drawn = false
			err = fmt.Errorf("render panic: %v", rec)
		}
		if err != nil && open != nil {
			open.DiscardFrame()
		}
	}()

	scenes := e.orderedScenes()
	if len(scenes) == 0 {
		return false, nil
	}
	r := scenes[0].Renderer()
	if r.Viewport().Empty() {
		return false, nil
	}

	if err := r.BeginFrame(); err != nil {
		return false, fmt.Errorf("failed to begin frame: %w", err)
	}
	open = r
	for _, s := range scenes {
		if err := s.DrawCalls(); err != nil {
			return false, fmt.Errorf("failed to draw scene %q: %w", s.Name(), err)
		}
	}
	if err := r.EndFrame(); err != nil {
		return false, fmt.Errorf("failed to end frame: %w", err)
	}
	r.Present()
	return true, nil
}

// orderedScenes returns the registered scenes sorted by z-index.
func (e *engine) orderedScenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	scenes := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		scenes = append(scenes, e.scenes[k])
	}
	return scenes
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = true
	e.mu.Unlock()
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = false
	e.mu.Unlock()
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	e.scenes[key] = s
	e.dirty = true
	e.mu.Unlock()
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	delete(e.scenes, key)
	e.dirty = true
	e.mu.Unlock()
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
