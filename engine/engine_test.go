package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/profiler"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer"
	"github.com/Carmen-Shannon/oxy-primitives/engine/scene"
	"github.com/Carmen-Shannon/oxy-primitives/engine/window"
)

// fakeWindow runs a scripted event loop: each step is one batch of events followed by the
// update callback.
type fakeWindow struct {
	window.Window

	onUpdate  func()
	onResize  func(width, height int)
	onRefresh func()

	steps  []func(w *fakeWindow)
	closed bool
}

func (w *fakeWindow) SetUpdateCallback(cb func())                  { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetRefreshCallback(cb func())                 { w.onRefresh = cb }
func (w *fakeWindow) Title() string                                { return "fake" }
func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for _, step := range w.steps {
		if w.closed {
			return
		}
		step(w)
		w.onUpdate()
	}
}

// fakeRenderer records the frame calls the engine makes. Resize mirrors the real renderer: an
// empty size is recorded as an empty viewport.
type fakeRenderer struct {
	renderer.Renderer

	viewport common.Viewport
	calls    []string
	beginErr error
	endErr   error
}

func (r *fakeRenderer) Resize(width, height int) error {
	vp := common.Viewport{Width: width, Height: height}
	if vp.Empty() {
		vp = common.Viewport{}
	}
	r.viewport = vp
	return nil
}
func (r *fakeRenderer) Viewport() common.Viewport { return r.viewport }
func (r *fakeRenderer) BeginFrame() error {
	r.calls = append(r.calls, "begin")
	return r.beginErr
}
func (r *fakeRenderer) EndFrame() error {
	r.calls = append(r.calls, "end")
	return r.endErr
}
func (r *fakeRenderer) Present()      { r.calls = append(r.calls, "present") }
func (r *fakeRenderer) DiscardFrame() { r.calls = append(r.calls, "discard") }

type fakeScene struct {
	scene.Scene

	name    string
	r       *fakeRenderer
	drawErr error
	panics  bool
	resizes [][2]int
}

func (s *fakeScene) Name() string                { return s.name }
func (s *fakeScene) Renderer() renderer.Renderer { return s.r }
func (s *fakeScene) Resize(width, height int) error {
	s.resizes = append(s.resizes, [2]int{width, height})
	return s.r.Resize(width, height)
}
func (s *fakeScene) DrawCalls() error {
	if s.panics {
		panic("device lost")
	}
	s.r.calls = append(s.r.calls, "draw "+s.name)
	return s.drawErr
}

func newFakes() (*fakeWindow, *fakeRenderer) {
	return &fakeWindow{}, &fakeRenderer{viewport: common.Viewport{Width: 800, Height: 800}}
}

func TestRunWithoutWindow(t *testing.T) {
	if err := NewEngine().Run(); !errors.Is(err, ErrNoWindow) {
		t.Errorf("Run() = %v, want ErrNoWindow", err)
	}
}

func TestRunDrawsOnlyWhenDirty(t *testing.T) {
	w, r := newFakes()
	w.steps = []func(*fakeWindow){
		func(*fakeWindow) {},
		func(*fakeWindow) {},
		func(w *fakeWindow) { w.onRefresh() },
		func(*fakeWindow) {},
		func(w *fakeWindow) { w.onResize(1024, 768) },
	}
	s := &fakeScene{name: "a", r: r}
	e := NewEngine(WithWindow(w), WithScene(0, s))

	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	got := strings.Join(r.calls, ",")
	frame := "begin,draw a,end,present"
	want := strings.Join([]string{frame, frame, frame}, ",")
	if got != want {
		t.Errorf("calls = %s, want first frame, refresh and resize only: %s", got, want)
	}
	if len(s.resizes) != 1 || s.resizes[0] != [2]int{1024, 768} {
		t.Errorf("scene resizes = %v", s.resizes)
	}
}

func TestScenesDrawnInKeyOrder(t *testing.T) {
	w, r := newFakes()
	e := NewEngine(WithWindow(w))
	e.AddScene(10, &fakeScene{name: "overlay", r: r})
	e.AddScene(-1, &fakeScene{name: "background", r: r})
	e.AddScene(3, &fakeScene{name: "world", r: r})

	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	want := "begin,draw background,draw world,draw overlay,end,present"
	if got := strings.Join(r.calls, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
}

func TestMinimisedWindowKeepsFramePending(t *testing.T) {
	w, r := newFakes()
	w.steps = []func(*fakeWindow){
		func(w *fakeWindow) { w.onResize(0, 0) },
		func(w *fakeWindow) { w.onRefresh() },
		func(*fakeWindow) {},
		func(w *fakeWindow) { w.onResize(800, 800) },
	}
	s := &fakeScene{name: "a", r: r}
	e := NewEngine(WithWindow(w), WithScene(0, s))
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	frame := "begin,draw a,end,present"
	if got := strings.Join(r.calls, ","); got != frame+","+frame {
		t.Errorf("calls = %s, want the first frame and one after the restore", got)
	}
	if len(s.resizes) != 2 {
		t.Errorf("scene resizes = %v", s.resizes)
	}
}

func TestFrameErrorsStopTheLoop(t *testing.T) {
	drawErr := errors.New("lost uniform buffer")
	beginErr := errors.New("surface outdated")
	endErr := errors.New("encoder invalid")
	tests := []struct {
		name      string
		scene     func(r *fakeRenderer) *fakeScene
		beginErr  error
		endErr    error
		wantErr   error
		wantMsg   string
		wantCalls string
	}{
		{
			name:      "draw error",
			scene:     func(r *fakeRenderer) *fakeScene { return &fakeScene{name: "a", r: r, drawErr: drawErr} },
			wantErr:   drawErr,
			wantCalls: "begin,draw a,discard",
		},
		{
			name:      "begin error",
			scene:     func(r *fakeRenderer) *fakeScene { return &fakeScene{name: "a", r: r} },
			beginErr:  beginErr,
			wantErr:   beginErr,
			wantCalls: "begin",
		},
		{
			name:      "end error",
			scene:     func(r *fakeRenderer) *fakeScene { return &fakeScene{name: "a", r: r} },
			endErr:    endErr,
			wantErr:   endErr,
			wantCalls: "begin,draw a,end,discard",
		},
		{
			name:      "panic",
			scene:     func(r *fakeRenderer) *fakeScene { return &fakeScene{name: "a", r: r, panics: true} },
			wantMsg:   "render panic: device lost",
			wantCalls: "begin,discard",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newFakes()
			r.beginErr = tt.beginErr
			r.endErr = tt.endErr
			stepsRun := 0
			w.steps = []func(*fakeWindow){
				func(w *fakeWindow) { stepsRun++; w.onRefresh() },
			}
			e := NewEngine(WithWindow(w), WithScene(0, tt.scene(r)))

			err := e.Run()
			if err == nil {
				t.Fatal("Run() = nil, want the frame error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() = %v, want wrapping %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Run() = %q, want %q", err, tt.wantMsg)
			}
			if !w.closed {
				t.Error("window was not closed")
			}
			if stepsRun != 0 {
				t.Error("event loop kept running after the first frame failed")
			}
			if got := strings.Join(r.calls, ","); got != tt.wantCalls {
				t.Errorf("calls = %s, want %s", got, tt.wantCalls)
			}
		})
	}
}

func TestSceneRegistry(t *testing.T) {
	_, r := newFakes()
	a := &fakeScene{name: "a", r: r}
	e := NewEngine(WithScene(1, a))
	e.AddScene(2, &fakeScene{name: "b", r: r})

	if e.Scene(1) != a || e.Scene(3) != nil {
		t.Error("Scene returned the wrong scene")
	}
	scenes := e.Scenes()
	delete(scenes, 1)
	if e.Scene(1) == nil {
		t.Error("Scenes did not return a copy")
	}
	e.RemoveScene(1)
	if e.Scene(1) != nil || len(e.Scenes()) != 1 {
		t.Error("RemoveScene did not remove the scene")
	}
}

func TestWithProfiler(t *testing.T) {
	p := profiler.NewProfiler(time.Minute)
	if e := NewEngine(WithProfiler(p)).(*engine); e.profiler != p {
		t.Error("WithProfiler did not install the profiler")
	}
	if e := NewEngine(WithProfiler(nil)).(*engine); e.profiler == nil {
		t.Error("WithProfiler(nil) removed the default profiler")
	}
}

func TestProfilerToggle(t *testing.T) {
	e := NewEngine(WithProfiling(true)).(*engine)
	if !e.profilingEnabled {
		t.Error("WithProfiling(true) did not enable profiling")
	}
	e.DisableProfiler()
	if e.profilingEnabled {
		t.Error("DisableProfiler did not disable profiling")
	}
	e.EnableProfiler()
	if !e.profilingEnabled {
		t.Error("EnableProfiler did not enable profiling")
	}
}
