// Command primitives opens a window and draws a yellow triangle above a red box through a fixed
// perspective camera. Escape or closing the window exits.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine"
	"github.com/Carmen-Shannon/oxy-primitives/engine/camera"
	"github.com/Carmen-Shannon/oxy-primitives/engine/renderer"
	"github.com/Carmen-Shannon/oxy-primitives/engine/scene"
	"github.com/Carmen-Shannon/oxy-primitives/engine/window"
)

func main() {
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(filepath.Base(os.Args[0])); err != nil {
		common.Logger().Error("primitives failed", "error", err)
		os.Exit(1)
	}
}

func run(title string) error {
	w, err := window.NewWindow(window.WithTitle(title), window.WithSize(800, 800))
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			common.Logger().Warn("failed to close window", "error", err)
		}
	}()

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, w)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Release()

	s := scene.NewScene("primitives", camera.NewCamera(), r, scene.WithObjects(scene.DefaultObjects()...))
	defer s.Release()
	if err := s.Init(); err != nil {
		return fmt.Errorf("failed to initialize scene: %w", err)
	}
	if err := s.Resize(w.Width(), w.Height()); err != nil {
		return err
	}

	e := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithScene(0, s),
		engine.WithProfiling(os.Getenv("OXY_PROFILE") != ""),
	)
	return e.Run()
}
