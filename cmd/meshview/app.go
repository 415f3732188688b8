package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
)

// App owns the window, the GL renderer and the viewer.
type App struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	viewer   *viewer.Viewer
}

// NewApp opens the window and builds the renderer and viewer.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{config: cfg}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      "MeshView",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:     int32(width),
		Height:    int32(height),
		NoiseSeed: cfg.SSAO.NoiseSeed,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New(a.window)
	a.viewer = viewer.New(cfg, a.renderer, nativeDialogs{})
	a.viewer.Start(int32(width), int32(height))

	logger.Info("viewer initialized successfully")
	return a, nil
}

// Run drives the frame loop until the window closes.
func (a *App) Run() {
	a.running = true

	frameCount := 0
	fps := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")
	a.window.SetTitle(a.viewer.Title(fps))

	for a.running {
		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}

		for _, event := range a.input.Events() {
			switch event.Type {
			case input.EventWindowResize:
				w, h := a.window.DrawableSize()
				a.viewer.Resize(int32(w), int32(h))
			case input.EventKeyDown:
				if event.Key == input.KeyEscape {
					a.running = false
				}
			}
			a.viewer.HandleEvent(event)
		}

		// 2. Render
		a.viewer.Frame()

		// 3. Present (swap buffers)
		a.window.SwapBuffers()

		// FPS counter
		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps = int(float64(frameCount) / elapsed.Seconds())
			a.window.SetTitle(a.viewer.Title(fps))
			logger.Debug("fps", zap.Int("count", fps))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// Close cleans up viewer resources.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
