// Package viewer implements the mesh viewer: the command surface that loads
// assets and edits the render state, the camera gestures and the frame loop
// that drives the renderer.
//
// A Viewer is owned by the goroutine that runs the frame loop, which is also
// the goroutine holding the GL context. Every method must be called from
// that goroutine. Other goroutines hand work over with Post; queued commands
// run at the start of the next Frame.
package viewer

import (
	"fmt"
	"image"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/pipeline"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
)

// Renderer is the GPU side of the viewer.
type Renderer interface {
	Render(st *pipeline.State, f pipeline.Frame) int
	Resize(width, height int32) error
	NoiseSize() int
	SetMesh(m *mesh.Mesh)
	LoadImage(res pipeline.Resource, img *image.RGBA) error
	LoadCubemap(res pipeline.Resource, c *texture.Cubemap) error
	Reload() error
	ReadPixels() ([]byte, int, int)
}

// Command is work queued for the owning goroutine.
type Command func(v *Viewer)

// commandQueueSize bounds the commands waiting for the next frame.
const commandQueueSize = 16

// Viewer holds the camera, the render state and the loaded model.
type Viewer struct {
	cfg      *config.Config
	camera   *camera.Camera
	state    pipeline.State
	renderer Renderer
	dialogs  Dialogs
	shots    *debug.ScreenshotCapture
	commands chan Command

	model     string
	mesh      *mesh.Mesh
	width     int32
	height    int32
	capture   bool
	lastFrame int
	selected  int // Index into tunables
}

// New creates a viewer over r with the settings of cfg. Nothing is loaded
// until Start.
func New(cfg *config.Config, r Renderer, d Dialogs) *Viewer {
	c := camera.New(cameraConfig(cfg.Camera))
	c.SetProjection(cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far)

	return &Viewer{
		cfg:      cfg,
		camera:   c,
		state:    stateFromConfig(cfg),
		renderer: r,
		dialogs:  d,
		shots:    debug.NewScreenshotCapture(cfg.Assets.ScreenshotDir, "meshview"),
		commands: make(chan Command, commandQueueSize),
	}
}

// Start sizes the viewport and loads the startup assets. Asset failures are
// logged and leave the default textures bound. A startup model that fails
// to load falls back to the sphere.
func (v *Viewer) Start(width, height int32) {
	v.Resize(width, height)

	if err := v.LoadModel(v.cfg.Assets.Model); err != nil && v.cfg.Assets.Model != mesh.SpherePath {
		if err := v.LoadModel(mesh.SpherePath); err != nil {
			logger.Error("Failed to build fallback sphere", zap.Error(err))
		}
	}

	a := v.cfg.Assets
	for _, load := range []struct {
		path string
		fn   func(string) error
	}{
		{a.SpecularMap, v.LoadSpecularMap},
		{a.DiffuseMap, v.LoadDiffuseMap},
		{a.WeightedSpecular, v.LoadWeightedSpecularMap},
		{a.BRDFLUT, v.LoadBRDFLUT},
		{a.ColorMap, v.LoadColorMap},
		{a.RoughnessMap, v.LoadRoughnessMap},
		{a.MetalnessMap, v.LoadMetalnessMap},
	} {
		if load.path == "" {
			continue
		}
		// Loaders log failures and leave the default texture bound.
		_ = load.fn(load.path)
	}
}

// Post queues cmd for the next frame. It never blocks; a full queue drops
// the command and reports false.
func (v *Viewer) Post(cmd Command) bool {
	select {
	case v.commands <- cmd:
		return true
	default:
		logger.Warn("Command queue full, dropping command")
		return false
	}
}

func (v *Viewer) drain() {
	for {
		select {
		case cmd := <-v.commands:
			cmd(v)
		default:
			return
		}
	}
}

// Frame runs the queued commands and renders one frame. It returns the
// number of passes that ran.
func (v *Viewer) Frame() int {
	v.drain()
	f := pipeline.FrameFrom(v.camera, v.renderer.NoiseSize())
	v.lastFrame = v.renderer.Render(&v.state, f)
	if v.capture {
		v.capture = false
		v.saveScreenshot()
	}
	return v.lastFrame
}

// Resize updates the viewport and regenerates every viewport-sized
// resource.
func (v *Viewer) Resize(width, height int32) {
	v.width, v.height = max(width, 1), max(height, 1)
	v.camera.SetViewport(0, 0, v.width, v.height)
	if err := v.renderer.Resize(v.width, v.height); err != nil {
		logger.Warn("Resize left render targets incomplete",
			zap.Int32("width", v.width),
			zap.Int32("height", v.height),
			zap.Error(err))
	}
}

// Camera returns the orbit camera.
func (v *Viewer) Camera() *camera.Camera { return v.camera }

// State returns the current render state.
func (v *Viewer) State() pipeline.State { return v.state }

// Mesh returns the loaded mesh.
func (v *Viewer) Mesh() *mesh.Mesh { return v.mesh }

// Title formats the window title for the current model.
func (v *Viewer) Title(fps int) string {
	name := "sphere"
	if v.model != mesh.SpherePath && v.model != "" {
		name = filepath.Base(v.model)
	}
	mode := v.state.Material.Shading.String()
	if v.state.SSAOEnabled {
		mode = fmt.Sprintf("ssao %s/%s", v.state.SSAO.Algorithm, v.state.RenderMode)
	}
	faces, vertices := 0, 0
	if v.mesh != nil {
		faces, vertices = v.mesh.FaceCount(), v.mesh.VertexCount()
	}
	param, value := v.Tunable()
	return fmt.Sprintf("MeshView - %s - %d faces, %d vertices - %s - %s %s - %d fps",
		name, faces, vertices, mode, param, value, fps)
}

// ReloadShaders rebuilds every program. Programs that fail keep their
// previous build.
func (v *Viewer) ReloadShaders() error {
	if err := v.renderer.Reload(); err != nil {
		return err
	}
	logger.Info("Shader programs reloaded")
	return nil
}

// Screenshot saves the next rendered frame.
func (v *Viewer) Screenshot() {
	v.capture = true
}

func (v *Viewer) saveScreenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("Screenshot failed", zap.Error(err))
		return
	}
	logger.Info("Screenshot saved", zap.String("path", path))
}

// SaveConfig stores the current settings into the config and writes it.
func (v *Viewer) SaveConfig() error {
	v.storeSettings()
	if err := v.cfg.Save(); err != nil {
		logger.Warn("Failed to save config", zap.Error(err))
		return err
	}
	logger.Info("Config saved", zap.String("path", v.cfg.Path))
	return nil
}
