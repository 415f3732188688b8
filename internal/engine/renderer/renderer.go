// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"math/rand"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/pipeline"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/shaders"
)

// Config holds renderer configuration.
type Config struct {
	Width    int32
	Height   int32
	Bindings pipeline.Bindings
	// NoiseSeed seeds the SSAO rotation noise.
	NoiseSeed int64
}

// Renderer owns the GL programs and resource set and executes frame plans.
type Renderer struct {
	config       Config
	programs     map[pipeline.Program]*shader.Program
	resources    *gpu.Set
	orchestrator *pipeline.Orchestrator
	depthFunc    pipeline.DepthFunc
	width        int32
	height       int32
}

// New creates a new renderer. A program that fails to build is returned as
// an error; the viewer cannot render without its base programs.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if cfg.Bindings == nil {
		cfg.Bindings = pipeline.DefaultBindings()
	}
	orch, err := pipeline.New(cfg.Bindings)
	if err != nil {
		return nil, err
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Disable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	r := &Renderer{
		config:       cfg,
		orchestrator: orch,
		depthFunc:    pipeline.DepthLess,
		width:        max(cfg.Width, 1),
		height:       max(cfg.Height, 1),
	}

	r.programs, err = compileAll(shaders.Programs())
	if err != nil {
		return nil, err
	}

	r.resources, err = gpu.NewSet(r.width, r.height, rand.New(rand.NewSource(cfg.NoiseSeed)))
	if err != nil {
		r.deletePrograms()
		return nil, fmt.Errorf("failed to create render targets: %w", err)
	}
	return r, nil
}

func compileAll(sources map[pipeline.Program]shader.Source) (map[pipeline.Program]*shader.Program, error) {
	programs := make(map[pipeline.Program]*shader.Program, len(sources))
	for name, src := range sources {
		p, err := shader.New(string(name), src)
		if err != nil {
			for _, built := range programs {
				built.Delete()
			}
			return nil, err
		}
		programs[name] = p
		logger.Debug("shader program created",
			zap.String("name", string(name)),
			zap.Uint32("program", p.ID()))
	}
	return programs, nil
}

// Reload rebuilds every program from the embedded sources. A program that
// fails keeps its previous build; the failures are returned together.
func (r *Renderer) Reload() error {
	var errs []error
	for name, src := range shaders.Programs() {
		p, err := shader.New(string(name), src)
		if err != nil {
			logger.Warn("Shader reload failed, keeping previous program",
				zap.String("program", string(name)),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if old, ok := r.programs[name]; ok {
			old.Delete()
		}
		r.programs[name] = p
	}
	return errors.Join(errs...)
}

// Render draws one frame and returns the number of passes executed.
func (r *Renderer) Render(st *pipeline.State, f pipeline.Frame) int {
	return r.orchestrator.Render(r, st, f)
}

// LastPasses returns the pass names of the last frame.
func (r *Renderer) LastPasses() []string {
	return r.orchestrator.LastPasses()
}

// Resize handles window resize and rebuilds the viewport-sized targets.
func (r *Renderer) Resize(width, height int32) error {
	r.width, r.height = max(width, 1), max(height, 1)
	err := r.resources.Resize(r.width, r.height)
	if err != nil {
		logger.Error("render targets incomplete after resize",
			zap.Int32("width", r.width),
			zap.Int32("height", r.height),
			zap.Error(err))
	}
	logger.Debug("renderer resized",
		zap.Int32("width", r.width),
		zap.Int32("height", r.height),
	)
	return err
}

// Size returns the output size.
func (r *Renderer) Size() (width, height int32) {
	return r.width, r.height
}

// NoiseSize returns the edge of the SSAO noise tile.
func (r *Renderer) NoiseSize() int {
	return r.resources.NoiseSize()
}

// SetMesh replaces the mesh buffers.
func (r *Renderer) SetMesh(m *mesh.Mesh) {
	r.resources.SetMesh(m)
}

// LoadImage uploads a decoded 2D map and binds it to res. The previous
// texture is kept when res is not a 2D resource.
func (r *Renderer) LoadImage(res pipeline.Resource, img *image.RGBA) error {
	if gpu.ResourceKind(res) != gpu.Kind2D {
		return fmt.Errorf("resource %s is not a 2d map", res)
	}
	upload := gpu.Upload2D
	if res == pipeline.ResBRDF {
		upload = gpu.UploadLUT
	}
	return r.bind(res, upload(img))
}

// LoadCubemap uploads six decoded faces and binds them to res.
func (r *Renderer) LoadCubemap(res pipeline.Resource, c *texture.Cubemap) error {
	if gpu.ResourceKind(res) != gpu.KindCube {
		return fmt.Errorf("resource %s is not a cubemap", res)
	}
	return r.bind(res, gpu.UploadCubemap(c))
}

func (r *Renderer) bind(res pipeline.Resource, tex gpu.Texture) error {
	if err := r.resources.SetTexture(res, tex); err != nil {
		tex.Delete()
		return err
	}
	return nil
}

// ReadPixels reads the default framebuffer as RGBA, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := int(r.width), int(r.height)
	pixels := make([]byte, w*h*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, r.width, r.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.resources.Destroy()
	r.deletePrograms()
}

func (r *Renderer) deletePrograms() {
	for _, p := range r.programs {
		p.Delete()
	}
	r.programs = nil
}
