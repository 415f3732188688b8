package gpu

import (
	"fmt"
	"math/rand"

	"github.com/Faultbox/meshview/internal/engine/framebuffer"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/pipeline"
)

// G-buffer, AO and blur target layouts.
var (
	GBufferSpec = framebuffer.Spec{
		Colors: []framebuffer.Format{framebuffer.RGBA8, framebuffer.RGB16F},
		Depth:  true,
	}
	AOSpec = framebuffer.Spec{Colors: []framebuffer.Format{framebuffer.R16F}}
)

// Set is every GPU object the frame draws with. It must be used from the
// thread that owns the GL context.
type Set struct {
	mesh *Buffers
	sky  *Buffers
	quad *Buffers

	assets      *Table // Loaded textures, owned
	attachments *Table // Render target textures, owned by the targets
	defaults    [2]Texture

	gbuffer  *framebuffer.Framebuffer
	ao       *framebuffer.Framebuffer
	blur     *framebuffer.Framebuffer
	noise    *NoiseTexture
	viewport ViewportSet
}

// NewSet creates the static geometry, default textures and viewport-sized
// targets for a width x height output.
func NewSet(width, height int32, rng *rand.Rand) (*Set, error) {
	s := &Set{
		sky:         NewSkybox(),
		quad:        NewQuad(),
		assets:      NewTable(),
		attachments: NewTable(),
		defaults:    [2]Texture{newDefault(Kind2D), newDefault(KindCube)},
		noise:       NewNoiseTexture(rng),
	}

	var err error
	if s.gbuffer, err = framebuffer.New("gbuffer", width, height, GBufferSpec); err != nil {
		s.Destroy()
		return nil, err
	}
	if s.ao, err = framebuffer.New("ao", width, height, AOSpec); err != nil {
		s.Destroy()
		return nil, err
	}
	if s.blur, err = framebuffer.New("blur", width, height, AOSpec); err != nil {
		s.Destroy()
		return nil, err
	}
	for _, r := range []Rebuildable{s.gbuffer, s.ao, s.blur, s.noise} {
		s.viewport.items = append(s.viewport.items, r)
	}
	if err := s.Resize(width, height); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// Resize rebuilds every viewport-sized resource and rebinds their textures.
func (s *Set) Resize(width, height int32) error {
	err := s.viewport.Resize(width, height)
	s.attachments.Set(pipeline.ResGAlbedo, Texture{ID: s.gbuffer.Texture(0)})
	s.attachments.Set(pipeline.ResGNormal, Texture{ID: s.gbuffer.Texture(1)})
	s.attachments.Set(pipeline.ResGDepth, Texture{ID: s.gbuffer.DepthTexture()})
	s.attachments.Set(pipeline.ResRawAO, Texture{ID: s.ao.Texture(0)})
	s.attachments.Set(pipeline.ResBlurAO, Texture{ID: s.blur.Texture(0)})
	s.attachments.Set(pipeline.ResNoise, s.noise.Texture())
	return err
}

// Size returns the viewport size of the render targets.
func (s *Set) Size() (width, height int32) {
	return s.viewport.Size()
}

// NoiseSize returns the edge of the current noise tile.
func (s *Set) NoiseSize() int {
	return s.noise.TileSize()
}

// SetMesh replaces the mesh buffers.
func (s *Set) SetMesh(m *mesh.Mesh) {
	next := NewMeshBuffers(m)
	s.mesh.Destroy()
	s.mesh = next
}

// SetTexture binds a loaded texture to r, releasing the one it replaces.
func (s *Set) SetTexture(r pipeline.Resource, tex Texture) error {
	if want := ResourceKind(r); tex.Kind != want {
		return fmt.Errorf("resource %s needs a %v texture", r, want)
	}
	if prev, replaced := s.assets.Set(r, tex); replaced {
		prev.Delete()
	}
	return nil
}

// Texture returns the texture bound to r, or the default texture of its
// kind when nothing was loaded.
func (s *Set) Texture(r pipeline.Resource) Texture {
	if tex, ok := s.attachments.Get(r); ok {
		return tex
	}
	if tex, ok := s.assets.Get(r); ok {
		return tex
	}
	return s.defaults[ResourceKind(r)]
}

// Target returns the framebuffer behind a pass target, nil for the screen.
func (s *Set) Target(t pipeline.Target) *framebuffer.Framebuffer {
	switch t {
	case pipeline.TargetGBuffer:
		return s.gbuffer
	case pipeline.TargetAO:
		return s.ao
	case pipeline.TargetBlur:
		return s.blur
	default:
		return nil
	}
}

// Draw draws one of the geometries.
func (s *Set) Draw(g pipeline.Geometry) {
	switch g {
	case pipeline.DrawMesh:
		s.mesh.Draw()
	case pipeline.DrawSkybox:
		s.sky.Draw()
	case pipeline.DrawQuad:
		s.quad.Draw()
	}
}

// Destroy releases everything.
func (s *Set) Destroy() {
	s.mesh.Destroy()
	s.sky.Destroy()
	s.quad.Destroy()
	for _, tex := range s.assets.Drain() {
		tex.Delete()
	}
	for _, d := range s.defaults {
		d.Delete()
	}
	for _, fb := range []*framebuffer.Framebuffer{s.gbuffer, s.ao, s.blur} {
		if fb != nil {
			fb.Destroy()
		}
	}
	s.noise.Destroy()
}
