package pipeline

import (
	"github.com/Faultbox/meshview/internal/engine/ssao"
	"github.com/Faultbox/meshview/pkg/math"
)

// Display textures for the texture-map model.
const (
	DisplayColor = iota
	DisplayRoughness
	DisplayMetalness
	displayCount
)

// Material holds the per-frame surface parameters.
type Material struct {
	Metalness      float32
	Roughness      float32
	Albedo         math.Vec3
	Fresnel        math.Vec3 // F0
	UseTextures    bool
	Gamma          bool
	Shading        ShadingModel
	DisplayTexture int
}

// DefaultMaterial returns the startup material.
func DefaultMaterial() Material {
	return Material{
		Metalness:   0.0,
		Roughness:   0.5,
		Albedo:      math.Vec3{X: 1, Y: 1, Z: 1},
		Fresnel:     math.Vec3{X: 0.2, Y: 0.2, Z: 0.2},
		UseTextures: false,
		Gamma:       true,
		Shading:     Phong,
	}
}

// State is everything the orchestrator reads each frame. It is owned by the
// render goroutine; other goroutines must go through the viewer's command
// queue.
type State struct {
	Material    Material
	Light       math.Vec3
	SkyVisible  bool
	SSAOEnabled bool
	UseBlur     bool
	RenderMode  ssao.RenderMode
	SSAO        ssao.Params
	Blur        ssao.BlurParams
}

// DefaultState returns the startup pipeline state.
func DefaultState() State {
	return State{
		Material:   DefaultMaterial(),
		Light:      math.Vec3{X: 10},
		SkyVisible: true,
		UseBlur:    true,
		RenderMode: ssao.ModeFinal,
		SSAO:       ssao.DefaultParams(),
		Blur:       ssao.DefaultBlurParams(),
	}
}

// SetShading selects the shading model. Unknown models fall back to Phong.
func (s *State) SetShading(m ShadingModel) {
	if !m.Valid() {
		m = Phong
	}
	s.Material.Shading = m
}

// SetMetalness sets metalness, clamped to [0, 1].
func (s *State) SetMetalness(v float32) { s.Material.Metalness = math.Clamp(v, 0, 1) }

// SetRoughness sets roughness, clamped to [0, 1].
func (s *State) SetRoughness(v float32) { s.Material.Roughness = math.Clamp(v, 0, 1) }

// SetAlbedo sets the base color, each channel clamped to [0, 1].
func (s *State) SetAlbedo(c math.Vec3) { s.Material.Albedo = clampColor(c) }

// SetFresnel sets F0, each channel clamped to [0, 1].
func (s *State) SetFresnel(c math.Vec3) { s.Material.Fresnel = clampColor(c) }

// SetDisplayTexture selects the map shown by the texture-map model.
func (s *State) SetDisplayTexture(i int) {
	s.Material.DisplayTexture = math.Clamp(i, DisplayColor, displayCount-1)
}

// SetRenderMode selects the composition output, clamped.
func (s *State) SetRenderMode(m ssao.RenderMode) { s.RenderMode = ssao.ClampRenderMode(m) }

// Sanitize clamps every field, for state filled from a config file.
func (s *State) Sanitize() {
	s.SetShading(s.Material.Shading)
	s.SetMetalness(s.Material.Metalness)
	s.SetRoughness(s.Material.Roughness)
	s.SetAlbedo(s.Material.Albedo)
	s.SetFresnel(s.Material.Fresnel)
	s.SetDisplayTexture(s.Material.DisplayTexture)
	s.SetRenderMode(s.RenderMode)
	s.SSAO = s.SSAO.Sanitized()
	s.Blur = s.Blur.Sanitized()
}

func clampColor(c math.Vec3) math.Vec3 {
	return math.Vec3{
		X: math.Clamp(c.X, 0, 1),
		Y: math.Clamp(c.Y, 0, 1),
		Z: math.Clamp(c.Z, 0, 1),
	}
}
