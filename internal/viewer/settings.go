package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/pipeline"
	"github.com/Faultbox/meshview/internal/engine/ssao"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/math"
)

func cameraConfig(c config.CameraConfig) camera.Config {
	return camera.Config{
		Distance:       c.Distance,
		MinDistance:    c.MinDistance,
		MaxDistance:    c.MaxDistance,
		MinPitch:       c.MinPitch,
		MaxPitch:       c.MaxPitch,
		Step:           c.Step,
		AngleIncrement: c.AngleIncrement,
	}
}

// stateFromConfig builds the startup render state. Unknown names fall back
// to the defaults and numbers are clamped.
func stateFromConfig(cfg *config.Config) pipeline.State {
	st := pipeline.DefaultState()

	m := cfg.Material
	shading, err := pipeline.ParseShadingModel(m.Shading)
	if err != nil {
		logger.Warn("Invalid shading model in config", zap.Error(err))
	}
	st.SetShading(shading)
	st.SetMetalness(m.Metalness)
	st.SetRoughness(m.Roughness)
	st.SetAlbedo(math.Vec3{X: m.Albedo[0], Y: m.Albedo[1], Z: m.Albedo[2]})
	st.SetFresnel(math.Vec3{X: m.Fresnel[0], Y: m.Fresnel[1], Z: m.Fresnel[2]})
	st.SetDisplayTexture(m.DisplayTexture)
	st.Material.UseTextures = m.UseTextures
	st.Material.Gamma = m.Gamma
	st.SkyVisible = m.SkyVisible

	s := cfg.SSAO
	st.SSAOEnabled = s.Enabled
	algo, err := ssao.ParseAlgorithm(s.Algorithm)
	if err != nil {
		logger.Warn("Invalid ssao algorithm in config", zap.Error(err))
	}
	st.SSAO.Algorithm = algo
	st.SSAO.SetDirections(s.Directions)
	st.SSAO.SetSamplesPerDirection(s.Samples)
	st.SSAO.SetRadius(s.Radius)
	st.SSAO.SetBiasAngle(s.BiasAngle)
	st.SSAO.SetStrength(s.Strength)
	st.SSAO.UseRandomization = s.Randomization
	mode, err := ssao.ParseRenderMode(s.RenderMode)
	if err != nil {
		logger.Warn("Invalid render mode in config", zap.Error(err))
	}
	st.SetRenderMode(mode)

	b := cfg.Blur
	st.UseBlur = b.Enabled
	blur, err := ssao.ParseBlurType(b.Type)
	if err != nil {
		logger.Warn("Invalid blur type in config", zap.Error(err))
	}
	st.Blur.SetType(blur)
	st.Blur.SetRadius(b.Radius)
	st.Blur.SetNormalThreshold(b.NormalThreshold)
	st.Blur.SetDepthThreshold(b.DepthThreshold)

	return st
}

// storeSettings copies the live state back into the config.
func (v *Viewer) storeSettings() {
	st := v.state
	cfg := v.cfg

	cfg.Camera.Distance = v.camera.Distance()

	mat := st.Material
	cfg.Material.Shading = mat.Shading.String()
	cfg.Material.Metalness = mat.Metalness
	cfg.Material.Roughness = mat.Roughness
	cfg.Material.Albedo = [3]float32{mat.Albedo.X, mat.Albedo.Y, mat.Albedo.Z}
	cfg.Material.Fresnel = [3]float32{mat.Fresnel.X, mat.Fresnel.Y, mat.Fresnel.Z}
	cfg.Material.UseTextures = mat.UseTextures
	cfg.Material.Gamma = mat.Gamma
	cfg.Material.SkyVisible = st.SkyVisible
	cfg.Material.DisplayTexture = mat.DisplayTexture

	cfg.SSAO.Enabled = st.SSAOEnabled
	cfg.SSAO.Algorithm = st.SSAO.Algorithm.String()
	cfg.SSAO.Directions = st.SSAO.Directions
	cfg.SSAO.Samples = st.SSAO.SamplesPerDirection
	cfg.SSAO.Radius = st.SSAO.Radius
	cfg.SSAO.BiasAngle = st.SSAO.BiasAngle
	cfg.SSAO.Strength = st.SSAO.Strength
	cfg.SSAO.Randomization = st.SSAO.UseRandomization
	cfg.SSAO.RenderMode = st.RenderMode.String()

	cfg.Blur.Enabled = st.UseBlur
	cfg.Blur.Type = st.Blur.Type.String()
	cfg.Blur.Radius = st.Blur.Radius
	cfg.Blur.NormalThreshold = st.Blur.NormalThreshold
	cfg.Blur.DepthThreshold = st.Blur.DepthThreshold

	if v.model != "" {
		cfg.Assets.Model = v.model
	}
}
