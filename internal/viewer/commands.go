package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/pipeline"
	"github.com/Faultbox/meshview/internal/engine/ssao"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/math"
)

// LoadModel replaces the mesh and re-centers the camera on it. On failure
// the previous mesh stays loaded.
func (v *Viewer) LoadModel(path string) error {
	m, err := mesh.Load(path)
	if err != nil {
		logger.Warn("Failed to load model", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("load model %s: %w", path, err)
	}

	v.renderer.SetMesh(m)
	v.mesh = m
	v.model = path
	v.camera.UpdateModel(m.Min, m.Max)

	logger.Info("Model loaded",
		zap.String("path", path),
		zap.Int("faces", m.FaceCount()),
		zap.Int("vertices", m.VertexCount()),
	)
	return nil
}

// LoadSpecularMap loads the environment cubemap used by the skybox,
// reflection and IBL programs from a directory of face images.
func (v *Viewer) LoadSpecularMap(dir string) error {
	return v.loadCubemap(pipeline.ResSpecular, dir)
}

// LoadDiffuseMap loads the irradiance cubemap.
func (v *Viewer) LoadDiffuseMap(dir string) error {
	return v.loadCubemap(pipeline.ResDiffuse, dir)
}

// LoadWeightedSpecularMap loads the roughness-prefiltered specular cubemap.
func (v *Viewer) LoadWeightedSpecularMap(dir string) error {
	return v.loadCubemap(pipeline.ResWeightedSpecular, dir)
}

// LoadBRDFLUT loads the BRDF integration lookup table.
func (v *Viewer) LoadBRDFLUT(path string) error {
	return v.loadImage(pipeline.ResBRDF, path)
}

// LoadColorMap loads the base color map.
func (v *Viewer) LoadColorMap(path string) error {
	return v.loadImage(pipeline.ResColor, path)
}

// LoadRoughnessMap loads the roughness map.
func (v *Viewer) LoadRoughnessMap(path string) error {
	return v.loadImage(pipeline.ResRoughness, path)
}

// LoadMetalnessMap loads the metalness map.
func (v *Viewer) LoadMetalnessMap(path string) error {
	return v.loadImage(pipeline.ResMetalness, path)
}

func (v *Viewer) loadCubemap(res pipeline.Resource, dir string) error {
	c, err := texture.LoadCubemap(dir)
	if err == nil {
		err = v.renderer.LoadCubemap(res, c)
	}
	if err != nil {
		logger.Warn("Failed to load cubemap",
			zap.String("resource", string(res)),
			zap.String("path", dir),
			zap.Error(err))
		return fmt.Errorf("load %s: %w", res, err)
	}
	logger.Info("Cubemap loaded",
		zap.String("resource", string(res)),
		zap.String("path", dir),
		zap.Int("size", c.Size))
	return nil
}

func (v *Viewer) loadImage(res pipeline.Resource, path string) error {
	img, err := texture.Load(path)
	if err == nil {
		err = v.renderer.LoadImage(res, img)
	}
	if err != nil {
		logger.Warn("Failed to load texture",
			zap.String("resource", string(res)),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("load %s: %w", res, err)
	}
	logger.Info("Texture loaded",
		zap.String("resource", string(res)),
		zap.String("path", path),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()))
	return nil
}

// SetShading selects the direct-mode shading model.
func (v *Viewer) SetShading(m pipeline.ShadingModel) { v.state.SetShading(m) }

// SetDisplayTexture selects the map shown by the texture-map model.
func (v *Viewer) SetDisplayTexture(i int) { v.state.SetDisplayTexture(i) }

// SetMetalness sets the metalness, clamped to [0, 1].
func (v *Viewer) SetMetalness(m float32) { v.state.SetMetalness(m) }

// SetRoughness sets the roughness, clamped to [0, 1].
func (v *Viewer) SetRoughness(r float32) { v.state.SetRoughness(r) }

// SetAlbedo sets the base color; each channel is clamped to [0, 1].
func (v *Viewer) SetAlbedo(r, g, b float32) {
	v.state.SetAlbedo(math.Vec3{X: r, Y: g, Z: b})
}

// SetFresnel sets F0; each channel is clamped to [0, 1].
func (v *Viewer) SetFresnel(r, g, b float32) {
	v.state.SetFresnel(math.Vec3{X: r, Y: g, Z: b})
}

// SetUseTextures toggles sampling the material maps.
func (v *Viewer) SetUseTextures(on bool) { v.state.Material.UseTextures = on }

// SetGamma toggles gamma correction of the output.
func (v *Viewer) SetGamma(on bool) { v.state.Material.Gamma = on }

// SetSkyVisible toggles the skybox pass.
func (v *Viewer) SetSkyVisible(on bool) { v.state.SkyVisible = on }

// SetSSAO switches between the direct and the SSAO pipeline.
func (v *Viewer) SetSSAO(on bool) { v.state.SSAOEnabled = on }

// SetRandomization toggles the per-pixel rotation noise.
func (v *Viewer) SetRandomization(on bool) { v.state.SSAO.UseRandomization = on }

// SetBlur toggles blurring of the raw occlusion.
func (v *Viewer) SetBlur(on bool) { v.state.UseBlur = on }

// SetDirections sets the number of sampled directions.
func (v *Viewer) SetDirections(n int) { v.state.SSAO.SetDirections(n) }

// SetSamplesPerDirection sets the march steps per direction.
func (v *Viewer) SetSamplesPerDirection(n int) { v.state.SSAO.SetSamplesPerDirection(n) }

// SetRadius sets the sampling radius in view-space units.
func (v *Viewer) SetRadius(r float32) { v.state.SSAO.SetRadius(r) }

// SetBiasAngle sets the horizon bias angle in radians.
func (v *Viewer) SetBiasAngle(a float32) { v.state.SSAO.SetBiasAngle(a) }

// SetStrength sets the occlusion strength.
func (v *Viewer) SetStrength(s float32) { v.state.SSAO.SetStrength(s) }

// SetAlgorithm selects the occlusion estimator.
func (v *Viewer) SetAlgorithm(a ssao.Algorithm) {
	if a != ssao.Horizon && a != ssao.Sphere {
		a = ssao.Horizon
	}
	v.state.SSAO.Algorithm = a
}

// SetRenderMode selects what the composition pass shows.
func (v *Viewer) SetRenderMode(m ssao.RenderMode) { v.state.SetRenderMode(m) }

// SetBlurType selects the blur kernel.
func (v *Viewer) SetBlurType(t ssao.BlurType) { v.state.Blur.SetType(t) }

// SetBlurRadius sets the kernel radius in pixels.
func (v *Viewer) SetBlurRadius(r int) { v.state.Blur.SetRadius(r) }

// SetNormalThreshold sets the bilateral normal threshold.
func (v *Viewer) SetNormalThreshold(t float32) { v.state.Blur.SetNormalThreshold(t) }

// SetDepthThreshold sets the bilateral depth threshold.
func (v *Viewer) SetDepthThreshold(t float32) { v.state.Blur.SetDepthThreshold(t) }
