package pipeline

import (
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/ssao"
	"github.com/Faultbox/meshview/pkg/math"
)

// Target is a framebuffer a pass renders into.
type Target int

const (
	TargetScreen Target = iota
	TargetGBuffer
	TargetAO
	TargetBlur
)

func (t Target) String() string {
	switch t {
	case TargetScreen:
		return "screen"
	case TargetGBuffer:
		return "gbuffer"
	case TargetAO:
		return "ao"
	case TargetBlur:
		return "blur"
	default:
		return "unknown"
	}
}

// Geometry is what a pass draws.
type Geometry int

const (
	DrawMesh Geometry = iota
	DrawSkybox
	DrawQuad
)

// DepthFunc is the depth comparison a pass needs.
type DepthFunc int

const (
	DepthUnchanged DepthFunc = iota
	DepthLess
	DepthLessEqual
)

// ClearOp describes the clear issued before a pass draws.
type ClearOp struct {
	Color [4]float32
	Depth bool
}

var (
	clearBlack = &ClearOp{Color: [4]float32{0, 0, 0, 1}, Depth: true}
	clearWhite = &ClearOp{Color: [4]float32{1, 1, 1, 1}}
)

// Pass is one draw of the frame.
type Pass struct {
	Name      string
	Target    Target
	Clear     *ClearOp // nil keeps the target contents
	BlitDepth bool     // Copy the G-buffer depth into Target first
	Program   Program
	Textures  []Resource
	Geometry  Geometry
	DepthFunc DepthFunc
	Uniforms  func(UniformSetter)
}

// Frame is the per-frame camera snapshot the passes consume.
type Frame struct {
	Projection math.Mat4
	View       math.Mat4
	Model      math.Mat4
	Eye        math.Vec3
	Width      int32
	Height     int32
	FovY       float32 // Degrees
	Near       float32
	Far        float32
	NoiseSize  int
}

// FrameFrom snapshots the camera.
func FrameFrom(c *camera.Camera, noiseSize int) Frame {
	vp := c.Viewport()
	return Frame{
		Projection: c.ProjectionMatrix(),
		View:       c.ViewMatrix(),
		Model:      c.ModelMatrix(),
		Eye:        c.Position(),
		Width:      vp.Width,
		Height:     vp.Height,
		FovY:       c.FieldOfView(),
		Near:       c.Near(),
		Far:        c.Far(),
		NoiseSize:  noiseSize,
	}
}

// Plan returns the ordered passes for one frame: mesh and skybox in direct
// mode; geometry, AO, blur, composition and skybox with SSAO enabled. The
// skybox pass is present only while the sky is visible.
func Plan(st *State, f Frame) []Pass {
	if st.SSAOEnabled {
		return planSSAO(st, f)
	}
	return planDirect(st, f)
}

func planDirect(st *State, f Frame) []Pass {
	mat := st.Material
	model := mat.Shading
	passes := []Pass{{
		Name:     "mesh",
		Target:   TargetScreen,
		Clear:    clearBlack,
		Program:  model.Program(),
		Textures: model.Textures(),
		Geometry: DrawMesh,
		Uniforms: func(u UniformSetter) {
			setTransforms(u, f)
			model.Configure(u, mat, st.Light.Array(), f.Eye.Array())
		},
	}}
	if st.SkyVisible {
		passes = append(passes, skyPass(f, false))
	}
	return passes
}

func planSSAO(st *State, f Frame) []Pass {
	mat := st.Material
	params := st.SSAO.Sanitized()
	blur := st.Blur.Sanitized()
	viewport := [2]float32{float32(f.Width), float32(f.Height)}
	noiseScale := ssao.NoiseScale(int(f.Width), int(f.Height), f.NoiseSize)

	depthRange := func(u UniformSetter) {
		u.SetFloat("z_near", f.Near)
		u.SetFloat("z_far", f.Far)
		u.SetVec2("viewport_size", viewport)
	}

	passes := []Pass{
		{
			Name:     "geometry",
			Target:   TargetGBuffer,
			Clear:    &ClearOp{Depth: true},
			Program:  ProgramGeometry,
			Textures: []Resource{ResColor},
			Geometry: DrawMesh,
			Uniforms: func(u UniformSetter) {
				setTransforms(u, f)
				u.SetVec3("albedo", mat.Albedo.Array())
				u.SetBool("use_textures", mat.UseTextures)
			},
		},
		{
			Name:     "ao",
			Target:   TargetAO,
			Clear:    clearWhite,
			Program:  ProgramSSAO,
			Textures: []Resource{ResGNormal, ResGDepth, ResNoise},
			Geometry: DrawQuad,
			Uniforms: func(u UniformSetter) {
				depthRange(u)
				u.SetMat4("projection", f.Projection)
				u.SetFloat("fov", math.Radians(f.FovY))
				u.SetVec2("noise_scale", [2]float32{noiseScale.X, noiseScale.Y})
				u.SetInt("algorithm", int32(params.Algorithm))
				u.SetInt("num_directions", int32(params.Directions))
				u.SetInt("samples_per_direction", int32(params.SamplesPerDirection))
				u.SetFloat("radius", params.Radius)
				u.SetFloat("bias_angle", params.BiasAngle)
				u.SetFloat("strength", params.Strength)
				u.SetBool("use_randomization", params.UseRandomization)
			},
		},
		{
			Name:     "blur",
			Target:   TargetBlur,
			Clear:    clearWhite,
			Program:  ProgramBlur,
			Textures: []Resource{ResRawAO, ResGNormal, ResGDepth},
			Geometry: DrawQuad,
			Uniforms: func(u UniformSetter) {
				depthRange(u)
				u.SetInt("blur_type", int32(blur.Type))
				u.SetInt("blur_radius", int32(blur.Radius))
				u.SetFloat("normal_threshold", blur.NormalThreshold)
				u.SetFloat("depth_threshold", blur.DepthThreshold)
			},
		},
		{
			Name:     "composition",
			Target:   TargetScreen,
			Clear:    clearBlack,
			Program:  ProgramFinal,
			Textures: []Resource{ResGAlbedo, ResGNormal, ResGDepth, ResRawAO, ResBlurAO},
			Geometry: DrawQuad,
			Uniforms: func(u UniformSetter) {
				depthRange(u)
				u.SetInt("render_mode", int32(st.RenderMode))
				u.SetBool("use_blur", st.UseBlur)
				u.SetBool("apply_gamma", mat.Gamma)
			},
		},
	}
	if st.SkyVisible {
		passes = append(passes, skyPass(f, true))
	}
	return passes
}

// skyPass draws the skybox behind the mesh. Depth is compared with
// less-or-equal so the cube, written at the far plane, survives the depth
// of the earlier passes.
func skyPass(f Frame, blit bool) Pass {
	return Pass{
		Name:      "skybox",
		Target:    TargetScreen,
		BlitDepth: blit,
		Program:   ProgramSky,
		Textures:  []Resource{ResSpecular},
		Geometry:  DrawSkybox,
		DepthFunc: DepthLessEqual,
		Uniforms: func(u UniformSetter) {
			u.SetMat4("projection", f.Projection)
			u.SetMat4("view", f.View)
			u.SetMat4("model", f.Model)
		},
	}
}
