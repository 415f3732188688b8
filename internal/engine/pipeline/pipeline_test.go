package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/ssao"
	"github.com/Faultbox/meshview/pkg/math"
)

// uniforms records every value set on a program.
type uniforms map[string]any

func (u uniforms) SetInt(name string, v int32)        { u[name] = v }
func (u uniforms) SetBool(name string, v bool)        { u[name] = v }
func (u uniforms) SetFloat(name string, v float32)    { u[name] = v }
func (u uniforms) SetVec2(name string, v [2]float32)  { u[name] = v }
func (u uniforms) SetVec3(name string, v [3]float32)  { u[name] = v }
func (u uniforms) SetMat3(name string, m [9]float32)  { u[name] = m }
func (u uniforms) SetMat4(name string, m [16]float32) { u[name] = m }

// recorder is a Device that logs calls instead of touching the GPU.
type recorder struct {
	calls      []string
	depth      DepthFunc
	programs   map[Program]uniforms
	broken     map[Target]bool
	badProgram map[Program]bool
}

func newRecorder() *recorder {
	return &recorder{
		depth:      DepthLess,
		programs:   map[Program]uniforms{},
		broken:     map[Target]bool{},
		badProgram: map[Program]bool{},
	}
}

func (r *recorder) BindTarget(t Target) error {
	if r.broken[t] {
		return fmt.Errorf("framebuffer %s incomplete", t)
	}
	r.calls = append(r.calls, "target "+t.String())
	return nil
}

func (r *recorder) Clear(op ClearOp) {
	r.calls = append(r.calls, fmt.Sprintf("clear %v depth=%v", op.Color, op.Depth))
}

func (r *recorder) BlitDepth(t Target) {
	r.calls = append(r.calls, "blit "+t.String())
}

func (r *recorder) UseProgram(p Program) (UniformSetter, error) {
	if r.badProgram[p] {
		return nil, errors.New("not linked")
	}
	r.calls = append(r.calls, "program "+string(p))
	u := uniforms{}
	r.programs[p] = u
	return u, nil
}

func (r *recorder) BindTexture(unit int32, res Resource) {
	r.calls = append(r.calls, fmt.Sprintf("texture %d %s", unit, res))
}

func (r *recorder) SetDepthFunc(f DepthFunc) DepthFunc {
	prev := r.depth
	r.depth = f
	r.calls = append(r.calls, fmt.Sprintf("depth %d", f))
	return prev
}

func (r *recorder) Draw(g Geometry) {
	r.calls = append(r.calls, fmt.Sprintf("draw %d", g))
}

func testFrame() Frame {
	c := camera.New(camera.DefaultConfig())
	c.SetViewport(0, 0, 640, 480)
	c.SetProjection(60, 0.0001, 20)
	c.UpdateModel(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	return FrameFrom(c, ssao.NoiseSize(640, 480))
}

func newOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	o, err := New(DefaultBindings())
	require.NoError(t, err)
	return o
}

func TestDirectModePasses(t *testing.T) {
	st := DefaultState()
	o := newOrchestrator(t)
	dev := newRecorder()

	n := o.Render(dev, &st, testFrame())
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"mesh", "skybox"}, o.LastPasses())

	st.SkyVisible = false
	dev = newRecorder()
	assert.Equal(t, 1, o.Render(dev, &st, testFrame()))
	assert.Equal(t, []string{"mesh"}, o.LastPasses())
}

func TestSSAOModePasses(t *testing.T) {
	st := DefaultState()
	st.SSAOEnabled = true
	o := newOrchestrator(t)
	dev := newRecorder()

	assert.Equal(t, 5, o.Render(dev, &st, testFrame()))
	assert.Equal(t, []string{"geometry", "ao", "blur", "composition", "skybox"}, o.LastPasses())

	// Mode switches apply on the next frame.
	st.SSAOEnabled = false
	o.Render(newRecorder(), &st, testFrame())
	assert.Equal(t, []string{"mesh", "skybox"}, o.LastPasses())
}

func TestSSAOPassOrderAndTargets(t *testing.T) {
	st := DefaultState()
	st.SSAOEnabled = true
	passes := Plan(&st, testFrame())
	require.Len(t, passes, 5)

	want := []struct {
		target   Target
		program  Program
		geometry Geometry
	}{
		{TargetGBuffer, ProgramGeometry, DrawMesh},
		{TargetAO, ProgramSSAO, DrawQuad},
		{TargetBlur, ProgramBlur, DrawQuad},
		{TargetScreen, ProgramFinal, DrawQuad},
		{TargetScreen, ProgramSky, DrawSkybox},
	}
	for i, w := range want {
		assert.Equal(t, w.target, passes[i].Target, passes[i].Name)
		assert.Equal(t, w.program, passes[i].Program, passes[i].Name)
		assert.Equal(t, w.geometry, passes[i].Geometry, passes[i].Name)
	}

	// AO and blur start from full visibility.
	for _, p := range passes[1:3] {
		require.NotNil(t, p.Clear, p.Name)
		assert.Equal(t, [4]float32{1, 1, 1, 1}, p.Clear.Color, p.Name)
	}
	assert.True(t, passes[4].BlitDepth)
	assert.Contains(t, passes[2].Textures, ResRawAO)
	assert.Contains(t, passes[3].Textures, ResBlurAO)
}

func TestSkyboxRestoresDepthFunc(t *testing.T) {
	st := DefaultState()
	o := newOrchestrator(t)
	dev := newRecorder()
	o.Render(dev, &st, testFrame())

	assert.Equal(t, DepthLess, dev.depth, "depth function must be restored")

	var lequal, draw, restore int = -1, -1, -1
	for i, c := range dev.calls {
		switch c {
		case fmt.Sprintf("depth %d", DepthLessEqual):
			lequal = i
		case fmt.Sprintf("draw %d", DrawSkybox):
			draw = i
		case fmt.Sprintf("depth %d", DepthLess):
			restore = i
		}
	}
	assert.True(t, lequal >= 0 && lequal < draw && draw < restore, "calls: %v", dev.calls)
}

func TestTexturesUseBindingTable(t *testing.T) {
	st := DefaultState()
	st.SetShading(IBLPBS)
	o := newOrchestrator(t)
	dev := newRecorder()
	o.Render(dev, &st, testFrame())

	u := dev.programs[ProgramIBLPBS]
	require.NotNil(t, u)
	b := DefaultBindings()
	for _, r := range IBLPBS.Textures() {
		assert.Equal(t, b[r], u[string(r)], "sampler %s", r)
		assert.Contains(t, dev.calls, fmt.Sprintf("texture %d %s", b[r], r))
	}
	assert.Equal(t, st.Material.Roughness, u["roughness"])
	assert.Equal(t, st.Light.Array(), u["light"])
}

func TestSSAOUniforms(t *testing.T) {
	st := DefaultState()
	st.SSAOEnabled = true
	st.SSAO.SetDirections(12)
	st.SSAO.SetBiasAngle(3)
	st.Blur.SetRadius(99)
	st.SetRenderMode(ssao.ModeRawAO)
	st.UseBlur = false

	o := newOrchestrator(t)
	dev := newRecorder()
	o.Render(dev, &st, testFrame())

	ao := dev.programs[ProgramSSAO]
	assert.Equal(t, int32(12), ao["num_directions"])
	assert.Equal(t, float32(0.5), ao["bias_angle"])
	assert.Equal(t, [2]float32{640, 480}, ao["viewport_size"])
	assert.Equal(t, float32(20), ao["z_far"])
	assert.Equal(t, [2]float32{1, 0.75}, ao["noise_scale"])

	assert.Equal(t, int32(10), dev.programs[ProgramBlur]["blur_radius"])

	final := dev.programs[ProgramFinal]
	assert.Equal(t, int32(ssao.ModeRawAO), final["render_mode"])
	assert.Equal(t, false, final["use_blur"])
}

func TestIncompleteTargetSkipsPass(t *testing.T) {
	st := DefaultState()
	st.SSAOEnabled = true
	o := newOrchestrator(t)
	dev := newRecorder()
	dev.broken[TargetBlur] = true

	assert.Equal(t, 4, o.Render(dev, &st, testFrame()))
	assert.Equal(t, []string{"geometry", "ao", "composition", "skybox"}, o.LastPasses())

	dev = newRecorder()
	dev.badProgram[ProgramSky] = true
	assert.Equal(t, 4, o.Render(dev, &st, testFrame()))
}

func TestBindingsValidate(t *testing.T) {
	require.NoError(t, DefaultBindings().Validate())

	b := DefaultBindings()
	b[ResNoise] = b[ResSpecular]
	assert.Error(t, b.Validate())
	_, err := New(b)
	assert.Error(t, err)

	b = DefaultBindings()
	b[ResBlurAO] = -1
	assert.Error(t, b.Validate())
}

func TestMissingBindingSkipsPass(t *testing.T) {
	b := DefaultBindings()
	delete(b, ResSpecular)
	o, err := New(b)
	require.NoError(t, err)

	st := DefaultState()
	assert.Equal(t, 1, o.Render(newRecorder(), &st, testFrame()))
}

func TestShadingModelVariants(t *testing.T) {
	programs := map[Program]bool{}
	for _, m := range ShadingModels {
		assert.True(t, m.Valid())
		assert.NotEqual(t, ProgramSky, m.Program())
		programs[m.Program()] = true

		parsed, err := ParseShadingModel(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	assert.Len(t, programs, len(ShadingModels))
	assert.False(t, ShadingModel(17).Valid())

	st := DefaultState()
	st.SetShading(ShadingModel(17))
	assert.Equal(t, Phong, st.Material.Shading)
}

func TestNormalMatrixUnderNonUniformScale(t *testing.T) {
	model := math.Scale(1, 2, 1)
	view := math.Translate(0, 0, -3)
	n := mgl32.Mat3(NormalMatrix(view, model))

	// Surface y = x: tangent (1,1,0), normal (1,-1,0).
	mv := mgl32.Mat4(view.Mul(model))
	tangent := mv.Mul4x1(mgl32.Vec4{1, 1, 0, 0}).Vec3()
	normal := n.Mul3x1(mgl32.Vec3{1, -1, 0})
	assert.InDelta(t, 0, float64(tangent.Dot(normal)), 1e-5)

	// The model matrix alone would skew the normal.
	wrong := mv.Mat3().Mul3x1(mgl32.Vec3{1, -1, 0})
	assert.Less(t, float64(tangent.Dot(wrong)), -1.0)
}

func TestStateClamping(t *testing.T) {
	st := DefaultState()
	st.SetMetalness(3)
	st.SetRoughness(-1)
	st.SetAlbedo(math.Vec3{X: 2, Y: 0.5, Z: -1})
	st.SetDisplayTexture(9)
	st.SetRenderMode(ssao.RenderMode(-4))

	assert.Equal(t, float32(1), st.Material.Metalness)
	assert.Equal(t, float32(0), st.Material.Roughness)
	assert.Equal(t, math.Vec3{X: 1, Y: 0.5, Z: 0}, st.Material.Albedo)
	assert.Equal(t, DisplayMetalness, st.Material.DisplayTexture)
	assert.Equal(t, ssao.ModeNormals, st.RenderMode)

	st.SSAO.Directions = 0
	st.Blur.Radius = 40
	st.Sanitize()
	assert.Equal(t, ssao.MinDirections, st.SSAO.Directions)
	assert.Equal(t, ssao.MaxBlurRadius, st.Blur.Radius)
}
