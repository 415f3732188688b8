package viewer

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/pipeline"
	"github.com/Faultbox/meshview/internal/engine/ssao"
	"github.com/Faultbox/meshview/internal/engine/texture"
)

type fakeRenderer struct {
	meshes   []*mesh.Mesh
	images   map[pipeline.Resource]*image.RGBA
	cubes    map[pipeline.Resource]*texture.Cubemap
	sizes    [][2]int32
	frames   []pipeline.Frame
	states   []pipeline.State
	reloads  int
	reads    int
	failLoad bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		images: map[pipeline.Resource]*image.RGBA{},
		cubes:  map[pipeline.Resource]*texture.Cubemap{},
	}
}

func (f *fakeRenderer) Render(st *pipeline.State, fr pipeline.Frame) int {
	f.states = append(f.states, *st)
	f.frames = append(f.frames, fr)
	return len(pipeline.Plan(st, fr))
}

func (f *fakeRenderer) Resize(w, h int32) error {
	f.sizes = append(f.sizes, [2]int32{w, h})
	return nil
}

func (f *fakeRenderer) NoiseSize() int { return 4 }

func (f *fakeRenderer) SetMesh(m *mesh.Mesh) { f.meshes = append(f.meshes, m) }

func (f *fakeRenderer) LoadImage(res pipeline.Resource, img *image.RGBA) error {
	if f.failLoad {
		return errors.New("upload failed")
	}
	f.images[res] = img
	return nil
}

func (f *fakeRenderer) LoadCubemap(res pipeline.Resource, c *texture.Cubemap) error {
	if f.failLoad {
		return errors.New("upload failed")
	}
	f.cubes[res] = c
	return nil
}

func (f *fakeRenderer) Reload() error {
	f.reloads++
	return nil
}

func (f *fakeRenderer) ReadPixels() ([]byte, int, int) {
	f.reads++
	return make([]byte, 2*2*4), 2, 2
}

type fakeDialogs struct {
	model string
	image string
	dir   string
	err   error
}

func (d fakeDialogs) OpenModel() (string, error)            { return d.model, d.err }
func (d fakeDialogs) OpenImage(string) (string, error)     { return d.image, d.err }
func (d fakeDialogs) OpenDirectory(string) (string, error) { return d.dir, d.err }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Assets = config.AssetsConfig{
		Model:         mesh.SpherePath,
		ScreenshotDir: filepath.Join(dir, "shots"),
	}
	cfg.Path = filepath.Join(dir, "config.yaml")
	return cfg
}

func newTestViewer(t *testing.T, d Dialogs) (*Viewer, *fakeRenderer) {
	t.Helper()
	r := newFakeRenderer()
	v := New(testConfig(t), r, d)
	v.Start(800, 600)
	return v, r
}

func writeOBJ(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "cube.obj")
	src := `v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 1
f 1 2 3
f 1 3 4
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func writePNG(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeCubemap(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, face := range texture.CubeFaces {
		writePNG(t, filepath.Join(dir, face+".png"), 4)
	}
}

func TestStartLoadsSphereAndSizesViewport(t *testing.T) {
	v, r := newTestViewer(t, nil)

	require.Len(t, r.meshes, 1)
	assert.Equal(t, [][2]int32{{800, 600}}, r.sizes)
	assert.Equal(t, mesh.SphereStacks*mesh.SphereSlices*2-2*mesh.SphereSlices, v.Mesh().FaceCount())
	assert.Equal(t, int32(800), v.Camera().Viewport().Width)
}

func TestStartFallsBackToSphere(t *testing.T) {
	r := newFakeRenderer()
	cfg := testConfig(t)
	cfg.Assets.Model = filepath.Join(t.TempDir(), "missing.ply")
	v := New(cfg, r, nil)
	v.Start(640, 480)

	require.Len(t, r.meshes, 1)
	assert.Equal(t, mesh.SpherePath, v.model)
}

func TestLoadModelRecentersCamera(t *testing.T) {
	v, r := newTestViewer(t, nil)
	path := writeOBJ(t, t.TempDir())

	require.NoError(t, v.LoadModel(path))
	require.Len(t, r.meshes, 2)
	assert.Same(t, r.meshes[1], v.Mesh())
	assert.InDelta(t, 0.5, v.Camera().Scaling(), 1e-6)
	c := v.Camera().Centering()
	assert.InDelta(t, 0, c.X, 1e-6)
	assert.InDelta(t, 0, c.Y, 1e-6)
	assert.InDelta(t, 0, c.Z, 1e-6)
}

func TestLoadModelFailureKeepsMesh(t *testing.T) {
	v, r := newTestViewer(t, nil)
	before := v.Mesh()

	for _, path := range []string{"model.fbx", filepath.Join(t.TempDir(), "missing.obj")} {
		assert.Error(t, v.LoadModel(path), path)
	}
	assert.Len(t, r.meshes, 1)
	assert.Same(t, before, v.Mesh())
}

func TestLoadTextures(t *testing.T) {
	v, r := newTestViewer(t, nil)
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "color.png")
	writePNG(t, mapPath, 8)
	cube := filepath.Join(dir, "sky")
	writeCubemap(t, cube)

	require.NoError(t, v.LoadColorMap(mapPath))
	require.NoError(t, v.LoadRoughnessMap(mapPath))
	require.NoError(t, v.LoadMetalnessMap(mapPath))
	require.NoError(t, v.LoadBRDFLUT(mapPath))
	require.NoError(t, v.LoadSpecularMap(cube))
	require.NoError(t, v.LoadDiffuseMap(cube))
	require.NoError(t, v.LoadWeightedSpecularMap(cube))

	for _, res := range []pipeline.Resource{pipeline.ResColor, pipeline.ResRoughness, pipeline.ResMetalness, pipeline.ResBRDF} {
		require.Contains(t, r.images, res)
		assert.Equal(t, 8, r.images[res].Rect.Dx())
	}
	for _, res := range []pipeline.Resource{pipeline.ResSpecular, pipeline.ResDiffuse, pipeline.ResWeightedSpecular} {
		require.Contains(t, r.cubes, res)
		assert.Equal(t, 4, r.cubes[res].Size)
	}
}

func TestLoadTextureFailures(t *testing.T) {
	v, r := newTestViewer(t, nil)
	dir := t.TempDir()

	// Missing face
	partial := filepath.Join(dir, "partial")
	writeCubemap(t, partial)
	require.NoError(t, os.Remove(filepath.Join(partial, "front.png")))
	assert.ErrorIs(t, v.LoadSpecularMap(partial), texture.ErrMissingFace)

	// Undecodable image
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0644))
	assert.Error(t, v.LoadColorMap(bad))

	// Upload failure after a good decode
	good := filepath.Join(dir, "good.png")
	writePNG(t, good, 2)
	r.failLoad = true
	assert.Error(t, v.LoadColorMap(good))

	assert.Empty(t, r.images)
	assert.Empty(t, r.cubes)
}

func TestSettersClamp(t *testing.T) {
	v, _ := newTestViewer(t, nil)

	v.SetMetalness(2)
	v.SetRoughness(-1)
	v.SetAlbedo(1.5, 0.5, -0.5)
	v.SetFresnel(0.1, 2, 0.3)
	v.SetDirections(1000)
	v.SetSamplesPerDirection(0)
	v.SetRadius(-3)
	v.SetBiasAngle(9)
	v.SetStrength(-1)
	v.SetBlurRadius(42)
	v.SetNormalThreshold(3)
	v.SetDepthThreshold(0)
	v.SetRenderMode(ssao.RenderMode(-4))
	v.SetAlgorithm(ssao.Algorithm(9))

	st := v.State()
	assert.Equal(t, float32(1), st.Material.Metalness)
	assert.Equal(t, float32(0), st.Material.Roughness)
	assert.Equal(t, float32(1), st.Material.Albedo.X)
	assert.Equal(t, float32(0), st.Material.Albedo.Z)
	assert.Equal(t, float32(1), st.Material.Fresnel.Y)
	assert.Equal(t, ssao.MaxDirections, st.SSAO.Directions)
	assert.Equal(t, ssao.MinSamples, st.SSAO.SamplesPerDirection)
	assert.Equal(t, float32(ssao.MinRadius), st.SSAO.Radius)
	assert.Equal(t, float32(ssao.MaxBiasAngle), st.SSAO.BiasAngle)
	assert.Equal(t, float32(0), st.SSAO.Strength)
	assert.Equal(t, ssao.MaxBlurRadius, st.Blur.Radius)
	assert.Equal(t, float32(ssao.MaxNormalThreshold), st.Blur.NormalThreshold)
	assert.Equal(t, float32(ssao.MinDepthThreshold), st.Blur.DepthThreshold)
	assert.Equal(t, ssao.ModeNormals, st.RenderMode)
	assert.Equal(t, ssao.Horizon, st.SSAO.Algorithm)
}

func TestFrameSelectsPipeline(t *testing.T) {
	v, r := newTestViewer(t, nil)

	assert.Equal(t, 2, v.Frame(), "mesh and skybox")
	v.SetSkyVisible(false)
	assert.Equal(t, 1, v.Frame())
	v.SetSSAO(true)
	assert.Equal(t, 4, v.Frame())
	v.SetSkyVisible(true)
	assert.Equal(t, 5, v.Frame())

	last := r.frames[len(r.frames)-1]
	assert.Equal(t, int32(800), last.Width)
	assert.Equal(t, 4, last.NoiseSize)
}

func TestKeyBindings(t *testing.T) {
	v, r := newTestViewer(t, nil)
	cam := v.Camera()

	d := cam.Distance()
	v.KeyDown(input.KeyUp)
	assert.InDelta(t, d-0.05, cam.Distance(), 1e-6)
	v.KeyDown(input.KeyS)
	assert.InDelta(t, d, cam.Distance(), 1e-6)

	yaw := cam.Yaw()
	v.KeyDown(input.KeyD)
	assert.Greater(t, cam.Yaw(), yaw)
	v.KeyDown(input.KeyLeft)
	assert.InDelta(t, yaw, cam.Yaw(), 1e-6)

	v.KeyDown(input.Key5)
	assert.Equal(t, pipeline.IBLPBS, v.State().Material.Shading)
	v.KeyDown(input.Key2)
	assert.Equal(t, pipeline.TextureMap, v.State().Material.Shading)

	toggles := []struct {
		key input.Key
		get func(pipeline.State) bool
	}{
		{input.KeyO, func(s pipeline.State) bool { return s.SSAOEnabled }},
		{input.KeyB, func(s pipeline.State) bool { return s.UseBlur }},
		{input.KeyN, func(s pipeline.State) bool { return s.SSAO.UseRandomization }},
		{input.KeyK, func(s pipeline.State) bool { return s.SkyVisible }},
		{input.KeyG, func(s pipeline.State) bool { return s.Material.Gamma }},
		{input.KeyT, func(s pipeline.State) bool { return s.Material.UseTextures }},
	}
	for _, tt := range toggles {
		before := tt.get(v.State())
		assert.True(t, v.KeyDown(tt.key))
		assert.Equal(t, !before, tt.get(v.State()), tt.key.String())
	}

	mode := v.State().RenderMode
	v.KeyDown(input.KeyM)
	assert.Equal(t, mode.Next(), v.State().RenderMode)

	v.KeyDown(input.KeyR)
	assert.Equal(t, 1, r.reloads)

	assert.False(t, v.KeyDown(input.KeyEscape))
}

func TestPointerGestures(t *testing.T) {
	v, _ := newTestViewer(t, nil)
	cam := v.Camera()

	// Moving without a pressed button changes nothing
	v.PointerMove(10, 10)
	assert.Zero(t, cam.Pitch())

	v.HandleEvent(input.Event{Type: input.EventMouseDown, Button: input.ButtonLeft, MouseX: 0, MouseY: 0})
	v.HandleEvent(input.Event{Type: input.EventMouseMove, MouseX: 4, MouseY: 2})
	assert.InDelta(t, 2*0.05, cam.Pitch(), 1e-6)
	assert.InDelta(t, 4*0.05, cam.Yaw(), 1e-6)
	v.HandleEvent(input.Event{Type: input.EventMouseUp, Button: input.ButtonLeft, MouseX: 4, MouseY: 2})

	d := cam.Distance()
	v.PointerDown(input.ButtonRight, 0, 0)
	v.PointerMove(0, 5)
	assert.InDelta(t, d+0.05, cam.Distance(), 1e-6)
	v.PointerUp(input.ButtonRight, 0, 5)

	v.PointerDown(input.ButtonMiddle, 0, 0)
	v.PointerMove(10, 0)
	assert.InDelta(t, 0.05, cam.Pan().X, 1e-6)
	v.PointerUp(input.ButtonMiddle, 10, 0)

	// Gestures stay closed after release
	pitch := cam.Pitch()
	v.PointerMove(100, 100)
	assert.Equal(t, pitch, cam.Pitch())

	d = cam.Distance()
	v.HandleEvent(input.Event{Type: input.EventMouseWheel, Wheel: 1})
	assert.InDelta(t, d-0.05, cam.Distance(), 1e-6)
}

func TestModelDialogPostsLoad(t *testing.T) {
	path := writeOBJ(t, t.TempDir())
	v, r := newTestViewer(t, fakeDialogs{model: path})

	v.KeyDown(input.KeyL)
	require.Eventually(t, func() bool { return len(v.commands) == 1 }, time.Second, time.Millisecond)

	// The load runs on the next frame, not on the dialog goroutine
	assert.Len(t, r.meshes, 1)
	v.Frame()
	assert.Len(t, r.meshes, 2)
	assert.Equal(t, path, v.model)
}

func TestLoadDialogsPostLoads(t *testing.T) {
	dir := t.TempDir()
	cube := filepath.Join(dir, "cube")
	writeCubemap(t, cube)
	img := filepath.Join(dir, "map.png")
	writePNG(t, img, 2)

	tests := []struct {
		key  input.Key
		res  pipeline.Resource
		cube bool
	}{
		{input.KeyC, pipeline.ResSpecular, true},
		{input.KeyF1, pipeline.ResDiffuse, true},
		{input.KeyF2, pipeline.ResWeightedSpecular, true},
		{input.KeyF3, pipeline.ResBRDF, false},
		{input.KeyF4, pipeline.ResColor, false},
		{input.KeyF6, pipeline.ResRoughness, false},
		{input.KeyF7, pipeline.ResMetalness, false},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			v, r := newTestViewer(t, fakeDialogs{image: img, dir: cube})

			require.True(t, v.KeyDown(tt.key))
			require.Eventually(t, func() bool { return len(v.commands) == 1 }, time.Second, time.Millisecond)
			v.Frame()

			if tt.cube {
				assert.Contains(t, r.cubes, tt.res)
				assert.Empty(t, r.images)
			} else {
				assert.Contains(t, r.images, tt.res)
				assert.Empty(t, r.cubes)
			}
		})
	}
}

func TestCancelledDialogPostsNothing(t *testing.T) {
	v, _ := newTestViewer(t, fakeDialogs{err: ErrCancelled})
	v.KeyDown(input.KeyC)
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, v.commands)
}

func TestPostDropsWhenFull(t *testing.T) {
	v, _ := newTestViewer(t, nil)
	ran := 0
	for i := 0; i < commandQueueSize; i++ {
		require.True(t, v.Post(func(*Viewer) { ran++ }))
	}
	assert.False(t, v.Post(func(*Viewer) { ran++ }))

	v.Frame()
	assert.Equal(t, commandQueueSize, ran)
}

func TestScreenshotCapturesAfterRender(t *testing.T) {
	v, r := newTestViewer(t, nil)

	v.KeyDown(input.KeyF12)
	assert.Zero(t, r.reads)
	v.Frame()
	assert.Equal(t, 1, r.reads)

	shots, err := os.ReadDir(v.cfg.Assets.ScreenshotDir)
	require.NoError(t, err)
	assert.Len(t, shots, 1)

	v.Frame()
	assert.Equal(t, 1, r.reads, "one capture per request")
}

func TestConfigRoundTrip(t *testing.T) {
	v, _ := newTestViewer(t, nil)
	v.SetShading(pipeline.Reflection)
	v.SetSSAO(true)
	v.SetAlgorithm(ssao.Sphere)
	v.SetDirections(16)
	v.SetBlurType(ssao.BlurGaussian)
	v.SetRenderMode(ssao.ModeRawAO)
	v.SetAlbedo(0.25, 0.5, 0.75)

	require.NoError(t, v.SaveConfig())

	data, err := os.ReadFile(v.cfg.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shading: reflection")

	st := stateFromConfig(v.cfg)
	assert.Equal(t, pipeline.Reflection, st.Material.Shading)
	assert.True(t, st.SSAOEnabled)
	assert.Equal(t, ssao.Sphere, st.SSAO.Algorithm)
	assert.Equal(t, 16, st.SSAO.Directions)
	assert.Equal(t, ssao.BlurGaussian, st.Blur.Type)
	assert.Equal(t, ssao.ModeRawAO, st.RenderMode)
	assert.InDelta(t, 0.5, st.Material.Albedo.Y, 1e-6)
}

func TestStateFromConfigFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Material.Shading = "toon"
	cfg.SSAO.Algorithm = "ray"
	cfg.SSAO.RenderMode = "wireframe"
	cfg.Blur.Type = "box"
	cfg.Blur.Radius = 0

	st := stateFromConfig(cfg)
	assert.Equal(t, pipeline.Phong, st.Material.Shading)
	assert.Equal(t, ssao.Horizon, st.SSAO.Algorithm)
	assert.Equal(t, ssao.ModeFinal, st.RenderMode)
	assert.Equal(t, ssao.BlurBilateral, st.Blur.Type)
	assert.Equal(t, ssao.MinBlurRadius, st.Blur.Radius)
}

func TestTunables(t *testing.T) {
	v, _ := newTestViewer(t, nil)

	name, value := v.Tunable()
	assert.Equal(t, "metalness", name)
	assert.Equal(t, "0.000", value)

	v.KeyDown(input.KeyRightBracket)
	v.KeyDown(input.KeyRightBracket)
	assert.InDelta(t, 0.1, v.State().Material.Metalness, 1e-6)
	v.KeyDown(input.KeyLeftBracket)
	v.AdjustTunable(-10)
	assert.Zero(t, v.State().Material.Metalness, "clamped at zero")

	selectNamed := func(want string) {
		t.Helper()
		for range tunables {
			if name, _ := v.Tunable(); name == want {
				return
			}
			v.KeyDown(input.KeyP)
		}
		t.Fatalf("no setting named %q", want)
	}

	selectNamed("albedo.g")
	v.AdjustTunable(-2)
	albedo := v.State().Material.Albedo
	assert.InDelta(t, 1.0, albedo.X, 1e-6)
	assert.InDelta(t, 0.9, albedo.Y, 1e-6)
	assert.InDelta(t, 1.0, albedo.Z, 1e-6)

	selectNamed("directions")
	v.AdjustTunable(100)
	assert.Equal(t, ssao.MaxDirections, v.State().SSAO.Directions)

	selectNamed("algorithm")
	v.AdjustTunable(1)
	assert.Equal(t, ssao.Sphere, v.State().SSAO.Algorithm)
	v.AdjustTunable(1)
	assert.Equal(t, ssao.Horizon, v.State().SSAO.Algorithm)

	selectNamed("blur type")
	v.AdjustTunable(1)
	assert.Equal(t, ssao.BlurGaussian, v.State().Blur.Type)
	v.AdjustTunable(1)
	assert.Equal(t, ssao.BlurSimple, v.State().Blur.Type, "wraps around")
	v.AdjustTunable(-1)
	assert.Equal(t, ssao.BlurGaussian, v.State().Blur.Type)

	selectNamed("blur radius")
	v.AdjustTunable(-100)
	assert.Equal(t, ssao.MinBlurRadius, v.State().Blur.Radius)

	selectNamed("depth threshold")
	v.AdjustTunable(1)
	assert.InDelta(t, 0.011, v.State().Blur.DepthThreshold, 1e-6)

	// Selection wraps back to the first setting
	selectNamed("metalness")
	v.SelectTunable(-1)
	name, _ = v.Tunable()
	assert.Equal(t, "depth threshold", name)
}

func TestTitle(t *testing.T) {
	v, _ := newTestViewer(t, nil)
	assert.Contains(t, v.Title(60), "sphere")
	assert.Contains(t, v.Title(60), "60 fps")
	assert.Contains(t, v.Title(60), "phong")
	assert.Contains(t, v.Title(60), "metalness 0.000")

	v.SetSSAO(true)
	assert.Contains(t, v.Title(30), "ssao horizon/final")
}
