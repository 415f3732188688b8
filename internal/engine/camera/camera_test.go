package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshview/pkg/math"
)

const tol = 1e-5

func newTestCamera() *Camera {
	c := New(DefaultConfig())
	c.SetViewport(0, 0, 800, 600)
	c.SetProjection(60, 0.0001, 20)
	return c
}

func TestDistanceStaysClamped(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)

	for i := 0; i < 1000; i++ {
		c.Zoom(1)
		require.LessOrEqual(t, c.Distance(), cfg.MaxDistance)
	}
	assert.Equal(t, cfg.MaxDistance, c.Distance())

	for i := 0; i < 1000; i++ {
		c.Zoom(-1)
		require.GreaterOrEqual(t, c.Distance(), cfg.MinDistance)
	}
	assert.Equal(t, cfg.MinDistance, c.Distance())

	c.SetDistance(1e6)
	assert.Equal(t, cfg.MaxDistance, c.Distance())
}

func TestPitchStaysClamped(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)
	c.StartRotating(0, 0)

	for y := float32(0); y < 5000; y += 37 {
		c.SetRotationX(y)
		require.LessOrEqual(t, c.Pitch(), cfg.MaxPitch)
	}
	assert.Equal(t, cfg.MaxPitch, c.Pitch())

	for y := float32(5000); y > -5000; y -= 41 {
		c.SetRotationX(y)
		require.GreaterOrEqual(t, c.Pitch(), cfg.MinPitch)
	}
	assert.Equal(t, cfg.MinPitch, c.Pitch())
}

func TestYawIsUnbounded(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)

	const n = 1000
	for i := 0; i < n; i++ {
		c.Rotate(1)
	}
	assert.InDelta(t, float64(cfg.AngleIncrement*n), float64(c.Yaw()), 1e-2)
	assert.Greater(t, float64(c.Yaw()), 2*gomath.Pi)

	c.StartRotating(0, 0)
	c.SetRotationY(100000)
	assert.Greater(t, float64(c.Yaw()), 1000.0)
}

func TestGatedRotation(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)

	c.SetRotationX(10)
	c.SetRotationY(10)
	assert.Zero(t, c.Pitch(), "pitch must not change before StartRotating")
	assert.Zero(t, c.Yaw(), "yaw must not change before StartRotating")

	c.StartRotating(100, 200)
	c.SetRotationX(210)
	assert.InDelta(t, float64(10*cfg.Step), float64(c.Pitch()), tol)

	c.SetRotationY(90)
	assert.InDelta(t, float64(-10*cfg.Step), float64(c.Yaw()), tol)

	c.StopRotating(0, 0)
	pitch := c.Pitch()
	c.SetRotationX(500)
	assert.Equal(t, pitch, c.Pitch(), "pitch must not change after StopRotating")
}

func TestGatedZoom(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)
	start := c.Distance()

	c.SafeZoom(50)
	assert.Equal(t, start, c.Distance())

	c.StartZooming(0, 100)
	c.SafeZoom(120)
	assert.InDelta(t, float64(start+cfg.Step), float64(c.Distance()), tol)
	c.SafeZoom(120)
	assert.InDelta(t, float64(start+cfg.Step), float64(c.Distance()), tol, "no motion means no zoom")
	c.SafeZoom(80)
	assert.InDelta(t, float64(start), float64(c.Distance()), tol)
}

func TestGatedPan(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)

	c.SafePan(100, 100)
	assert.Equal(t, math.Vec2{}, c.Pan())

	c.StartPanning(0, 0)
	c.SafePan(20, 10)
	assert.InDelta(t, float64(2*cfg.Step), float64(c.Pan().X), tol)
	assert.InDelta(t, float64(-1*cfg.Step), float64(c.Pan().Y), tol)
}

func TestUpdateModelNormalizes(t *testing.T) {
	c := newTestCamera()
	min := math.Vec3{X: 2, Y: -4, Z: 10}
	max := math.Vec3{X: 6, Y: 4, Z: 11}
	c.UpdateModel(min, max)

	m := c.ModelMatrix()
	center := m.TransformVec3(min.Add(max).Scale(0.5))
	assert.InDelta(t, 0, float64(center.Length()), tol)

	lo := m.TransformVec3(min)
	hi := m.TransformVec3(max)
	assert.InDelta(t, 1.0, float64(hi.Sub(lo).MaxComponent()), tol)
}

func TestUnitCubeScenario(t *testing.T) {
	c := newTestCamera()
	c.UpdateModel(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	assert.Equal(t, float32(0.5), c.Scaling())
	assert.InDelta(t, 0, float64(c.Centering().Length()), tol)

	c.SetDistance(3)
	want := math.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, -3, 1,
	}
	got := c.ViewMatrix()
	for i := range want {
		assert.InDelta(t, float64(want[i]), float64(got[i]), tol, "view element %d", i)
	}
	assert.InDelta(t, 3.0, float64(c.Position().Z), tol)
}

func TestPositionMatchesInverseView(t *testing.T) {
	c := newTestCamera()
	c.StartRotating(0, 0)
	c.SetRotationX(13)
	c.SetRotationY(-27)
	c.StopRotating(0, 0)
	c.StartPanning(0, 0)
	c.SafePan(33, -71)
	c.StopPanning(0, 0)
	c.Zoom(5)
	c.Rotate(3)

	view := mgl32.Mat4(c.ViewMatrix())
	eye := view.Inv().Mul4x1(mgl32.Vec4{0, 0, 0, 1})

	pos := c.Position()
	assert.InDelta(t, float64(eye.X()), float64(pos.X), 1e-4)
	assert.InDelta(t, float64(eye.Y()), float64(pos.Y), 1e-4)
	assert.InDelta(t, float64(eye.Z()), float64(pos.Z), 1e-4)
}

func TestViewportClampsHeight(t *testing.T) {
	c := New(DefaultConfig())
	c.SetViewport(0, 0, 640, 0)

	vp := c.Viewport()
	assert.Equal(t, int32(1), vp.Height)
	assert.Equal(t, float32(640), c.AspectRatio())
}

func TestProjectionMatchesReference(t *testing.T) {
	c := newTestCamera()
	want := mgl32.Perspective(mgl32.DegToRad(60), 800.0/600.0, 0.0001, 20)
	got := c.ProjectionMatrix()
	for i := range want {
		assert.InDelta(t, float64(want[i]), float64(got[i]), 1e-3, "projection element %d", i)
	}
}
