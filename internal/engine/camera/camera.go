// Package camera provides the orbit camera that drives the viewer's
// model, view and projection matrices.
package camera

import (
	gomath "math"

	"github.com/Faultbox/meshview/pkg/math"
)

// Config holds the camera limits and sensitivities.
type Config struct {
	Distance       float32 // Initial distance from the model
	MinDistance    float32
	MaxDistance    float32
	MinPitch       float32 // Radians
	MaxPitch       float32 // Radians
	Step           float32 // Gesture and zoom step size
	AngleIncrement float32 // Yaw change per discrete rotate command (radians)
}

// DefaultConfig returns the default camera settings.
func DefaultConfig() Config {
	return Config{
		Distance:       2.0,
		MinDistance:    0.1,
		MaxDistance:    10.0,
		MinPitch:       -gomath.Pi / 2,
		MaxPitch:       gomath.Pi / 2,
		Step:           0.05,
		AngleIncrement: gomath.Pi / 36,
	}
}

// Viewport is the rendering surface region in pixels.
type Viewport struct {
	X, Y          int32
	Width, Height int32
}

// Camera orbits around the normalized model.
//
// Continuous pointer gestures are gated: SetRotationX, SetRotationY,
// SafeZoom and SafePan do nothing unless the matching Start* call opened the
// gate. Zoom and Rotate are discrete commands and always apply.
type Camera struct {
	cfg Config

	distance  float32
	rotationX float32 // Pitch, clamped to [MinPitch, MaxPitch]
	rotationY float32 // Yaw, unbounded
	pan       math.Vec2

	rotating bool
	zooming  bool
	panning  bool

	// Last latched pointer position
	currentX float32
	currentY float32

	viewport Viewport

	// Per-mesh normalization
	centering math.Vec3
	scaling   float32

	fovDegrees float32
	zNear      float32
	zFar       float32
}

// New creates a camera with the given configuration.
func New(cfg Config) *Camera {
	c := &Camera{
		cfg:      cfg,
		scaling:  1.0,
		currentX: -1,
		currentY: -1,
	}
	c.distance = math.Clamp(cfg.Distance, cfg.MinDistance, cfg.MaxDistance)
	return c
}

// SetViewport stores the rendering surface region. Sizes below one pixel are
// raised to one.
func (c *Camera) SetViewport(x, y, w, h int32) {
	c.viewport = Viewport{X: x, Y: y, Width: max(w, 1), Height: max(h, 1)}
}

// Viewport returns the current rendering surface region.
func (c *Camera) Viewport() Viewport {
	return c.viewport
}

// SetProjection stores the perspective parameters. fov is in degrees.
func (c *Camera) SetProjection(fov, zNear, zFar float32) {
	c.fovDegrees = fov
	c.zNear = zNear
	c.zFar = zFar
}

// FieldOfView returns the vertical field of view in degrees.
func (c *Camera) FieldOfView() float32 { return c.fovDegrees }

// Near returns the near plane distance.
func (c *Camera) Near() float32 { return c.zNear }

// Far returns the far plane distance.
func (c *Camera) Far() float32 { return c.zFar }

// UpdateModel recomputes the centering translation and uniform scale so the
// box [min, max] is centered at the origin with its longest edge of length 1.
func (c *Camera) UpdateModel(min, max math.Vec3) {
	center := min.Add(max).Scale(0.5)
	c.centering = center.Negate()

	longest := max.Sub(min).MaxComponent()
	if longest <= 0 {
		c.scaling = 1.0
		return
	}
	c.scaling = 1.0 / longest
}

// Centering returns the translation applied before scaling.
func (c *Camera) Centering() math.Vec3 { return c.centering }

// Scaling returns the uniform model scale.
func (c *Camera) Scaling() float32 { return c.scaling }

// ModelMatrix returns scale * translate(centering).
func (c *Camera) ModelMatrix() math.Mat4 {
	s := math.Scale(c.scaling, c.scaling, c.scaling)
	t := math.Translate(c.centering.X, c.centering.Y, c.centering.Z)
	return s.Mul(t)
}

// ViewMatrix returns translate(pan, -distance) * rotateX(pitch) * rotateY(yaw).
func (c *Camera) ViewMatrix() math.Mat4 {
	t := math.Translate(c.pan.X, c.pan.Y, -c.distance)
	return t.Mul(math.RotateX(c.rotationX)).Mul(math.RotateY(c.rotationY))
}

// ProjectionMatrix returns the perspective projection for the current
// viewport aspect ratio.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(math.Radians(c.fovDegrees), c.AspectRatio(), c.zNear, c.zFar)
}

// AspectRatio returns viewport width over height.
func (c *Camera) AspectRatio() float32 {
	if c.viewport.Height == 0 {
		return 1
	}
	return float32(c.viewport.Width) / float32(c.viewport.Height)
}

// Position returns the eye position in world space, the translation column
// of the inverse view matrix.
func (c *Camera) Position() math.Vec3 {
	return c.ViewMatrix().Inverse().Translation()
}

// Distance returns the distance to the orbit center.
func (c *Camera) Distance() float32 { return c.distance }

// SetDistance sets the orbit distance, clamped to the configured range.
func (c *Camera) SetDistance(d float32) {
	c.distance = math.Clamp(d, c.cfg.MinDistance, c.cfg.MaxDistance)
}

// Pitch returns the rotation around X in radians.
func (c *Camera) Pitch() float32 { return c.rotationX }

// Yaw returns the rotation around Y in radians.
func (c *Camera) Yaw() float32 { return c.rotationY }

// Pan returns the pan offset.
func (c *Camera) Pan() math.Vec2 { return c.pan }

// SetStep changes the gesture and zoom step size.
func (c *Camera) SetStep(step float32) { c.cfg.Step = step }

// Zoom moves the camera by step*direction, clamped.
func (c *Camera) Zoom(direction float32) {
	c.distance = math.Clamp(c.distance+c.cfg.Step*direction, c.cfg.MinDistance, c.cfg.MaxDistance)
}

// Rotate changes the yaw by AngleIncrement*direction.
func (c *Camera) Rotate(direction float32) {
	c.rotationY += c.cfg.AngleIncrement * direction
}

// StartRotating opens the rotation gate and latches the pointer.
func (c *Camera) StartRotating(x, y float32) {
	c.latch(x, y)
	c.rotating = true
}

// StopRotating closes the rotation gate and latches the pointer.
func (c *Camera) StopRotating(x, y float32) {
	c.latch(x, y)
	c.rotating = false
}

// StartZooming opens the zoom gate and latches the pointer.
func (c *Camera) StartZooming(x, y float32) {
	c.latch(x, y)
	c.zooming = true
}

// StopZooming closes the zoom gate and latches the pointer.
func (c *Camera) StopZooming(x, y float32) {
	c.latch(x, y)
	c.zooming = false
}

// StartPanning opens the pan gate and latches the pointer.
func (c *Camera) StartPanning(x, y float32) {
	c.latch(x, y)
	c.panning = true
}

// StopPanning closes the pan gate and latches the pointer.
func (c *Camera) StopPanning(x, y float32) {
	c.latch(x, y)
	c.panning = false
}

// SetRotationX changes the pitch by the vertical pointer delta while rotating.
func (c *Camera) SetRotationX(y float32) {
	if !c.rotating {
		return
	}
	c.rotationX += (y - c.currentY) * c.cfg.Step
	c.currentY = y
	c.rotationX = math.Clamp(c.rotationX, c.cfg.MinPitch, c.cfg.MaxPitch)
}

// SetRotationY changes the yaw by the horizontal pointer delta while rotating.
func (c *Camera) SetRotationY(x float32) {
	if !c.rotating {
		return
	}
	c.rotationY += (x - c.currentX) * c.cfg.Step
	c.currentX = x
}

// SafeZoom zooms one step in the direction of the vertical pointer motion
// while zooming. No motion means no change.
func (c *Camera) SafeZoom(y float32) {
	if !c.zooming {
		return
	}
	switch {
	case y < c.currentY:
		c.Zoom(-1)
	case y > c.currentY:
		c.Zoom(1)
	}
	c.currentY = y
}

// SafePan moves the pan offset by a tenth of the pointer delta, scaled by
// the step, while panning. Screen Y grows downwards, so it is inverted.
func (c *Camera) SafePan(x, y float32) {
	if !c.panning {
		return
	}
	c.pan.X += (x - c.currentX) / 10 * c.cfg.Step
	c.pan.Y -= (y - c.currentY) / 10 * c.cfg.Step
	c.latch(x, y)
}

func (c *Camera) latch(x, y float32) {
	c.currentX = x
	c.currentY = y
}
