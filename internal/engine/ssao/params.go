// Package ssao implements the screen-space ambient occlusion parameter set,
// the rotation noise and a CPU reference of the estimator and blur kernels
// run by the GPU passes.
package ssao

import (
	"fmt"

	"github.com/Faultbox/meshview/pkg/math"
)

// Algorithm selects the occlusion estimator.
type Algorithm int

const (
	// Horizon marches screen-space directions and accumulates horizon angles.
	Horizon Algorithm = iota
	// Sphere tests hemisphere kernel samples against the depth buffer.
	Sphere
)

func (a Algorithm) String() string {
	switch a {
	case Horizon:
		return "horizon"
	case Sphere:
		return "sphere"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm parses the config name of an algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "horizon", "hbao":
		return Horizon, nil
	case "sphere":
		return Sphere, nil
	}
	return Horizon, fmt.Errorf("unknown ssao algorithm %q", s)
}

// Parameter limits.
const (
	MinDirections = 4
	MaxDirections = 64
	MinSamples    = 1
	MaxSamples    = 64
	MinRadius     = 0.001
	MaxBiasAngle  = 0.5 // Radians
	MaxStrength   = 2.0
)

// Params configures the occlusion estimator. Use the setters to keep every
// field within its valid range.
type Params struct {
	Directions          int
	SamplesPerDirection int
	Radius              float32 // View-space units
	BiasAngle           float32 // Radians
	UseRandomization    bool
	Strength            float32
	Algorithm           Algorithm
}

// DefaultParams returns the startup estimator settings.
func DefaultParams() Params {
	return Params{
		Directions:          8,
		SamplesPerDirection: 4,
		Radius:              0.1,
		BiasAngle:           0.1,
		UseRandomization:    true,
		Strength:            1.0,
		Algorithm:           Horizon,
	}
}

// SetDirections sets the direction count, clamped to
// [MinDirections, MaxDirections].
func (p *Params) SetDirections(n int) { p.Directions = math.Clamp(n, MinDirections, MaxDirections) }

// SetSamplesPerDirection sets the march step count, clamped to
// [MinSamples, MaxSamples].
func (p *Params) SetSamplesPerDirection(n int) {
	p.SamplesPerDirection = math.Clamp(n, MinSamples, MaxSamples)
}

// SetRadius sets the sample radius, raised to at least MinRadius.
func (p *Params) SetRadius(r float32) { p.Radius = max(r, MinRadius) }

// SetBiasAngle sets the bias angle, clamped to [0, MaxBiasAngle].
func (p *Params) SetBiasAngle(a float32) { p.BiasAngle = math.Clamp(a, 0, MaxBiasAngle) }

// SetStrength sets the AO strength, clamped to [0, MaxStrength].
func (p *Params) SetStrength(s float32) { p.Strength = math.Clamp(s, 0, MaxStrength) }

// Sanitized returns a copy with every field clamped.
func (p Params) Sanitized() Params {
	out := p
	out.SetDirections(p.Directions)
	out.SetSamplesPerDirection(p.SamplesPerDirection)
	out.SetRadius(p.Radius)
	out.SetBiasAngle(p.BiasAngle)
	out.SetStrength(p.Strength)
	if p.Algorithm != Horizon && p.Algorithm != Sphere {
		out.Algorithm = Horizon
	}
	return out
}

// BlurType selects the blur kernel.
type BlurType int

const (
	BlurSimple BlurType = iota + 1
	BlurBilateral
	BlurGaussian
)

func (b BlurType) String() string {
	switch b {
	case BlurSimple:
		return "simple"
	case BlurBilateral:
		return "bilateral"
	case BlurGaussian:
		return "gaussian"
	default:
		return fmt.Sprintf("BlurType(%d)", int(b))
	}
}

// ParseBlurType parses the config name of a blur kernel.
func ParseBlurType(s string) (BlurType, error) {
	switch s {
	case "simple", "uniform":
		return BlurSimple, nil
	case "bilateral":
		return BlurBilateral, nil
	case "gaussian":
		return BlurGaussian, nil
	}
	return BlurBilateral, fmt.Errorf("unknown blur type %q", s)
}

// Blur limits.
const (
	MinBlurRadius      = 1
	MaxBlurRadius      = 10
	MinDepthThreshold  = 0.001
	MaxDepthThreshold  = 0.1
	MinNormalThreshold = 0.0
	MaxNormalThreshold = 1.0
)

// BlurParams configures the blur stage.
type BlurParams struct {
	Type            BlurType
	Radius          int     // Pixels
	NormalThreshold float32 // Minimum normal dot product
	DepthThreshold  float32 // Maximum depth difference, in units of the far plane
}

// DefaultBlurParams returns the startup blur settings.
func DefaultBlurParams() BlurParams {
	return BlurParams{
		Type:            BlurBilateral,
		Radius:          4,
		NormalThreshold: 0.8,
		DepthThreshold:  0.01,
	}
}

// SetType sets the kernel, clamped to the valid range.
func (b *BlurParams) SetType(t BlurType) { b.Type = math.Clamp(t, BlurSimple, BlurGaussian) }

// SetRadius sets the kernel radius, clamped to [MinBlurRadius, MaxBlurRadius].
func (b *BlurParams) SetRadius(r int) { b.Radius = math.Clamp(r, MinBlurRadius, MaxBlurRadius) }

// SetNormalThreshold sets the normal similarity threshold, clamped to [0, 1].
func (b *BlurParams) SetNormalThreshold(t float32) {
	b.NormalThreshold = math.Clamp(t, MinNormalThreshold, MaxNormalThreshold)
}

// SetDepthThreshold sets the depth similarity threshold, clamped to
// [MinDepthThreshold, MaxDepthThreshold].
func (b *BlurParams) SetDepthThreshold(t float32) {
	b.DepthThreshold = math.Clamp(t, MinDepthThreshold, MaxDepthThreshold)
}

// Sanitized returns a copy with every field clamped.
func (b BlurParams) Sanitized() BlurParams {
	out := b
	out.SetType(b.Type)
	out.SetRadius(b.Radius)
	out.SetNormalThreshold(b.NormalThreshold)
	out.SetDepthThreshold(b.DepthThreshold)
	return out
}

// RenderMode selects what the composition pass outputs.
type RenderMode int

const (
	ModeNormals RenderMode = iota
	ModeAlbedo
	ModeDepth
	ModeRawAO
	ModeBlurredAO
	ModeFinal
)

// RenderModeCount is the number of composition outputs.
const RenderModeCount = int(ModeFinal) + 1

func (m RenderMode) String() string {
	switch m {
	case ModeNormals:
		return "normals"
	case ModeAlbedo:
		return "albedo"
	case ModeDepth:
		return "depth"
	case ModeRawAO:
		return "raw-ao"
	case ModeBlurredAO:
		return "blurred-ao"
	case ModeFinal:
		return "final"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// ClampRenderMode clamps m to a valid output.
func ClampRenderMode(m RenderMode) RenderMode {
	return math.Clamp(m, ModeNormals, ModeFinal)
}

// Next cycles to the following render mode.
func (m RenderMode) Next() RenderMode {
	return RenderMode((int(ClampRenderMode(m)) + 1) % RenderModeCount)
}

// ParseRenderMode parses the config name of a render mode.
func ParseRenderMode(s string) (RenderMode, error) {
	for m := ModeNormals; m <= ModeFinal; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeFinal, fmt.Errorf("unknown render mode %q", s)
}
