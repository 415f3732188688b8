package ssao

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshview/pkg/math"
)

// GBuffer is a CPU copy of the geometry pass output. Row 0 is the bottom
// row, as read back from the GPU.
type GBuffer struct {
	Width   int
	Height  int
	Normals []math.Vec3 // View space, unit length
	Depth   []float32   // Device depth in [0, 1]; 1 is background
}

// NewGBuffer allocates an empty buffer with every pixel at background depth.
func NewGBuffer(w, h int) *GBuffer {
	gb := &GBuffer{
		Width:   w,
		Height:  h,
		Normals: make([]math.Vec3, w*h),
		Depth:   make([]float32, w*h),
	}
	for i := range gb.Depth {
		gb.Depth[i] = 1
	}
	return gb
}

// Projection carries the perspective parameters used to rebuild view-space
// positions from depth.
type Projection struct {
	FovY float32 // Degrees
	Near float32
	Far  float32
}

// LinearizeDepth converts device depth to positive view-space distance.
func LinearizeDepth(d, near, far float32) float32 {
	ndc := d*2 - 1
	return 2 * near * far / (far + near - ndc*(far-near))
}

// DeviceDepth converts positive view-space distance to device depth.
func DeviceDepth(linear, near, far float32) float32 {
	ndc := (far + near - 2*near*far/linear) / (far - near)
	return (ndc + 1) / 2
}

type estimator struct {
	w, h       int
	tanHalf    float32
	aspect     float32
	pos        []math.Vec3
	normals    []math.Vec3
	background []bool
}

func newEstimator(gb *GBuffer, proj Projection) *estimator {
	e := &estimator{
		w:          gb.Width,
		h:          gb.Height,
		tanHalf:    math32.Tan(math.Radians(proj.FovY) / 2),
		aspect:     float32(gb.Width) / float32(max(gb.Height, 1)),
		pos:        make([]math.Vec3, len(gb.Depth)),
		normals:    gb.Normals,
		background: make([]bool, len(gb.Depth)),
	}
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			i := y*e.w + x
			d := gb.Depth[i]
			if d >= 1 {
				e.background[i] = true
				continue
			}
			linear := LinearizeDepth(d, proj.Near, proj.Far)
			ndcX := (float32(x)+0.5)/float32(e.w)*2 - 1
			ndcY := (float32(y)+0.5)/float32(e.h)*2 - 1
			e.pos[i] = math.Vec3{
				X: ndcX * e.tanHalf * e.aspect * linear,
				Y: ndcY * e.tanHalf * linear,
				Z: -linear,
			}
		}
	}
	return e
}

// project maps a view-space point to the pixel that covers it.
func (e *estimator) project(v math.Vec3) (int, int, bool) {
	if v.Z >= 0 {
		return 0, 0, false
	}
	ndcX := v.X / (-v.Z * e.tanHalf * e.aspect)
	ndcY := v.Y / (-v.Z * e.tanHalf)
	x := int(math32.Floor((ndcX + 1) / 2 * float32(e.w)))
	y := int(math32.Floor((ndcY + 1) / 2 * float32(e.h)))
	if x < 0 || y < 0 || x >= e.w || y >= e.h {
		return 0, 0, false
	}
	return x, y, true
}

// Estimate computes the visibility of every pixel of gb, 1 meaning fully
// lit. noise may be nil when randomization is disabled. The result does not
// depend on noise when p.UseRandomization is false.
func Estimate(gb *GBuffer, proj Projection, p Params, noise *Noise) []float32 {
	p = p.Sanitized()
	e := newEstimator(gb, proj)
	out := make([]float32, gb.Width*gb.Height)

	var kernel []math.Vec3
	if p.Algorithm == Sphere {
		kernel = SphereKernel(p.Directions*p.SamplesPerDirection, p.BiasAngle)
	}

	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			i := y*e.w + x
			if e.background[i] {
				out[i] = 1
				continue
			}
			rot := math.Vec2{X: 1}
			if p.UseRandomization && noise != nil {
				r := noise.At(x, y)
				rot = math.Vec2{X: r.X, Y: r.Y}
			}
			var occlusion float32
			if p.Algorithm == Sphere {
				occlusion = e.sphere(i, p, kernel, rot)
			} else {
				occlusion = e.horizon(x, y, p, rot)
			}
			out[i] = math.Clamp(1-p.Strength*occlusion, 0, 1)
		}
	}
	return out
}

// horizon returns the mean occluded fraction over all directions.
func (e *estimator) horizon(x, y int, p Params, rot math.Vec2) float32 {
	i := y*e.w + x
	pos, n := e.pos[i], e.normals[i]

	projScale := float32(e.h) / (2 * e.tanHalf)
	radiusPx := p.Radius * projScale / -pos.Z
	if radiusPx < 1 {
		return 0
	}
	stepPx := radiusPx / float32(p.SamplesPerDirection)
	sinBias := math32.Sin(p.BiasAngle)

	var total float32
	for d := 0; d < p.Directions; d++ {
		angle := 2 * math32.Pi * float32(d) / float32(p.Directions)
		dir := math.Vec2{X: math32.Cos(angle), Y: math32.Sin(angle)}.Rotate(rot)

		maxSin := sinBias
		for s := 1; s <= p.SamplesPerDirection; s++ {
			off := dir.Scale(stepPx * float32(s))
			sx := x + int(math32.Floor(off.X+0.5))
			sy := y + int(math32.Floor(off.Y+0.5))
			if sx < 0 || sy < 0 || sx >= e.w || sy >= e.h {
				break
			}
			j := sy*e.w + sx
			if j == i || e.background[j] {
				continue
			}
			v := e.pos[j].Sub(pos)
			dist := v.Length()
			if dist == 0 || dist > p.Radius {
				continue
			}
			if sinH := v.Dot(n) / dist; sinH > maxSin {
				maxSin = sinH
			}
		}
		total += (maxSin - sinBias) / (1 - sinBias)
	}
	return total / float32(p.Directions)
}

// sphere returns the fraction of kernel samples hidden behind geometry.
func (e *estimator) sphere(i int, p Params, kernel []math.Vec3, rot math.Vec2) float32 {
	pos, n := e.pos[i], e.normals[i]
	t, b := tangentFrame(n, math.Vec3{X: rot.X, Y: rot.Y})
	eps := 1e-3 * p.Radius

	var occluded float32
	for _, k := range kernel {
		s := pos.Add(t.Scale(k.X * p.Radius)).Add(b.Scale(k.Y * p.Radius)).Add(n.Scale(k.Z * p.Radius))
		x, y, ok := e.project(s)
		if !ok {
			continue
		}
		j := y*e.w + x
		if e.background[j] {
			continue
		}
		geom := e.pos[j]
		if geom.Z >= s.Z+eps && math32.Abs(pos.Z-geom.Z) < p.Radius {
			occluded++
		}
	}
	return occluded / float32(len(kernel))
}

// tangentFrame builds an orthonormal tangent and bitangent around n,
// oriented by r.
func tangentFrame(n, r math.Vec3) (math.Vec3, math.Vec3) {
	t := r.Sub(n.Scale(r.Dot(n)))
	if t.Length() < 1e-4 {
		r = math.Vec3{X: 1}
		if math32.Abs(n.X) > 0.9 {
			r = math.Vec3{Y: 1}
		}
		t = r.Sub(n.Scale(r.Dot(n)))
	}
	t = t.Normalize()
	return t, n.Cross(t)
}

// SphereKernel returns n hemisphere samples around +Z. Samples never fall
// below the bias elevation, and their length grows towards the end of the
// kernel so nearby occluders weigh more. The kernel is fixed for a given n
// and bias.
func SphereKernel(n int, bias float32) []math.Vec3 {
	rng := rand.New(rand.NewSource(0))
	kernel := make([]math.Vec3, n)
	for i := range kernel {
		theta := rng.Float32() * math32.Pi * 2
		phi := lerp(0, math32.Pi/2-bias, rng.Float32())

		sample := math.Vec3{
			X: math32.Sin(phi) * math32.Cos(theta),
			Y: math32.Sin(phi) * math32.Sin(theta),
			Z: math32.Cos(phi),
		}
		scale := float32(i) / float32(n)
		kernel[i] = sample.Normalize().Scale(lerp(0.1, 1.0, scale*scale))
	}
	return kernel
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
