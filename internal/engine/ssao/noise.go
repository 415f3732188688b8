package ssao

import (
	"math/rand"

	"github.com/Faultbox/meshview/pkg/math"
)

// Noise is a square tile of per-pixel rotation vectors. Every vector has
// z = 0 and a normalized xy drawn uniformly from [-1, 1].
type Noise struct {
	Size int
	Data []math.Vec3 // Row-major, Size*Size entries
}

// NoiseSize returns the noise tile edge for a viewport, max(w, h).
func NoiseSize(w, h int) int {
	return max(w, h, 1)
}

// NoiseScale returns the UV multiplier that maps the viewport onto the noise
// tile.
func NoiseScale(w, h, size int) math.Vec2 {
	if size <= 0 {
		return math.Vec2{X: 1, Y: 1}
	}
	return math.Vec2{X: float32(w) / float32(size), Y: float32(h) / float32(size)}
}

// NewNoise generates a size x size rotation tile from rng.
func NewNoise(size int, rng *rand.Rand) *Noise {
	size = max(size, 1)
	n := &Noise{Size: size, Data: make([]math.Vec3, size*size)}
	for i := range n.Data {
		for {
			v := math.Vec3{X: rng.Float32()*2 - 1, Y: rng.Float32()*2 - 1}
			if v.Length() > 1e-4 {
				n.Data[i] = v.Normalize()
				break
			}
		}
	}
	return n
}

// At returns the rotation vector for pixel (x, y), tiling the noise.
func (n *Noise) At(x, y int) math.Vec3 {
	x %= n.Size
	y %= n.Size
	if x < 0 {
		x += n.Size
	}
	if y < 0 {
		y += n.Size
	}
	return n.Data[y*n.Size+x]
}

// Floats flattens the tile to RGB triples for texture upload.
func (n *Noise) Floats() []float32 {
	out := make([]float32, 0, len(n.Data)*3)
	for _, v := range n.Data {
		out = append(out, v.X, v.Y, v.Z)
	}
	return out
}
