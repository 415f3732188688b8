package gpu

import (
	"math/rand"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/internal/engine/ssao"
)

// NoiseTexture is the SSAO rotation tile. Its edge follows the viewport as
// max(width, height) and the tile is regenerated whenever the viewport size
// changes.
type NoiseTexture struct {
	tex      uint32
	size     int
	viewport [2]int32
	rng      *rand.Rand
}

// NewNoiseTexture creates an empty noise texture drawing from rng. The first
// Resize allocates it.
func NewNoiseTexture(rng *rand.Rand) *NoiseTexture {
	return &NoiseTexture{rng: rng}
}

// Resize regenerates the tile for a viewport of the given size.
func (n *NoiseTexture) Resize(width, height int32) error {
	if !n.stale(width, height) {
		return nil
	}
	size := ssao.NoiseSize(int(width), int(height))
	n.Destroy()
	noise := ssao.NewNoise(size, n.rng)
	data := noise.Floats()

	gl.GenTextures(1, &n.tex)
	gl.BindTexture(gl.TEXTURE_2D, n.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB16F, int32(size), int32(size), 0, gl.RGB, gl.FLOAT, gl.Ptr(data))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	n.size = size
	n.viewport = [2]int32{width, height}
	return nil
}

// stale reports whether the tile was built for a different viewport.
func (n *NoiseTexture) stale(width, height int32) bool {
	return n.tex == 0 || n.viewport != [2]int32{width, height}
}

// Size returns the tile edge in both dimensions.
func (n *NoiseTexture) Size() (width, height int32) {
	return int32(n.size), int32(n.size)
}

// TileSize returns the tile edge.
func (n *NoiseTexture) TileSize() int {
	return n.size
}

// Texture returns the GL texture.
func (n *NoiseTexture) Texture() Texture {
	return Texture{ID: n.tex, Kind: Kind2D}
}

// Destroy releases the texture.
func (n *NoiseTexture) Destroy() {
	if n.tex != 0 {
		gl.DeleteTextures(1, &n.tex)
		n.tex = 0
	}
}
