package ssao

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshview/pkg/math"
)

// Blur filters a raw AO image of gb's size with the kernel selected by b.
// The bilateral kernel uses the normals and linearized depth of gb as
// guides; the other kernels ignore them.
func Blur(ao []float32, gb *GBuffer, proj Projection, b BlurParams) []float32 {
	b = b.Sanitized()
	w, h := gb.Width, gb.Height

	var depth []float32
	if b.Type == BlurBilateral {
		depth = make([]float32, len(gb.Depth))
		for i, d := range gb.Depth {
			depth[i] = LinearizeDepth(d, proj.Near, proj.Far) / proj.Far
		}
	}

	sigma := max(float32(b.Radius)/2, 1)
	out := make([]float32, len(ao))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			var sum, weights float32
			for dy := -b.Radius; dy <= b.Radius; dy++ {
				for dx := -b.Radius; dx <= b.Radius; dx++ {
					sx, sy := x+dx, y+dy
					if sx < 0 || sy < 0 || sx >= w || sy >= h {
						continue
					}
					j := sy*w + sx
					wt := float32(1)
					switch b.Type {
					case BlurGaussian:
						wt = gaussian(dx, dy, sigma)
					case BlurBilateral:
						if j != i && !similar(gb.Normals[i], gb.Normals[j], depth[i], depth[j], b) {
							continue
						}
						wt = gaussian(dx, dy, sigma)
					}
					sum += ao[j] * wt
					weights += wt
				}
			}
			out[i] = sum / weights
		}
	}
	return out
}

func gaussian(dx, dy int, sigma float32) float32 {
	d2 := float32(dx*dx + dy*dy)
	return math32.Exp(-d2 / (2 * sigma * sigma))
}

// similar reports whether a neighbor lies on the same surface as the
// center pixel.
func similar(nc, nq math.Vec3, dc, dq float32, b BlurParams) bool {
	if nc.Dot(nq) < b.NormalThreshold {
		return false
	}
	return math32.Abs(dc-dq) <= b.DepthThreshold
}
