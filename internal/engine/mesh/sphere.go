package mesh

import (
	"github.com/chewxy/math32"
)

// Default tessellation of the built-in sphere.
const (
	SphereStacks = 32
	SphereSlices = 64
)

// Sphere builds a unit UV sphere centered at the origin. Stacks run from
// the north pole (+Y) to the south pole; slices wrap around Y with a seam
// column duplicated so texture coordinates span [0, 1].
func Sphere(stacks, slices int) *Mesh {
	stacks = max(stacks, 2)
	slices = max(slices, 3)

	n := (stacks + 1) * (slices + 1)
	m := &Mesh{
		Positions: make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
		TexCoords: make([]float32, 0, n*2),
		Indices:   make([]uint32, 0, stacks*slices*6),
	}

	for i := 0; i <= stacks; i++ {
		v := float32(i) / float32(stacks)
		theta := v * math32.Pi
		sinT, cosT := math32.Sincos(theta)
		for j := 0; j <= slices; j++ {
			u := float32(j) / float32(slices)
			phi := u * 2 * math32.Pi
			sinP, cosP := math32.Sincos(phi)

			x, y, z := sinT*cosP, cosT, -sinT*sinP
			m.Positions = append(m.Positions, x, y, z)
			m.Normals = append(m.Normals, x, y, z)
			m.TexCoords = append(m.TexCoords, u, 1-v)
		}
	}

	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			// Pole rows collapse to one triangle per slice.
			if i != 0 {
				m.Indices = append(m.Indices, a, b, a+1)
			}
			if i != stacks-1 {
				m.Indices = append(m.Indices, a+1, b, b+1)
			}
		}
	}

	m.Min, m.Max = ComputeBounds(m.Positions)
	return m
}
