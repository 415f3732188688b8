// Package mesh provides the triangle mesh entity and its loaders.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

// Mesh errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
	ErrEmptyMesh         = errors.New("mesh has no triangles")
	ErrAttributeCount    = errors.New("mesh attribute count mismatch")
	ErrIndexRange        = errors.New("mesh index out of range")
)

// Mesh is an indexed triangle mesh with one normal and one texture
// coordinate per vertex. A Mesh is not modified after it is built.
type Mesh struct {
	Positions []float32 // x, y, z per vertex
	Normals   []float32 // x, y, z per vertex
	TexCoords []float32 // u, v per vertex
	Indices   []uint32  // 3 per triangle

	Min math.Vec3
	Max math.Vec3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Indices) / 3
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math.Vec3 {
	return m.Min.Add(m.Max).Scale(0.5)
}

// Extent returns the size of the bounding box.
func (m *Mesh) Extent() math.Vec3 {
	return m.Max.Sub(m.Min)
}

// FromData builds a Mesh from parsed file data. Missing normals are
// generated from the faces and missing texture coordinates are zero.
func FromData(d *formats.MeshData) (*Mesh, error) {
	if len(d.Indices) == 0 || len(d.Indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrEmptyMesh, len(d.Indices))
	}
	if len(d.Positions)%3 != 0 {
		return nil, fmt.Errorf("%w: %d position values", ErrAttributeCount, len(d.Positions))
	}
	n := len(d.Positions) / 3
	for _, idx := range d.Indices {
		if int(idx) >= n {
			return nil, fmt.Errorf("%w: index %d of %d vertices", ErrIndexRange, idx, n)
		}
	}

	m := &Mesh{
		Positions: d.Positions,
		Normals:   d.Normals,
		TexCoords: d.TexCoords,
		Indices:   d.Indices,
	}
	switch len(m.Normals) {
	case n * 3:
	case 0:
		m.Normals = GenerateNormals(m.Positions, m.Indices)
	default:
		return nil, fmt.Errorf("%w: %d normal values for %d vertices", ErrAttributeCount, len(m.Normals), n)
	}
	switch len(m.TexCoords) {
	case n * 2:
	case 0:
		m.TexCoords = make([]float32, n*2)
	default:
		return nil, fmt.Errorf("%w: %d texcoord values for %d vertices", ErrAttributeCount, len(m.TexCoords), n)
	}
	m.Min, m.Max = ComputeBounds(m.Positions)
	return m, nil
}

// ComputeBounds returns the axis-aligned bounds of flat xyz positions.
// Empty input yields zero bounds.
func ComputeBounds(positions []float32) (min, max math.Vec3) {
	if len(positions) < 3 {
		return math.Vec3{}, math.Vec3{}
	}
	min = math.Vec3{X: positions[0], Y: positions[1], Z: positions[2]}
	max = min
	for i := 3; i+2 < len(positions); i += 3 {
		p := math.Vec3{X: positions[i], Y: positions[i+1], Z: positions[i+2]}
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

// GenerateNormals computes per-vertex normals as the normalized sum of the
// adjacent face normals, weighted by face area. Vertices that belong to no
// face, or only to degenerate ones, get (0, 0, 1).
func GenerateNormals(positions []float32, indices []uint32) []float32 {
	acc := make([]math.Vec3, len(positions)/3)
	at := func(i uint32) math.Vec3 {
		return math.Vec3{X: positions[i*3], Y: positions[i*3+1], Z: positions[i*3+2]}
	}
	for f := 0; f+2 < len(indices); f += 3 {
		a, b, c := indices[f], indices[f+1], indices[f+2]
		p0 := at(a)
		// Cross product length is twice the area.
		n := at(b).Sub(p0).Cross(at(c).Sub(p0))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}

	out := make([]float32, 0, len(positions))
	for _, n := range acc {
		if n.Length() < 1e-12 {
			out = append(out, 0, 0, 1)
			continue
		}
		n = n.Normalize()
		out = append(out, n.X, n.Y, n.Z)
	}
	return out
}
