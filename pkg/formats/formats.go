// Package formats provides parsers for triangle mesh file formats.
package formats

// MeshData is a parsed triangle mesh with flat attribute arrays. Normals and
// TexCoords are empty when the file carries none; otherwise they hold one
// entry per vertex.
type MeshData struct {
	Positions []float32 // x, y, z per vertex
	Normals   []float32 // x, y, z per vertex
	TexCoords []float32 // u, v per vertex
	Indices   []uint32  // 3 per triangle
}

// VertexCount returns the number of vertices.
func (m *MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// FaceCount returns the number of triangles.
func (m *MeshData) FaceCount() int {
	return len(m.Indices) / 3
}

// fan appends the triangle fan of polygon to indices.
func fan(indices []uint32, polygon []uint32) []uint32 {
	for i := 1; i+1 < len(polygon); i++ {
		indices = append(indices, polygon[0], polygon[i], polygon[i+1])
	}
	return indices
}
