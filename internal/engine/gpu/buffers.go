// Package gpu owns the GPU objects of the viewer: vertex buffers, textures
// and the viewport-sized render targets.
package gpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/internal/engine/mesh"
)

// Vertex attribute locations shared by every program.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribTexCoord = 2
)

// Buffers is a vertex array with one buffer per attribute and an index
// buffer.
type Buffers struct {
	vao        uint32
	vbos       []uint32
	ebo        uint32
	indexCount int32
}

// NewMeshBuffers uploads a mesh.
func NewMeshBuffers(m *mesh.Mesh) *Buffers {
	b := &Buffers{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	b.attribute(AttribPosition, 3, m.Positions)
	b.attribute(AttribNormal, 3, m.Normals)
	b.attribute(AttribTexCoord, 2, m.TexCoords)
	b.indices(m.Indices)
	gl.BindVertexArray(0)
	return b
}

// NewSkybox uploads the skybox cube.
func NewSkybox() *Buffers {
	b := &Buffers{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	b.attribute(AttribPosition, 3, SkyboxVertices(SkyboxSize))
	b.indices(SkyboxIndices)
	gl.BindVertexArray(0)
	return b
}

// NewQuad uploads the full-screen quad.
func NewQuad() *Buffers {
	b := &Buffers{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	b.attribute(AttribPosition, 2, QuadVertices)
	b.indices(QuadIndices)
	gl.BindVertexArray(0)
	return b
}

func (b *Buffers) attribute(location uint32, size int32, data []float32) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(location)
	b.vbos = append(b.vbos, vbo)
}

func (b *Buffers) indices(data []uint32) {
	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	if len(data) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	b.indexCount = int32(len(data))
}

// Draw issues an indexed triangle draw.
func (b *Buffers) Draw() {
	if b == nil || b.vao == 0 || b.indexCount == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, b.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// IndexCount returns the number of indices drawn.
func (b *Buffers) IndexCount() int32 {
	return b.indexCount
}

// Destroy releases the buffers.
func (b *Buffers) Destroy() {
	if b == nil {
		return
	}
	if len(b.vbos) > 0 {
		gl.DeleteBuffers(int32(len(b.vbos)), &b.vbos[0])
		b.vbos = nil
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
		b.ebo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	b.indexCount = 0
}
