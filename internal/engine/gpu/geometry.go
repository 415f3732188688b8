package gpu

// SkyboxSize is the edge length of the skybox cube.
const SkyboxSize = 10.0

// SkyboxVertices returns the 8 corners of a cube of the given edge length
// centered at the origin.
func SkyboxVertices(size float32) []float32 {
	h := size / 2
	return []float32{
		-h, -h, -h,
		h, -h, -h,
		-h, -h, h,
		h, -h, h,
		-h, h, -h,
		h, h, -h,
		-h, h, h,
		h, h, h,
	}
}

// SkyboxIndices are the 12 triangles of the skybox cube.
var SkyboxIndices = []uint32{
	4, 7, 6, 4, 5, 7, // top
	0, 3, 1, 0, 2, 3, // bottom
	6, 3, 2, 6, 7, 3, // +Z
	0, 1, 4, 4, 1, 5, // -Z
	6, 0, 2, 6, 4, 0, // -X
	1, 3, 7, 7, 5, 1, // +X
}

// QuadVertices are the corners of the full-screen quad in clip space.
var QuadVertices = []float32{
	-1, -1,
	1, -1,
	1, 1,
	-1, 1,
}

// QuadIndices are the two triangles of the full-screen quad.
var QuadIndices = []uint32{0, 1, 2, 0, 2, 3}
