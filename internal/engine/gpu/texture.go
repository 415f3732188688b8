package gpu

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/internal/engine/texture"
)

// Kind is the GL binding target of a texture.
type Kind int

const (
	Kind2D Kind = iota
	KindCube
)

func (k Kind) String() string {
	if k == KindCube {
		return "cubemap"
	}
	return "2d"
}

// Target returns the GL texture target.
func (k Kind) Target() uint32 {
	if k == KindCube {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

// Texture is a GL texture object.
type Texture struct {
	ID   uint32
	Kind Kind
}

// Valid reports whether the texture holds a GL object.
func (t Texture) Valid() bool {
	return t.ID != 0
}

// Delete releases the texture.
func (t Texture) Delete() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
	}
}

// Upload2D uploads a material map with trilinear mipmaps and repeat wrap.
// Rows are flipped so the first row of the image lands at v = 1.
func Upload2D(img *image.RGBA) Texture {
	flipped := texture.FlipVertical(img)
	w, h := int32(flipped.Rect.Dx()), int32(flipped.Rect.Dy())

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(flipped.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return Texture{ID: id, Kind: Kind2D}
}

// UploadLUT uploads a lookup table sampled with linear filtering and clamped
// coordinates.
func UploadLUT(img *image.RGBA) Texture {
	flipped := texture.FlipVertical(img)
	w, h := int32(flipped.Rect.Dx()), int32(flipped.Rect.Dy())

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(flipped.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return Texture{ID: id, Kind: Kind2D}
}

// UploadCubemap uploads six faces in +X, -X, +Y, -Y, +Z, -Z order.
func UploadCubemap(c *texture.Cubemap) Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for i, face := range c.Faces {
		gl.TexImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i), 0, gl.RGBA8,
			int32(c.Size), int32(c.Size), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(face.Pix))
	}
	setCubeParams()
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return Texture{ID: id, Kind: KindCube}
}

func setCubeParams() {
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
}

var white = []uint8{255, 255, 255, 255}

// newDefault creates a 1x1 white texture of the given kind, bound whenever a
// resource was never loaded.
func newDefault(k Kind) Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(k.Target(), id)
	if k == KindCube {
		for i := 0; i < 6; i++ {
			gl.TexImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i), 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
		}
		setCubeParams()
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	}
	gl.BindTexture(k.Target(), 0)
	return Texture{ID: id, Kind: k}
}
