// Package texture decodes 2D maps and cubemap face sets on the CPU. Nothing
// here touches the GPU, so a failed decode leaves the bound textures intact.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
)

var (
	// ErrUnsupportedFormat is returned for file extensions no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrMissingFace is returned when a cubemap directory lacks a face.
	ErrMissingFace = errors.New("missing cubemap face")
	// ErrFaceSize is returned when cubemap faces are not equal squares.
	ErrFaceSize = errors.New("cubemap faces must be equal squares")
)

// Extensions lists the image file extensions Load decodes.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".tga"}

// Supported reports whether path has a decodable image extension.
func Supported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Load decodes an image file into RGBA, top row first.
func Load(path string) (*image.RGBA, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode decodes image data. ext selects the TGA decoder, which has no magic
// number; other formats are sniffed.
func Decode(data []byte, ext string) (*image.RGBA, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(ext, ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// ToRGBA converts img to *image.RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

// FlipVertical returns a copy of img with its rows reversed, the row order
// GL expects for 2D textures.
func FlipVertical(img *image.RGBA) *image.RGBA {
	h := img.Rect.Dy()
	out := image.NewRGBA(img.Rect)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()*4]
		dst := out.Pix[(h-1-y)*out.Stride:]
		copy(dst, src)
	}
	return out
}

// CubeFaces are the face file names in +X, -X, +Y, -Y, +Z, -Z order.
var CubeFaces = [6]string{"right", "left", "top", "bottom", "back", "front"}

// Cubemap is a decoded six-face environment map.
type Cubemap struct {
	Dir   string
	Size  int
	Faces [6]*image.RGBA
}

// LoadCubemap decodes the six <face>.png files of dir. Every face is
// decoded before returning, so any missing or unreadable face fails the
// whole set.
func LoadCubemap(dir string) (*Cubemap, error) {
	c := &Cubemap{Dir: dir}
	for i, name := range CubeFaces {
		path := filepath.Join(dir, name+".png")
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingFace, path)
		}
		img, err := Load(path)
		if err != nil {
			return nil, err
		}
		w, h := img.Rect.Dx(), img.Rect.Dy()
		if w != h || (i > 0 && w != c.Size) {
			return nil, fmt.Errorf("%w: %s is %dx%d", ErrFaceSize, path, w, h)
		}
		c.Size = w
		c.Faces[i] = img
	}
	return c, nil
}
