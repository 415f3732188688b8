// Package framebuffer provides offscreen render targets with any number of
// color attachments and an optional sampled depth attachment.
package framebuffer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrIncomplete is returned when the driver rejects the attachment set.
var ErrIncomplete = errors.New("framebuffer incomplete")

// Format describes the storage of one attachment.
type Format struct {
	Internal int32
	Format   uint32
	Type     uint32
}

// Attachment formats used by the viewer.
var (
	RGBA8  = Format{Internal: gl.RGBA8, Format: gl.RGBA, Type: gl.UNSIGNED_BYTE}
	RGB16F = Format{Internal: gl.RGB16F, Format: gl.RGB, Type: gl.FLOAT}
	R16F   = Format{Internal: gl.R16F, Format: gl.RED, Type: gl.FLOAT}
	depth  = Format{Internal: gl.DEPTH_COMPONENT24, Format: gl.DEPTH_COMPONENT, Type: gl.FLOAT}
)

// Spec lists the attachments of a framebuffer.
type Spec struct {
	Colors []Format
	Depth  bool // Depth texture, sampled by later passes
}

// Framebuffer is an offscreen render target. Resize frees and recreates
// every attachment.
type Framebuffer struct {
	name   string
	spec   Spec
	fbo    uint32
	colors []uint32
	depth  uint32
	width  int32
	height int32
}

// New creates a framebuffer of the given size. Sizes below one pixel are
// raised to one.
func New(name string, width, height int32, spec Spec) (*Framebuffer, error) {
	if len(spec.Colors) == 0 && !spec.Depth {
		return nil, fmt.Errorf("framebuffer %s: no attachments", name)
	}
	fb := &Framebuffer{
		name:   name,
		spec:   spec,
		width:  max(width, 1),
		height: max(height, 1),
	}
	if err := fb.create(); err != nil {
		return nil, err
	}
	return fb, nil
}

func (fb *Framebuffer) create() error {
	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	fb.colors = make([]uint32, len(fb.spec.Colors))
	drawBuffers := make([]uint32, len(fb.spec.Colors))
	for i, f := range fb.spec.Colors {
		fb.colors[i] = attachTexture(f, fb.width, fb.height, uint32(gl.COLOR_ATTACHMENT0+i))
		drawBuffers[i] = uint32(gl.COLOR_ATTACHMENT0 + i)
	}
	if fb.spec.Depth {
		fb.depth = attachTexture(depth, fb.width, fb.height, gl.DEPTH_ATTACHMENT)
	}

	if len(drawBuffers) > 0 {
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Destroy()
		return fmt.Errorf("%w: %s status 0x%x", ErrIncomplete, fb.name, status)
	}
	return nil
}

func attachTexture(f Format, w, h int32, attachment uint32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.Internal, w, h, 0, f.Format, f.Type, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, tex, 0)
	return tex
}

// Bind makes this framebuffer the draw target and matches the viewport.
func (fb *Framebuffer) Bind() error {
	if fb.fbo == 0 {
		return fmt.Errorf("%w: %s was destroyed", ErrIncomplete, fb.name)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, fb.width, fb.height)
	return nil
}

// Texture returns the i-th color attachment, or 0 if there is none.
func (fb *Framebuffer) Texture(i int) uint32 {
	if i < 0 || i >= len(fb.colors) {
		return 0
	}
	return fb.colors[i]
}

// DepthTexture returns the depth attachment, or 0 if there is none.
func (fb *Framebuffer) DepthTexture() uint32 {
	return fb.depth
}

// Size returns the attachment dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize recreates every attachment at the new size. Calling it with the
// current size does nothing.
func (fb *Framebuffer) Resize(width, height int32) error {
	width, height = max(width, 1), max(height, 1)
	if width == fb.width && height == fb.height && fb.fbo != 0 {
		return nil
	}
	fb.Destroy()
	fb.width, fb.height = width, height
	return fb.create()
}

// BlitDepthToDefault copies the depth attachment into the default
// framebuffer, which must have the same size.
func (fb *Framebuffer) BlitDepthToDefault() {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, fb.width, fb.height, 0, 0, fb.width, fb.height, gl.DEPTH_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Destroy releases all attachments.
func (fb *Framebuffer) Destroy() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if len(fb.colors) > 0 {
		gl.DeleteTextures(int32(len(fb.colors)), &fb.colors[0])
		fb.colors = nil
	}
	if fb.depth != 0 {
		gl.DeleteTextures(1, &fb.depth)
		fb.depth = 0
	}
}
