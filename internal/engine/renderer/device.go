package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/internal/engine/pipeline"
)

// BindTarget implements pipeline.Device.
func (r *Renderer) BindTarget(t pipeline.Target) error {
	if t == pipeline.TargetScreen {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, r.width, r.height)
		return nil
	}
	fb := r.resources.Target(t)
	if fb == nil {
		return fmt.Errorf("no framebuffer for target %s", t)
	}
	return fb.Bind()
}

// Clear implements pipeline.Device.
func (r *Renderer) Clear(op pipeline.ClearOp) {
	gl.ClearColor(op.Color[0], op.Color[1], op.Color[2], op.Color[3])
	mask := uint32(gl.COLOR_BUFFER_BIT)
	if op.Depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

// BlitDepth implements pipeline.Device.
func (r *Renderer) BlitDepth(t pipeline.Target) {
	gbuf := r.resources.Target(pipeline.TargetGBuffer)
	if t != pipeline.TargetScreen || gbuf == nil {
		return
	}
	gbuf.BlitDepthToDefault()
	gl.Viewport(0, 0, r.width, r.height)
}

// UseProgram implements pipeline.Device.
func (r *Renderer) UseProgram(p pipeline.Program) (pipeline.UniformSetter, error) {
	prog, ok := r.programs[p]
	if !ok || prog.ID() == 0 {
		return nil, fmt.Errorf("program %s is not built", p)
	}
	prog.Use()
	return prog, nil
}

// BindTexture implements pipeline.Device.
func (r *Renderer) BindTexture(unit int32, res pipeline.Resource) {
	tex := r.resources.Texture(res)
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(tex.Kind.Target(), tex.ID)
}

// SetDepthFunc implements pipeline.Device.
func (r *Renderer) SetDepthFunc(f pipeline.DepthFunc) pipeline.DepthFunc {
	prev := r.depthFunc
	switch f {
	case pipeline.DepthLess:
		gl.DepthFunc(gl.LESS)
	case pipeline.DepthLessEqual:
		gl.DepthFunc(gl.LEQUAL)
	default:
		return prev
	}
	r.depthFunc = f
	return prev
}

// Draw implements pipeline.Device.
func (r *Renderer) Draw(g pipeline.Geometry) {
	r.resources.Draw(g)
}
