// Package pipeline sequences the render passes of a frame. It decides
// between the direct and SSAO paths, binds resources through an explicit
// texture-unit table and drives a Device that issues the GPU calls.
package pipeline

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// Device executes passes on the GPU.
type Device interface {
	// BindTarget makes t the draw framebuffer and sets the viewport. An
	// error means the target is incomplete and the pass is skipped.
	BindTarget(t Target) error
	Clear(op ClearOp)
	// BlitDepth copies the G-buffer depth attachment into t.
	BlitDepth(t Target)
	UseProgram(p Program) (UniformSetter, error)
	// BindTexture binds r to the given unit. A resource that was never
	// loaded binds the default texture.
	BindTexture(unit int32, r Resource)
	// SetDepthFunc switches the depth comparison and returns the previous
	// one.
	SetDepthFunc(f DepthFunc) DepthFunc
	Draw(g Geometry)
}

// Orchestrator runs the per-frame pass plan against a Device.
type Orchestrator struct {
	bindings Bindings
	last     []string
}

// New creates an orchestrator with the given binding table.
func New(b Bindings) (*Orchestrator, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("bindings: %w", err)
	}
	return &Orchestrator{bindings: b}, nil
}

// Bindings returns the texture-unit table.
func (o *Orchestrator) Bindings() Bindings {
	return o.bindings
}

// LastPasses returns the names of the passes executed by the last Render.
func (o *Orchestrator) LastPasses() []string {
	return slices.Clone(o.last)
}

// Render executes one frame. Passes whose target or program is unusable are
// logged and skipped; the rest of the frame still runs. It returns the
// number of passes executed.
func (o *Orchestrator) Render(dev Device, st *State, f Frame) int {
	o.last = o.last[:0]
	for _, p := range Plan(st, f) {
		if err := o.run(dev, p); err != nil {
			logger.Warn("Skipping render pass",
				zap.String("pass", p.Name),
				zap.Stringer("target", p.Target),
				zap.Error(err))
			continue
		}
		o.last = append(o.last, p.Name)
	}
	return len(o.last)
}

func (o *Orchestrator) run(dev Device, p Pass) error {
	if err := dev.BindTarget(p.Target); err != nil {
		return err
	}
	if p.BlitDepth {
		dev.BlitDepth(p.Target)
	}
	if p.Clear != nil {
		dev.Clear(*p.Clear)
	}

	u, err := dev.UseProgram(p.Program)
	if err != nil {
		return err
	}
	for _, r := range p.Textures {
		unit, ok := o.bindings.Unit(r)
		if !ok {
			return fmt.Errorf("resource %s has no texture unit", r)
		}
		dev.BindTexture(unit, r)
		u.SetInt(string(r), unit)
	}
	if p.Uniforms != nil {
		p.Uniforms(u)
	}

	if p.DepthFunc != DepthUnchanged {
		prev := dev.SetDepthFunc(p.DepthFunc)
		defer dev.SetDepthFunc(prev)
	}
	dev.Draw(p.Geometry)
	return nil
}
