// Package shaders provides embedded GLSL shader sources.
package shaders

import (
	_ "embed"

	"github.com/Faultbox/meshview/internal/engine/pipeline"
	"github.com/Faultbox/meshview/internal/engine/shader"
)

// MeshVertexShader transforms mesh vertices for every surface program.
//
//go:embed mesh.vert
var MeshVertexShader string

// PhongFragmentShader is the Blinn-Phong point light model.
//
//go:embed phong.frag
var PhongFragmentShader string

// TextureMapFragmentShader displays one of the material maps.
//
//go:embed texture_map.frag
var TextureMapFragmentShader string

// ReflectionFragmentShader mirrors the specular cubemap with Schlick
// fresnel.
//
//go:embed reflection.frag
var ReflectionFragmentShader string

// SimplePBSFragmentShader is Cook-Torrance GGX under a point light.
//
//go:embed simple_pbs.frag
var SimplePBSFragmentShader string

// IBLPBSFragmentShader is image based PBS from the environment cubemaps and
// the BRDF lookup table.
//
//go:embed ibl_pbs.frag
var IBLPBSFragmentShader string

// SkyVertexShader pins the skybox cube to the far plane.
//
//go:embed sky.vert
var SkyVertexShader string

// SkyFragmentShader samples the specular cubemap.
//
//go:embed sky.frag
var SkyFragmentShader string

// GBufferFragmentShader writes albedo and view-space normals.
//
//go:embed gbuffer.frag
var GBufferFragmentShader string

// QuadVertexShader draws the full-screen quad.
//
//go:embed quad.vert
var QuadVertexShader string

// SSAOFragmentShader estimates ambient visibility from the G-buffer.
//
//go:embed ssao.frag
var SSAOFragmentShader string

// BlurFragmentShader filters the raw AO target.
//
//go:embed blur.frag
var BlurFragmentShader string

// FinalFragmentShader composes the G-buffer and AO for display.
//
//go:embed final.frag
var FinalFragmentShader string

// Programs returns the source of every program the pipeline uses.
func Programs() map[pipeline.Program]shader.Source {
	return map[pipeline.Program]shader.Source{
		pipeline.ProgramPhong:      {Vertex: MeshVertexShader, Fragment: PhongFragmentShader},
		pipeline.ProgramTextureMap: {Vertex: MeshVertexShader, Fragment: TextureMapFragmentShader},
		pipeline.ProgramReflection: {Vertex: MeshVertexShader, Fragment: ReflectionFragmentShader},
		pipeline.ProgramSimplePBS:  {Vertex: MeshVertexShader, Fragment: SimplePBSFragmentShader},
		pipeline.ProgramIBLPBS:     {Vertex: MeshVertexShader, Fragment: IBLPBSFragmentShader},
		pipeline.ProgramSky:        {Vertex: SkyVertexShader, Fragment: SkyFragmentShader},
		pipeline.ProgramGeometry:   {Vertex: MeshVertexShader, Fragment: GBufferFragmentShader},
		pipeline.ProgramSSAO:       {Vertex: QuadVertexShader, Fragment: SSAOFragmentShader},
		pipeline.ProgramBlur:       {Vertex: QuadVertexShader, Fragment: BlurFragmentShader},
		pipeline.ProgramFinal:      {Vertex: QuadVertexShader, Fragment: FinalFragmentShader},
	}
}
