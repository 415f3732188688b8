package pipeline

import "fmt"

// Program names a compiled shader program.
type Program string

const (
	ProgramPhong      Program = "phong"
	ProgramTextureMap Program = "texture_map"
	ProgramReflection Program = "reflection"
	ProgramSimplePBS  Program = "simple_pbs"
	ProgramIBLPBS     Program = "ibl_pbs"
	ProgramSky        Program = "sky"
	ProgramGeometry   Program = "gbuffer"
	ProgramSSAO       Program = "ssao"
	ProgramBlur       Program = "blur"
	ProgramFinal      Program = "final"
)

// ShadingModel selects how the mesh is lit in direct mode.
type ShadingModel int

const (
	Phong ShadingModel = iota
	TextureMap
	Reflection
	SimplePBS
	IBLPBS
)

// ShadingModels lists every model in display order.
var ShadingModels = []ShadingModel{Phong, TextureMap, Reflection, SimplePBS, IBLPBS}

func (m ShadingModel) String() string {
	switch m {
	case Phong:
		return "phong"
	case TextureMap:
		return "texture-map"
	case Reflection:
		return "reflection"
	case SimplePBS:
		return "simple-pbs"
	case IBLPBS:
		return "ibl-pbs"
	default:
		return fmt.Sprintf("ShadingModel(%d)", int(m))
	}
}

// ParseShadingModel parses a model name as written in the config file.
func ParseShadingModel(s string) (ShadingModel, error) {
	for _, m := range ShadingModels {
		if m.String() == s {
			return m, nil
		}
	}
	return Phong, fmt.Errorf("unknown shading model %q", s)
}

// Valid reports whether m is a known model.
func (m ShadingModel) Valid() bool {
	return m >= Phong && m <= IBLPBS
}

// Program returns the shader program that renders m.
func (m ShadingModel) Program() Program {
	switch m {
	case TextureMap:
		return ProgramTextureMap
	case Reflection:
		return ProgramReflection
	case SimplePBS:
		return ProgramSimplePBS
	case IBLPBS:
		return ProgramIBLPBS
	default:
		return ProgramPhong
	}
}

// Textures returns the resources m samples.
func (m ShadingModel) Textures() []Resource {
	switch m {
	case TextureMap:
		return []Resource{ResColor, ResRoughness, ResMetalness}
	case Reflection:
		return []Resource{ResSpecular}
	case SimplePBS:
		return []Resource{ResColor, ResRoughness, ResMetalness}
	case IBLPBS:
		return []Resource{
			ResSpecular, ResDiffuse, ResWeightedSpecular, ResBRDF,
			ResColor, ResRoughness, ResMetalness,
		}
	default:
		return []Resource{ResColor}
	}
}

// Configure uploads the material uniforms m reads.
func (m ShadingModel) Configure(u UniformSetter, mat Material, light, eye [3]float32) {
	u.SetBool("use_textures", mat.UseTextures)
	u.SetBool("apply_gamma", mat.Gamma)
	u.SetVec3("albedo", mat.Albedo.Array())

	switch m {
	case Phong:
		u.SetVec3("light", light)
		u.SetVec3("camera_position", eye)
	case TextureMap:
		u.SetInt("current_texture", int32(mat.DisplayTexture))
	case Reflection:
		u.SetVec3("camera_position", eye)
		u.SetVec3("fresnel", mat.Fresnel.Array())
	case SimplePBS, IBLPBS:
		u.SetVec3("light", light)
		u.SetVec3("camera_position", eye)
		u.SetVec3("fresnel", mat.Fresnel.Array())
		u.SetFloat("roughness", mat.Roughness)
		u.SetFloat("metalness", mat.Metalness)
	}
}
