package pipeline

import "fmt"

// Resource names a texture the passes sample. The value doubles as the
// sampler uniform name in every shader.
type Resource string

const (
	ResSpecular         Resource = "specular_map"
	ResDiffuse          Resource = "diffuse_map"
	ResColor            Resource = "color_map"
	ResRoughness        Resource = "roughness_map"
	ResMetalness        Resource = "metalness_map"
	ResBRDF             Resource = "brdf_lut"
	ResWeightedSpecular Resource = "weighted_specular_map"
	ResGAlbedo          Resource = "g_albedo"
	ResGNormal          Resource = "g_normal"
	ResGDepth           Resource = "g_depth"
	ResNoise            Resource = "noise"
	ResRawAO            Resource = "raw_ao"
	ResBlurAO           Resource = "blur_ao"
)

// Bindings maps each resource to a texture unit.
type Bindings map[Resource]int32

// DefaultBindings returns the unit layout used by the viewer.
func DefaultBindings() Bindings {
	return Bindings{
		ResSpecular:         0,
		ResDiffuse:          1,
		ResColor:            2,
		ResRoughness:        3,
		ResMetalness:        4,
		ResBRDF:             5,
		ResWeightedSpecular: 6,
		ResGAlbedo:          7,
		ResGNormal:          8,
		ResGDepth:           9,
		ResNoise:            10,
		ResRawAO:            11,
		ResBlurAO:           12,
	}
}

// Unit returns the texture unit of r.
func (b Bindings) Unit(r Resource) (int32, bool) {
	u, ok := b[r]
	return u, ok
}

// Validate checks that no two resources share a unit.
func (b Bindings) Validate() error {
	seen := make(map[int32]Resource, len(b))
	for r, u := range b {
		if u < 0 {
			return fmt.Errorf("resource %s: negative texture unit %d", r, u)
		}
		if other, ok := seen[u]; ok {
			return fmt.Errorf("texture unit %d bound to both %s and %s", u, other, r)
		}
		seen[u] = r
	}
	return nil
}
