package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/pipeline"
	"github.com/Faultbox/meshview/internal/engine/ssao"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/math"
)

// tunable is a numeric setting edited from the keyboard. adjust moves it by
// dir steps through the clamping setters.
type tunable struct {
	name   string
	adjust func(v *Viewer, dir int)
	value  func(st *pipeline.State) string
}

func floatTunable(name string, step float32, get func(*pipeline.State) float32, set func(*Viewer, float32)) tunable {
	return tunable{
		name: name,
		adjust: func(v *Viewer, dir int) {
			set(v, get(&v.state)+step*float32(dir))
		},
		value: func(st *pipeline.State) string { return fmt.Sprintf("%.3f", get(st)) },
	}
}

func intTunable(name string, get func(*pipeline.State) int, set func(*Viewer, int)) tunable {
	return tunable{
		name:   name,
		adjust: func(v *Viewer, dir int) { set(v, get(&v.state)+dir) },
		value:  func(st *pipeline.State) string { return fmt.Sprintf("%d", get(st)) },
	}
}

// colorTunable edits one channel of an RGB setting.
func colorTunable(name string, channel int, get func(*pipeline.State) math.Vec3, set func(*Viewer, float32, float32, float32)) tunable {
	const step = 0.05
	return tunable{
		name: name,
		adjust: func(v *Viewer, dir int) {
			c := get(&v.state).Array()
			c[channel] += step * float32(dir)
			set(v, c[0], c[1], c[2])
		},
		value: func(st *pipeline.State) string { return fmt.Sprintf("%.2f", get(st).Array()[channel]) },
	}
}

// wrap steps i by dir through [0, n).
func wrap(i, dir, n int) int {
	return ((i+dir)%n + n) % n
}

var tunables = []tunable{
	floatTunable("metalness", 0.05,
		func(st *pipeline.State) float32 { return st.Material.Metalness },
		(*Viewer).SetMetalness),
	floatTunable("roughness", 0.05,
		func(st *pipeline.State) float32 { return st.Material.Roughness },
		(*Viewer).SetRoughness),
	colorTunable("albedo.r", 0, func(st *pipeline.State) math.Vec3 { return st.Material.Albedo }, (*Viewer).SetAlbedo),
	colorTunable("albedo.g", 1, func(st *pipeline.State) math.Vec3 { return st.Material.Albedo }, (*Viewer).SetAlbedo),
	colorTunable("albedo.b", 2, func(st *pipeline.State) math.Vec3 { return st.Material.Albedo }, (*Viewer).SetAlbedo),
	colorTunable("fresnel.r", 0, func(st *pipeline.State) math.Vec3 { return st.Material.Fresnel }, (*Viewer).SetFresnel),
	colorTunable("fresnel.g", 1, func(st *pipeline.State) math.Vec3 { return st.Material.Fresnel }, (*Viewer).SetFresnel),
	colorTunable("fresnel.b", 2, func(st *pipeline.State) math.Vec3 { return st.Material.Fresnel }, (*Viewer).SetFresnel),
	intTunable("display texture",
		func(st *pipeline.State) int { return st.Material.DisplayTexture },
		(*Viewer).SetDisplayTexture),
	{
		name: "algorithm",
		adjust: func(v *Viewer, dir int) {
			v.SetAlgorithm(ssao.Algorithm(wrap(int(v.state.SSAO.Algorithm), dir, 2)))
		},
		value: func(st *pipeline.State) string { return st.SSAO.Algorithm.String() },
	},
	intTunable("directions",
		func(st *pipeline.State) int { return st.SSAO.Directions },
		(*Viewer).SetDirections),
	intTunable("samples",
		func(st *pipeline.State) int { return st.SSAO.SamplesPerDirection },
		(*Viewer).SetSamplesPerDirection),
	floatTunable("radius", 0.01,
		func(st *pipeline.State) float32 { return st.SSAO.Radius },
		(*Viewer).SetRadius),
	floatTunable("bias angle", 0.01,
		func(st *pipeline.State) float32 { return st.SSAO.BiasAngle },
		(*Viewer).SetBiasAngle),
	floatTunable("strength", 0.1,
		func(st *pipeline.State) float32 { return st.SSAO.Strength },
		(*Viewer).SetStrength),
	{
		name: "blur type",
		adjust: func(v *Viewer, dir int) {
			i := int(v.state.Blur.Type - ssao.BlurSimple)
			v.SetBlurType(ssao.BlurSimple + ssao.BlurType(wrap(i, dir, 3)))
		},
		value: func(st *pipeline.State) string { return st.Blur.Type.String() },
	},
	intTunable("blur radius",
		func(st *pipeline.State) int { return st.Blur.Radius },
		(*Viewer).SetBlurRadius),
	floatTunable("normal threshold", 0.05,
		func(st *pipeline.State) float32 { return st.Blur.NormalThreshold },
		(*Viewer).SetNormalThreshold),
	floatTunable("depth threshold", 0.001,
		func(st *pipeline.State) float32 { return st.Blur.DepthThreshold },
		(*Viewer).SetDepthThreshold),
}

// SelectTunable moves the keyboard selection dir settings forward.
func (v *Viewer) SelectTunable(dir int) {
	v.selected = wrap(v.selected, dir, len(tunables))
	name, value := v.Tunable()
	logger.Info("Selected setting", zap.String("name", name), zap.String("value", value))
}

// AdjustTunable moves the selected setting dir steps.
func (v *Viewer) AdjustTunable(dir int) {
	tunables[v.selected].adjust(v, dir)
	name, value := v.Tunable()
	logger.Debug("Adjusted setting", zap.String("name", name), zap.String("value", value))
}

// Tunable returns the name and formatted value of the selected setting.
func (v *Viewer) Tunable() (name, value string) {
	t := tunables[v.selected]
	return t.name, t.value(&v.state)
}
