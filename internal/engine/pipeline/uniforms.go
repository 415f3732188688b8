package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/pkg/math"
)

// UniformSetter binds named parameters on the active program. Unknown
// names are ignored.
type UniformSetter interface {
	SetInt(name string, v int32)
	SetBool(name string, v bool)
	SetFloat(name string, v float32)
	SetVec2(name string, v [2]float32)
	SetVec3(name string, v [3]float32)
	SetMat3(name string, m [9]float32)
	SetMat4(name string, m [16]float32)
}

// NormalMatrix returns the upper-left 3x3 of transpose(inverse(view*model)),
// column-major.
func NormalMatrix(view, model math.Mat4) [9]float32 {
	mv := mgl32.Mat4(view.Mul(model))
	return [9]float32(mv.Inv().Transpose().Mat3())
}

func setTransforms(u UniformSetter, f Frame) {
	u.SetMat4("projection", f.Projection)
	u.SetMat4("view", f.View)
	u.SetMat4("model", f.Model)
	u.SetMat3("normal_matrix", NormalMatrix(f.View, f.Model))
}
