package viewer

import (
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/pipeline"
)

// PointerDown opens the gesture of a button: left rotates, right zooms,
// middle pans.
func (v *Viewer) PointerDown(b input.Button, x, y int) {
	fx, fy := float32(x), float32(y)
	switch b {
	case input.ButtonLeft:
		v.camera.StartRotating(fx, fy)
	case input.ButtonRight:
		v.camera.StartZooming(fx, fy)
	case input.ButtonMiddle:
		v.camera.StartPanning(fx, fy)
	}
}

// PointerMove feeds every open gesture.
func (v *Viewer) PointerMove(x, y int) {
	fx, fy := float32(x), float32(y)
	v.camera.SetRotationX(fy)
	v.camera.SetRotationY(fx)
	v.camera.SafeZoom(fy)
	v.camera.SafePan(fx, fy)
}

// PointerUp closes the gesture of a button.
func (v *Viewer) PointerUp(b input.Button, x, y int) {
	fx, fy := float32(x), float32(y)
	switch b {
	case input.ButtonLeft:
		v.camera.StopRotating(fx, fy)
	case input.ButtonRight:
		v.camera.StopZooming(fx, fy)
	case input.ButtonMiddle:
		v.camera.StopPanning(fx, fy)
	}
}

// Wheel zooms one step per notch; scrolling away moves closer.
func (v *Viewer) Wheel(delta int) {
	switch {
	case delta > 0:
		v.camera.Zoom(-1)
	case delta < 0:
		v.camera.Zoom(1)
	}
}

// KeyDown applies the key bindings. It reports whether the key was bound.
func (v *Viewer) KeyDown(k input.Key) bool {
	switch k {
	case input.KeyUp, input.KeyW:
		v.camera.Zoom(-1)
	case input.KeyDown, input.KeyS:
		v.camera.Zoom(1)
	case input.KeyLeft, input.KeyA:
		v.camera.Rotate(-1)
	case input.KeyRight, input.KeyD:
		v.camera.Rotate(1)
	case input.Key1, input.Key2, input.Key3, input.Key4, input.Key5:
		v.SetShading(pipeline.ShadingModels[k-input.Key1])
	case input.KeyO:
		v.SetSSAO(!v.state.SSAOEnabled)
	case input.KeyB:
		v.SetBlur(!v.state.UseBlur)
	case input.KeyN:
		v.SetRandomization(!v.state.SSAO.UseRandomization)
	case input.KeyK:
		v.SetSkyVisible(!v.state.SkyVisible)
	case input.KeyG:
		v.SetGamma(!v.state.Material.Gamma)
	case input.KeyT:
		v.SetUseTextures(!v.state.Material.UseTextures)
	case input.KeyM:
		v.SetRenderMode(v.state.RenderMode.Next())
	case input.KeyP:
		v.SelectTunable(1)
	case input.KeyLeftBracket:
		v.AdjustTunable(-1)
	case input.KeyRightBracket:
		v.AdjustTunable(1)
	case input.KeyL:
		v.openModelDialog()
	case input.KeyC:
		v.openCubemapDialog("Load specular cubemap", (*Viewer).LoadSpecularMap)
	case input.KeyF1:
		v.openCubemapDialog("Load diffuse cubemap", (*Viewer).LoadDiffuseMap)
	case input.KeyF2:
		v.openCubemapDialog("Load weighted specular cubemap", (*Viewer).LoadWeightedSpecularMap)
	case input.KeyF3:
		v.openImageDialog("Load BRDF LUT", (*Viewer).LoadBRDFLUT)
	case input.KeyF4:
		v.openImageDialog("Load color map", (*Viewer).LoadColorMap)
	case input.KeyF6:
		v.openImageDialog("Load roughness map", (*Viewer).LoadRoughnessMap)
	case input.KeyF7:
		v.openImageDialog("Load metalness map", (*Viewer).LoadMetalnessMap)
	case input.KeyR:
		// Reload and save report failures through the logger.
		_ = v.ReloadShaders()
	case input.KeyF5:
		_ = v.SaveConfig()
	case input.KeyF12:
		v.Screenshot()
	default:
		return false
	}
	return true
}

// HandleEvent routes one input event. Quit and resize belong to the
// window loop and are ignored here.
func (v *Viewer) HandleEvent(e input.Event) {
	switch e.Type {
	case input.EventKeyDown:
		v.KeyDown(e.Key)
	case input.EventMouseDown:
		v.PointerDown(e.Button, e.MouseX, e.MouseY)
	case input.EventMouseMove:
		v.PointerMove(e.MouseX, e.MouseY)
	case input.EventMouseUp:
		v.PointerUp(e.Button, e.MouseX, e.MouseY)
	case input.EventMouseWheel:
		v.Wheel(e.Wheel)
	}
}
