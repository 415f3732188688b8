package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshview/internal/engine/input"
)

var scancodes = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_UP:           input.KeyUp,
	sdl.SCANCODE_DOWN:         input.KeyDown,
	sdl.SCANCODE_LEFT:         input.KeyLeft,
	sdl.SCANCODE_RIGHT:        input.KeyRight,
	sdl.SCANCODE_W:            input.KeyW,
	sdl.SCANCODE_A:            input.KeyA,
	sdl.SCANCODE_S:            input.KeyS,
	sdl.SCANCODE_D:            input.KeyD,
	sdl.SCANCODE_1:            input.Key1,
	sdl.SCANCODE_2:            input.Key2,
	sdl.SCANCODE_3:            input.Key3,
	sdl.SCANCODE_4:            input.Key4,
	sdl.SCANCODE_5:            input.Key5,
	sdl.SCANCODE_B:            input.KeyB,
	sdl.SCANCODE_C:            input.KeyC,
	sdl.SCANCODE_G:            input.KeyG,
	sdl.SCANCODE_K:            input.KeyK,
	sdl.SCANCODE_L:            input.KeyL,
	sdl.SCANCODE_M:            input.KeyM,
	sdl.SCANCODE_N:            input.KeyN,
	sdl.SCANCODE_O:            input.KeyO,
	sdl.SCANCODE_P:            input.KeyP,
	sdl.SCANCODE_R:            input.KeyR,
	sdl.SCANCODE_T:            input.KeyT,
	sdl.SCANCODE_LEFTBRACKET:  input.KeyLeftBracket,
	sdl.SCANCODE_RIGHTBRACKET: input.KeyRightBracket,
	sdl.SCANCODE_F1:           input.KeyF1,
	sdl.SCANCODE_F2:           input.KeyF2,
	sdl.SCANCODE_F3:           input.KeyF3,
	sdl.SCANCODE_F4:           input.KeyF4,
	sdl.SCANCODE_F5:           input.KeyF5,
	sdl.SCANCODE_F6:           input.KeyF6,
	sdl.SCANCODE_F7:           input.KeyF7,
	sdl.SCANCODE_F12:          input.KeyF12,
	sdl.SCANCODE_ESCAPE:       input.KeyEscape,
}

var buttons = map[uint8]input.Button{
	sdl.BUTTON_LEFT:   input.ButtonLeft,
	sdl.BUTTON_MIDDLE: input.ButtonMiddle,
	sdl.BUTTON_RIGHT:  input.ButtonRight,
}

// Poll implements input.Source over the SDL event queue.
func (w *Window) Poll() (input.Event, bool) {
	ev := sdl.PollEvent()
	if ev == nil {
		return input.Event{}, false
	}
	return Translate(ev), true
}

// Translate converts an SDL event. Events the viewer does not use come back
// as input.EventNone.
func Translate(event sdl.Event) input.Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}
		}

	case *sdl.KeyboardEvent:
		key, ok := scancodes[e.Keysym.Scancode]
		if !ok {
			return input.Event{}
		}
		typ := input.EventKeyDown
		if e.Type == sdl.KEYUP {
			typ = input.EventKeyUp
		}
		return input.Event{Type: typ, Key: key, Repeat: e.Repeat != 0}

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type:   input.EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
		}

	case *sdl.MouseButtonEvent:
		typ := input.EventMouseDown
		if e.Type == sdl.MOUSEBUTTONUP {
			typ = input.EventMouseUp
		}
		return input.Event{
			Type:   typ,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: buttons[e.Button],
		}

	case *sdl.MouseWheelEvent:
		return input.Event{Type: input.EventMouseWheel, Wheel: int(e.Y)}
	}
	return input.Event{}
}
