package input

// Key is a physical key the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	Key1
	Key2
	Key3
	Key4
	Key5
	KeyB
	KeyC
	KeyG
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyR
	KeyT
	KeyLeftBracket
	KeyRightBracket
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF12
	KeyEscape
)

var keyNames = [...]string{
	KeyUnknown:      "unknown",
	KeyUp:           "up",
	KeyDown:         "down",
	KeyLeft:         "left",
	KeyRight:        "right",
	KeyW:            "w",
	KeyA:            "a",
	KeyS:            "s",
	KeyD:            "d",
	Key1:            "1",
	Key2:            "2",
	Key3:            "3",
	Key4:            "4",
	Key5:            "5",
	KeyB:            "b",
	KeyC:            "c",
	KeyG:            "g",
	KeyK:            "k",
	KeyL:            "l",
	KeyM:            "m",
	KeyN:            "n",
	KeyO:            "o",
	KeyP:            "p",
	KeyR:            "r",
	KeyT:            "t",
	KeyLeftBracket:  "[",
	KeyRightBracket: "]",
	KeyF1:           "f1",
	KeyF2:           "f2",
	KeyF3:           "f3",
	KeyF4:           "f4",
	KeyF5:           "f5",
	KeyF6:           "f6",
	KeyF7:           "f7",
	KeyF12:          "f12",
	KeyEscape:       "escape",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return keyNames[KeyUnknown]
	}
	return keyNames[k]
}
