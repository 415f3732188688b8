// Package input holds the viewer's window-system independent input events.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Button is a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	MouseX int
	MouseY int
	Button Button
	Wheel  int // Positive scrolls away from the user
	Repeat bool
}

// Source produces raw events, typically one SDL poll per call.
type Source interface {
	// Poll returns the next pending event; ok is false when the queue is
	// drained.
	Poll() (e Event, ok bool)
}

// Input collects the events of one frame.
type Input struct {
	source Source
	events []Event
	held   map[Button]bool
}

// New creates a new input handler reading from source.
func New(source Source) *Input {
	return &Input{
		source: source,
		events: make([]Event, 0, 16),
		held:   make(map[Button]bool, 3),
	}
}

// Update drains the source.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	quit := false
	for e, ok := i.source.Poll(); ok; e, ok = i.source.Poll() {
		switch e.Type {
		case EventNone:
			continue
		case EventQuit:
			quit = true
		case EventMouseDown:
			i.held[e.Button] = true
		case EventMouseUp:
			delete(i.held, e.Button)
		}
		i.events = append(i.events, e)
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(k Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == k {
			return true
		}
	}
	return false
}

// IsButtonHeld reports whether b is down as of the last Update.
func (i *Input) IsButtonHeld(b Button) bool {
	return i.held[b]
}
