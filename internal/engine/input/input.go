// Package input defines the window-system independent events the scene
// consumes, and synthesizes drags and double-clicks from raw mouse events.
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
	EventDoubleClick
	EventDrag
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventWindowResize:
		return "resize"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventMouseMove:
		return "mouse-move"
	case EventMouseDown:
		return "mouse-down"
	case EventMouseUp:
		return "mouse-up"
	case EventMouseWheel:
		return "wheel"
	case EventDoubleClick:
		return "double-click"
	case EventDrag:
		return "drag"
	}
	return "none"
}

// Key is a keyboard key the scene reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyF12
	KeyR
)

// Mouse buttons, numbered as SDL numbers them.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int // drawable pixels for EventWindowResize
	Height int
	MouseX int
	MouseY int
	Button uint8
	Clicks int // consecutive clicks for EventMouseDown

	// DeltaX and DeltaY carry drag movement in pixels, or wheel steps.
	DeltaX float32
	DeltaY float32
}

// Tracker turns raw mouse events into drag and double-click events.
type Tracker struct {
	dragging     bool
	lastX, lastY int
}

// Feed appends e to out, followed by any event it synthesizes.
func (t *Tracker) Feed(e Event, out []Event) []Event {
	out = append(out, e)

	switch e.Type {
	case EventMouseDown:
		if e.Button != ButtonLeft {
			break
		}
		t.dragging = true
		t.lastX, t.lastY = e.MouseX, e.MouseY
		if e.Clicks == 2 {
			out = append(out, Event{Type: EventDoubleClick, MouseX: e.MouseX, MouseY: e.MouseY, Button: e.Button})
		}

	case EventMouseMove:
		if !t.dragging {
			break
		}
		dx, dy := e.MouseX-t.lastX, e.MouseY-t.lastY
		t.lastX, t.lastY = e.MouseX, e.MouseY
		if dx != 0 || dy != 0 {
			out = append(out, Event{
				Type:   EventDrag,
				MouseX: e.MouseX,
				MouseY: e.MouseY,
				DeltaX: float32(dx),
				DeltaY: float32(dy),
			})
		}

	case EventMouseUp:
		if e.Button == ButtonLeft {
			t.dragging = false
		}
	}
	return out
}

// Dragging reports whether the left button is held.
func (t *Tracker) Dragging() bool {
	return t.dragging
}
