package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/windmoth/internal/engine/input"
)

// FrameInput is the ImGui input state of one frame.
type FrameInput struct {
	Width, Height int // framebuffer pixels

	MouseX, MouseY float32
	DeltaX, DeltaY float32
	Wheel          float32
	LeftDown       bool
	DoubleClicked  bool
	// MouseCaptured is set while ImGui owns the mouse.
	MouseCaptured bool

	// Keys pressed this frame while ImGui does not own the keyboard.
	Escape, F12, R bool
}

// ReadFrameInput samples ImGui's input state. Must be called inside an
// ImGui frame.
func ReadFrameInput() FrameInput {
	io := imgui.CurrentIO()
	pos := imgui.MousePos()
	delta := io.MouseDelta()
	w, h := FramebufferSize()

	in := FrameInput{
		Width:         w,
		Height:        h,
		MouseX:        pos.X,
		MouseY:        pos.Y,
		DeltaX:        delta.X,
		DeltaY:        delta.Y,
		Wheel:         io.MouseWheel(),
		LeftDown:      imgui.IsMouseDown(imgui.MouseButtonLeft),
		DoubleClicked: imgui.IsMouseDoubleClicked(imgui.MouseButtonLeft),
		MouseCaptured: io.WantCaptureMouse(),
	}
	if !io.WantCaptureKeyboard() {
		in.Escape = imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyEscape))
		in.F12 = imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12))
		in.R = imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyR))
	}
	return in
}

// Translator turns per-frame ImGui state into scene input events.
type Translator struct {
	width, height int
}

// Translate appends the events for one frame to out.
func (t *Translator) Translate(in FrameInput, out []input.Event) []input.Event {
	if in.Width > 0 && in.Height > 0 && (in.Width != t.width || in.Height != t.height) {
		t.width, t.height = in.Width, in.Height
		out = append(out, input.Event{Type: input.EventWindowResize, Width: in.Width, Height: in.Height})
	}

	for _, k := range []struct {
		pressed bool
		key     input.Key
	}{{in.Escape, input.KeyEscape}, {in.F12, input.KeyF12}, {in.R, input.KeyR}} {
		if k.pressed {
			out = append(out, input.Event{Type: input.EventKeyDown, Key: k.key})
		}
	}

	if in.MouseCaptured {
		return out
	}
	x, y := int(in.MouseX), int(in.MouseY)
	if in.DoubleClicked {
		out = append(out, input.Event{Type: input.EventDoubleClick, MouseX: x, MouseY: y, Button: input.ButtonLeft, Clicks: 2})
	}
	if in.LeftDown && (in.DeltaX != 0 || in.DeltaY != 0) {
		out = append(out, input.Event{Type: input.EventDrag, MouseX: x, MouseY: y, DeltaX: in.DeltaX, DeltaY: in.DeltaY})
	}
	if in.Wheel != 0 {
		out = append(out, input.Event{Type: input.EventMouseWheel, MouseX: x, MouseY: y, DeltaY: in.Wheel})
	}
	return out
}
