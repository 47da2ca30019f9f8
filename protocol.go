package main

import "fmt"

// SurfaceID identifies a client's toplevel surface for its whole lifetime.
type SurfaceID uint32

func (id SurfaceID) String() string { return fmt.Sprintf("surface#%d", uint32(id)) }

// ClientID identifies a connected client.
type ClientID uint32

// Serial correlates a server event with a later client request.
type Serial uint32

// SerialCounter hands out monotonically increasing serials. Zero is never
// returned, so it can mean "no serial".
type SerialCounter struct {
	last Serial
}

// Next returns a fresh serial.
func (c *SerialCounter) Next() Serial {
	c.last++
	if c.last == 0 {
		c.last++
	}
	return c.last
}

// Configure is the toplevel state proposed to a client. The client
// answers with an ack carrying Serial, then commits a buffer.
type Configure struct {
	Serial    Serial
	Activated bool
	Resizing  bool
	// Size is the suggested window geometry; zero lets the client choose.
	Size Size
}

// ButtonState is the state of a pointer button.
type ButtonState uint8

const (
	ButtonReleased ButtonState = iota
	ButtonPressed
)

func (s ButtonState) String() string {
	if s == ButtonPressed {
		return "pressed"
	}
	return "released"
}

// KeyState is the state of a keyboard key.
type KeyState uint8

const (
	KeyReleased KeyState = iota
	KeyPressed
)

// Linux input event codes for the pointer buttons the core cares about.
const (
	BtnLeft   uint32 = 0x110
	BtnRight  uint32 = 0x111
	BtnMiddle uint32 = 0x112
)

// MotionEvent is an absolute pointer motion sample.
type MotionEvent struct {
	Location Point
	Serial   Serial
	Time     uint32
}

// ButtonEvent is a pointer button transition.
type ButtonEvent struct {
	Button uint32
	State  ButtonState
	Serial Serial
	Time   uint32
}

// AxisSource is what produced a scroll event.
type AxisSource uint8

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
)

// AxisFrame is one scroll event, in logical units and (for wheels) in
// 1/120 detents.
type AxisFrame struct {
	Time       uint32
	Source     AxisSource
	Vertical   float64
	Horizontal float64
	V120       int32
	H120       int32
}

// GestureKind names a touchpad gesture phase.
type GestureKind uint8

const (
	GestureSwipeBegin GestureKind = iota
	GestureSwipeUpdate
	GestureSwipeEnd
	GesturePinchBegin
	GesturePinchUpdate
	GesturePinchEnd
	GestureHoldBegin
	GestureHoldEnd
)

// GestureEvent is a touchpad gesture sub-event.
type GestureEvent struct {
	Kind      GestureKind
	Serial    Serial
	Time      uint32
	Fingers   uint32
	Delta     Point
	Scale     float64
	Rotation  float64
	Cancelled bool
}

// Protocol is the wire side of the compositor: everything the core says to
// clients goes through it.
type Protocol interface {
	Configure(id SurfaceID, c Configure)
	CloseRequest(id SurfaceID)
	FrameDone(id SurfaceID, time uint32)

	PointerEnter(id SurfaceID, serial Serial, local Point)
	PointerLeave(id SurfaceID, serial Serial)
	PointerMotion(id SurfaceID, time uint32, local Point)
	PointerButton(id SurfaceID, ev ButtonEvent)
	PointerAxis(id SurfaceID, frame AxisFrame)
	PointerGesture(id SurfaceID, ev GestureEvent)

	KeyboardEnter(id SurfaceID, serial Serial)
	KeyboardLeave(id SurfaceID, serial Serial)
	KeyboardKey(id SurfaceID, serial Serial, time uint32, key uint32, state KeyState)
	// SelectionFocus hands the clipboard selection to the client that
	// owns id.
	SelectionFocus(id SurfaceID)
}
