package main

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// GrabStartData is captured when the first button of a click goes down.
// Move and resize requests are only honoured while it is valid.
type GrabStartData struct {
	Focus    SurfaceID
	Location Point
	Button   uint32
	Serial   Serial
}

// PointerFocus is the surface receiving pointer events, with its origin in
// logical coordinates.
type PointerFocus struct {
	ID     SurfaceID
	Origin Point
}

// Pointer is the seat's pointer device. It owns at most one grab; while a
// grab is set, it receives every pointer event instead of the default
// dispatch below.
type Pointer struct {
	proto Protocol

	location Point
	pressed  map[uint32]struct{}
	focus    PointerFocus
	start    *GrabStartData
	grab     PointerGrab
	cursor   CursorIcon
}

func newPointer(p Protocol) *Pointer {
	return &Pointer{
		proto:   p,
		pressed: map[uint32]struct{}{},
		cursor:  CursorDefault,
	}
}

// Location returns the pointer position.
func (p *Pointer) Location() Point { return p.location }

// Focus returns the surface under pointer focus, 0 for none.
func (p *Pointer) Focus() SurfaceID { return p.focus.ID }

// Cursor returns the cursor image the compositor wants shown.
func (p *Pointer) Cursor() CursorIcon { return p.cursor }

// SetCursor changes the cursor image.
func (p *Pointer) SetCursor(c CursorIcon) { p.cursor = c }

// Grab returns the active grab, or nil.
func (p *Pointer) Grab() PointerGrab { return p.grab }

// Pressed returns the currently held buttons in ascending order.
func (p *Pointer) Pressed() []uint32 {
	buttons := make([]uint32, 0, len(p.pressed))
	for b := range p.pressed {
		buttons = append(buttons, b)
	}
	sort.Slice(buttons, func(i, j int) bool { return buttons[i] < buttons[j] })
	return buttons
}

// AnyPressed reports whether any button is held.
func (p *Pointer) AnyPressed() bool { return len(p.pressed) > 0 }

// GrabStartData returns the start data of the click in progress.
func (p *Pointer) GrabStartData() (GrabStartData, bool) {
	if p.start == nil {
		return GrabStartData{}, false
	}
	return *p.start, true
}

// updateButton records a button transition and maintains the grab start
// data. It reports whether the button set changed.
func (p *Pointer) updateButton(ev ButtonEvent) bool {
	switch ev.State {
	case ButtonPressed:
		if _, held := p.pressed[ev.Button]; held {
			return false
		}
		if len(p.pressed) == 0 {
			p.start = &GrabStartData{
				Focus:    p.focus.ID,
				Location: p.location,
				Button:   ev.Button,
				Serial:   ev.Serial,
			}
		}
		p.pressed[ev.Button] = struct{}{}
	case ButtonReleased:
		if _, held := p.pressed[ev.Button]; !held {
			return false
		}
		delete(p.pressed, ev.Button)
		if len(p.pressed) == 0 {
			p.start = nil
		}
	}
	return true
}

// setFocus moves pointer focus, sending leave and enter as needed.
func (p *Pointer) setFocus(f *PointerFocus, serial Serial) {
	next := PointerFocus{}
	if f != nil {
		next = *f
	}
	if next.ID == p.focus.ID {
		p.focus = next
		return
	}
	if p.focus.ID != 0 {
		p.proto.PointerLeave(p.focus.ID, serial)
	}
	p.focus = next
	if next.ID != 0 {
		p.proto.PointerEnter(next.ID, serial, p.location.Sub(next.Origin))
	}
}

// motion is the default motion dispatch: move, refocus, deliver.
func (p *Pointer) motion(f *PointerFocus, ev MotionEvent) {
	p.location = ev.Location
	p.setFocus(f, ev.Serial)
	if p.focus.ID != 0 {
		p.proto.PointerMotion(p.focus.ID, ev.Time, p.location.Sub(p.focus.Origin))
	}
}

// button is the default button dispatch.
func (p *Pointer) button(ev ButtonEvent) {
	if p.focus.ID != 0 {
		p.proto.PointerButton(p.focus.ID, ev)
	}
}

// axis is the default scroll dispatch.
func (p *Pointer) axis(frame AxisFrame) {
	if p.focus.ID != 0 {
		p.proto.PointerAxis(p.focus.ID, frame)
	}
}

// gesture is the default gesture dispatch.
func (p *Pointer) gesture(ev GestureEvent) {
	if p.focus.ID != 0 {
		p.proto.PointerGesture(p.focus.ID, ev)
	}
}

// setGrab installs g. A pointer holds one grab at a time; a second one is
// rejected.
func (p *Pointer) setGrab(g PointerGrab, serial Serial) error {
	if p.grab != nil {
		return ErrGrabActive
	}
	p.grab = g
	p.setFocus(nil, serial)
	return nil
}

// unsetGrab removes g if it is the active grab and reports whether it
// was.
func (p *Pointer) unsetGrab(g PointerGrab) bool {
	if p.grab == nil || p.grab != g {
		return false
	}
	p.grab = nil
	p.cursor = CursorDefault
	return true
}

// forgetSurface drops every reference to a surface that is going away.
func (p *Pointer) forgetSurface(id SurfaceID) {
	if p.focus.ID == id {
		p.focus = PointerFocus{}
	}
	if p.start != nil && p.start.Focus == id {
		p.start.Focus = 0
	}
}

// Modifier keys, as a bit set.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Linux input event codes of the keys the compositor interprets itself.
const (
	KeyEsc        uint32 = 1
	KeyTab        uint32 = 15
	KeyQ          uint32 = 16
	KeyLeftCtrl   uint32 = 29
	KeyH          uint32 = 35
	KeyJ          uint32 = 36
	KeyK          uint32 = 37
	KeyL          uint32 = 38
	KeyLeftShift  uint32 = 42
	KeyRightShift uint32 = 54
	KeyLeftAlt    uint32 = 56
	KeyRightCtrl  uint32 = 97
	KeyRightAlt   uint32 = 100
	KeyLeftMeta   uint32 = 125
	KeyRightMeta  uint32 = 126
)

var modifierKeys = map[uint32]Modifiers{
	KeyLeftShift:  ModShift,
	KeyRightShift: ModShift,
	KeyLeftCtrl:   ModCtrl,
	KeyRightCtrl:  ModCtrl,
	KeyLeftAlt:    ModAlt,
	KeyRightAlt:   ModAlt,
	KeyLeftMeta:   ModSuper,
	KeyRightMeta:  ModSuper,
}

// Keyboard is the seat's keyboard device.
type Keyboard struct {
	proto Protocol

	focus   SurfaceID
	pressed map[uint32]struct{}
	// intercepted keys were consumed by a binding on press; their
	// release is consumed too.
	intercepted map[uint32]struct{}
}

func newKeyboard(p Protocol) *Keyboard {
	return &Keyboard{
		proto:       p,
		pressed:     map[uint32]struct{}{},
		intercepted: map[uint32]struct{}{},
	}
}

// Focus returns the surface with keyboard focus, 0 for none.
func (k *Keyboard) Focus() SurfaceID { return k.focus }

// Modifiers returns the modifiers currently held.
func (k *Keyboard) Modifiers() Modifiers {
	var m Modifiers
	for key := range k.pressed {
		m |= modifierKeys[key]
	}
	return m
}

// SetFocus moves keyboard focus and the clipboard selection to id (0
// clears focus).
func (k *Keyboard) SetFocus(id SurfaceID, serial Serial) {
	if id == k.focus {
		return
	}
	if k.focus != 0 {
		k.proto.KeyboardLeave(k.focus, serial)
	}
	k.focus = id
	if id != 0 {
		logrus.WithFields(logrus.Fields{
			"surface": id,
			"serial":  serial,
		}).Debugln("keyboard focus")
		k.proto.KeyboardEnter(id, serial)
		k.proto.SelectionFocus(id)
	}
}

func (k *Keyboard) update(key uint32, state KeyState) {
	if state == KeyPressed {
		k.pressed[key] = struct{}{}
	} else {
		delete(k.pressed, key)
	}
}

// key is the default key dispatch.
func (k *Keyboard) key(serial Serial, time uint32, key uint32, state KeyState) {
	if k.focus != 0 {
		k.proto.KeyboardKey(k.focus, serial, time, key, state)
	}
}
